package record

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "battle.db")
	}
	s, err := Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordsBattle(t *testing.T) {
	s := openTestStore(t, Config{FlushInterval: time.Hour})
	require.NoError(t, s.StartBattle(42, 1.5, 3))
	require.NotZero(t, s.BattleID())

	player, hawk, dove := uuid.NewString(), uuid.NewString(), uuid.NewString()
	s.AddShip(Ship{ShipID: player, Name: "player", Faction: 0})
	s.AddShip(Ship{ShipID: hawk, Name: "hawk", Faction: 1})
	s.AddShip(Ship{ShipID: dove, Name: "dove", Faction: 2})

	s.RecordHit(Hit{Time: 3.5, ShipID: hawk, AttackerID: player, X: 1, Y: 1, Z: 2, Health: 0})
	s.RecordHit(Hit{Time: 1.25, ShipID: dove, AttackerID: hawk, Health: 1})
	s.RecordKill(Kill{Time: 3.5, KillerID: player, VictimID: hawk})
	s.RecordKill(Kill{Time: 9, KillerID: player, VictimID: dove})

	require.NoError(t, s.Finish())

	hits, err := s.Hits(s.BattleID())
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 1.25, hits[0].Time)
	assert.Equal(t, hawk, hits[1].ShipID)
	assert.Equal(t, s.BattleID(), hits[1].BattleID)

	scores, err := s.Leaderboard(s.BattleID())
	require.NoError(t, err)
	assert.Equal(t, []Score{{Name: "player", Kills: 2}}, scores)

	var b Battle
	require.NoError(t, s.db.First(&b, s.BattleID()).Error)
	assert.Equal(t, int64(42), b.Seed)
	assert.Equal(t, 3, b.Ships)
	assert.NotNil(t, b.EndedAt)
}

func TestStore_FlushesInBackground(t *testing.T) {
	s := openTestStore(t, Config{FlushInterval: 10 * time.Millisecond})
	require.NoError(t, s.StartBattle(1, 0, 1))

	s.RecordHit(Hit{Time: 1, ShipID: uuid.NewString(), AttackerID: uuid.NewString()})
	assert.Eventually(t, func() bool {
		hits, err := s.Hits(s.BattleID())
		return err == nil && len(hits) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStore_FinishIsIdempotent(t *testing.T) {
	s := openTestStore(t, Config{})
	require.NoError(t, s.StartBattle(1, 0, 0))
	require.NoError(t, s.Finish())
	require.NoError(t, s.Finish())
	assert.Error(t, s.StartBattle(1, 0, 0))
}

func TestStore_FinishBeforeStart(t *testing.T) {
	s := openTestStore(t, Config{})
	assert.ErrorIs(t, s.Finish(), ErrNotStarted)
}

func TestStore_InMemoryStoresAreSeparate(t *testing.T) {
	a, err := Open(Config{}, nil)
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(Config{}, nil)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.StartBattle(1, 0, 0))
	require.NoError(t, b.StartBattle(2, 0, 0))
	assert.Equal(t, uint(1), a.BattleID())
	assert.Equal(t, uint(1), b.BattleID())
}

func TestStore_LeaderboardEmpty(t *testing.T) {
	s := openTestStore(t, Config{})
	require.NoError(t, s.StartBattle(1, 0, 0))
	require.NoError(t, s.Flush())

	scores, err := s.Leaderboard(s.BattleID())
	require.NoError(t, err)
	assert.Empty(t, scores)
}
