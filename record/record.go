// Package record keeps a log of each battle in a SQLite database. Events
// are queued from the simulation goroutine and written in batches by a
// background flusher so the tick loop never waits on disk.
package record

import (
	"errors"
	"fmt"
	stlog "log/slog"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/irishsmurf/go-broadside/queue"
)

const batchSize = 500

var ErrNotStarted = errors.New("record: battle not started")

// Config selects where battles are recorded.
type Config struct {
	Enabled bool `mapstructure:"enabled"`
	// Path of the SQLite file. Empty keeps the log in memory.
	Path          string        `mapstructure:"path"`
	FlushInterval time.Duration `mapstructure:"flushInterval"`
}

func DefaultConfig() Config {
	return Config{FlushInterval: 2 * time.Second}
}

// Battle is one recorded engagement.
type Battle struct {
	ID        uint `gorm:"primarykey"`
	StartedAt time.Time
	EndedAt   *time.Time
	Seed      int64
	WindAngle float64
	Ships     int
}

// Ship is a combatant in a battle.
type Ship struct {
	ID       uint   `gorm:"primarykey"`
	BattleID uint   `gorm:"index"`
	ShipID   string `gorm:"size:36;index"`
	Name     string
	Faction  int
}

// Hit is a cannonball striking a ship. Time is simulation seconds and
// Health is what the ship had left before the hit.
type Hit struct {
	ID         uint `gorm:"primarykey"`
	BattleID   uint `gorm:"index"`
	Time       float64
	ShipID     string `gorm:"size:36"`
	AttackerID string `gorm:"size:36"`
	X, Y, Z    float64
	Health     int
}

// Kill is a ship sunk by another's broadside.
type Kill struct {
	ID       uint `gorm:"primarykey"`
	BattleID uint `gorm:"index"`
	Time     float64
	KillerID string `gorm:"size:36"`
	VictimID string `gorm:"size:36"`
}

// Score is one line of a battle's leaderboard.
type Score struct {
	Name  string
	Kills int
}

// Store records battles through gorm.
type Store struct {
	db     *gorm.DB
	cfg    Config
	logger *stlog.Logger

	battle Battle
	ships  *queue.Queue[Ship]
	hits   *queue.Queue[Hit]
	kills  *queue.Queue[Kill]

	stop       chan struct{}
	done       chan struct{}
	finishOnce sync.Once
	finishErr  error
}

// Open connects to the database at cfg.Path and migrates the schema.
func Open(cfg Config, log *stlog.Logger) (*Store, error) {
	if log == nil {
		log = stlog.Default()
	}
	dsn := cfg.Path
	if dsn == "" {
		// Named so that separate stores in one process never share a database.
		dsn = "file:broadside-" + uuid.NewString() + "?mode=memory&cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        batchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening battle log %q: %w", cfg.Path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	if err := db.AutoMigrate(&Battle{}, &Ship{}, &Hit{}, &Kill{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultConfig().FlushInterval
	}
	return &Store{
		db:     db,
		cfg:    cfg,
		logger: log.With("component", "record"),
		ships:  queue.New[Ship](),
		hits:   queue.New[Hit](),
		kills:  queue.New[Kill](),
	}, nil
}

// StartBattle writes the battle row and starts the background flusher.
func (s *Store) StartBattle(seed int64, windAngle float64, ships int) error {
	if s.stop != nil {
		return errors.New("record: battle already started")
	}
	s.battle = Battle{StartedAt: time.Now(), Seed: seed, WindAngle: windAngle, Ships: ships}
	if err := s.db.Create(&s.battle).Error; err != nil {
		return fmt.Errorf("creating battle: %w", err)
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.flushLoop()
	s.logger.Info("Recording battle", "battleId", s.battle.ID, "path", s.cfg.Path)
	return nil
}

// BattleID is the current battle's row id, or zero before StartBattle.
func (s *Store) BattleID() uint { return s.battle.ID }

// AddShip, RecordHit and RecordKill never block. Rows are written on the
// next flush.
func (s *Store) AddShip(sh Ship) {
	sh.BattleID = s.battle.ID
	s.ships.Push(sh)
}

func (s *Store) RecordHit(h Hit) {
	h.BattleID = s.battle.ID
	s.hits.Push(h)
}

func (s *Store) RecordKill(k Kill) {
	k.BattleID = s.battle.ID
	s.kills.Push(k)
}

func (s *Store) flushLoop() {
	defer close(s.done)
	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.Flush(); err != nil {
				s.logger.Error("Error flushing battle log", "error", err)
			}
		}
	}
}

// Flush writes every queued row. Ships go first so that queries joining
// events to ships see them.
func (s *Store) Flush() error {
	start := time.Now()
	var errs []error
	errs = append(errs, insert(s.db, "ships", s.ships.Drain()))
	errs = append(errs, insert(s.db, "hits", s.hits.Drain()))
	errs = append(errs, insert(s.db, "kills", s.kills.Drain()))
	if err := errors.Join(errs...); err != nil {
		flushErrorsCounter.Inc()
		return err
	}
	flushDurationHistogram.Observe(time.Since(start).Seconds())
	return nil
}

func insert[T any](db *gorm.DB, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := db.CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("writing %d %s: %w", len(rows), table, err)
	}
	rowsWrittenCounter.WithLabelValues(table).Add(float64(len(rows)))
	return nil
}

// Finish stops the flusher, writes what is left and stamps the battle's
// end time. Further calls return the first result.
func (s *Store) Finish() error {
	s.finishOnce.Do(func() {
		if s.stop == nil {
			s.finishErr = ErrNotStarted
			return
		}
		close(s.stop)
		<-s.done
		if err := s.Flush(); err != nil {
			s.finishErr = err
			return
		}
		now := time.Now()
		s.battle.EndedAt = &now
		if err := s.db.Model(&s.battle).Update("ended_at", now).Error; err != nil {
			s.finishErr = fmt.Errorf("closing battle %d: %w", s.battle.ID, err)
		}
	})
	return s.finishErr
}

// Leaderboard lists ships in battleID by kills, most first.
func (s *Store) Leaderboard(battleID uint) ([]Score, error) {
	var scores []Score
	err := s.db.Table("kills").
		Select("ships.name AS name, COUNT(*) AS kills").
		Joins("JOIN ships ON ships.ship_id = kills.killer_id AND ships.battle_id = kills.battle_id").
		Where("kills.battle_id = ?", battleID).
		Group("ships.name").
		Order("kills DESC, name").
		Scan(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard for battle %d: %w", battleID, err)
	}
	return scores, nil
}

// Hits returns battleID's hits in the order they happened.
func (s *Store) Hits(battleID uint) ([]Hit, error) {
	var hits []Hit
	if err := s.db.Where("battle_id = ?", battleID).Order("time, id").Find(&hits).Error; err != nil {
		return nil, fmt.Errorf("hits for battle %d: %w", battleID, err)
	}
	return hits, nil
}

// Close finishes the battle if one is running and closes the database.
func (s *Store) Close() error {
	var errs []error
	if s.stop != nil {
		errs = append(errs, s.Finish())
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
