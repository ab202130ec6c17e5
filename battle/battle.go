// Package battle is the open-sea game mode: the player's ship against a
// fleet of computer captains.
package battle

import (
	stlog "log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/irishsmurf/go-broadside/ai"
	"github.com/irishsmurf/go-broadside/game"
	"github.com/irishsmurf/go-broadside/queue"
	"github.com/irishsmurf/go-broadside/record"
	"github.com/irishsmurf/go-broadside/server"
)

// Params sets up the battle.
type Params struct {
	Enemies               int     `mapstructure:"enemies"`               // computer-captained ships
	Factions              int     `mapstructure:"factions"`              // enemy factions the fleet is split between
	SpawnRadius           float64 `mapstructure:"spawnRadius"`           // enemies start on a circle this far from the player
	WindBroadcastInterval float64 `mapstructure:"windBroadcastInterval"` // seconds between wind reports to remote helms
	CrewOrders            bool    `mapstructure:"crewOrders"`            // AI captains shout orders rather than take the wheel
}

// DefaultParams returns a small skirmish.
func DefaultParams() Params {
	return Params{
		Enemies:               3,
		Factions:              1,
		SpawnRadius:           60,
		WindBroadcastInterval: 5,
	}
}

// WindBroadcaster reports the wind to remote clients.
type WindBroadcaster interface {
	BroadcastWind(angle float64) error
}

// Recorder logs combat for later review. Its methods are called from the
// simulation goroutine and must not block.
type Recorder interface {
	AddShip(record.Ship)
	RecordHit(record.Hit)
	RecordKill(record.Kill)
}

// Battle routes remote commands to the player's ship and keeps score.
// Update must be called from the simulation goroutine; the queues are the
// only things shared with the network side.
type Battle struct {
	world    *game.World
	params   Params
	aiParams ai.Params
	commands *queue.Queue[string]
	events   *queue.Queue[server.SystemEvent]
	wind     WindBroadcaster
	recorder Recorder
	logger   *stlog.Logger

	player  *game.Ship
	ais     []*ai.ShipAI
	kills   int
	remotes int

	lastWind  float64
	sinceWind float64
}

// New returns a battle in world. commands, events and wind may be nil when
// there is no remote channel.
func New(world *game.World, params Params, aiParams ai.Params, commands *queue.Queue[string],
	events *queue.Queue[server.SystemEvent], wind WindBroadcaster, logger *stlog.Logger) *Battle {
	if logger == nil {
		logger = stlog.Default()
	}
	return &Battle{
		world:    world,
		params:   params,
		aiParams: aiParams,
		commands: commands,
		events:   events,
		wind:     wind,
		logger:   logger.With("component", "battle"),
	}
}

// SetRecorder logs the battle to r. It must be called before Start.
func (b *Battle) SetRecorder(r Recorder) { b.recorder = r }

func (b *Battle) World() *game.World { return b.world }
func (b *Battle) Player() *game.Ship { return b.player }
func (b *Battle) AIs() []*ai.ShipAI  { return b.ais }
func (b *Battle) Kills() int         { return b.kills }
func (b *Battle) RemoteClients() int { return b.remotes }

// PlayerActive reports whether the player's ship can still take orders.
func (b *Battle) PlayerActive() bool {
	return b.player != nil && b.player.Alive() && b.world.Contains(b.player)
}

// Start spawns the player and the enemy fleet.
func (b *Battle) Start() {
	rng := b.world.Rand()

	b.player = b.world.SpawnShip(mgl64.Vec3{}, 0, game.FactionPC)
	b.player.SetName("player")
	b.player.AddListener(&game.ShipListenerFuncs{
		Kill: func(_, victim *game.Ship) {
			b.kills++
			b.logger.Info("Enemy sunk by player", "victim", victim.Name(), "kills", b.kills)
		},
		Death: func(*game.Ship) {
			b.logger.Info("Player sunk", "kills", b.kills)
		},
	})
	b.track(b.player)

	factions := max(b.params.Factions, 1)
	for i := 0; i < b.params.Enemies; i++ {
		bearing := float64(i)*2*math.Pi/float64(b.params.Enemies) + (rng.Float64()-0.5)*0.3
		pos := mgl64.Vec3{
			math.Sin(bearing) * b.params.SpawnRadius,
			0,
			math.Cos(bearing) * b.params.SpawnRadius,
		}
		ship := b.world.SpawnShip(pos, rng.Float64()*2*math.Pi, game.FactionPC+1+i%factions)
		ship.AddListener(&game.ShipListenerFuncs{
			Hit: func(s, attacker *game.Ship, _ mgl64.Vec3) {
				if attacker == b.player {
					b.logger.Debug("Player scored a hit", "ship", s.Name(), "health", s.Health())
				}
			},
		})
		b.track(ship)

		var helm ai.Helmsman
		if b.params.CrewOrders {
			helm = ai.NewOrdersHelm(ship, rng)
		}
		captain := ai.New(ship, helm, b.aiParams, rng, b.logger)
		captain.Start()
		b.ais = append(b.ais, captain)
	}
	b.logger.Info("Battle started", "enemies", b.params.Enemies, "factions", factions)
	b.broadcastWind()
}

// Update drains the remote queues into the game and advances the world.
func (b *Battle) Update(dt float64) {
	if b.events != nil {
		for _, ev := range b.events.Drain() {
			b.handleSystemEvent(ev)
		}
	}
	if b.commands != nil {
		for _, token := range b.commands.Drain() {
			b.handleCommand(token)
		}
	}

	b.world.Update(dt)

	b.sinceWind += dt
	if b.world.WindAngle() != b.lastWind ||
		(b.params.WindBroadcastInterval > 0 && b.sinceWind >= b.params.WindBroadcastInterval) {
		b.broadcastWind()
	}
}

// track sends ship's hits and kills to the recorder.
func (b *Battle) track(ship *game.Ship) {
	if b.recorder == nil {
		return
	}
	b.recorder.AddShip(record.Ship{ShipID: ship.ID().String(), Name: ship.Name(), Faction: ship.Faction()})
	ship.AddListener(&game.ShipListenerFuncs{
		Hit: func(s, attacker *game.Ship, pos mgl64.Vec3) {
			h := record.Hit{
				Time:   b.world.Scheduler().Now(),
				ShipID: s.ID().String(),
				X:      pos.X(), Y: pos.Y(), Z: pos.Z(),
				Health: s.Health(),
			}
			if attacker != nil {
				h.AttackerID = attacker.ID().String()
			}
			b.recorder.RecordHit(h)
		},
		Kill: func(s, victim *game.Ship) {
			b.recorder.RecordKill(record.Kill{
				Time:     b.world.Scheduler().Now(),
				KillerID: s.ID().String(),
				VictimID: victim.ID().String(),
			})
		},
	})
}

func (b *Battle) handleSystemEvent(ev server.SystemEvent) {
	switch ev.Kind {
	case server.Connected:
		b.remotes++
		b.logger.Info("Remote helm connected", "clientId", ev.ClientID, "remotes", b.remotes)
		b.broadcastWind()
	case server.Disconnected:
		b.remotes = max(b.remotes-1, 0)
		b.logger.Info("Remote helm disconnected", "clientId", ev.ClientID, "remotes", b.remotes)
	}
}

// Command gives the player's ship an order by token, as the keyboard and
// remote helms do.
func (b *Battle) Command(token string) error {
	o, err := game.ParseCommand(token, b.world.Rand())
	if err != nil {
		return err
	}
	if b.PlayerActive() {
		b.player.Orders().Put(o)
	}
	return nil
}

func (b *Battle) handleCommand(token string) {
	if !b.PlayerActive() {
		b.logger.Debug("Ignoring command, player is not at the helm", "command", token)
		return
	}
	if err := b.Command(token); err != nil {
		b.logger.Warn("Bad remote command", "command", token, "error", err)
	}
}

func (b *Battle) broadcastWind() {
	b.lastWind = b.world.WindAngle()
	b.sinceWind = 0
	if b.wind == nil {
		return
	}
	if err := b.wind.BroadcastWind(b.lastWind); err != nil {
		b.logger.Error("Failed to broadcast wind", "error", err)
	}
}
