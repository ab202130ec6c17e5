// Package config loads the server's settings from defaults, an optional
// file and BROADSIDE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/irishsmurf/go-broadside/ai"
	"github.com/irishsmurf/go-broadside/battle"
	"github.com/irishsmurf/go-broadside/game"
	"github.com/irishsmurf/go-broadside/record"
	"github.com/irishsmurf/go-broadside/sailing"
)

// EnvPrefix namespaces environment overrides, e.g. BROADSIDE_SERVER_ADDR.
const EnvPrefix = "BROADSIDE"

type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	PprofAddr   string `mapstructure:"pprofAddr"`
	MetricsPath string `mapstructure:"metricsPath"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type SimConfig struct {
	TickRate         float64 `mapstructure:"tickRate"`
	WindAngle        float64 `mapstructure:"windAngle"`
	WindVeerInterval float64 `mapstructure:"windVeerInterval"`
	WindVeerMax      float64 `mapstructure:"windVeerMax"`
	// Seed fixes the random source; zero seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

type OrdersConfig struct {
	Interval float64 `mapstructure:"interval"`
}

// Config is the full set of settings.
type Config struct {
	Server  ServerConfig    `mapstructure:"server"`
	Log     LogConfig       `mapstructure:"log"`
	Sim     SimConfig       `mapstructure:"sim"`
	Sailing sailing.Params  `mapstructure:"sailing"`
	Ship    game.ShipParams `mapstructure:"ship"`
	Orders  OrdersConfig    `mapstructure:"orders"`
	AI      ai.Params       `mapstructure:"ai"`
	Battle  battle.Params   `mapstructure:"battle"`
	Record  record.Config   `mapstructure:"record"`
}

// Game returns the world settings.
func (c *Config) Game() game.Config {
	return game.Config{
		Ship:             c.Ship,
		Sailing:          c.Sailing,
		OrdersInterval:   c.Orders.Interval,
		WindAngle:        c.Sim.WindAngle,
		WindVeerInterval: c.Sim.WindVeerInterval,
		WindVeerMax:      c.Sim.WindVeerMax,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.pprofAddr", ":6060")
	v.SetDefault("server.metricsPath", "/metrics")

	v.SetDefault("log.level", "info")

	g := game.DefaultConfig()
	v.SetDefault("sim.tickRate", float64(game.TickRate))
	v.SetDefault("sim.windAngle", g.WindAngle)
	v.SetDefault("sim.windVeerInterval", g.WindVeerInterval)
	v.SetDefault("sim.windVeerMax", g.WindVeerMax)
	v.SetDefault("sim.seed", 0)

	sp := g.Sailing
	v.SetDefault("sailing.deadZone", sp.DeadZone)
	v.SetDefault("sailing.deadZonePower", sp.DeadZonePower)
	v.SetDefault("sailing.powerA", sp.PowerA)
	v.SetDefault("sailing.powerB", sp.PowerB)
	v.SetDefault("sailing.powerC", sp.PowerC)
	v.SetDefault("sailing.heelK", sp.HeelK)

	s := g.Ship
	v.SetDefault("ship.turnRate", s.TurnRate)
	v.SetDefault("ship.speedCap", s.SpeedCap)
	v.SetDefault("ship.thrust", s.Thrust)
	v.SetDefault("ship.drag", s.Drag)
	v.SetDefault("ship.rollDamping", s.RollDamping)
	v.SetDefault("ship.heelFactor", s.HeelFactor)
	v.SetDefault("ship.turnLean", s.TurnLean)
	v.SetDefault("ship.buoyancy", s.Buoyancy)
	v.SetDefault("ship.sinkRate", s.SinkRate)
	v.SetDefault("ship.helmEase", s.HelmEase)
	v.SetDefault("ship.sailEase", s.SailEase)
	v.SetDefault("ship.initialSail", s.InitialSail)
	v.SetDefault("ship.maxHealth", s.MaxHealth)
	v.SetDefault("ship.sinkDelay", s.SinkDelay)
	v.SetDefault("ship.gunStagger", s.GunStagger)
	v.SetDefault("ship.aimJitter", s.AimJitter)
	v.SetDefault("ship.wakeInterval", s.WakeInterval)
	v.SetDefault("ship.wakeLength", s.WakeLength)

	v.SetDefault("orders.interval", g.OrdersInterval)

	a := ai.DefaultParams()
	v.SetDefault("ai.strategyInterval", a.StrategyInterval)
	v.SetDefault("ai.closeQuarters", a.CloseQuarters)
	v.SetDefault("ai.firingRange", a.FiringRange)
	v.SetDefault("ai.fireCooldown", a.FireCooldown)
	v.SetDefault("ai.deadZone", a.DeadZone)

	b := battle.DefaultParams()
	v.SetDefault("battle.enemies", b.Enemies)
	v.SetDefault("battle.factions", b.Factions)
	v.SetDefault("battle.spawnRadius", b.SpawnRadius)
	v.SetDefault("battle.windBroadcastInterval", b.WindBroadcastInterval)
	v.SetDefault("battle.crewOrders", b.CrewOrders)

	r := record.DefaultConfig()
	v.SetDefault("record.enabled", r.Enabled)
	v.SetDefault("record.path", r.Path)
	v.SetDefault("record.flushInterval", r.FlushInterval)
}

// Load builds the configuration. path names an optional JSON, YAML or TOML
// file; an empty path uses defaults and the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Sim.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("sim.tickRate must be positive, got %v", c.Sim.TickRate))
	}
	if c.Orders.Interval < 0 {
		errs = append(errs, fmt.Errorf("orders.interval must not be negative, got %v", c.Orders.Interval))
	}
	if c.Ship.MaxHealth <= 0 {
		errs = append(errs, fmt.Errorf("ship.maxHealth must be positive, got %d", c.Ship.MaxHealth))
	}
	if c.AI.StrategyInterval <= 0 {
		errs = append(errs, fmt.Errorf("ai.strategyInterval must be positive, got %v", c.AI.StrategyInterval))
	}
	if c.Battle.Factions < 1 {
		errs = append(errs, fmt.Errorf("battle.factions must be at least 1, got %d", c.Battle.Factions))
	}
	if c.Record.Enabled && c.Record.FlushInterval <= 0 {
		errs = append(errs, fmt.Errorf("record.flushInterval must be positive, got %v", c.Record.FlushInterval))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
