package game

import (
	"math"

	"github.com/irishsmurf/go-broadside/sailing"
)

const (
	TickRate  = 60 // simulation ticks per second
	MaxSail   = 3  // sail amount is 0 (furled) .. MaxSail (every scrap)
	MaxHelm   = 3  // helm strength is -MaxHelm .. MaxHelm, +ve to port
	FactionPC = 0  // faction of the player's ship

	// Sensor envelope used when choosing which broadside to fire.
	BroadsideLookahead = 10.0
	BroadsideRange     = 30.0
)

// ShipParams tunes the ship integrator.
type ShipParams struct {
	TurnRate     float64 `mapstructure:"turnRate"`     // rad/s per unit of helm per unit of speed
	SpeedCap     float64 `mapstructure:"speedCap"`     // forward speed contributing to turning is capped here
	Thrust       float64 `mapstructure:"thrust"`       // acceleration at full power per unit of sail
	Drag         float64 `mapstructure:"drag"`         // velocity is multiplied by Drag^dt
	RollDamping  float64 `mapstructure:"rollDamping"`  // roll is multiplied by RollDamping^dt
	HeelFactor   float64 `mapstructure:"heelFactor"`   // wind heel per unit of sail
	TurnLean     float64 `mapstructure:"turnLean"`     // lean per unit of angular velocity
	Buoyancy     float64 `mapstructure:"buoyancy"`     // pull back to the waterline per unit of displacement
	SinkRate     float64 `mapstructure:"sinkRate"`     // units/s a sinking hull drops
	HelmEase     float64 `mapstructure:"helmEase"`     // seconds to ease the helm to a new setting
	SailEase     float64 `mapstructure:"sailEase"`     // seconds to ease the sail to a new setting
	InitialSail  float64 `mapstructure:"initialSail"`  // sail set at launch
	MaxHealth    int     `mapstructure:"maxHealth"`    // hits a ship can take
	SinkDelay    float64 `mapstructure:"sinkDelay"`    // seconds from sinking to removal
	GunStagger   float64 `mapstructure:"gunStagger"`   // seconds between guns of a broadside
	AimJitter    float64 `mapstructure:"aimJitter"`    // random spread added to each shot's velocity
	WakeInterval float64 `mapstructure:"wakeInterval"` // seconds between wake samples
	WakeLength   int     `mapstructure:"wakeLength"`   // wake samples kept
}

// DefaultShipParams returns the canonical tuning.
func DefaultShipParams() ShipParams {
	return ShipParams{
		TurnRate:     0.1,
		SpeedCap:     2,
		Thrust:       1,
		Drag:         0.5,
		RollDamping:  0.1,
		HeelFactor:   0.1,
		TurnLean:     0.5,
		Buoyancy:     0.5,
		SinkRate:     0.3,
		HelmEase:     3,
		SailEase:     3,
		InitialSail:  1,
		MaxHealth:    10,
		SinkDelay:    7,
		GunStagger:   0.15,
		AimJitter:    0.6,
		WakeInterval: 0.25,
		WakeLength:   40,
	}
}

// Config is everything the World needs to run.
type Config struct {
	Ship    ShipParams
	Sailing sailing.Params

	// OrdersInterval is the crew's reaction time between orders.
	OrdersInterval float64
	// WindAngle is the initial direction the wind blows towards.
	WindAngle float64
	// WindVeerInterval is how often the wind shifts; zero disables it.
	WindVeerInterval float64
	// WindVeerMax bounds each shift, in radians.
	WindVeerMax float64
}

// DefaultConfig returns the canonical world configuration.
func DefaultConfig() Config {
	return Config{
		Ship:             DefaultShipParams(),
		Sailing:          sailing.DefaultParams(),
		OrdersInterval:   1,
		WindAngle:        math.Pi / 2,
		WindVeerInterval: 30,
		WindVeerMax:      0.3,
	}
}
