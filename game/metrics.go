package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadside_world_ticks_total",
		Help: "Total number of world updates.",
	})
	tickDurationHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "broadside_world_tick_duration_seconds",
		Help:    "Wall time spent in a world update.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
	})
	objectsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "broadside_world_objects",
		Help: "Number of objects currently in the world.",
	})
	collisionsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadside_collisions_total",
		Help: "Total number of hull collisions resolved.",
	})
	broadsidesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadside_broadsides_total",
		Help: "Total number of broadsides ordered.",
	})
	shotsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadside_shots_fired_total",
		Help: "Total number of cannonballs fired.",
	})
	hitsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadside_hits_total",
		Help: "Total number of cannonballs that struck a ship.",
	})
	shipsSunkCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadside_ships_sunk_total",
		Help: "Total number of ships sunk.",
	})
	ordersCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broadside_orders_applied_total",
		Help: "Total number of orders carried out, by kind.",
	}, []string{"kind"})
	callbackPanicsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadside_scheduler_callback_panics_total",
		Help: "Total number of scheduled callbacks that panicked.",
	})
)
