package main

import (
	"context"
	"errors"
	"flag"
	stlog "log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // Import for side-effects (registers handlers)
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/irishsmurf/go-broadside/battle"
	"github.com/irishsmurf/go-broadside/config"
	"github.com/irishsmurf/go-broadside/game"
	"github.com/irishsmurf/go-broadside/queue"
	"github.com/irishsmurf/go-broadside/record"
	"github.com/irishsmurf/go-broadside/server"
)

var configPath = flag.String("config", "", "path to a JSON, YAML or TOML config file")
var addr = flag.String("addr", "", "http service address (overrides config)")
var pprofAddr = flag.String("pprof", "", "pprof http service address (overrides config)")
var logLevel = flag.String("log-level", "", "debug, info, warn or error (overrides config)")

// maxStep caps a single simulation step so a stalled loop doesn't fling
// ships across the map when it catches up.
const maxStep = 0.1

func main() {
	flag.Parse()

	level := new(stlog.LevelVar)
	logger := stlog.New(stlog.NewJSONHandler(os.Stdout, &stlog.HandlerOptions{Level: level}))
	stlog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *pprofAddr != "" {
		cfg.Server.PprofAddr = *pprofAddr
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		logger.Warn("Unknown log level, using info", "level", cfg.Log.Level)
	}

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands := queue.New[string]()
	events := queue.New[server.SystemEvent]()
	hub := server.NewHub(commands, events, logger)
	go hub.Run(ctx)

	world := game.NewWorld(cfg.Game(), nil, rng, logger.With("component", "world"))
	b := battle.New(world, cfg.Battle, cfg.AI, commands, events, hub, logger)

	var store *record.Store
	if cfg.Record.Enabled {
		store, err = record.Open(cfg.Record, logger)
		if err != nil {
			logger.Error("Failed to open battle log", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		if err := store.StartBattle(seed, world.WindAngle(), cfg.Battle.Enemies+1); err != nil {
			logger.Error("Failed to start battle log", "error", err)
			os.Exit(1)
		}
		b.SetRecorder(store)
	}
	b.Start()

	// Start pprof server in a separate goroutine
	go func() {
		logger.Info("Starting pprof HTTP server", "addr", cfg.Server.PprofAddr)
		if err := http.ListenAndServe(cfg.Server.PprofAddr, nil); err != nil {
			logger.Error("Pprof ListenAndServe error", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWs(hub, w, r)
	})
	mux.Handle(cfg.Server.MetricsPath, promhttp.Handler())
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux}

	go func() {
		logger.Info("Starting HTTP server", "addr", cfg.Server.Addr, "seed", seed)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ListenAndServe error", "error", err)
			stop()
		}
	}()

	runLoop(ctx, b, cfg.Sim.TickRate, logger)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if store != nil {
		reportBattle(store, logger)
	}
	logger.Info("Server stopped", "kills", b.Kills())
}

func reportBattle(store *record.Store, logger *stlog.Logger) {
	if err := store.Finish(); err != nil {
		logger.Error("Failed to finish battle log", "error", err)
		return
	}
	scores, err := store.Leaderboard(store.BattleID())
	if err != nil {
		logger.Error("Failed to read leaderboard", "error", err)
		return
	}
	for i, s := range scores {
		logger.Info("Leaderboard", "rank", i+1, "ship", s.Name, "kills", s.Kills)
	}
}

// runLoop steps the battle at a fixed rate until ctx is done. All game
// state is touched only from here.
func runLoop(ctx context.Context, b *battle.Battle, tickRate float64, logger *stlog.Logger) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / tickRate))
	defer ticker.Stop()
	logger.Info("Simulation started", "tickRate", tickRate)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Simulation stopping")
			return
		case now := <-ticker.C:
			dt := min(now.Sub(last).Seconds(), maxStep)
			last = now
			b.Update(dt)
		}
	}
}
