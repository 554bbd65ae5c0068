package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nobrega8/netscan2/internal/catalog"
	"github.com/nobrega8/netscan2/internal/config"
	"github.com/nobrega8/netscan2/internal/event"
	"github.com/nobrega8/netscan2/internal/history"
	"github.com/nobrega8/netscan2/internal/icons"
	"github.com/nobrega8/netscan2/internal/oui"
	"github.com/nobrega8/netscan2/internal/probe"
	"github.com/nobrega8/netscan2/internal/server"
	"github.com/nobrega8/netscan2/internal/sweep"
	"github.com/nobrega8/netscan2/internal/version"
	"github.com/nobrega8/netscan2/internal/wifi"
	"github.com/nobrega8/netscan2/internal/ws"
	"github.com/nobrega8/netscan2/pkg/models"
)

func main() {
	// Subcommand dispatch (before flag.Parse).
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "sweep":
			runOnce(os.Args[2:])
			return
		case "version":
			fmt.Println("netscan2 " + version.Short())
			return
		}
	}

	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("netscan2 " + version.Short())
		os.Exit(0)
	}

	// Load configuration (before logger, so log level/format can be configured).
	viperCfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("netscan2 server starting", zap.String("version", version.Short()))

	if f := viperCfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Warn("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}

	dataDir := viperCfg.GetString("server.data_dir")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logger.Fatal("failed to create data directory", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sweep history database.
	db, err := history.Open(ctx, dataPath(viperCfg.GetString("history.path"), dataDir, "netscan2.db"))
	if err != nil {
		logger.Fatal("failed to open history database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("history database initialized", zap.String("component", "history"))

	// Shared services.
	bus := event.NewBus(logger.Named("event"))
	ouiTable := oui.New(dataPath(viperCfg.GetString("oui.overrides_path"), dataDir, "oui_overrides.json"), logger.Named("oui"))
	iconStore := icons.New(dataPath(viperCfg.GetString("icons.path"), dataDir, "icons.json"), logger.Named("icons"))
	cat := catalog.New(dataPath(viperCfg.GetString("catalog.path"), dataDir, "networks.json"), ouiTable, logger.Named("catalog"))
	logger.Info("device catalog loaded",
		zap.String("component", "catalog"),
		zap.Int("networks", len(cat.Networks())),
	)

	engine := newEngine(viperCfg, ouiTable, cat, bus, logger)

	// Record every finished sweep in the history log.
	bus.Subscribe(sweep.TopicSweepCompleted, func(ctx context.Context, ev event.Event) {
		res, ok := ev.Payload.(*models.SweepResult)
		if !ok {
			return
		}
		if err := db.RecordSweep(ctx, res); err != nil {
			logger.Error("failed to record sweep", zap.Error(err))
		}
	})

	// Periodic sweeps, when configured.
	if interval := viperCfg.GetDuration("sweep.interval"); interval > 0 {
		go runPeriodic(ctx, engine, interval, logger)
		logger.Info("periodic sweeps enabled",
			zap.String("component", "sweep"),
			zap.Duration("interval", interval),
		)
	}

	// Prune old history entries once an hour.
	if retention := viperCfg.GetDuration("history.retention"); retention > 0 {
		go runMaintenance(ctx, db, retention, logger.Named("history"))
	}

	wsHandler := ws.NewHandler(bus, logger.Named("ws"))
	api := server.NewAPI(engine, cat, iconStore, db, logger.Named("api"))

	addr := fmt.Sprintf("%s:%d", viperCfg.GetString("server.host"), viperCfg.GetInt("server.port"))
	readyCheck := server.ReadinessChecker(func(context.Context) error { return nil })
	srv := server.New(addr, logger.Named("server"), readyCheck, api, wsHandler)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("netscan2 server ready", zap.String("addr", addr))

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	cancel()
	engine.Stop()
	engine.Wait()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("netscan2 server stopped")
}

// newEngine assembles the sweep engine from its probes and the catalog.
func newEngine(v *viper.Viper, ouiTable *oui.Table, reconciler sweep.Reconciler, bus *event.Bus, logger *zap.Logger) *sweep.Engine {
	cfg := sweep.DefaultConfig()
	if n := v.GetInt("sweep.concurrency"); n > 0 {
		cfg.Concurrency = n
	}
	if d := v.GetDuration("sweep.ping_timeout"); d > 0 {
		cfg.PingTimeout = d
	}
	if d := v.GetDuration("sweep.dns_timeout"); d > 0 {
		cfg.DNSTimeout = d
	}

	return sweep.NewEngine(
		cfg,
		nil, // default interface selection
		probe.NewPinger(cfg.PingTimeout, logger.Named("icmp")),
		probe.NewNeighborTable(logger.Named("arp")),
		probe.NewHostnameResolver(cfg.DNSTimeout),
		ouiTable,
		wifi.NewNameSource(logger.Named("wifi")),
		reconciler,
		bus,
		logger.Named("sweep"),
	)
}

// runPeriodic starts a sweep every interval. A sweep still in flight when
// the ticker fires is left alone.
func runPeriodic(ctx context.Context, engine *sweep.Engine, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := engine.Start(context.Background()); err != nil {
				logger.Debug("periodic sweep skipped", zap.Error(err))
			}
		}
	}
}

func runMaintenance(ctx context.Context, db *history.Store, retention time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		n, err := db.Prune(ctx, time.Now().Add(-retention))
		if err != nil {
			logger.Warn("history prune failed", zap.Error(err))
		} else if n > 0 {
			logger.Info("pruned old sweeps", zap.Int64("removed", n))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func dataPath(configured, dataDir, fallback string) string {
	if configured != "" {
		return configured
	}
	return filepath.Join(dataDir, fallback)
}
