package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/nobrega8/netscan2/internal/catalog"
	"github.com/nobrega8/netscan2/internal/config"
	"github.com/nobrega8/netscan2/internal/event"
	"github.com/nobrega8/netscan2/internal/oui"
	"github.com/nobrega8/netscan2/internal/server"
	"github.com/nobrega8/netscan2/internal/sweep"
	"github.com/nobrega8/netscan2/pkg/models"
)

// runOnce executes a single synchronous sweep and prints the discovered
// devices as a table, without starting the HTTP server.
func runOnce(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	noPersist := fs.Bool("no-persist", false, "do not merge results into the device catalog")
	_ = fs.Parse(args)

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

	dataDir := viperCfg.GetString("server.data_dir")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logger.Fatal("failed to create data directory", zap.Error(err))
	}

	ouiTable := oui.New(dataPath(viperCfg.GetString("oui.overrides_path"), dataDir, "oui_overrides.json"), logger.Named("oui"))

	var reconciler sweep.Reconciler
	if !*noPersist {
		reconciler = catalog.New(dataPath(viperCfg.GetString("catalog.path"), dataDir, "networks.json"), ouiTable, logger.Named("catalog"))
	} else {
		reconciler = discardReconciler{}
	}

	bus := event.NewBus(logger.Named("event"))
	engine := newEngine(viperCfg, ouiTable, reconciler, bus, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "cancelling sweep...")
		cancel()
	}()

	start := time.Now()
	res, err := engine.Run(ctx)
	if err != nil {
		logger.Fatal("sweep failed", zap.Error(err))
	}

	printResult(res, time.Since(start))
	if res.Status != models.SweepStatusCompleted {
		os.Exit(1)
	}
}

func printResult(res *models.SweepResult, elapsed time.Duration) {
	name := res.SSID
	if name == "" {
		name = models.UnknownSSID
	}
	fmt.Printf("Network %s  subnet %s  %d/%d hosts responded in %s\n\n",
		name, res.Subnet, res.Found, res.Total, elapsed.Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "IP\tMAC\tHOSTNAME\tBRAND")
	for _, d := range res.Devices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.IP, d.MAC, d.Hostname, d.Brand)
	}
	_ = w.Flush()
}

// discardReconciler satisfies the engine when --no-persist is set.
type discardReconciler struct{}

func (discardReconciler) Merge(string, []*models.Device) {}
