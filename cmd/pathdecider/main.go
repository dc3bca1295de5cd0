// Command pathdecider runs one static obstacle decision cycle from a scenario
// file and prints the outcome for every obstacle as a JSON line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/banshee-data/path.decider/internal/config"
	"github.com/banshee-data/path.decider/internal/db"
	"github.com/banshee-data/path.decider/internal/metrics"
	"github.com/banshee-data/path.decider/internal/monitoring"
	"github.com/banshee-data/path.decider/internal/planning/debugplot"
	"github.com/banshee-data/path.decider/internal/planning/pathdecider"
	"github.com/banshee-data/path.decider/internal/version"
)

var (
	configPath   = flag.String("config", "", "Decider config file (.json, .yaml); defaults are used when empty")
	scenarioPath = flag.String("scenario", "", "Scenario JSON file (required)")
	dbPath       = flag.String("db", "", "SQLite decision log to append the cycle to")
	plotPath     = flag.String("plot", "", "Write a PNG of the cycle to this path")
	dumpMetrics  = flag.Bool("metrics", false, "Print Prometheus metrics to stderr after the cycle")
	verbose      = flag.Bool("v", false, "Log per-cycle and per-obstacle diagnostics to stderr")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

type options struct {
	ConfigPath   string
	ScenarioPath string
	DBPath       string
	PlotPath     string
	Metrics      bool
	Verbose      bool
}

// obstacleLine is one line of command output.
type obstacleLine struct {
	ID               string          `json:"id"`
	Outcome          string          `json:"outcome"`
	CurrL            *float64        `json:"curr_l,omitempty"`
	Longitudinal     json.RawMessage `json:"longitudinal"`
	Lateral          json.RawMessage `json:"lateral"`
	LongitudinalTags []string        `json:"longitudinal_tags,omitempty"`
	LateralTags      []string        `json:"lateral_tags,omitempty"`
	Error            string          `json:"error,omitempty"`
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("pathdecider"))
		return
	}
	if *scenarioPath == "" {
		log.Fatal("-scenario is required")
	}

	opts := options{
		ConfigPath:   *configPath,
		ScenarioPath: *scenarioPath,
		DBPath:       *dbPath,
		PlotPath:     *plotPath,
		Metrics:      *dumpMetrics,
		Verbose:      *verbose,
	}
	if err := run(context.Background(), opts, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("pathdecider: %v", err)
	}
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	monitoring.SetLogWriter(stderr, "[pathdecider] ")
	var diag io.Writer
	if opts.Verbose {
		diag = stderr
	}
	pathdecider.SetLogWriters(stderr, diag, diag)

	cfg := config.EmptyDeciderConfig()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadDeciderConfig(opts.ConfigPath); err != nil {
			return err
		}
	}

	scen, err := LoadScenario(opts.ScenarioPath)
	if err != nil {
		return err
	}
	if scen.Vehicle != nil {
		if cfg.Vehicle == nil {
			cfg.Vehicle = &config.VehicleConfig{}
		}
		cfg.Vehicle.Merge(scen.Vehicle)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("scenario vehicle override: %w", err)
		}
	}
	for _, w := range cfg.Warnings() {
		monitoring.Logf("config warning: %s", w)
	}

	provider := metrics.NewRegistryProvider()
	recorder, err := metrics.NewDecisionMetrics(provider.Registry())
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	in, pd, err := scen.Build()
	if err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	params := cfg.Params()
	decider := pathdecider.New(params, cfg.VehicleParam(), pathdecider.WithRecorder(recorder))
	report, cycleErr := decider.ProcessWithReport(in, pd)

	rec, err := db.NewCycleRecord(time.Now(), params, in.Path, report, pd, cycleErr)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	for _, row := range rec.Decisions {
		line := obstacleLine{
			ID:               row.ObstacleID,
			Outcome:          row.Outcome,
			CurrL:            row.CurrL,
			Longitudinal:     row.Longitudinal,
			Lateral:          row.Lateral,
			LongitudinalTags: row.LongitudinalTags,
			LateralTags:      row.LateralTags,
			Error:            row.SinkError,
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}

	if opts.DBPath != "" {
		if err := recordCycle(ctx, opts.DBPath, rec); err != nil {
			return err
		}
	}

	if opts.PlotPath != "" && cycleErr == nil {
		if err := debugplot.SavePNG(opts.PlotPath, debugplot.Cycle{Path: in.Path, Decision: pd, Report: report}); err != nil {
			return err
		}
		monitoring.Logf("wrote cycle plot to %s", opts.PlotPath)
	}

	if opts.Metrics {
		if err := metrics.WriteText(stderr, provider.Registry()); err != nil {
			return err
		}
	}

	return cycleErr
}

func recordCycle(ctx context.Context, path string, rec db.CycleRecord) error {
	store, err := db.NewDB(path)
	if err != nil {
		return fmt.Errorf("failed to open decision log: %w", err)
	}
	defer store.Close()

	id, err := store.RecordCycle(ctx, rec)
	if err != nil {
		return err
	}
	monitoring.Logf("recorded cycle %s (%d obstacles) in %s", id, len(rec.Decisions), path)
	return nil
}
