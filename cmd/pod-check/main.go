package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/okian/podsmith/internal/podcheck"
	"github.com/okian/podsmith/pkg/logger"
)

// Default configuration constants.
const (
	defaultRosters     = 500
	defaultMinSize     = 3
	defaultMaxSize     = 40
	defaultGroupRate   = 0.2
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		rosters    = flag.Int("rosters", defaultRosters, "Number of rosters to generate")
		minSize    = flag.Int("min", defaultMinSize, "Smallest roster")
		maxSize    = flag.Int("max", defaultMaxSize, "Largest roster")
		groupRate  = flag.Float64("group-rate", defaultGroupRate, "Chance that a drawn participant starts a group")
		tolerance  = flag.String("tolerance", "exact", "exact, lenient or super_lenient")
		mode       = flag.String("mode", "balanced", "balanced or avoid_five")
		scale      = flag.String("scale", "numeric", "numeric or bracket")
		seed       = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Roster generator seed")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated rosters (default: podcheck_rosters_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for check output (default: podcheck_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		podcheck.ShowHelp()
		return
	}

	closer, err := podcheck.SetupLogging(*logFile)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()
	if *verbose {
		logger.SetLevel(slog.LevelDebug)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &podcheck.Config{
		BaseURL:    *baseURL,
		Rosters:    *rosters,
		MinSize:    *minSize,
		MaxSize:    *maxSize,
		GroupRate:  *groupRate,
		Tolerance:  *tolerance,
		Mode:       *mode,
		Scale:      *scale,
		Seed:       *seed,
		Workers:    max(*workers, 1),
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if _, err := podcheck.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Check failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
