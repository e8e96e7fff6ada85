package podcheck

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/podsmith/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging sends log output to both stdout and a file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) (io.Closer, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "podcheck_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the pod-check tool.
func ShowHelp() {
	os.Stdout.WriteString(`Podsmith Property Check
=======================

Generates random rosters, submits them to /pods/preview and checks every
report: each participant is placed once, groups stay whole, pod sizes are
legal and every pod shares a tier across all of its units.

Usage:
  go run ./cmd/pod-check [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -rosters int
        Number of rosters to generate (default 500)
  -min int
        Smallest roster (default 3)
  -max int
        Largest roster (default 40)
  -group-rate float
        Chance that a drawn participant starts a group (default 0.2)
  -tolerance string
        exact, lenient or super_lenient (default "exact")
  -mode string
        balanced or avoid_five (default "balanced")
  -scale string
        numeric or bracket (default "numeric")
  -seed uint
        Roster generator seed (default: current time)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated rosters (default: podcheck_rosters_TIMESTAMP.json)
  -log string
        Log file for check output (default: podcheck_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Check with default settings
  go run ./cmd/pod-check

  # Reproduce a run
  go run ./cmd/pod-check -seed 42 -rosters 2000 -tolerance lenient

  # Bracket rosters without pods of five
  go run ./cmd/pod-check -scale bracket -mode avoid_five
`)
}
