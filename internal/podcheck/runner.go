package podcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/podsmith/pkg/logger"
)

// ErrViolations is returned by Run when at least one property failed.
var ErrViolations = errors.New("property violations found")

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes the complete property check.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting pod property check",
		logger.String("baseURL", config.BaseURL),
		logger.Int("rosters", config.Rosters),
		logger.Int("workers", config.Workers),
		logger.String("tolerance", config.Tolerance),
		logger.String("mode", config.Mode),
		logger.String("scale", config.Scale),
		logger.Any("seed", config.Seed),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	rosters, err := generateRosters(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("roster generation failed: %w", err)
	}

	outcomes := submitRosters(ctx, config, rosters, stats)
	violations := verifyOutcomes(ctx, outcomes, stats)

	if err := saveRostersToFile(ctx, config, rosters); err != nil {
		logger.Get().Warn(ctx, "failed to save rosters to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if len(violations) > 0 {
		return stats, fmt.Errorf("%w: %d", ErrViolations, len(violations))
	}
	if stats.RostersFailed > 0 {
		return stats, fmt.Errorf("%d rosters failed to submit", stats.RostersFailed)
	}
	logger.Get().Info(ctx, "check completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveRostersToFile writes the generated rosters as a JSON array so a failing
// run can be replayed against /pods/preview.
func saveRostersToFile(ctx context.Context, config *Config, rosters []Roster) error {
	if len(rosters) == 0 {
		return fmt.Errorf("no rosters to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "podcheck_rosters_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(rosters, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rosters: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "rosters saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(stats *Stats) {
	var acceptRate, assignRate, rostersPerSecond float64

	if stats.RostersSubmitted > 0 {
		acceptRate = float64(stats.RostersAccepted) / float64(stats.RostersSubmitted) * PercentageMultiplier
	}
	if stats.Participants > 0 {
		assignRate = float64(stats.Assigned) / float64(stats.Participants) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		rostersPerSecond = float64(stats.RostersSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("rostersGenerated", stats.RostersGenerated),
		logger.Int("rostersSubmitted", stats.RostersSubmitted),
		logger.Int("rostersAccepted", stats.RostersAccepted),
		logger.Int("rostersRejected", stats.RostersRejected),
		logger.Int("rostersFailed", stats.RostersFailed),
		logger.Int("podsChecked", stats.PodsChecked),
		logger.Int("violations", stats.Violations),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("assignRate", assignRate),
		logger.Float64("rostersPerSecond", rostersPerSecond))
}
