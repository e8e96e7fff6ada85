package podcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/podsmith/internal/domain/report"
	"github.com/okian/podsmith/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// submitRosters posts every roster to /pods/preview with a worker pool and
// returns the outcomes in roster order.
func submitRosters(ctx context.Context, config *Config, rosters []Roster, stats *Stats) []Outcome {
	logger.Get().Info(ctx, "submitting rosters",
		logger.Int("rosters", len(rosters)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/pods/preview"

	var (
		accepted  int64
		rejected  int64
		failed    int64
		submitted int64
	)

	outcomes := make([]Outcome, len(rosters))
	jobs := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				out := submitRoster(ctx, client, url, rosters[i])
				outcomes[i] = out

				n := atomic.AddInt64(&submitted, 1)
				switch {
				case out.Err != nil:
					atomic.AddInt64(&failed, 1)
				case out.Status == http.StatusOK:
					atomic.AddInt64(&accepted, 1)
				default:
					atomic.AddInt64(&rejected, 1)
				}
				if config.Verbose {
					logger.Get().Debug(ctx, "roster submitted",
						logger.String("rosterID", out.Roster.RosterID),
						logger.Int("status", out.Status),
						logger.Int("submitted", int(n)),
						logger.Duration("elapsed", out.Duration))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range rosters {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	stats.RostersSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RostersAccepted = int(atomic.LoadInt64(&accepted))
	stats.RostersRejected = int(atomic.LoadInt64(&rejected))
	stats.RostersFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "roster submission completed",
		logger.Int("accepted", stats.RostersAccepted),
		logger.Int("rejected", stats.RostersRejected),
		logger.Int("failed", stats.RostersFailed))
	return outcomes
}

// submitRoster submits a single roster and decodes the response.
func submitRoster(ctx context.Context, client *HTTPClient, url string, r Roster) Outcome {
	start := time.Now()
	out := Outcome{Roster: r}

	resp, err := client.Post(ctx, url, r)
	if err != nil {
		out.Err = err
		return out
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	out.Duration = time.Since(start)
	out.Status = resp.StatusCode
	if err != nil {
		out.Err = fmt.Errorf("failed to read response: %w", err)
		return out
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Code string `json:"code"`
		}
		_ = json.Unmarshal(body, &e)
		out.Code = e.Code
		return out
	}

	var rep report.Report
	if err := json.Unmarshal(body, &rep); err != nil {
		out.Err = fmt.Errorf("failed to decode report: %w", err)
		return out
	}
	out.Report = &rep
	return out
}
