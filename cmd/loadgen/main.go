package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

func cryptoRandIntn(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}

type MonitorRequest struct {
	Route                 RouteSpec    `json:"route"`
	Customer              CustomerSpec `json:"customer"`
	DelayThresholdMinutes int          `json:"delay_threshold_minutes"`
}

type RouteSpec struct {
	RouteID             string `json:"route_id"`
	Origin              string `json:"origin"`
	Destination         string `json:"destination"`
	BaselineTimeMinutes int    `json:"baseline_time_minutes"`
}

type CustomerSpec struct {
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`
}

type routePair struct {
	Origin      string
	Destination string
	Baseline    int
}

// Route pool for generated monitors. Baselines are deliberately low so the
// simulated traffic provider trips the threshold on a good share of runs.
var routePairs = []routePair{
	{"San Francisco, CA", "Oakland, CA", 25},
	{"San Francisco, CA", "San Jose, CA", 55},
	{"Oakland, CA", "Berkeley, CA", 18},
	{"Palo Alto, CA", "Mountain View, CA", 15},
	{"San Jose, CA", "Fremont, CA", 30},
	{"Berkeley, CA", "Richmond, CA", 22},
	{"Sunnyvale, CA", "Santa Clara, CA", 12},
	{"Daly City, CA", "San Mateo, CA", 20},
}

func main() {
	defaultURL := os.Getenv("API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080/api/v1/monitors"
	}

	var (
		apiURL    = flag.String("url", defaultURL, "API endpoint URL")
		count     = flag.Int("count", 0, "Number of monitors to start (0 = unlimited)")
		rps       = flag.Float64("rps", 1, "Requests per second")
		duration  = flag.Duration("duration", 0, "Duration to run (0 = until count reached or forever)")
		workers   = flag.Int("workers", 5, "Number of concurrent workers")
		threshold = flag.Int("threshold", 15, "Delay threshold in minutes")
	)
	flag.Parse()

	if *count == 0 && *duration == 0 {
		slog.Error("must specify either --count or --duration")
		os.Exit(1)
	}

	slog.Info("starting load generator",
		slog.String("url", *apiURL),
		slog.Int("count", *count),
		slog.Float64("rps", *rps),
		slog.Duration("duration", *duration),
		slog.Int("workers", *workers),
	)

	var (
		successCount int64
		failureCount int64
		totalCount   int64
		startTime    = time.Now()
		stopCh       = make(chan struct{})
		monitorCh    = make(chan MonitorRequest, *workers*2)
		wg           sync.WaitGroup
	)

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{Timeout: 30 * time.Second}

			for monitor := range monitorCh {
				if err := startMonitor(context.Background(), client, *apiURL, monitor); err != nil {
					atomic.AddInt64(&failureCount, 1)
					slog.Error("monitor start failed",
						slog.Int("worker", workerID),
						slog.String("route_id", monitor.Route.RouteID),
						slog.String("error", err.Error()),
					)
				} else {
					atomic.AddInt64(&successCount, 1)
					slog.Debug("monitor started",
						slog.Int("worker", workerID),
						slog.String("route_id", monitor.Route.RouteID),
					)
				}
			}
		}(i)
	}

	if *duration > 0 {
		go func() {
			time.Sleep(*duration)
			close(stopCh)
		}()
	}

	interval := time.Duration(float64(time.Second) / *rps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			goto done
		case <-ticker.C:
			if *count > 0 && atomic.LoadInt64(&totalCount) >= int64(*count) {
				goto done
			}

			atomic.AddInt64(&totalCount, 1)
			monitorCh <- generateMonitor(atomic.LoadInt64(&totalCount), *threshold)
		}
	}

done:
	close(monitorCh)
	wg.Wait()

	elapsed := time.Since(startTime)
	success := atomic.LoadInt64(&successCount)
	failure := atomic.LoadInt64(&failureCount)
	total := success + failure

	slog.Info("load generation complete",
		slog.Int64("total", total),
		slog.Int64("success", success),
		slog.Int64("failure", failure),
		slog.Float64("success_rate", float64(success)/float64(total)*100),
		slog.Duration("elapsed", elapsed),
		slog.Float64("actual_rps", float64(total)/elapsed.Seconds()),
	)
}

func generateMonitor(seq int64, threshold int) MonitorRequest {
	pair := routePairs[cryptoRandIntn(len(routePairs))]
	customerID := fmt.Sprintf("cust-%d-%d", seq, cryptoRandIntn(1000))

	return MonitorRequest{
		Route: RouteSpec{
			RouteID:             fmt.Sprintf("route-%d", seq),
			Origin:              pair.Origin,
			Destination:         pair.Destination,
			BaselineTimeMinutes: pair.Baseline,
		},
		Customer: CustomerSpec{
			CustomerID:    customerID,
			CustomerEmail: fmt.Sprintf("%s@example.com", customerID),
		},
		DelayThresholdMinutes: threshold,
	}
}

func startMonitor(ctx context.Context, client *http.Client, url string, monitor MonitorRequest) error {
	body, err := json.Marshal(monitor)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request creation error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	return nil
}
