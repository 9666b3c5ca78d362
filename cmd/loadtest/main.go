// Command loadtest drives a running seller-crm instance at a fixed request
// rate and prints latency percentiles.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/nimasrn/seller-crm/pkg/logger"
	"github.com/nimasrn/seller-crm/pkg/worker"
	"github.com/valyala/fasthttp"
)

type Config struct {
	BaseURL           string `env:"TARGET_URL,default=http://localhost:8080/api/v1"`
	Scenario          string `env:"SCENARIO,default=best"`
	RequestsPerSecond int    `env:"REQUESTS_PER_SECOND,default=500"`
	DurationSeconds   int    `env:"DURATION_SECONDS,default=30"`
	ConcurrentWorkers int    `env:"CONCURRENT_WORKERS,default=50"`
	SellerID          int64  `env:"SELLER_ID,default=1"`
}

func main() {
	defer logger.Sync()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		logger.Error("failed to read load test config", "error", err)
		os.Exit(1)
	}
	build, err := scenario(cfg)
	if err != nil {
		logger.Error("unknown scenario", "scenario", cfg.Scenario, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Starting load test...")
	fmt.Printf("Target: %s (%s)\n", cfg.BaseURL, cfg.Scenario)
	fmt.Printf("Target RPS: %d for %d seconds with %d workers\n", cfg.RequestsPerSecond, cfg.DurationSeconds, cfg.ConcurrentWorkers)
	fmt.Println(strings.Repeat("-", 50))

	client := &fasthttp.Client{
		MaxConnsPerHost: cfg.ConcurrentWorkers,
		ReadTimeout:     time.Minute,
		WriteTimeout:    time.Minute,
	}
	stats := &Stats{}
	pool := worker.NewPool(cfg.RequestsPerSecond, cfg.ConcurrentWorkers, func(_ int, seq int) {
		send(client, build(seq), stats)
	})
	pool.Start()

	started := time.Now()
	seq := 0
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

loop:
	for i := 0; i < cfg.DurationSeconds; i++ {
		for j := 0; j < cfg.RequestsPerSecond; j++ {
			if err := pool.Enqueue(ctx, seq); err != nil {
				break loop
			}
			seq++
		}
		ok, failed := stats.Counts()
		fmt.Printf("[%ds] Completed: %d | Success: %d | Errors: %d | Queued: %d\n", i+1, ok+failed, ok, failed, pool.Pending())

		select {
		case <-ticker.C:
		case <-ctx.Done():
			break loop
		}
	}

	pool.Close()
	fmt.Print(stats.Report(time.Since(started)))
}

// scenario returns a builder for the n-th request of the chosen scenario.
func scenario(cfg Config) (func(n int) *fasthttp.Request, error) {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	switch cfg.Scenario {
	case "best":
		periods := []string{"year", "month", "day"}
		return func(n int) *fasthttp.Request {
			return get(fmt.Sprintf("%s/sellers/best?period=%s&startDate=2024-01-01T00:00:00", base, periods[n%len(periods)]))
		}, nil
	case "below":
		return func(n int) *fasthttp.Request {
			return get(fmt.Sprintf("%s/sellers/below?amount=%d&startDate=2022-01-01T00:00:00&endDate=2024-12-31T23:59:59", base, 100+n%1000))
		}, nil
	case "create":
		return func(n int) *fasthttp.Request {
			req := fasthttp.AcquireRequest()
			req.SetRequestURI(base + "/transactions")
			req.Header.SetMethod(fasthttp.MethodPost)
			req.Header.SetContentType("application/json")
			req.SetBodyString(fmt.Sprintf(`{"amount":%d,"payment_type":"CARD","seller_id":%d}`, 1+n%500, cfg.SellerID))
			return req
		}, nil
	}
	return nil, fmt.Errorf("scenario must be one of best, below, create")
}

func get(uri string) *fasthttp.Request {
	req := fasthttp.AcquireRequest()
	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	return req
}

func send(client *fasthttp.Client, req *fasthttp.Request, stats *Stats) {
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	err := client.Do(req, resp)
	stats.Record(time.Since(start), err == nil && resp.StatusCode() == fasthttp.StatusOK)
}
