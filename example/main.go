// Example of using sitecheck as a library.
//
// Usage:
//
//	go run ./example
//
// Then open http://localhost:8080/api/round or http://localhost:8080/metrics.
// Press Enter or Ctrl+C to stop.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/sitecheck"
)

func main() {
	// start mock sites (see mock_server.go)
	go StartMockSites(":9999")
	time.Sleep(100 * time.Millisecond)

	urls := []string{
		"http://localhost:9999/site/users",
		"http://localhost:9999/site/orders",
		"http://localhost:9999/site/billing",
		"http://localhost:9999/site/slow",
		"http://localhost:9998/nothing-listens-here",
	}

	checker, err := sitecheck.New(
		sitecheck.WithWorkers(4),
		sitecheck.WithTimeout(time.Second),
		sitecheck.WithRetries(1),
		sitecheck.WithPeriod(5*time.Second),
		sitecheck.WithStatusServer(":8080"),
		sitecheck.WithRoundCallback(func(r sitecheck.Round) {
			fmt.Printf("round %d: %s\n", r.Number, r.Summary)
			for _, res := range r.Results {
				fmt.Printf("  %-45s %s (%dms)\n", res.URL, res.Outcome, res.Elapsed.Milliseconds())
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create checker", "error", err)
		os.Exit(1)
	}
	defer checker.Close()

	fmt.Println()
	fmt.Println("  sitecheck demo: 5 sites every 5s")
	fmt.Println("  status API on http://localhost:8080/api/round")
	fmt.Println("  press Enter to stop")
	fmt.Println()

	stop := sitecheck.NewStopFlag()
	go sitecheck.WatchInput(os.Stdin, stop)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		stop.Set()
	}()

	if err := checker.Run(context.Background(), urls, stop); err != nil {
		slog.Error("sitecheck error", "error", err)
		os.Exit(1)
	}
}
