// Package sitecheck checks the availability of many websites concurrently
// and summarizes each pass as a round.
//
// A [Checker] probes every URL of a round with a fixed-size worker pool.
// Each probe retries transport failures a bounded number of times; any HTTP
// response, including 4xx and 5xx, ends the probe. A round summary counts a
// URL as up when it answered with a status code below 400.
//
// # Quick Start
//
// Run a single round and inspect the summary:
//
//	checker, _ := sitecheck.New(sitecheck.WithWorkers(20))
//	defer checker.Close()
//
//	round := checker.RunRound(ctx, []string{"https://example.com", "https://go.dev"})
//	fmt.Printf("uptime %.1f%%\n", round.Summary.UptimePercent)
//
// # Periodic Mode
//
// With [WithPeriod], [Checker.Run] repeats rounds until a [StopFlag] is
// raised or the context ends. The flag is checked between rounds, at least
// once per second while sleeping:
//
//	stop := sitecheck.NewStopFlag()
//	go sitecheck.WatchInput(os.Stdin, stop) // any line, or EOF, stops the loop
//
//	checker, _ := sitecheck.New(
//	    sitecheck.WithPeriod(30*time.Second),
//	    sitecheck.WithRoundCallback(func(r sitecheck.Round) { log.Println(r.Summary) }),
//	    sitecheck.WithStatusServer(":9090"),
//	)
//	err := checker.Run(ctx, urls, stop)
//
// # Architecture
//
// sitecheck consists of several internal packages (under internal/):
//
//   - internal/probe: one URL, bounded retries, per-attempt timeout
//   - internal/pool: job queue and worker pool for one round
//   - internal/aggregate: result collection and round summaries
//   - internal/scheduler: rounds and the periodic loop
//   - internal/shutdown: the stop flag and its input watcher
//   - internal/store, internal/server: optional status API
//   - internal/metrics: Prometheus collectors
//
// The internal packages are not part of the public API and may change
// without notice.
package sitecheck
