package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/sitecheck"
	"github.com/jpalmerr/sitecheck/config"
	"github.com/jpalmerr/sitecheck/internal/logging"
	"github.com/jpalmerr/sitecheck/internal/report"
)

// checkCmd probes URLs once or periodically.
var checkCmd = &cobra.Command{
	Use:   "check [urls...]",
	Short: "Check the status of websites",
	Long: `Check the status of websites.

URLs come from the arguments, the --file list (one per line, # comments
allowed) and the config file, in that order. With no URL from any source a
small built-in list is checked.

Without --period a single round runs. With --period rounds repeat until
Enter is pressed, stdin closes, or SIGINT/SIGTERM is received; a round
already running always completes.

Flags override the config file.

Example:
  sitecheck check https://example.com https://go.dev
  sitecheck check -f urls.txt -w 100 -t 3s -r 2
  sitecheck check -c sitecheck.yaml --period 1m --listen :9090`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	f := checkCmd.Flags()
	f.StringP("config", "c", "", "path to config file")
	f.IntP("workers", "w", sitecheck.DefaultWorkers, "number of concurrent probes")
	f.DurationP("timeout", "t", sitecheck.DefaultTimeout, "timeout of each HTTP attempt")
	f.IntP("retries", "r", sitecheck.DefaultRetries, "additional attempts after a network failure")
	f.DurationP("period", "p", 0, "repeat rounds with this pause in between (0 = single round)")
	f.StringP("file", "f", "", "file with one URL per line")
	f.String("format", string(report.FormatTable), "output format: table, markdown or json")
	f.String("user-agent", sitecheck.DefaultUserAgent, "User-Agent header sent with each request")
	f.String("listen", "", "serve the status API on this address, e.g. :9090")
	f.String("log-level", "info", "log level: debug, info, warn or error")
	f.String("log-format", "json", "log format: json or text")
	f.String("log-file", "", "write logs to this file (rotated) instead of stderr")
	f.Bool("no-stdin", false, "do not stop periodic mode on input from stdin")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadCheckConfig(cmd)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cmd.ErrOrStderr(), logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	out := cmd.OutOrStdout()

	targets, err := resolveTargets(cmd, cfg, args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		targets = sitecheck.DefaultTargets()
		fmt.Fprintf(out, "No URLs provided; using small default list (%d urls).\n", len(targets))
	}

	periodic := cfg.Period > 0
	var writerOpts []report.Option
	if periodic {
		writerOpts = append(writerOpts, report.WithRoundHeaders())
	}
	writer, err := report.New(cfg.Report, out, writerOpts...)
	if err != nil {
		return err
	}

	opts := []sitecheck.Option{
		sitecheck.WithWorkers(cfg.Workers),
		sitecheck.WithTimeout(cfg.Timeout.Duration()),
		sitecheck.WithRetries(cfg.Retries),
		sitecheck.WithPeriod(cfg.Period.Duration()),
		sitecheck.WithRetryDelay(cfg.RetryDelay.Duration()),
		sitecheck.WithUserAgent(cfg.UserAgent),
		sitecheck.WithLogger(logger),
		sitecheck.WithRoundCallback(func(r sitecheck.Round) {
			if err := writer.WriteRound(r); err != nil {
				logger.Error("failed to write report", "round", r.Number, "error", err)
			}
		}),
	}
	if cfg.Listen != "" {
		opts = append(opts, sitecheck.WithStatusServer(cfg.Listen))
	}

	checker, err := sitecheck.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create checker: %w", err)
	}
	defer checker.Close()

	// the banner is for humans; keep machine-readable output clean
	if cfg.Report != string(report.FormatJSON) {
		fmt.Fprintln(out, banner(checker.Config(), len(targets)))
	}

	stop := sitecheck.NewStopFlag()
	noStdin, _ := cmd.Flags().GetBool("no-stdin")
	if periodic && !noStdin {
		if cfg.Report != string(report.FormatJSON) {
			fmt.Fprintln(out, "Press Enter to stop.")
		}
		go sitecheck.WatchInput(cmd.InOrStdin(), stop)
	}

	if err := run(checker, targets, stop, logger); err != nil {
		return err
	}

	if periodic && cfg.Report != string(report.FormatJSON) {
		fmt.Fprintln(out, "Stopping. Bye!")
	}
	return nil
}

// run drives the checker and turns SIGINT/SIGTERM into a raised stop flag.
// Rounds run on a context of their own, so an in-flight round finishes.
func run(checker *sitecheck.Checker, targets []string, stop *sitecheck.StopFlag, logger *slog.Logger) error {
	sigCtx, cancelSig := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelSig()

	runDone := make(chan struct{})
	var g errgroup.Group

	g.Go(func() error {
		defer close(runDone)
		return checker.Run(context.Background(), targets, stop)
	})

	g.Go(func() error {
		select {
		case <-sigCtx.Done():
			// restore default handling so a second signal terminates at once
			cancelSig()
			if stop.Set() {
				logger.Info("signal received, stopping after the current round")
			}
		case <-runDone:
		}
		return nil
	})

	return g.Wait()
}

// loadCheckConfig loads the optional config file and applies flag overrides.
func loadCheckConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		cfg.Timeout = config.Duration(d)
	}
	if flags.Changed("retries") {
		cfg.Retries, _ = flags.GetInt("retries")
	}
	if flags.Changed("period") {
		d, _ := flags.GetDuration("period")
		cfg.Period = config.Duration(d)
	}
	if flags.Changed("format") {
		cfg.Report, _ = flags.GetString("format")
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}
	if flags.Changed("listen") {
		cfg.Listen, _ = flags.GetString("listen")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("log-file") {
		cfg.Log.File, _ = flags.GetString("log-file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// resolveTargets merges URLs from arguments, --file and the config file.
// An unreadable --file is reported and skipped.
func resolveTargets(cmd *cobra.Command, cfg *config.Config, args []string) ([]string, error) {
	targets := append([]string(nil), args...)

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		fromFile, err := config.LoadTargetFile(path)
		if err != nil {
			warn(cmd.ErrOrStderr(), "Could not read %s, continuing without it: %v", path, err)
		} else {
			targets = append(targets, fromFile...)
		}
	}

	fromConfig, err := config.BuildTargets(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve targets: %w", err)
	}
	return append(targets, fromConfig...), nil
}

func banner(cfg sitecheck.Config, targets int) string {
	periodic := "off"
	if cfg.Period > 0 {
		periodic = "every " + cfg.Period.String()
	}
	return fmt.Sprintf("Starting sitecheck | workers=%d, timeout=%s, retries=%d, urls=%d, periodic=%s",
		cfg.Workers, cfg.Timeout.Round(time.Millisecond), cfg.Retries, targets, periodic)
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
