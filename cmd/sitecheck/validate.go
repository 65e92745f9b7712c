package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/sitecheck/config"
)

// validateCmd validates a config file without probing anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a sitecheck configuration file without probing any URL.

This command parses the YAML, expands environment variables, validates all
fields and resolves the target list (inline targets, target file and grids).
It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  sitecheck validate -c sitecheck.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	targets, err := config.BuildTargets(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	gridTargets := 0
	for _, g := range cfg.Grids {
		size := 1
		for _, vals := range g.Dimensions {
			size *= len(vals)
		}
		gridTargets += size
	}
	fileTargets := len(targets) - len(cfg.Targets) - gridTargets

	period := "off"
	if cfg.Period > 0 {
		period = cfg.Period.Duration().String()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Workers: %d\n", cfg.Workers)
	fmt.Fprintf(out, "  Timeout: %s\n", cfg.Timeout.Duration())
	fmt.Fprintf(out, "  Retries: %d\n", cfg.Retries)
	fmt.Fprintf(out, "  Period:  %s\n", period)
	fmt.Fprintf(out, "  Targets: %d inline + %d from file + %d from grids = %d total\n",
		len(cfg.Targets), fileTargets, gridTargets, len(targets))

	return nil
}
