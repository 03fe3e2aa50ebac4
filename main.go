package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/hannajonsd/structural-analysis/analyzer"
	"github.com/hannajonsd/structural-analysis/config"
	"github.com/hannajonsd/structural-analysis/report"
)

// errFindings makes the process exit non-zero without printing an error
var errFindings = errors.New("error-severity findings")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structcheck [path]",
		Short: "Find unused exports and circular imports across a JavaScript, TypeScript or Python project",
		Long: `structcheck parses every source file under path, resolves relative imports
between them and reports exports nothing imports and files that import
each other in a cycle.

Exits with status 1 when a circular dependency is found.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAnalyze,
	}

	cmd.Flags().StringP("format", "f", "", "Output format: text|json|sarif (default from STRUCTCHECK_FORMAT or text)")
	cmd.Flags().IntP("workers", "w", 0, "Parallel extraction workers (default from STRUCTCHECK_WORKERS or CPU count)")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging on stderr")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	repoPath := "."
	if len(args) == 1 {
		repoPath = args[0]
	}

	files, err := analyzer.LoadRepository(repoPath)
	if err != nil {
		return err
	}
	logger.Info("analyzing repository", "path", repoPath, "files", len(files))

	a := analyzer.New(
		analyzer.WithLogger(logger),
		analyzer.WithWorkers(cfg.Workers),
		analyzer.WithResolverCacheSize(cfg.CacheSize),
	)
	result, err := a.Analyze(cmd.Context(), files)
	if err != nil {
		return fmt.Errorf("analysis of %s: %w", repoPath, err)
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := report.Write(out, cfg.Format, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if result.HasErrors() {
		return errFindings
	}
	return nil
}

// applyFlags overrides environment configuration with explicitly set flags
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("format") {
		name, _ := flags.GetString("format")
		format, err := report.ParseFormat(name)
		if err != nil {
			return err
		}
		cfg.Format = format
	}
	if flags.Changed("workers") {
		n, _ := flags.GetInt("workers")
		if n < 1 {
			return fmt.Errorf("--workers must be at least 1, got %d", n)
		}
		cfg.Workers = n
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	return nil
}
