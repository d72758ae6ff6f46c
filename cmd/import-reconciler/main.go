// Package main provides the CLI entrypoint for import-reconciler.
//
// import-reconciler takes spreadsheet rows that reference people, contracts
// and equipment by free text and:
//   - Resolves employee names against a roster with strict fuzzy matching
//   - Matches contract and equipment references exactly (case/accent-insensitive)
//   - Routes unmatched contracts to a fallback contract when configured
//   - Writes a result workbook with resolved ids and per-row diagnostics
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"import-reconciler/internal/config"
)

type globalOptions struct {
	configPath string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	root := &cobra.Command{
		Use:           "import-reconciler",
		Short:         "Resolve free-text employee, contract and equipment references in import spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (env RECONCILER_* overrides)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(newResolveCmd(&opts), newReconcileCmd(&opts))

	return root
}

// setup loads configuration and builds the logger.
func (o *globalOptions) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, nil, err
	}

	if o.verbose {
		cfg.LogLevel = "debug"
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", level, err)
	}

	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(lvl)
	logConfig.DisableStacktrace = true
	logConfig.OutputPaths = []string{"stderr"}

	log, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return log, nil
}
