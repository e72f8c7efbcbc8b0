// Package cli implements the conlit command-line tool.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/conlit/backend/internal/app"
	"github.com/conlit/backend/internal/infrastructure"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	verbose bool
}

// NewRootCommand builds the conlit command tree
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "conlit",
		Short: "Find the gaps and nemesis problems in a LeetCode history",
		Long: `Conlit joins a LeetCode user's submissions against a local corpus of
contest questions to report unattempted topics, repeatedly failed problems,
related practice and unfinished contests.

Set LEETCODE_SESSION (or pass --session) to resolve the full solved set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(
		newProfileCmd(opts),
		newSummaryCmd(opts),
		newAnalyzeCmd(opts),
		newTopicGapsCmd(opts),
		newNemesisCmd(opts),
		newContestsCmd(opts),
		newCorpusCmd(opts),
		newAdminCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

// loadRuntime loads configuration and the stderr logger
func loadRuntime(opts *globalOptions) (*infrastructure.Config, *zap.Logger, error) {
	cfg, err := infrastructure.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	logger, err := infrastructure.NewCLILogger(opts.verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}
	return cfg, logger, nil
}

// withApp builds the full service graph and runs fn with it
func withApp(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, a *app.App) error) error {
	cfg, logger, err := loadRuntime(opts)
	if err != nil {
		return err
	}
	defer infrastructure.SyncLogger(logger)

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, otel.Tracer("conlit"), infrastructure.NoopMetrics(), logger)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Debug("Services initialized",
		zap.String("corpus", cfg.Corpus.Path),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("coaching", cfg.LLM.Enabled),
	)
	return fn(ctx, a)
}

// reportedError is a failure already written to stdout as an {"error": ...} payload
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// runAnalysis runs an analysis operation and prints its result, or the
// failure as {"error": message}, on stdout. Failures still exit non-zero.
func runAnalysis(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, a *app.App) (any, error)) error {
	err := withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
		result, err := fn(ctx, a)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	})
	if err == nil {
		return nil
	}
	if perr := printJSON(cmd.OutOrStdout(), map[string]string{"error": err.Error()}); perr != nil {
		return err
	}
	return &reportedError{err: err}
}

// printJSON writes v to w as indented JSON
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
