package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/conlit/backend/internal/data"
	"github.com/conlit/backend/internal/infrastructure"
	"github.com/conlit/backend/internal/leetcode"
	"github.com/conlit/backend/internal/service"
)

func newCorpusCmd(opts *globalOptions) *cobra.Command {
	corpusCmd := &cobra.Command{
		Use:   "corpus",
		Short: "Build and inspect the local question corpus",
	}
	corpusCmd.AddCommand(
		newCorpusFetchCmd(opts),
		newCorpusStatsCmd(opts),
		newCorpusQuestionCmd(opts),
	)
	return corpusCmd
}

func newCorpusFetchCmd(opts *globalOptions) *cobra.Command {
	var (
		out         string
		maxContests int
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Crawl contest questions into the corpus file",
		Long: `Fetch lists every contest, then fetches the questions of each contest not
already present in the corpus file. The file is rewritten after every contest,
so an interrupted fetch resumes where it stopped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(opts)
			if err != nil {
				return err
			}
			defer infrastructure.SyncLogger(logger)

			if out == "" {
				out = cfg.Corpus.Path
			}
			if out == data.EmbeddedCorpus {
				return errors.New("the embedded corpus is read-only, pass --out")
			}

			tracer := otel.Tracer("conlit")
			client := leetcode.NewClient(&cfg.LeetCode, tracer, infrastructure.NoopMetrics(), logger)
			crawler := service.NewCorpusCrawler(client, tracer, logger)

			logger.Info("Fetching corpus", zap.String("path", out), zap.Int("max_contests", maxContests))
			result, err := crawler.Crawl(cmd.Context(), service.CrawlOptions{
				Path:        out,
				MaxContests: maxContests,
			})
			if err != nil {
				return fmt.Errorf("fetch corpus: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "corpus file to extend (default $CORPUS_PATH)")
	cmd.Flags().IntVar(&maxContests, "max-contests", 0, "stop after storing this many contests (0 = all)")
	return cmd
}

func newCorpusStatsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show question counts by difficulty and topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := loadCorpus(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), corpus.Stats(cmd.Context()))
		},
	}
}

func newCorpusQuestionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "question <slug-or-title>",
		Short: "Look up a single corpus question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := loadCorpus(cmd.Context(), opts)
			if err != nil {
				return err
			}
			q, err := corpus.Question(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), q)
		},
	}
}

// loadCorpus loads the configured corpus without opening the solved cache
func loadCorpus(ctx context.Context, opts *globalOptions) (*service.CorpusService, error) {
	cfg, logger, err := loadRuntime(opts)
	if err != nil {
		return nil, err
	}
	defer infrastructure.SyncLogger(logger)

	corpus := service.NewCorpusService(cfg.Corpus.Path, otel.Tracer("conlit"), logger)
	if corpus.Index().Len() == 0 {
		// surface the load error instead of reporting an empty corpus
		if err := corpus.Reload(ctx); err != nil {
			return nil, err
		}
	}
	return corpus, nil
}
