package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/conlit/backend/internal/data"
	"github.com/conlit/backend/internal/domain"
)

// CrawlOptions controls a corpus crawl
type CrawlOptions struct {
	// Path is the corpus file to extend
	Path string
	// MaxContests stops after this many newly stored contests; 0 means no limit
	MaxContests int
}

// CrawlResult summarizes a corpus crawl
type CrawlResult struct {
	Listed    int `json:"listed"`
	Skipped   int `json:"skipped"`
	Stored    int `json:"stored"`
	Failed    int `json:"failed"`
	Questions int `json:"questions"`
}

// CorpusCrawler builds the local question corpus from the remote catalog.
// Contests already in the corpus file are skipped, and the file is rewritten
// after every stored contest so an interrupted crawl resumes where it stopped.
type CorpusCrawler struct {
	source domain.CorpusSource
	tracer trace.Tracer
	logger *zap.Logger
}

// NewCorpusCrawler creates a new corpus crawler
func NewCorpusCrawler(source domain.CorpusSource, tracer trace.Tracer, logger *zap.Logger) *CorpusCrawler {
	return &CorpusCrawler{
		source: source,
		tracer: tracer,
		logger: logger,
	}
}

// Crawl fetches every contest missing from the corpus at opts.Path
func (c *CorpusCrawler) Crawl(ctx context.Context, opts CrawlOptions) (*CrawlResult, error) {
	ctx, span := c.tracer.Start(ctx, "CorpusCrawler.Crawl")
	defer span.End()

	corpus, err := data.LoadCorpusFileOrEmpty(opts.Path)
	if err != nil {
		return nil, err
	}

	contests, err := c.source.FetchAllContests(ctx)
	if err != nil {
		return nil, err
	}

	result := &CrawlResult{Listed: len(contests)}
	c.logger.Info("Contest list retrieved",
		zap.Int("contests", len(contests)),
		zap.Int("stored", corpus.Len()),
	)

	for _, contest := range contests {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if opts.MaxContests > 0 && result.Stored >= opts.MaxContests {
			break
		}
		if contest.TitleSlug == "" || corpus.Has(contest.TitleSlug) {
			result.Skipped++
			continue
		}

		entry, err := c.crawlContest(ctx, contest)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failed++
			c.logger.Warn("Skipping contest",
				zap.String("contest", contest.TitleSlug),
				zap.Error(err),
			)
			continue
		}

		corpus.Put(contest.TitleSlug, entry)
		if err := data.WriteCorpusFile(opts.Path, corpus); err != nil {
			return result, err
		}
		result.Stored++
		result.Questions += len(entry.Questions)

		c.logger.Info("Contest stored",
			zap.String("contest", contest.TitleSlug),
			zap.Int("questions", len(entry.Questions)),
		)
	}

	span.SetAttributes(
		attribute.Int("crawl.stored", result.Stored),
		attribute.Int("crawl.failed", result.Failed),
	)
	return result, nil
}

func (c *CorpusCrawler) crawlContest(ctx context.Context, contest domain.ContestInfo) (*data.CorpusContest, error) {
	refs, err := c.source.FetchContestQuestions(ctx, contest.TitleSlug)
	if err != nil {
		return nil, err
	}

	entry := &data.CorpusContest{
		Title:     contest.Title,
		TitleSlug: contest.TitleSlug,
		StartTime: contest.StartTime,
	}
	for _, ref := range refs {
		q, err := c.source.FetchQuestion(ctx, ref.TitleSlug)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("Skipping question",
				zap.String("contest", contest.TitleSlug),
				zap.String("question", ref.TitleSlug),
				zap.Error(err),
			)
			continue
		}
		raw := data.RawFromQuestion(*q)
		entry.Questions = append(entry.Questions, &raw)
	}

	if len(entry.Questions) == 0 {
		return nil, fmt.Errorf("no question details found for %s", contest.TitleSlug)
	}
	return entry, nil
}
