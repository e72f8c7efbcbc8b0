package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/conlit/backend/internal/data"
	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/repository"
)

// CorpusService owns the question index and swaps it atomically on reload
type CorpusService struct {
	path   string
	index  atomic.Pointer[repository.QuestionIndex]
	tracer trace.Tracer
	logger *zap.Logger
}

// NewCorpusService creates a corpus service and loads the corpus at path.
// A corpus that cannot be loaded leaves an empty index in place.
func NewCorpusService(
	path string,
	tracer trace.Tracer,
	logger *zap.Logger,
) *CorpusService {
	s := &CorpusService{
		path:   path,
		tracer: tracer,
		logger: logger,
	}
	s.index.Store(repository.NewQuestionIndex(nil))
	_ = s.Reload(context.Background())
	return s
}

// NewCorpusServiceFromIndex wraps an already built index
func NewCorpusServiceFromIndex(index *repository.QuestionIndex, tracer trace.Tracer, logger *zap.Logger) *CorpusService {
	s := &CorpusService{tracer: tracer, logger: logger}
	s.index.Store(index)
	return s
}

// Index returns the current question index
func (s *CorpusService) Index() domain.QuestionIndex {
	return s.index.Load()
}

// Reload re-reads the corpus file and swaps the index. On failure the current
// index stays in place and the load error is returned.
func (s *CorpusService) Reload(ctx context.Context) error {
	_, span := s.tracer.Start(ctx, "CorpusService.Reload")
	defer span.End()

	span.SetAttributes(attribute.String("corpus.path", s.path))

	corpus, err := data.LoadCorpusFile(s.path)
	if err != nil {
		s.logger.Warn("Question corpus unavailable, keeping the current index",
			zap.String("path", s.path),
			zap.Int("questions", s.Index().Len()),
			zap.Error(err),
		)
		span.RecordError(err)
		return fmt.Errorf("%w: %w", domain.ErrCorpusLoad, err)
	}

	index := repository.NewQuestionIndex(corpus.Questions())
	s.index.Store(index)

	span.SetAttributes(
		attribute.Int("corpus.contests", corpus.Len()),
		attribute.Int("corpus.questions", index.Len()),
	)
	s.logger.Info("Question corpus loaded",
		zap.String("path", s.path),
		zap.Int("contests", corpus.Len()),
		zap.Int("questions", index.Len()),
		zap.Int("topics", len(index.Topics())),
	)
	return nil
}

// Question returns a corpus question by slug
func (s *CorpusService) Question(ctx context.Context, slug string) (*domain.Question, error) {
	_, span := s.tracer.Start(ctx, "CorpusService.Question")
	defer span.End()

	span.SetAttributes(attribute.String("question.slug", slug))

	q, ok := s.Index().BySlug(domain.Slugify(slug))
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return q, nil
}

// Stats returns statistics about the indexed corpus
func (s *CorpusService) Stats(ctx context.Context) *domain.CorpusStats {
	_, span := s.tracer.Start(ctx, "CorpusService.Stats")
	defer span.End()

	index := s.Index()
	stats := &domain.CorpusStats{
		Total:        index.Len(),
		Topics:       len(index.Topics()),
		ByDifficulty: make(map[domain.Difficulty]int),
		ByTopic:      make(map[string]int),
	}

	for _, q := range index.All() {
		stats.ByDifficulty[q.Difficulty]++
		for _, topic := range q.TopicTags {
			stats.ByTopic[topic]++
		}
	}

	return stats
}
