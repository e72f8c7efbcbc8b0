package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/infrastructure"
)

// IndexProvider hands out the current question index
type IndexProvider interface {
	Index() domain.QuestionIndex
}

// AnalysisRequest describes one analysis call
type AnalysisRequest struct {
	Username string
	Auth     domain.AuthContext
	// Coach attaches a coaching plan to the result
	Coach bool
	// Seed, when set, randomizes suggestion and tie order reproducibly
	Seed *int64
}

// AnalysisService composes the remote feed, the corpus and the analyzers
type AnalysisService struct {
	source          domain.LeetCodeSource
	corpus          IndexProvider
	solved          *SolvedSetResolver
	coach           domain.CoachingPlanGenerator
	config          *infrastructure.AnalysisConfig
	submissionLimit int
	tracer          trace.Tracer
	metrics         *infrastructure.TelemetryMetrics
	logger          *zap.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	source domain.LeetCodeSource,
	corpus IndexProvider,
	solved *SolvedSetResolver,
	coach domain.CoachingPlanGenerator,
	config *infrastructure.AnalysisConfig,
	submissionLimit int,
	tracer trace.Tracer,
	metrics *infrastructure.TelemetryMetrics,
	logger *zap.Logger,
) *AnalysisService {
	if submissionLimit <= 0 {
		submissionLimit = domain.DefaultSubmissionLimit
	}
	return &AnalysisService{
		source:          source,
		corpus:          corpus,
		solved:          solved,
		coach:           coach,
		config:          config,
		submissionLimit: submissionLimit,
		tracer:          tracer,
		metrics:         metrics,
		logger:          logger,
	}
}

// GetProfile returns the user's public profile
func (s *AnalysisService) GetProfile(ctx context.Context, username string) (*domain.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.GetProfile")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))
	return s.source.FetchProfile(ctx, username)
}

// PerformanceSummary returns the user's ranking and submission stats
func (s *AnalysisService) PerformanceSummary(ctx context.Context, username string) (*domain.PerformanceSummary, error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.PerformanceSummary")
	defer span.End()
	defer s.observe(ctx, "performance_summary", time.Now())

	span.SetAttributes(attribute.String("username", username))

	profile, err := s.source.FetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	summary := profile.ToSummary()
	return &summary, nil
}

// TopicGaps returns the topics the user has not covered with practice suggestions
func (s *AnalysisService) TopicGaps(ctx context.Context, req AnalysisRequest) (*domain.TopicGapReport, error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.TopicGaps")
	defer span.End()
	defer s.observe(ctx, "topic_gaps", time.Now())

	span.SetAttributes(attribute.String("username", req.Username))

	states, err := s.classify(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	solved, err := s.solved.Resolve(ctx, req.Username, req.Auth, states)
	if err != nil {
		return nil, err
	}

	index := s.corpus.Index()
	gaps := s.topicGaps(index, states, solved, req.Seed)

	report := &domain.TopicGapReport{
		Username:          req.Username,
		TopicGaps:         gaps,
		SolvedSource:      solved.Source,
		SolvedSourceError: solved.Warning,
	}

	if req.Coach {
		nemesis := SelectNemesis(states, s.nemesisPolicy(req.Seed))
		plan, err := s.coach.Generate(ctx, req.Username, domain.CoachingInput{
			TopicGaps:       gaps,
			NemesisProblems: nemesis,
			RelatedProblems: FindRelatedProblems(nemesis, index, s.config.RelatedPerKey),
		})
		if err != nil {
			return nil, err
		}
		report.CoachingPlan = plan
	}

	return report, nil
}

// NemesisProblems returns the user's most retried or unsolved problems and
// corpus questions sharing their topic combinations
func (s *AnalysisService) NemesisProblems(ctx context.Context, req AnalysisRequest) (*domain.NemesisReport, error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.NemesisProblems")
	defer span.End()
	defer s.observe(ctx, "nemesis_problems", time.Now())

	span.SetAttributes(attribute.String("username", req.Username))

	states, err := s.classify(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	nemesis := SelectNemesis(states, s.nemesisPolicy(req.Seed))
	related := FindRelatedProblems(nemesis, s.corpus.Index(), s.config.RelatedPerKey)

	span.SetAttributes(
		attribute.Int("nemesis.count", len(nemesis)),
		attribute.Int("related.keys", len(related)),
	)

	report := &domain.NemesisReport{
		Username:        req.Username,
		NemesisProblems: nemesis,
		RelatedProblems: related,
	}

	if req.Coach {
		plan, err := s.coach.Generate(ctx, req.Username, domain.CoachingInput{
			NemesisProblems: nemesis,
			RelatedProblems: related,
		})
		if err != nil {
			return nil, err
		}
		report.CoachingPlan = plan
	}

	return report, nil
}

// UnsolvedContests lists attended contests where the user left problems unsolved
func (s *AnalysisService) UnsolvedContests(ctx context.Context, username string) (*domain.UnsolvedContests, error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.UnsolvedContests")
	defer span.End()
	defer s.observe(ctx, "unsolved_contests", time.Now())

	span.SetAttributes(attribute.String("username", username))

	history, err := s.source.FetchContestHistory(ctx, username)
	if err != nil {
		return nil, err
	}

	contests := make([]string, 0)
	for _, p := range history.History {
		if s.config.UnsolvedContestLimit > 0 && len(contests) >= s.config.UnsolvedContestLimit {
			break
		}
		if p.IsUnfinished() {
			contests = append(contests, p.Contest.Title)
		}
	}
	return &domain.UnsolvedContests{Contests: contests}, nil
}

// FullAnalysis computes every facet concurrently. Facets fail independently,
// except that an unknown user or an empty submissions feed fails the whole
// analysis.
func (s *AnalysisService) FullAnalysis(ctx context.Context, req AnalysisRequest) (*domain.FullAnalysis, error) {
	ctx, span := s.tracer.Start(ctx, "AnalysisService.FullAnalysis")
	defer span.End()
	defer s.observe(ctx, "full_analysis", time.Now())

	span.SetAttributes(
		attribute.String("username", req.Username),
		attribute.Bool("coach", req.Coach),
	)

	result := &domain.FullAnalysis{Username: req.Username}
	index := s.corpus.Index()

	var (
		states    map[string]domain.AttemptState
		statesErr error
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.PerformanceSummary(gctx, req.Username)
		if err != nil {
			result.PerformanceSummary = domain.NewFacet(domain.PerformanceSummary{}, err)
			return nil
		}
		result.PerformanceSummary = domain.NewFacet(*summary, nil)
		return nil
	})

	g.Go(func() error {
		unsolved, err := s.UnsolvedContests(gctx, req.Username)
		if err != nil {
			result.UnsolvedContests = domain.NewFacet[[]string](nil, err)
			return nil
		}
		result.UnsolvedContests = domain.NewFacet(unsolved.Contests, nil)
		return nil
	})

	g.Go(func() error {
		states, statesErr = s.classify(gctx, req.Username)
		if statesErr != nil {
			result.NemesisProblems = domain.NewFacet[domain.NemesisSet](nil, statesErr)
			result.RelatedProblems = domain.NewFacet[domain.RelatedProblems](nil, statesErr)
			result.TopicGaps = domain.NewFacet[domain.TopicGaps](nil, statesErr)
			return nil
		}

		nemesis := SelectNemesis(states, s.nemesisPolicy(req.Seed))
		result.NemesisProblems = domain.NewFacet(nemesis, nil)
		result.RelatedProblems = domain.NewFacet(FindRelatedProblems(nemesis, index, s.config.RelatedPerKey), nil)

		solved, err := s.solved.Resolve(gctx, req.Username, req.Auth, states)
		if err != nil {
			result.TopicGaps = domain.NewFacet[domain.TopicGaps](nil, err)
			return nil
		}
		result.SolvedSource = solved.Source
		result.SolvedSourceError = solved.Warning
		result.TopicGaps = domain.NewFacet(s.topicGaps(index, states, solved, req.Seed), nil)
		return nil
	})

	_ = g.Wait()

	if errors.Is(statesErr, domain.ErrNoSubmissions) {
		return nil, statesErr
	}
	if errors.Is(result.PerformanceSummary.Err, domain.ErrUserNotFound) || errors.Is(statesErr, domain.ErrUserNotFound) {
		return nil, domain.ErrUserNotFound
	}

	if req.Coach {
		input := domain.CoachingInput{
			TopicGaps:       result.TopicGaps.Value,
			NemesisProblems: result.NemesisProblems.Value,
			RelatedProblems: result.RelatedProblems.Value,
		}
		plan, err := s.coach.Generate(ctx, req.Username, input)
		facet := domain.NewFacet(plan, err)
		result.CoachingPlan = &facet
	}

	return result, nil
}

// classify fetches the submissions feed and folds it into attempt states
func (s *AnalysisService) classify(ctx context.Context, username string) (map[string]domain.AttemptState, error) {
	records, err := s.source.FetchRecentSubmissions(ctx, username, s.submissionLimit)
	if err != nil {
		return nil, err
	}
	return ClassifySubmissions(records)
}

// topicGaps excludes the full nemesis candidate set, not just the top-K,
// so a struggled-with question is never suggested as fresh practice
func (s *AnalysisService) topicGaps(
	index domain.QuestionIndex,
	states map[string]domain.AttemptState,
	solved domain.SolvedSet,
	seed *int64,
) domain.TopicGaps {
	exclude := NemesisCandidates(states, s.config.NemesisThreshold).Slugs()
	policy := GapPolicy{
		MaxTopics: s.config.GapMaxTopics,
		PerTopic:  s.config.GapPerTopic,
		Rand:      seededRand(seed),
	}
	return AnalyzeTopicGaps(index, solved.Slugs, exclude, policy)
}

func (s *AnalysisService) nemesisPolicy(seed *int64) NemesisPolicy {
	return NemesisPolicy{
		Threshold: s.config.NemesisThreshold,
		TopK:      s.config.NemesisTopK,
		Rand:      seededRand(seed),
	}
}

func (s *AnalysisService) observe(ctx context.Context, operation string, start time.Time) {
	s.metrics.AnalysisDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("operation", operation)),
	)
}

// seededRand returns a fresh generator per use so concurrent facets never share one
func seededRand(seed *int64) *rand.Rand {
	if seed == nil {
		return nil
	}
	return rand.New(rand.NewSource(*seed))
}
