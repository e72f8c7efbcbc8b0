package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/infrastructure"
)

// SolvedSetResolver decides which questions a user has solved.
//
// Without a session the solved set is the accepted slugs of the recent
// submissions feed. With a session the full solved list is fetched from
// LeetCode, or served from the cache while the user's total submission
// count is unchanged.
type SolvedSetResolver struct {
	source  domain.LeetCodeSource
	cache   domain.SolvedCacheRepository
	tracer  trace.Tracer
	metrics *infrastructure.TelemetryMetrics
	logger  *zap.Logger
}

// NewSolvedSetResolver creates a new resolver. cache may be nil to disable caching.
func NewSolvedSetResolver(
	source domain.LeetCodeSource,
	cache domain.SolvedCacheRepository,
	tracer trace.Tracer,
	metrics *infrastructure.TelemetryMetrics,
	logger *zap.Logger,
) *SolvedSetResolver {
	return &SolvedSetResolver{
		source:  source,
		cache:   cache,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve returns the solved set for username. states is the classified
// recent submissions feed used when no authoritative list is available.
// Only ErrUserNotFound is returned as an error; other failures of the
// authoritative path fall back to the submissions feed with a warning.
func (r *SolvedSetResolver) Resolve(
	ctx context.Context,
	username string,
	auth domain.AuthContext,
	states map[string]domain.AttemptState,
) (domain.SolvedSet, error) {
	ctx, span := r.tracer.Start(ctx, "SolvedSetResolver.Resolve")
	defer span.End()

	fromFeed := domain.SolvedSet{
		Slugs:  AcceptedSlugs(states),
		Source: domain.SolvedFromRecentSubmissions,
	}
	if !auth.HasSession() {
		span.SetAttributes(attribute.String("solved.source", string(fromFeed.Source)))
		return fromFeed, nil
	}

	solved, err := r.resolveAuthoritative(ctx, username, auth)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.SolvedSet{}, err
		}
		r.logger.Warn("Falling back to recent submissions for solved set",
			zap.String("username", username),
			zap.Error(err),
		)
		fromFeed.Warning = err.Error()
		span.SetAttributes(attribute.String("solved.source", string(fromFeed.Source)))
		return fromFeed, nil
	}

	span.SetAttributes(attribute.String("solved.source", string(solved.Source)))
	return solved, nil
}

func (r *SolvedSetResolver) resolveAuthoritative(ctx context.Context, username string, auth domain.AuthContext) (domain.SolvedSet, error) {
	count, err := r.source.FetchTotalSubmissionCount(ctx, username)
	if err != nil {
		return domain.SolvedSet{}, err
	}

	// A cache hit does not validate the session. The solved list is treated as
	// public data about username; the session only gates the remote fetch.
	if entry := r.lookupCache(ctx, username); entry != nil && entry.SubmissionCount == count {
		r.recordLookup(ctx, "hit")
		return domain.SolvedSet{
			Slugs:  domain.NewSlugSet(entry.SolvedSlugs...),
			Source: domain.SolvedFromCache,
		}, nil
	}
	r.recordLookup(ctx, "miss")

	titles, err := r.source.FetchAllSolvedTitles(ctx, username, auth)
	if err != nil {
		return domain.SolvedSet{}, err
	}

	slugs := make(domain.SlugSet, len(titles))
	for _, title := range titles {
		if slug := domain.Slugify(title); slug != "" {
			slugs.Add(slug)
		}
	}

	r.storeCache(ctx, username, count, slugs)
	return domain.SolvedSet{Slugs: slugs, Source: domain.SolvedFromAuthoritative}, nil
}

func (r *SolvedSetResolver) lookupCache(ctx context.Context, username string) *domain.SolvedCacheEntry {
	if r.cache == nil {
		return nil
	}
	entry, err := r.cache.Get(ctx, username)
	if err != nil {
		r.logger.Warn("Solved cache read failed", zap.String("username", username), zap.Error(err))
		return nil
	}
	return entry
}

func (r *SolvedSetResolver) storeCache(ctx context.Context, username string, count int, slugs domain.SlugSet) {
	if r.cache == nil {
		return
	}
	list := make([]string, 0, len(slugs))
	for slug := range slugs {
		list = append(list, slug)
	}
	sort.Strings(list)

	err := r.cache.Put(ctx, &domain.SolvedCacheEntry{
		Username:        username,
		SubmissionCount: count,
		SolvedSlugs:     list,
		UpdatedAt:       time.Now().UTC(),
	})
	if err != nil {
		r.logger.Warn("Solved cache write failed", zap.String("username", username), zap.Error(err))
	}
}

func (r *SolvedSetResolver) recordLookup(ctx context.Context, result string) {
	if r.cache == nil {
		return
	}
	r.metrics.SolvedCacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
