package service

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/conlit/backend/internal/domain"
)

func testTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("test")
}

// fakeSource is an in-memory domain.LeetCodeSource and domain.CorpusSource
type fakeSource struct {
	mu sync.Mutex

	submissions    []domain.SubmissionRecord
	submissionsErr error
	profile        *domain.Profile
	profileErr     error
	history        *domain.ContestHistory
	historyErr     error
	count          int
	countErr       error
	solvedTitles   []string
	solvedErr      error

	contests  []domain.ContestInfo
	questions map[string][]domain.QuestionRef
	details   map[string]*domain.Question

	submissionCalls int
	solvedCalls     int
	questionCalls   int
}

var (
	_ domain.LeetCodeSource = (*fakeSource)(nil)
	_ domain.CorpusSource   = (*fakeSource)(nil)
)

func (f *fakeSource) FetchRecentSubmissions(_ context.Context, _ string, _ int) ([]domain.SubmissionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissionCalls++
	return f.submissions, f.submissionsErr
}

func (f *fakeSource) FetchProfile(_ context.Context, username string) (*domain.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile == nil {
		return &domain.Profile{Username: username}, nil
	}
	return f.profile, nil
}

func (f *fakeSource) FetchContestHistory(_ context.Context, _ string) (*domain.ContestHistory, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if f.history == nil {
		return &domain.ContestHistory{}, nil
	}
	return f.history, nil
}

func (f *fakeSource) FetchTotalSubmissionCount(_ context.Context, _ string) (int, error) {
	return f.count, f.countErr
}

func (f *fakeSource) FetchAllSolvedTitles(_ context.Context, _ string, auth domain.AuthContext) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.solvedCalls++
	if !auth.HasSession() {
		return nil, domain.ErrAuthentication
	}
	return f.solvedTitles, f.solvedErr
}

func (f *fakeSource) FetchAllContests(_ context.Context) ([]domain.ContestInfo, error) {
	return f.contests, nil
}

func (f *fakeSource) FetchContestQuestions(_ context.Context, contestSlug string) ([]domain.QuestionRef, error) {
	refs, ok := f.questions[contestSlug]
	if !ok {
		return nil, domain.NewFetchError("contest questions", errors.New("contest not found"))
	}
	return refs, nil
}

func (f *fakeSource) FetchQuestion(_ context.Context, titleSlug string) (*domain.Question, error) {
	f.mu.Lock()
	f.questionCalls++
	f.mu.Unlock()
	q, ok := f.details[titleSlug]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return q, nil
}

// failingCache is a solved cache whose every operation fails
type failingCache struct{}

func (failingCache) Get(context.Context, string) (*domain.SolvedCacheEntry, error) {
	return nil, errors.New("cache down")
}

func (failingCache) Put(context.Context, *domain.SolvedCacheEntry) error {
	return errors.New("cache down")
}
