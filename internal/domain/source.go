package domain

import "context"

// DefaultSubmissionLimit is the recent-submissions cap used by the analyses
const DefaultSubmissionLimit = 1000

// LeetCodeSource is the remote submission and profile source.
//
// FetchAllSolvedTitles returns ErrAuthentication when the session is absent,
// invalid or belongs to another user, and ErrUserNotFound for unknown users.
// Transport failures are reported as *FetchError.
type LeetCodeSource interface {
	FetchRecentSubmissions(ctx context.Context, username string, limit int) ([]SubmissionRecord, error)
	FetchProfile(ctx context.Context, username string) (*Profile, error)
	FetchContestHistory(ctx context.Context, username string) (*ContestHistory, error)
	FetchTotalSubmissionCount(ctx context.Context, username string) (int, error)
	FetchAllSolvedTitles(ctx context.Context, username string, auth AuthContext) ([]string, error)
}

// QuestionRef is a lightweight reference to a contest question
type QuestionRef struct {
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
}

// CorpusSource is the remote catalog used to build the local question corpus
type CorpusSource interface {
	FetchAllContests(ctx context.Context) ([]ContestInfo, error)
	FetchContestQuestions(ctx context.Context, contestSlug string) ([]QuestionRef, error)
	FetchQuestion(ctx context.Context, titleSlug string) (*Question, error)
}
