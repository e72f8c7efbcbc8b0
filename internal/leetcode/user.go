package leetcode

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/conlit/backend/internal/domain"
)

// fetchFailure maps a query error onto the domain taxonomy for source
func fetchFailure(source string, err error) error {
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) && gqlErr.userMissing() {
		return domain.ErrUserNotFound
	}
	return domain.NewFetchError(source, err)
}

// FetchProfile returns the user's public profile and submission stats
func (c *Client) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	var data struct {
		MatchedUser *domain.Profile `json:"matchedUser"`
	}
	err := c.query(ctx, "userPublicProfile", profileQuery, map[string]any{"username": username}, nil, &data)
	if err != nil {
		return nil, fetchFailure("profile", err)
	}
	if data.MatchedUser == nil {
		return nil, domain.ErrUserNotFound
	}
	return data.MatchedUser, nil
}

// FetchTotalSubmissionCount returns the user's lifetime submission count
func (c *Client) FetchTotalSubmissionCount(ctx context.Context, username string) (int, error) {
	var data struct {
		MatchedUser *struct {
			SubmitStats domain.SubmitStats `json:"submitStats"`
		} `json:"matchedUser"`
	}
	err := c.query(ctx, "userSubmissionCount", submissionCountQuery, map[string]any{"username": username}, nil, &data)
	if err != nil {
		return 0, fetchFailure("submission count", err)
	}
	if data.MatchedUser == nil {
		return 0, domain.ErrUserNotFound
	}

	total, ok := data.MatchedUser.SubmitStats.TotalSubmissions()
	if !ok {
		return 0, domain.NewFetchError("submission count", domain.ErrSourceMalformed)
	}
	return total, nil
}

// FetchContestHistory returns the user's contest ranking and per-contest history
func (c *Client) FetchContestHistory(ctx context.Context, username string) (*domain.ContestHistory, error) {
	var history domain.ContestHistory
	err := c.query(ctx, "userContestRankingInfo", contestHistoryQuery, map[string]any{"username": username}, nil, &history)
	if err != nil {
		return nil, fetchFailure("contest history", err)
	}
	return &history, nil
}

type recentSubmission struct {
	Title         string `json:"title"`
	TitleSlug     string `json:"titleSlug"`
	Timestamp     string `json:"timestamp"`
	StatusDisplay string `json:"statusDisplay"`
	Lang          string `json:"lang"`
}

// FetchRecentSubmissions returns up to limit of the user's most recent submissions.
// An empty feed is returned as an empty slice.
func (c *Client) FetchRecentSubmissions(ctx context.Context, username string, limit int) ([]domain.SubmissionRecord, error) {
	if limit <= 0 {
		limit = domain.DefaultSubmissionLimit
	}

	var data struct {
		RecentSubmissionList []recentSubmission `json:"recentSubmissionList"`
	}
	vars := map[string]any{"username": username, "limit": limit}
	if err := c.query(ctx, "recentSubmissions", recentSubmissionsQuery, vars, nil, &data); err != nil {
		return nil, fetchFailure("submissions", err)
	}

	records := make([]domain.SubmissionRecord, 0, len(data.RecentSubmissionList))
	for _, s := range data.RecentSubmissionList {
		records = append(records, domain.SubmissionRecord{
			Title:     s.Title,
			TitleSlug: s.TitleSlug,
			Status:    domain.ParseSubmissionStatus(s.StatusDisplay),
			Lang:      s.Lang,
			Timestamp: parseTimestamp(s.Timestamp),
		})
	}
	return records, nil
}

func parseTimestamp(s string) time.Time {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}
