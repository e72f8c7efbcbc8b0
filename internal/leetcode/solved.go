package leetcode

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/conlit/backend/internal/domain"
)

// solvedPage is one page of the signed-in user's accepted questions
type solvedPage struct {
	Titles []string
	Total  int
}

// FetchAllSolvedTitles returns the titles of every question the session's
// owner has solved. The session must belong to username.
func (c *Client) FetchAllSolvedTitles(ctx context.Context, username string, auth domain.AuthContext) ([]string, error) {
	if !auth.HasSession() {
		return nil, domain.ErrAuthentication
	}

	if err := c.checkSession(ctx, username, auth); err != nil {
		return nil, err
	}

	titles, err := paginate(ctx, c.config.SolvedMaxPages, func(ctx context.Context, page int) (solvedPage, error) {
		return c.fetchSolvedPage(ctx, page, auth)
	})
	if err != nil {
		return nil, domain.NewFetchError("solved questions", err)
	}
	return titles, nil
}

func (c *Client) checkSession(ctx context.Context, username string, auth domain.AuthContext) error {
	var data struct {
		UserStatus *struct {
			IsSignedIn bool   `json:"isSignedIn"`
			Username   string `json:"username"`
		} `json:"userStatus"`
	}
	if err := c.query(ctx, "globalData", userStatusQuery, map[string]any{}, &auth, &data); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && (statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden) {
			return domain.ErrAuthentication
		}
		return domain.NewFetchError("session status", err)
	}

	if data.UserStatus == nil || !data.UserStatus.IsSignedIn {
		return domain.ErrAuthentication
	}
	if !strings.EqualFold(data.UserStatus.Username, username) {
		c.logger.Warn("Session belongs to another user",
			zap.String("requested", username),
			zap.String("signed_in", data.UserStatus.Username),
		)
		return domain.ErrAuthentication
	}
	return nil
}

func (c *Client) fetchSolvedPage(ctx context.Context, page int, auth domain.AuthContext) (solvedPage, error) {
	var data struct {
		List *struct {
			Total     int `json:"total"`
			Questions []struct {
				Title  string `json:"title"`
				Status string `json:"status"`
			} `json:"questions"`
		} `json:"problemsetQuestionList"`
	}
	vars := map[string]any{
		"categorySlug": "",
		"limit":        c.config.SolvedPageSize,
		"skip":         page * c.config.SolvedPageSize,
		"filters":      map[string]any{"status": "AC"},
	}
	if err := c.query(ctx, "problemsetQuestionList", solvedQuestionsQuery, vars, &auth, &data); err != nil {
		return solvedPage{}, err
	}
	if data.List == nil {
		return solvedPage{}, nil
	}

	out := solvedPage{Total: data.List.Total}
	for _, q := range data.List.Questions {
		if q.Status == "ac" || q.Status == "" {
			out.Titles = append(out.Titles, q.Title)
		}
	}
	return out, nil
}

// paginate fetches pages until maxPages is reached, a page is empty, a page adds
// no unseen title, the reported total is reached, or ctx is cancelled.
func paginate(ctx context.Context, maxPages int, fetch func(ctx context.Context, page int) (solvedPage, error)) ([]string, error) {
	seen := make(map[string]struct{})
	var titles []string

	for page := 0; page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(p.Titles) == 0 {
			break
		}

		added := 0
		for _, t := range p.Titles {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			titles = append(titles, t)
			added++
		}
		if added == 0 || (p.Total > 0 && len(titles) >= p.Total) {
			break
		}
	}
	return titles, nil
}
