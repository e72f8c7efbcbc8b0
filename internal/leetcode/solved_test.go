package leetcode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conlit/backend/internal/domain"
)

func signedIn(username string) map[string]any {
	return dataBody(map[string]any{"userStatus": map[string]any{"isSignedIn": true, "username": username}})
}

func solvedPageBody(total int, titles ...string) map[string]any {
	questions := make([]map[string]any, len(titles))
	for i, title := range titles {
		questions[i] = map[string]any{"title": title, "titleSlug": domain.Slugify(title), "status": "ac"}
	}
	return dataBody(map[string]any{
		"problemsetQuestionList": map[string]any{"total": total, "questions": questions},
	})
}

func TestFetchAllSolvedTitles(t *testing.T) {
	pages := [][]string{
		{"Two Sum", "Add Two Numbers"},
		{"LRU Cache", "Word Ladder"},
		{"Trapping Rain Water"},
	}
	client, calls := newTestClient(t, func(t *testing.T, r *http.Request, req graphQLRequest) (int, any) {
		cookie, err := r.Cookie(domain.SessionCookieName)
		if assert.NoError(t, err) {
			assert.Equal(t, "sess", cookie.Value)
		}
		assert.Equal(t, "csrf", r.Header.Get(domain.CSRFHeaderName))

		switch req.OperationName {
		case "globalData":
			return http.StatusOK, signedIn("Alice")
		case "problemsetQuestionList":
			skip := int(req.Variables["skip"].(float64))
			page := skip / 2
			if page >= len(pages) {
				return http.StatusOK, solvedPageBody(5)
			}
			return http.StatusOK, solvedPageBody(5, pages[page]...)
		}
		return http.StatusBadRequest, nil
	})

	titles, err := client.FetchAllSolvedTitles(context.Background(), "alice", domain.AuthContext{Session: "sess", CSRFToken: "csrf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Two Sum", "Add Two Numbers", "LRU Cache", "Word Ladder", "Trapping Rain Water"}, titles)
	assert.EqualValues(t, 4, calls.Load(), "status check plus three pages, stopping at the reported total")
}

func TestFetchAllSolvedTitles_AuthFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
	}{
		{"signed out", http.StatusOK, dataBody(map[string]any{"userStatus": map[string]any{"isSignedIn": false}})},
		{"another user", http.StatusOK, signedIn("bob")},
		{"rejected", http.StatusForbidden, map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(t *testing.T, r *http.Request, req graphQLRequest) (int, any) {
				assert.Equal(t, "globalData", req.OperationName)
				return tt.status, tt.body
			})

			_, err := client.FetchAllSolvedTitles(context.Background(), "alice", domain.AuthContext{Session: "sess"})
			assert.ErrorIs(t, err, domain.ErrAuthentication)
		})
	}
}

func TestFetchAllSolvedTitles_NoSession(t *testing.T) {
	client, calls := newTestClient(t, func(t *testing.T, r *http.Request, req graphQLRequest) (int, any) {
		return http.StatusOK, nil
	})

	_, err := client.FetchAllSolvedTitles(context.Background(), "alice", domain.AuthContext{})
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.Zero(t, calls.Load())
}

func pagesOf(pages ...[]string) func(context.Context, int) (solvedPage, error) {
	return func(_ context.Context, page int) (solvedPage, error) {
		if page >= len(pages) {
			return solvedPage{}, nil
		}
		return solvedPage{Titles: pages[page]}, nil
	}
}

func TestPaginate_StopsOnEmptyPage(t *testing.T) {
	titles, err := paginate(context.Background(), 10, pagesOf([]string{"a", "b"}, []string{"c"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, titles)
}

func TestPaginate_StopsWhenNothingNew(t *testing.T) {
	fetched := 0
	repeat := func(_ context.Context, page int) (solvedPage, error) {
		fetched++
		return solvedPage{Titles: []string{"a", "b"}}, nil
	}

	titles, err := paginate(context.Background(), 10, repeat)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, titles)
	assert.Equal(t, 2, fetched)
}

func TestPaginate_BoundedByMaxPages(t *testing.T) {
	endless := func(_ context.Context, page int) (solvedPage, error) {
		return solvedPage{Titles: []string{fmt.Sprintf("q%d", page)}}, nil
	}

	titles, err := paginate(context.Background(), 3, endless)
	require.NoError(t, err)
	assert.Equal(t, []string{"q0", "q1", "q2"}, titles)
}

func TestPaginate_ErrorsAndCancellation(t *testing.T) {
	boom := errors.New("boom")
	_, err := paginate(context.Background(), 3, func(context.Context, int) (solvedPage, error) {
		return solvedPage{}, boom
	})
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = paginate(ctx, 3, pagesOf([]string{"a"}))
	assert.ErrorIs(t, err, context.Canceled)
}
