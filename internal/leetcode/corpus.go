package leetcode

import (
	"context"
	"fmt"

	"github.com/conlit/backend/internal/data"
	"github.com/conlit/backend/internal/domain"
)

// FetchAllContests lists every contest LeetCode knows about
func (c *Client) FetchAllContests(ctx context.Context) ([]domain.ContestInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var out struct {
		AllContests []domain.ContestInfo `json:"allContests"`
	}
	if err := c.query(ctx, "allContests", allContestsQuery, map[string]any{}, nil, &out); err != nil {
		return nil, domain.NewFetchError("contests", err)
	}
	return out.AllContests, nil
}

// FetchContestQuestions lists the questions of a contest
func (c *Client) FetchContestQuestions(ctx context.Context, contestSlug string) ([]domain.QuestionRef, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var out struct {
		Contest *struct {
			Title     string               `json:"title"`
			Questions []domain.QuestionRef `json:"questions"`
		} `json:"contest"`
	}
	vars := map[string]any{"titleSlug": contestSlug}
	if err := c.query(ctx, "contestInfo", contestQuestionsQuery, vars, nil, &out); err != nil {
		return nil, domain.NewFetchError("contest "+contestSlug, err)
	}
	if out.Contest == nil {
		return nil, domain.NewFetchError("contest "+contestSlug, fmt.Errorf("contest not found"))
	}
	return out.Contest.Questions, nil
}

// FetchQuestion returns the metadata of a single question
func (c *Client) FetchQuestion(ctx context.Context, titleSlug string) (*domain.Question, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var out struct {
		Question *data.RawQuestion `json:"question"`
	}
	vars := map[string]any{"titleSlug": titleSlug}
	if err := c.query(ctx, "questionData", questionQuery, vars, nil, &out); err != nil {
		return nil, domain.NewFetchError("question "+titleSlug, err)
	}
	if out.Question == nil {
		return nil, domain.ErrQuestionNotFound
	}

	q := out.Question.ToQuestion("")
	return &q, nil
}
