package service

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/repository"
)

func submission(title string, status domain.SubmissionStatus) domain.SubmissionRecord {
	return domain.SubmissionRecord{Title: title, Status: status, Timestamp: time.Unix(1700000000, 0)}
}

func question(title string, difficulty domain.Difficulty, topics ...string) domain.Question {
	return domain.Question{Title: title, Difficulty: difficulty, TopicTags: topics}
}

func TestClassifySubmissions(t *testing.T) {
	states, err := ClassifySubmissions([]domain.SubmissionRecord{
		submission("A", domain.StatusAccepted),
		submission("A", domain.StatusWrongAnswer),
		submission("B", domain.StatusAccepted),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AttemptState{Accepted: true, Attempts: 2}, states["a"])
	assert.Equal(t, domain.AttemptState{Accepted: true, Attempts: 1}, states["b"])

	nemesis := SelectNemesis(states, NemesisPolicy{Threshold: 1, TopK: 10})
	assert.True(t, nemesis.Slugs().Has("a"))
	assert.False(t, nemesis.Slugs().Has("b"))
}

func TestClassifySubmissions_EmptyIsFetchFailure(t *testing.T) {
	states, err := ClassifySubmissions(nil)

	assert.Nil(t, states)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoSubmissions))
	assert.True(t, domain.IsFetchFailure(err))
}

func TestClassifySubmissions_JoinsOnSlug(t *testing.T) {
	states, err := ClassifySubmissions([]domain.SubmissionRecord{
		submission("Pow(x, n)", domain.StatusRuntimeError),
		submission("pow x n", domain.StatusAccepted),
		submission("!!!", domain.StatusAccepted),
	})
	require.NoError(t, err)

	assert.Len(t, states, 1)
	assert.Equal(t, domain.AttemptState{Accepted: true, Attempts: 2}, states["pow-x-n"])
	assert.Equal(t, domain.NewSlugSet("pow-x-n"), AcceptedSlugs(states))
}

func TestNemesisCandidates_Ordering(t *testing.T) {
	states := map[string]domain.AttemptState{
		"easy-win":   {Accepted: true, Attempts: 1},
		"never-done": {Accepted: false, Attempts: 1},
		"grind":      {Accepted: true, Attempts: 6},
		"beta":       {Accepted: true, Attempts: 3},
		"alpha":      {Accepted: false, Attempts: 3},
	}

	got := NemesisCandidates(states, 1)

	var slugs []string
	for _, p := range got {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"grind", "alpha", "beta", "never-done"}, slugs)
}

func TestSelectNemesis_TopK(t *testing.T) {
	states := map[string]domain.AttemptState{}
	for i, slug := range []string{"a", "b", "c", "d", "e", "f"} {
		states[slug] = domain.AttemptState{Accepted: true, Attempts: i + 2}
	}

	got := SelectNemesis(states, NemesisPolicy{Threshold: 1, TopK: 3})

	require.Len(t, got, 3)
	assert.Equal(t, []int{7, 6, 5}, []int{got[0].Attempts, got[1].Attempts, got[2].Attempts})
}

func TestSelectNemesis_RandomizedTiesKeepStrictTopK(t *testing.T) {
	states := map[string]domain.AttemptState{
		"top":  {Accepted: true, Attempts: 9},
		"t1":   {Accepted: false, Attempts: 4},
		"t2":   {Accepted: false, Attempts: 4},
		"t3":   {Accepted: false, Attempts: 4},
		"low1": {Accepted: false, Attempts: 1},
		"low2": {Accepted: false, Attempts: 1},
	}

	policy := NemesisPolicy{Threshold: 1, TopK: 4, Rand: rand.New(rand.NewSource(7))}
	got := SelectNemesis(states, policy)

	require.Len(t, got, 4)
	assert.Equal(t, "top", got[0].Slug)
	for _, p := range got[1:] {
		assert.Equal(t, 4, p.Attempts)
	}

	again := SelectNemesis(states, NemesisPolicy{Threshold: 1, TopK: 4, Rand: rand.New(rand.NewSource(7))})
	assert.Equal(t, got, again, "same seed must give the same order")
}

func TestAnalyzeTopicGaps(t *testing.T) {
	index := repository.NewQuestionIndex([]domain.Question{
		question("Q1", domain.DifficultyEasy, "Array"),
		question("Q2", domain.DifficultyHard, "Array"),
		question("Q3", domain.DifficultyEasy, "DP"),
	})

	gaps := AnalyzeTopicGaps(index, domain.NewSlugSet("q3"), nil, DefaultGapPolicy())

	require.Len(t, gaps, 1)
	assert.Equal(t, "Array", gaps[0].Topic)
	assert.Contains(t, gaps[0].Suggestions, "q1")
	assert.NotContains(t, gaps[0].Suggestions, "q2")
}

func TestAnalyzeTopicGaps_ExcludesSolvedAndNemesis(t *testing.T) {
	index := repository.NewQuestionIndex([]domain.Question{
		question("Graph Tree Intro", domain.DifficultyEasy, "Graph", "Tree"),
		question("Fought Over", domain.DifficultyMedium, "Graph"),
		question("Fresh One", domain.DifficultyMedium, "Graph"),
		question("Tree Only", domain.DifficultyEasy, "Tree"),
	})

	solved := domain.NewSlugSet("missing-from-corpus")
	exclude := domain.NewSlugSet("fought-over")
	gaps := AnalyzeTopicGaps(index, solved, exclude, DefaultGapPolicy())

	require.Len(t, gaps, 2)
	assert.Equal(t, domain.TopicGap{Topic: "Graph", Suggestions: []string{"graph-tree-intro", "fresh-one"}}, gaps[0])
	assert.Equal(t, domain.TopicGap{Topic: "Tree", Suggestions: []string{"graph-tree-intro", "tree-only"}}, gaps[1])
}

func TestAnalyzeTopicGaps_Limits(t *testing.T) {
	var questions []domain.Question
	topics := []string{"T1", "T2", "T3", "T4", "T5", "T6", "T7"}
	for _, topic := range topics {
		for i := 0; i < 8; i++ {
			questions = append(questions, question(topic+" Q"+string(rune('a'+i)), domain.DifficultyMedium, topic))
		}
	}
	questions = append(questions, question("Hard Only", domain.DifficultyHard, "T0"))
	index := repository.NewQuestionIndex(questions)

	gaps := AnalyzeTopicGaps(index, nil, nil, DefaultGapPolicy())

	require.Len(t, gaps, 5)
	for i, gap := range gaps {
		assert.Equal(t, topics[i], gap.Topic)
		assert.Len(t, gap.Suggestions, 5)
		assert.Equal(t, domain.Slugify(gap.Topic+" Qa"), gap.Suggestions[0])
	}
}

func TestAnalyzeTopicGaps_SeededShuffle(t *testing.T) {
	var questions []domain.Question
	for _, topic := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		for i := 0; i < 9; i++ {
			questions = append(questions, question(topic+" "+string(rune('a'+i)), domain.DifficultyEasy, topic))
		}
	}
	index := repository.NewQuestionIndex(questions)

	policy := func() GapPolicy {
		p := DefaultGapPolicy()
		p.Rand = rand.New(rand.NewSource(42))
		return p
	}

	first := AnalyzeTopicGaps(index, nil, nil, policy())
	second := AnalyzeTopicGaps(index, nil, nil, policy())

	assert.Equal(t, first, second)
	require.Len(t, first, 5)
	for _, gap := range first {
		assert.Len(t, gap.Suggestions, 5)
		for _, slug := range gap.Suggestions {
			q, ok := index.BySlug(slug)
			require.True(t, ok)
			assert.True(t, q.HasTopics(gap.Topic))
		}
	}
}

func TestAnalyzeTopicGaps_EmptyCorpus(t *testing.T) {
	gaps := AnalyzeTopicGaps(repository.NewQuestionIndex(nil), domain.NewSlugSet("x"), nil, DefaultGapPolicy())
	assert.Empty(t, gaps)
}

func TestFindRelatedProblems(t *testing.T) {
	index := repository.NewQuestionIndex([]domain.Question{
		question("Nemesis", domain.DifficultyHard, "Array", "Hash Table", "Sorting"),
		question("R1", domain.DifficultyEasy, "Sorting", "Array", "Hash Table", "String"),
		question("R2", domain.DifficultyMedium, "Array", "Sorting"),
		question("R3", domain.DifficultyMedium, "Hash Table", "Array", "Sorting"),
	})
	nemesis := domain.NemesisSet{{Slug: "nemesis", Attempts: 4}}

	related := FindRelatedProblems(nemesis, index, DefaultRelatedPerKey)

	require.Len(t, related, 1)
	assert.Equal(t, "Array, Hash Table, Sorting", related[0].Key)
	assert.Equal(t, []string{"r1", "r3"}, related[0].Slugs)
}

func TestFindRelatedProblems_OmitsKeysWithoutMatches(t *testing.T) {
	index := repository.NewQuestionIndex([]domain.Question{
		question("Nemesis", domain.DifficultyHard, "Array", "Graph", "Math", "Tree"),
		question("Partial", domain.DifficultyEasy, "Array", "Graph", "Math"),
	})
	nemesis := domain.NemesisSet{{Slug: "nemesis", Attempts: 3}}

	related := FindRelatedProblems(nemesis, index, DefaultRelatedPerKey)

	require.Len(t, related, 1, "three of the four combinations have no match")
	assert.Equal(t, "Array, Graph, Math", related[0].Key)
	assert.Equal(t, []string{"partial"}, related[0].Slugs)
}

func TestFindRelatedProblems_FewerThanThreeTags(t *testing.T) {
	index := repository.NewQuestionIndex([]domain.Question{
		question("Two Tags", domain.DifficultyEasy, "Array", "Math"),
		question("Other", domain.DifficultyEasy, "Array", "Math", "Greedy"),
	})
	nemesis := domain.NemesisSet{{Slug: "two-tags", Attempts: 3}, {Slug: "not-in-corpus", Attempts: 2}}

	assert.Empty(t, FindRelatedProblems(nemesis, index, DefaultRelatedPerKey))
}

func TestFindRelatedProblems_GlobalCapPerKey(t *testing.T) {
	questions := []domain.Question{
		question("N1", domain.DifficultyHard, "A", "B", "C"),
		question("N2", domain.DifficultyHard, "C", "B", "A"),
	}
	for i := 0; i < 10; i++ {
		questions = append(questions, question("M"+string(rune('a'+i)), domain.DifficultyEasy, "A", "B", "C"))
	}
	index := repository.NewQuestionIndex(questions)
	nemesis := domain.NemesisSet{{Slug: "n1", Attempts: 5}, {Slug: "n2", Attempts: 4}}

	related := FindRelatedProblems(nemesis, index, 4)

	require.Len(t, related, 1)
	assert.Equal(t, "A, B, C", related[0].Key)
	assert.Len(t, related[0].Slugs, 4)
	assert.Equal(t, []string{"n2", "ma", "mb", "mc"}, related[0].Slugs)
}

func TestTopicTriples(t *testing.T) {
	assert.Nil(t, topicTriples([]string{"a", "b"}))
	assert.Len(t, topicTriples([]string{"a", "b", "c"}), 1)
	assert.Len(t, topicTriples([]string{"a", "b", "c", "d", "e"}), 10)
	assert.Equal(t, "Array, Graph, Tree", combinationKey([3]string{"Tree", "Array", "Graph"}))
}
