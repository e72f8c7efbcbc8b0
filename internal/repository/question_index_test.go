package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conlit/backend/internal/domain"
)

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Title: "Two Sum", Difficulty: domain.DifficultyEasy, TopicTags: []string{"Array", "Hash Table"}},
		{Title: "Median of Two Sorted Arrays", Difficulty: domain.DifficultyHard, TopicTags: []string{"Array", "Binary Search", "Divide and Conquer"}},
		{Title: "Climbing Stairs", Difficulty: domain.DifficultyEasy, TopicTags: []string{"Math", "Dynamic Programming", "Memoization"}},
		{Title: "Group Anagrams", Difficulty: domain.DifficultyMedium, TopicTags: []string{"Array", "Hash Table", "String", "Sorting"}},
	}
}

func TestQuestionIndex_Lookups(t *testing.T) {
	idx := NewQuestionIndex(sampleQuestions())

	require.Equal(t, 4, idx.Len())

	q, ok := idx.BySlug("median-of-two-sorted-arrays")
	require.True(t, ok)
	assert.Equal(t, domain.DifficultyHard, q.Difficulty)

	_, ok = idx.BySlug("does-not-exist")
	assert.False(t, ok)

	var arraySlugs []string
	for _, q := range idx.ByTopic("Array") {
		arraySlugs = append(arraySlugs, q.Slug)
	}
	assert.Equal(t, []string{"two-sum", "median-of-two-sorted-arrays", "group-anagrams"}, arraySlugs)
	assert.Empty(t, idx.ByTopic("Graph"))

	assert.Equal(t, []string{
		"Array", "Hash Table", "Binary Search", "Divide and Conquer",
		"Math", "Dynamic Programming", "Memoization", "String", "Sorting",
	}, idx.Topics())
}

func TestQuestionIndex_BuildIsDeterministic(t *testing.T) {
	first := NewQuestionIndex(sampleQuestions())
	second := NewQuestionIndex(sampleQuestions())

	assert.Equal(t, first.Topics(), second.Topics())
	assert.Equal(t, first.All(), second.All())
	for _, topic := range first.Topics() {
		assert.Equal(t, first.ByTopic(topic), second.ByTopic(topic), "topic %s", topic)
	}
	for _, q := range first.All() {
		other, ok := second.BySlug(q.Slug)
		require.True(t, ok)
		assert.Equal(t, q, other)
	}
}

func TestQuestionIndex_SlugCollision(t *testing.T) {
	idx := NewQuestionIndex([]domain.Question{
		{Title: "Foo Bar", Difficulty: domain.DifficultyEasy, TopicTags: []string{"Array"}},
		{Title: "Other", Difficulty: domain.DifficultyEasy},
		{Title: "Foo, Bar!", Difficulty: domain.DifficultyHard, TopicTags: []string{"Array"}},
	})

	require.Equal(t, 2, idx.Len())
	q, ok := idx.BySlug("foo-bar")
	require.True(t, ok)
	assert.Equal(t, "Foo, Bar!", q.Title)
	assert.Equal(t, "foo-bar", idx.All()[0].Slug)
	assert.Len(t, idx.ByTopic("Array"), 2)
}

func TestQuestionIndex_SkipsUntitledAndDuplicateTags(t *testing.T) {
	idx := NewQuestionIndex([]domain.Question{
		{Title: "", Difficulty: domain.DifficultyEasy, TopicTags: []string{"Array"}},
		{Title: "Jump Game", Difficulty: domain.DifficultyMedium, TopicTags: []string{"Greedy", "Greedy", ""}},
	})

	assert.Equal(t, 1, idx.Len())
	q, _ := idx.BySlug("jump-game")
	assert.Equal(t, []string{"Greedy"}, q.TopicTags)
	assert.Len(t, idx.ByTopic("Greedy"), 1)
	assert.Empty(t, idx.ByTopic("Array"))
}

func TestQuestionIndex_Empty(t *testing.T) {
	idx := NewQuestionIndex(nil)

	assert.Zero(t, idx.Len())
	assert.Empty(t, idx.Topics())
	assert.Empty(t, idx.All())
}
