package domain

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Two Sum", "two-sum"},
		{"  Two   Sum  ", "two-sum"},
		{"Pow(x, n)", "pow-x-n"},
		{"Count Subarrays With Median K", "count-subarrays-with-median-k"},
		{"Make Two Arrays Equal by Reversing Sub-arrays", "make-two-arrays-equal-by-reversing-sub-arrays"},
		{"Minimum Cost to Make Array Equal (II)", "minimum-cost-to-make-array-equal-ii"},
		{"snake_case_title", "snake_case_title"},
		{"x² Sum", "x²-sum"},
		{"Chapter Ⅻ", "chapter-ⅻ"},
		{"Café ½ Off", "café-½-off"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugify_Properties(t *testing.T) {
	titles := []string{
		"Two Sum",
		"Longest Substring Without Repeating Characters",
		"  Leading and trailing ",
		"Pow(x, n)",
		"Sum of Subarray Minimums!!",
		"K-th Smallest in Lexicographical Order",
		"Über Straße",
		"a\tb\nc",
	}

	for _, title := range titles {
		slug := Slugify(title)

		assert.Equal(t, slug, Slugify(slug), "slugify must be idempotent for %q", title)
		assert.Equal(t, strings.ToLower(slug), slug, "slug must be lowercase for %q", title)
		assert.False(t, strings.HasPrefix(slug, "-"), "leading separator in %q", slug)
		assert.False(t, strings.HasSuffix(slug, "-"), "trailing separator in %q", slug)
		assert.NotContains(t, slug, "--", "separator runs must collapse in %q", slug)
		assert.False(t, strings.ContainsFunc(slug, unicode.IsSpace), "whitespace in %q", slug)
	}
}

func TestQuestionHasTopics(t *testing.T) {
	q := &Question{TopicTags: []string{"Array", "Hash Table", "Sorting"}}

	assert.True(t, q.HasTopics("Array", "Sorting"))
	assert.True(t, q.HasTopics())
	assert.False(t, q.HasTopics("Array", "Graph"))
}

func TestDifficulty(t *testing.T) {
	assert.True(t, DifficultyEasy.IsValid())
	assert.True(t, DifficultyHard.Weight() > DifficultyMedium.Weight())
	assert.False(t, Difficulty("Impossible").IsValid())
}

func TestParseSubmissionStatus(t *testing.T) {
	assert.Equal(t, StatusAccepted, ParseSubmissionStatus("Accepted"))
	assert.Equal(t, StatusTimeLimitExceeded, ParseSubmissionStatus("Time Limit Exceeded"))
	assert.Equal(t, StatusOther, ParseSubmissionStatus("Internal Error"))
	assert.Equal(t, StatusOther, ParseSubmissionStatus("accepted"))
}
