package domain

import (
	"strings"
	"unicode"
)

// Difficulty represents the difficulty level of a question
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Weight returns a numeric weight for sorting by difficulty
func (d Difficulty) Weight() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 0
	}
}

// IsValid reports whether d is one of the known difficulty levels
func (d Difficulty) IsValid() bool {
	return d.Weight() > 0
}

// Question is a single contest question from the local corpus.
// Questions are built once when the corpus is indexed and never mutated.
type Question struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	TitleSlug   string     `json:"title_slug,omitempty"`
	QuestionID  string     `json:"question_id,omitempty"`
	FrontendID  string     `json:"frontend_id,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	TopicTags   []string   `json:"topics"`
	CompanyTags []string   `json:"companies,omitempty"`
	IsPaidOnly  bool       `json:"is_paid_only"`
	ContestSlug string     `json:"contest_slug,omitempty"`
}

// HasTopics reports whether every topic in topics is tagged on the question
func (q *Question) HasTopics(topics ...string) bool {
	for _, want := range topics {
		found := false
		for _, tag := range q.TopicTags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// QuestionIndex is the read-only lookup over the question corpus
type QuestionIndex interface {
	BySlug(slug string) (*Question, bool)
	ByTopic(topic string) []*Question
	Topics() []string
	All() []*Question
	Len() int
}

// CorpusStats represents statistics about the indexed corpus
type CorpusStats struct {
	Total        int                `json:"total"`
	Topics       int                `json:"topics"`
	ByDifficulty map[Difficulty]int `json:"by_difficulty"`
	ByTopic      map[string]int     `json:"by_topic"`
}

// Slugify derives the join key used between remote submission titles and the
// local corpus. Runs of non-word characters collapse to a single hyphen and
// edge hyphens are trimmed.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingSep := false
	for _, r := range strings.ToLower(title) {
		if isWordRune(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// SlugSet is a set of question slugs
type SlugSet map[string]struct{}

// NewSlugSet builds a set from the given slugs
func NewSlugSet(slugs ...string) SlugSet {
	s := make(SlugSet, len(slugs))
	for _, slug := range slugs {
		s[slug] = struct{}{}
	}
	return s
}

// Add inserts a slug into the set
func (s SlugSet) Add(slug string) {
	s[slug] = struct{}{}
}

// Has reports whether the slug is in the set
func (s SlugSet) Has(slug string) bool {
	_, ok := s[slug]
	return ok
}
