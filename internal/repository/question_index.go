package repository

import (
	"github.com/conlit/backend/internal/domain"
)

// QuestionIndex implements domain.QuestionIndex over an in-memory corpus.
// It is built once and never mutated, so it is safe for concurrent readers.
// Returned slices are shared and must not be modified by callers.
type QuestionIndex struct {
	bySlug  map[string]*domain.Question
	slugs   []string
	byTopic map[string][]*domain.Question
	topics  []string
}

// NewQuestionIndex indexes questions by slug and by topic in corpus order.
// When two titles normalize to the same slug the later question wins the
// slug lookup while the slug keeps its first position.
func NewQuestionIndex(questions []domain.Question) *QuestionIndex {
	idx := &QuestionIndex{
		bySlug:  make(map[string]*domain.Question, len(questions)),
		slugs:   make([]string, 0, len(questions)),
		byTopic: make(map[string][]*domain.Question),
	}

	for i := range questions {
		q := questions[i]
		if q.Slug == "" {
			q.Slug = domain.Slugify(q.Title)
		}
		if q.Slug == "" {
			continue
		}
		q.TopicTags = dedupe(q.TopicTags)

		if _, seen := idx.bySlug[q.Slug]; !seen {
			idx.slugs = append(idx.slugs, q.Slug)
		}
		idx.bySlug[q.Slug] = &q

		for _, topic := range q.TopicTags {
			if _, seen := idx.byTopic[topic]; !seen {
				idx.topics = append(idx.topics, topic)
			}
			idx.byTopic[topic] = append(idx.byTopic[topic], &q)
		}
	}

	return idx
}

// BySlug returns the question stored under slug
func (idx *QuestionIndex) BySlug(slug string) (*domain.Question, bool) {
	q, ok := idx.bySlug[slug]
	return q, ok
}

// ByTopic returns the questions tagged with topic in corpus order
func (idx *QuestionIndex) ByTopic(topic string) []*domain.Question {
	return idx.byTopic[topic]
}

// Topics returns every topic in first-seen order
func (idx *QuestionIndex) Topics() []string {
	return idx.topics
}

// All returns one question per slug in first-insertion order
func (idx *QuestionIndex) All() []*domain.Question {
	all := make([]*domain.Question, 0, len(idx.slugs))
	for _, slug := range idx.slugs {
		all = append(all, idx.bySlug[slug])
	}
	return all
}

// Len returns the number of distinct slugs
func (idx *QuestionIndex) Len() int {
	return len(idx.slugs)
}

// dedupe drops empty and repeated tags, keeping first occurrences
func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

var _ domain.QuestionIndex = (*QuestionIndex)(nil)
