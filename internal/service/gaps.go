package service

import (
	"math/rand"

	"github.com/conlit/backend/internal/domain"
)

// GapPolicy controls topic gap selection.
//
// Without Rand the gap topics follow the index topic order and suggestions
// follow corpus order. With Rand every eligible suggestion is shuffled before
// the per-topic cut and gap topics are shuffled before the topic cut.
type GapPolicy struct {
	MaxTopics int
	PerTopic  int
	Rand      *rand.Rand
}

// DefaultGapPolicy suggests up to 5 questions for up to 5 topics
func DefaultGapPolicy() GapPolicy {
	return GapPolicy{MaxTopics: 5, PerTopic: 5}
}

// AnalyzeTopicGaps finds topics not covered by any solved question and
// suggests Easy and Medium questions for each. Slugs in solved or exclude are
// never suggested. Topics with no eligible question are dropped.
func AnalyzeTopicGaps(index domain.QuestionIndex, solved, exclude domain.SlugSet, policy GapPolicy) domain.TopicGaps {
	covered := make(map[string]struct{})
	for slug := range solved {
		q, ok := index.BySlug(slug)
		if !ok {
			continue
		}
		for _, topic := range q.TopicTags {
			covered[topic] = struct{}{}
		}
	}

	var gapTopics []string
	for _, topic := range index.Topics() {
		if _, ok := covered[topic]; !ok {
			gapTopics = append(gapTopics, topic)
		}
	}
	if policy.Rand != nil {
		policy.Rand.Shuffle(len(gapTopics), func(i, j int) {
			gapTopics[i], gapTopics[j] = gapTopics[j], gapTopics[i]
		})
	}

	gaps := make(domain.TopicGaps, 0)
	for _, topic := range gapTopics {
		if policy.MaxTopics > 0 && len(gaps) >= policy.MaxTopics {
			break
		}
		suggestions := suggestForTopic(index.ByTopic(topic), solved, exclude, policy)
		if len(suggestions) == 0 {
			continue
		}
		gaps = append(gaps, domain.TopicGap{Topic: topic, Suggestions: suggestions})
	}
	return gaps
}

func suggestForTopic(questions []*domain.Question, solved, exclude domain.SlugSet, policy GapPolicy) []string {
	limit := policy.PerTopic
	if policy.Rand != nil {
		limit = 0
	}

	seen := make(domain.SlugSet)
	var picked []string
	for _, q := range questions {
		if limit > 0 && len(picked) >= limit {
			break
		}
		if q.Difficulty != domain.DifficultyEasy && q.Difficulty != domain.DifficultyMedium {
			continue
		}
		if solved.Has(q.Slug) || exclude.Has(q.Slug) || seen.Has(q.Slug) {
			continue
		}
		seen.Add(q.Slug)
		picked = append(picked, q.Slug)
	}

	if policy.Rand != nil {
		policy.Rand.Shuffle(len(picked), func(i, j int) {
			picked[i], picked[j] = picked[j], picked[i]
		})
		if policy.PerTopic > 0 && len(picked) > policy.PerTopic {
			picked = picked[:policy.PerTopic]
		}
	}
	return picked
}
