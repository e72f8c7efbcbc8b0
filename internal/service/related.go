package service

import (
	"slices"
	"sort"
	"strings"

	"github.com/conlit/backend/internal/domain"
)

// DefaultRelatedPerKey caps the questions listed under one topic combination
const DefaultRelatedPerKey = 4

// FindRelatedProblems groups corpus questions sharing any three-topic
// combination of a nemesis problem. Keys are the sorted topic names joined
// with ", ". A key never holds more than perKey slugs no matter how many
// nemesis problems reach it, and keys without matches are omitted.
//
// This is a brute-force scan over the corpus for every combination; a
// topic to question inverted index is the way out if the corpus grows large.
func FindRelatedProblems(nemesis domain.NemesisSet, index domain.QuestionIndex, perKey int) domain.RelatedProblems {
	if perKey <= 0 {
		perKey = DefaultRelatedPerKey
	}

	var keys []string
	matches := make(map[string][]string)
	corpus := index.All()

	for _, n := range nemesis {
		q, ok := index.BySlug(n.Slug)
		if !ok || len(q.TopicTags) < 3 {
			continue
		}

		for _, combo := range topicTriples(q.TopicTags) {
			key := combinationKey(combo)
			list, seen := matches[key]
			if !seen {
				keys = append(keys, key)
			}

			for _, candidate := range corpus {
				if len(list) >= perKey {
					break
				}
				if candidate.Slug == q.Slug || slices.Contains(list, candidate.Slug) {
					continue
				}
				if candidate.HasTopics(combo[:]...) {
					list = append(list, candidate.Slug)
				}
			}
			matches[key] = list
		}
	}

	related := make(domain.RelatedProblems, 0, len(keys))
	for _, key := range keys {
		if len(matches[key]) == 0 {
			continue
		}
		related = append(related, domain.RelatedGroup{Key: key, Slugs: matches[key]})
	}
	return related
}

// topicTriples enumerates every 3-element combination of tags, preserving tag order
func topicTriples(tags []string) [][3]string {
	n := len(tags)
	if n < 3 {
		return nil
	}
	triples := make([][3]string, 0, n*(n-1)*(n-2)/6)
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			for k := j + 1; k < n; k++ {
				triples = append(triples, [3]string{tags[i], tags[j], tags[k]})
			}
		}
	}
	return triples
}

func combinationKey(combo [3]string) string {
	sorted := combo
	sort.Strings(sorted[:])
	return strings.Join(sorted[:], ", ")
}
