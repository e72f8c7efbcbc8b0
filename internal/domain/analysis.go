package domain

import (
	"bytes"
	"encoding/json"
)

// NemesisProblem is a question the user either never solved or needed
// repeated attempts for
type NemesisProblem struct {
	Slug     string `json:"slug"`
	Attempts int    `json:"attempts"`
	Accepted bool   `json:"accepted"`
}

// NemesisSet is ranked by attempts descending. It encodes as an ordered
// object of slug to attempt count.
type NemesisSet []NemesisProblem

// Slugs returns the set of slugs in the nemesis set
func (n NemesisSet) Slugs() SlugSet {
	s := make(SlugSet, len(n))
	for _, p := range n {
		s.Add(p.Slug)
	}
	return s
}

func (n NemesisSet) MarshalJSON() ([]byte, error) {
	entries := make([]orderedEntry, len(n))
	for i, p := range n {
		entries[i] = orderedEntry{key: p.Slug, value: p.Attempts}
	}
	return marshalOrdered(entries)
}

// TopicGap is one uncovered topic with suggested practice questions
type TopicGap struct {
	Topic       string   `json:"topic"`
	Suggestions []string `json:"suggestions"`
}

// TopicGaps encodes as an ordered object of topic to suggested slugs
type TopicGaps []TopicGap

func (g TopicGaps) MarshalJSON() ([]byte, error) {
	entries := make([]orderedEntry, len(g))
	for i, gap := range g {
		entries[i] = orderedEntry{key: gap.Topic, value: gap.Suggestions}
	}
	return marshalOrdered(entries)
}

// RelatedGroup holds the questions sharing a three-topic combination.
// Key is the sorted topic names joined with ", ".
type RelatedGroup struct {
	Key   string   `json:"key"`
	Slugs []string `json:"slugs"`
}

// RelatedProblems encodes as an ordered object of combination key to slugs
type RelatedProblems []RelatedGroup

func (r RelatedProblems) MarshalJSON() ([]byte, error) {
	entries := make([]orderedEntry, len(r))
	for i, group := range r {
		entries[i] = orderedEntry{key: group.Key, value: group.Slugs}
	}
	return marshalOrdered(entries)
}

type orderedEntry struct {
	key   string
	value any
}

func marshalOrdered(entries []orderedEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Facet is one independently computed part of an analysis.
// It encodes as the value on success and as {"error": ...} on failure.
type Facet[T any] struct {
	Value T
	Err   error
}

// NewFacet builds a facet from a value/error pair
func NewFacet[T any](v T, err error) Facet[T] {
	return Facet[T]{Value: v, Err: err}
}

// OK reports whether the facet was computed successfully
func (f Facet[T]) OK() bool {
	return f.Err == nil
}

func (f Facet[T]) MarshalJSON() ([]byte, error) {
	if f.Err != nil {
		return json.Marshal(map[string]string{"error": f.Err.Error()})
	}
	return json.Marshal(f.Value)
}

// FullAnalysis is the combined analysis payload for a user
type FullAnalysis struct {
	Username           string                    `json:"username"`
	PerformanceSummary Facet[PerformanceSummary] `json:"performance_summary"`
	TopicGaps          Facet[TopicGaps]          `json:"topic_gaps"`
	NemesisProblems    Facet[NemesisSet]         `json:"nemesis_problems"`
	RelatedProblems    Facet[RelatedProblems]    `json:"related_problems"`
	UnsolvedContests   Facet[[]string]           `json:"unsolved_contests"`
	SolvedSource       SolvedSource              `json:"solved_source,omitempty"`
	SolvedSourceError  string                    `json:"solved_source_error,omitempty"`
	CoachingPlan       *Facet[*CoachingPlan]     `json:"coaching_plan,omitempty"`
}

// TopicGapReport is the payload of the topic gaps analysis
type TopicGapReport struct {
	Username          string        `json:"username"`
	TopicGaps         TopicGaps     `json:"topic_gaps"`
	SolvedSource      SolvedSource  `json:"solved_source"`
	SolvedSourceError string        `json:"solved_source_error,omitempty"`
	CoachingPlan      *CoachingPlan `json:"coaching_plan,omitempty"`
}

// NemesisReport is the payload of the nemesis problems analysis
type NemesisReport struct {
	Username        string          `json:"username"`
	NemesisProblems NemesisSet      `json:"nemesis_problems"`
	RelatedProblems RelatedProblems `json:"related_problems"`
	CoachingPlan    *CoachingPlan   `json:"coaching_plan,omitempty"`
}
