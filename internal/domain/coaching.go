package domain

import "context"

// Caps applied to every coaching plan
const (
	MaxFocusAreas        = 3
	MaxSuggestedProblems = 5
)

// CoachingInput is the structured analysis handed to the plan generator
type CoachingInput struct {
	TopicGaps       TopicGaps       `json:"topic_gaps"`
	NemesisProblems NemesisSet      `json:"nemesis_problems"`
	RelatedProblems RelatedProblems `json:"related_problems"`
}

// IsEmpty reports whether there is nothing to coach on
func (in CoachingInput) IsEmpty() bool {
	return len(in.TopicGaps) == 0 && len(in.NemesisProblems) == 0 && len(in.RelatedProblems) == 0
}

// FocusArea is a topic the user should concentrate on
type FocusArea struct {
	Topic  string `json:"topic"`
	Reason string `json:"reason"`
}

// SuggestedProblem is a concrete practice recommendation
type SuggestedProblem struct {
	Slug       string     `json:"slug"`
	Reason     string     `json:"reason"`
	Difficulty Difficulty `json:"difficulty"`
}

// CoachingPlan is the natural-language plan produced from an analysis
type CoachingPlan struct {
	Introduction      string             `json:"introduction"`
	FocusAreas        []FocusArea        `json:"focus_areas"`
	SuggestedProblems []SuggestedProblem `json:"suggested_problems"`
}

// Truncate enforces the focus area and suggestion caps in place
func (p *CoachingPlan) Truncate() {
	if len(p.FocusAreas) > MaxFocusAreas {
		p.FocusAreas = p.FocusAreas[:MaxFocusAreas]
	}
	if len(p.SuggestedProblems) > MaxSuggestedProblems {
		p.SuggestedProblems = p.SuggestedProblems[:MaxSuggestedProblems]
	}
}

// CoachingPlanGenerator turns an analysis into a coaching plan.
// Malformed generator output is reported as *GenerationError.
type CoachingPlanGenerator interface {
	Generate(ctx context.Context, username string, input CoachingInput) (*CoachingPlan, error)
}
