package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/infrastructure"
	"github.com/conlit/backend/internal/llm"
)

const coachPurpose = "coaching_plan"

var coachingPlanSchema = &llm.Schema{
	Name:        "coaching-plan",
	Description: "A personalized LeetCode coaching plan",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"introduction": map[string]any{"type": "string"},
			"focus_areas": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"topic":  map[string]any{"type": "string"},
						"reason": map[string]any{"type": "string"},
					},
					"required":             []string{"topic", "reason"},
					"additionalProperties": false,
				},
			},
			"suggested_problems": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"slug":   map[string]any{"type": "string"},
						"reason": map[string]any{"type": "string"},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []string{"Easy", "Medium", "Hard"},
						},
					},
					"required":             []string{"slug", "reason", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"introduction", "focus_areas", "suggested_problems"},
		"additionalProperties": false,
	},
}

// CoachService produces coaching plans from an analysis using a language model
type CoachService struct {
	provider  llm.Provider
	maxTokens int
	timeout   time.Duration
	tracer    trace.Tracer
	metrics   *infrastructure.TelemetryMetrics
	logger    *zap.Logger
}

var _ domain.CoachingPlanGenerator = (*CoachService)(nil)

// NewCoachService creates a new coach service. A nil provider makes every
// generation fail with ErrCoachUnavailable.
func NewCoachService(
	provider llm.Provider,
	maxTokens int,
	timeout time.Duration,
	tracer trace.Tracer,
	metrics *infrastructure.TelemetryMetrics,
	logger *zap.Logger,
) *CoachService {
	return &CoachService{
		provider:  provider,
		maxTokens: maxTokens,
		timeout:   timeout,
		tracer:    tracer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Generate asks the model for a coaching plan built from input
func (s *CoachService) Generate(ctx context.Context, username string, input domain.CoachingInput) (plan *domain.CoachingPlan, err error) {
	ctx, span := s.tracer.Start(ctx, "CoachService.Generate")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	if s.provider == nil {
		return nil, domain.ErrCoachUnavailable
	}
	if input.IsEmpty() {
		return nil, domain.ErrNothingToCoach
	}

	defer func() {
		infrastructure.RecordOutcome(ctx, s.metrics.CoachingGenerations, coachPurpose, err)
	}()

	prompt, err := buildCoachingPrompt(username, input)
	if err != nil {
		return nil, &domain.GenerationError{Err: err}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, coachPurpose), llm.Request{
		System:    "You are an expert LeetCode coach. Respond only with JSON matching the requested schema.",
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:    coachingPlanSchema,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		s.logger.Warn("Coaching plan generation failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, &domain.GenerationError{Err: err}
	}

	plan = &domain.CoachingPlan{}
	if err := json.Unmarshal(resp.Content, plan); err != nil {
		return nil, &domain.GenerationError{Err: fmt.Errorf("decode coaching plan: %w", err)}
	}
	plan.Truncate()

	s.logger.Info("Coaching plan generated",
		zap.String("username", username),
		zap.String("model", resp.Model),
		zap.Int("focus_areas", len(plan.FocusAreas)),
		zap.Int("suggested_problems", len(plan.SuggestedProblems)),
	)
	return plan, nil
}

func buildCoachingPrompt(username string, input domain.CoachingInput) (string, error) {
	gaps, err := json.MarshalIndent(input.TopicGaps, "", "  ")
	if err != nil {
		return "", err
	}
	nemesis, err := json.MarshalIndent(input.NemesisProblems, "", "  ")
	if err != nil {
		return "", err
	}
	related, err := json.MarshalIndent(input.RelatedProblems, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a personalized coaching plan for the user '%s'.\n\n", username)
	b.WriteString("**Analysis Data:**\n")
	b.WriteString("1. **Topic Gaps:** topics the user has not yet covered, with suggested practice problems:\n")
	b.Write(gaps)
	b.WriteString("\n\n2. **Nemesis Problems:** problems the user needed many attempts for or never solved, with attempt counts:\n")
	b.Write(nemesis)
	b.WriteString("\n\n3. **Related Problems:** problems sharing topic combinations with the nemesis problems:\n")
	b.Write(related)
	b.WriteString("\n\n**Your Task:**\n")
	b.WriteString("Return a JSON object with a brief, encouraging 'introduction', ")
	b.WriteString("a 'focus_areas' array of {topic, reason} objects ")
	b.WriteString("and a 'suggested_problems' array of {slug, reason, difficulty} objects.\n")
	fmt.Fprintf(&b, "Select at most %d focus areas and %d suggested problems in total. ",
		domain.MaxFocusAreas, domain.MaxSuggestedProblems)
	b.WriteString("Prioritize problems from the nemesis list and the related problems list.")
	return b.String(), nil
}
