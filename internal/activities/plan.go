package activities

import (
	"context"
	"fmt"
	"strings"

	"go.temporal.io/sdk/activity"

	"github.com/praxis-intel/argus/internal/capabilities"
	"github.com/praxis-intel/argus/internal/metrics"
)

const plannerSystemPrompt = `You are the planning module of a political research assistant.
Decide whether the user's question can be answered directly from the
conversation so far, or which capabilities should be invoked to gather
information first.

Available capabilities:
%s
Rules:
- If the question is conversational or already answered by the history,
  set can_answer_directly to true and leave tools_to_use empty.
- Otherwise pick the smallest set of capabilities that covers the question.
- Only use capability names from the list above.

Respond in JSON:
{"can_answer_directly": false, "tools_to_use": ["web_search"], "reasoning": "..."}`

// PlanCapabilities asks the model which capabilities to run for the
// query. Planning never fails the workflow: an unusable model response
// falls back to the default capability.
func (a *Activities) PlanCapabilities(ctx context.Context, in PlanInput) (PlanDecision, error) {
	logger := activity.GetLogger(ctx)

	var user strings.Builder
	if len(in.History) > 0 {
		user.WriteString("Conversation so far:\n")
		for _, turn := range in.History {
			user.WriteString(turn + "\n")
		}
		user.WriteString("\n")
	}
	user.WriteString("Question: " + in.Query)

	var plan PlanDecision
	err := a.llm.CompleteJSON(ctx, fmt.Sprintf(plannerSystemPrompt, a.caps.Describe()), user.String(), &plan)
	if err != nil {
		metrics.LLMParseFailures.WithLabelValues("planner").Inc()
		logger.Warn("Planner output unusable, falling back to default capability", "error", err)
		return PlanDecision{
			ToolsToUse: []string{capabilities.DefaultCapability},
			Reasoning:  "planner output unusable, defaulting to web search",
		}, nil
	}

	// A direct answer excludes capability execution.
	if plan.CanAnswerDirectly {
		plan.ToolsToUse = nil
		return plan, nil
	}

	// Keep only known names; the executor tolerates unknowns but a plan
	// built purely from hallucinated capabilities is worthless.
	known := plan.ToolsToUse[:0]
	for _, name := range plan.ToolsToUse {
		if _, ok := a.caps.Get(name); ok {
			known = append(known, name)
		} else {
			logger.Warn("Planner selected unknown capability", "capability", name)
		}
	}
	plan.ToolsToUse = known
	if len(plan.ToolsToUse) == 0 {
		plan.ToolsToUse = []string{capabilities.DefaultCapability}
		if plan.Reasoning == "" {
			plan.Reasoning = "no usable capability selected, defaulting to web search"
		}
	}
	return plan, nil
}
