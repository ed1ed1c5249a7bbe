package workflows

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/praxis-intel/argus/internal/activities"
	"github.com/praxis-intel/argus/internal/capabilities"
	"github.com/praxis-intel/argus/internal/constants"
)

const defaultMaxIterations = 3

// Defaults carries the configured loop knobs into the workflow. Zero
// values fall back to the built-in constants, so an empty Defaults is
// always safe.
type Defaults struct {
	MaxIterations int
	Richness      RichnessThresholds
}

// NewResearchWorkflow binds configured defaults to the research workflow
// definition registered on the worker.
func NewResearchWorkflow(d Defaults) func(workflow.Context, TaskInput) (TaskResult, error) {
	return func(ctx workflow.Context, input TaskInput) (TaskResult, error) {
		return researchWorkflow(ctx, input, d)
	}
}

// ResearchWorkflow runs the research loop with built-in defaults.
func ResearchWorkflow(ctx workflow.Context, input TaskInput) (TaskResult, error) {
	return researchWorkflow(ctx, input, Defaults{})
}

// researchWorkflow orchestrates one research query: plan which
// capabilities to use, execute them in parallel, assess what came back,
// and let the decision gate choose between another pass with a fresh
// retry strategy and synthesis. Data-quality failures degrade the answer
// instead of failing the workflow.
func researchWorkflow(ctx workflow.Context, input TaskInput, defaults Defaults) (TaskResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ResearchWorkflow started",
		"query", input.Query,
		"session_id", input.SessionID,
	)

	if strings.TrimSpace(input.Query) == "" {
		return TaskResult{Success: false, ErrorMessage: "query is required"},
			errors.New("query is required")
	}

	maxIterations := input.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaults.MaxIterations
	}
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			// Capability failures come back encoded in the outcome; the
			// decision gate owns retries, not the Temporal retry policy.
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	state := NewRunState(input.Query)
	history := flattenHistory(input.History)

	// Plan.
	var plan activities.PlanDecision
	err := workflow.ExecuteActivity(ctx, constants.PlanCapabilitiesActivity, activities.PlanInput{
		Query:     input.Query,
		History:   history,
		SessionID: input.SessionID,
	}).Get(ctx, &plan)
	if err != nil {
		logger.Warn("Planner unavailable, defaulting to web search", "error", err)
		plan = activities.PlanDecision{
			ToolsToUse: []string{capabilities.WebSearch},
			Reasoning:  "planner unavailable, defaulting to web search",
		}
	}
	state.TaskPlan = plan.Reasoning
	state.ToolsToUse = plan.ToolsToUse
	state.AppendStep("plan", input.Query, planSummary(plan), workflow.Now(ctx))

	thresholds := defaults.Richness
	if thresholds == (RichnessThresholds{}) {
		thresholds = DefaultRichness()
	}
	var lastDecision GateDecision

	if plan.CanAnswerDirectly {
		logger.Info("Planner chose direct answer", "reasoning", plan.Reasoning)
	} else {
		var currentStrategy RetryStrategy
		for {
			// Executor fan-out: schedule every planned capability, then
			// collect. One capability's failure never aborts the others.
			futures := make([]workflow.Future, 0, len(state.ToolsToUse))
			for _, name := range state.ToolsToUse {
				futures = append(futures, workflow.ExecuteActivity(ctx,
					constants.ExecuteCapabilityActivity, activities.ExecuteCapabilityInput{
						Capability: name,
						Query:      state.CurrentMessage,
						Strategy:   string(currentStrategy),
						SessionID:  input.SessionID,
					}))
			}
			for i, f := range futures {
				var res activities.CapabilityResult
				if err := f.Get(ctx, &res); err != nil {
					name := state.ToolsToUse[i]
					res = activities.CapabilityResult{
						Outcome: activities.ToolOutcome{
							Capability: name,
							Kind:       outcomeKindFor(name),
							Error:      err.Error(),
						},
						InputSummary:  name + ": " + state.CurrentMessage,
						OutputSummary: "activity failed: " + err.Error(),
					}
				}
				state.RecordOutcome(res, workflow.Now(ctx))
			}

			assessment := AssessResults(state.ToolResults, state.SubAgentResults, thresholds)
			state.IterationCount++
			lastDecision = EvaluateGate(GateInput{
				Iteration:      state.IterationCount,
				MaxIterations:  maxIterations,
				HasGoodResults: assessment.HasGoodResults,
				HasAnyResults:  assessment.HasAnyResults,
				StrategiesUsed: state.RetryStrategiesUsed,
			})
			logger.Info("Decision gate evaluated",
				"state", string(lastDecision.State),
				"iteration", state.IterationCount,
				"result_count", assessment.ResultCount,
				"has_rich_data", assessment.HasRichData,
				"reason", lastDecision.Reason,
			)
			state.AppendStep("gate", gateSnapshot(lastDecision.Snapshot), lastDecision.Reason, workflow.Now(ctx))

			if lastDecision.State == GateProceed {
				state.HasSufficientInfo = assessment.HasGoodResults
				if lastDecision.IterationLimit {
					state.ErrorLog = append(state.ErrorLog,
						fmt.Sprintf("iteration limit of %d reached without usable results", maxIterations))
				}
				break
			}
			currentStrategy = lastDecision.NextStrategy
			state.RetryStrategiesUsed = append(state.RetryStrategiesUsed, currentStrategy)
		}
	}

	// Synthesize. A failed synthesis activity still yields an answer: the
	// deterministic fallback mirrors the one inside the activity.
	var synth activities.SynthesisResult
	err = workflow.ExecuteActivity(ctx, constants.SynthesizeActivity, activities.SynthesisInput{
		Query:             input.Query,
		History:           history,
		ToolResults:       state.ToolResults,
		SubAgentResults:   state.SubAgentResults,
		HasSufficientInfo: state.HasSufficientInfo,
		ErrorLog:          state.ErrorLog,
		Direct:            plan.CanAnswerDirectly,
	}).Get(ctx, &synth)
	if err != nil {
		logger.Error("Synthesis activity failed, using degraded response", "error", err)
		synth = activities.SynthesisResult{
			Response:   degradedResponse(input.Query),
			Confidence: 0.1,
			Degraded:   true,
		}
		state.ErrorLog = append(state.ErrorLog, "synthesis: "+err.Error())
	}
	state.FinalResponse = synth.Response
	state.Citations = synth.Citations
	state.ConfidenceScore = synth.Confidence
	state.AppendStep("synthesize", "", fmt.Sprintf("%d chars, confidence %.2f", len(synth.Response), synth.Confidence), workflow.Now(ctx))

	// Session update is best effort; losing a history turn never fails the run.
	if input.SessionID != "" {
		if err := workflow.ExecuteActivity(ctx, constants.UpdateSessionActivity, activities.SessionUpdateInput{
			SessionID: input.SessionID,
			Query:     input.Query,
			Response:  synth.Response,
		}).Get(ctx, nil); err != nil {
			logger.Warn("Failed to update session history", "error", err, "session_id", input.SessionID)
		}
	}

	// Archive the run record without holding up the result.
	detached, _ := workflow.NewDisconnectedContext(ctx)
	detached = workflow.WithActivityOptions(detached, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 3},
	})
	workflow.ExecuteActivity(detached, constants.PersistRunRecordActivity, activities.PersistRunInput{
		RunID:         workflow.GetInfo(ctx).WorkflowExecution.ID,
		SessionID:     input.SessionID,
		Query:         input.Query,
		FinalResponse: synth.Response,
		Confidence:    synth.Confidence,
		Iterations:    state.IterationCount,
		ExecutionLog:  state.ExecutionLog,
		ErrorLog:      state.ErrorLog,
	})

	result := TaskResult{
		Response:   synth.Response,
		Success:    !synth.Degraded && !lastDecision.IterationLimit,
		Confidence: synth.Confidence,
		Citations:  synth.Citations,
		Iterations: state.IterationCount,
		Metadata: map[string]interface{}{
			"strategies_used":     strategyLabels(state.RetryStrategiesUsed),
			"has_sufficient_info": state.HasSufficientInfo,
			"direct_answer":       plan.CanAnswerDirectly,
			"error_count":         len(state.ErrorLog),
		},
	}
	if lastDecision.IterationLimit {
		result.ErrorMessage = fmt.Sprintf("iteration limit of %d reached without usable results", maxIterations)
	} else if synth.Degraded {
		result.ErrorMessage = "synthesis degraded"
	}

	logger.Info("ResearchWorkflow completed",
		"success", result.Success,
		"iterations", result.Iterations,
		"confidence", result.Confidence,
	)
	return result, nil
}

// outcomeKindFor classifies a capability name for failure fallbacks, so a
// failed sub-agent call still files under sub-agent results.
func outcomeKindFor(name string) string {
	if name == capabilities.WebExtract {
		return activities.OutcomeKindExtract
	}
	if c, ok := capabilities.DefaultRegistry().Get(name); ok && c.Kind == capabilities.KindAgent {
		return activities.OutcomeKindAgent
	}
	return activities.OutcomeKindSearch
}

func flattenHistory(turns []Turn) []string {
	if len(turns) == 0 {
		return nil
	}
	out := make([]string, 0, len(turns))
	for _, t := range turns {
		out = append(out, t.Role+": "+t.Content)
	}
	return out
}

func planSummary(p activities.PlanDecision) string {
	if p.CanAnswerDirectly {
		return "direct answer: " + p.Reasoning
	}
	return fmt.Sprintf("capabilities [%s]: %s", strings.Join(p.ToolsToUse, ", "), p.Reasoning)
}

func gateSnapshot(in GateInput) string {
	return fmt.Sprintf("iteration=%d/%d good=%t any=%t strategies=%d",
		in.Iteration, in.MaxIterations, in.HasGoodResults, in.HasAnyResults, len(in.StrategiesUsed))
}

func strategyLabels(used []RetryStrategy) []string {
	out := make([]string, 0, len(used))
	for _, s := range used {
		out = append(out, string(s))
	}
	return out
}

func degradedResponse(query string) string {
	return fmt.Sprintf("I was unable to gather reliable information for %q at this time. "+
		"Please try again shortly or rephrase the question.", query)
}
