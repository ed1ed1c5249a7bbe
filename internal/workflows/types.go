package workflows

import (
	"time"

	"github.com/praxis-intel/argus/internal/activities"
)

// TaskInput is the input to a research workflow.
type TaskInput struct {
	Query     string
	SessionID string
	History   []Turn
	Context   map[string]interface{}

	// MaxIterations overrides the configured iteration budget (0 = default).
	MaxIterations int
}

// Turn is a conversation turn carried into the workflow.
type Turn struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// TaskResult is the final output of a research workflow. A degraded run
// still produces a non-empty Response; the workflow never surfaces a bare
// error for a data-quality failure.
type TaskResult struct {
	Response     string
	Success      bool
	Confidence   float64
	Citations    []string
	Iterations   int
	ErrorMessage string
	Metadata     map[string]interface{}
}

// RunState is the mutable record threaded through one query's processing.
// It is created per query and discarded after synthesis.
type RunState struct {
	CurrentMessage      string
	TaskPlan            string
	ToolsToUse          []string
	ToolResults         map[string]activities.ToolOutcome
	SubAgentResults     map[string]activities.ToolOutcome
	IterationCount      int
	RetryStrategiesUsed []RetryStrategy
	HasSufficientInfo   bool
	NeedsMoreTools      bool
	FinalResponse       string
	Citations           []string
	ConfidenceScore     float64
	ExecutionLog        []activities.ExecutionStep
	ErrorLog            []string
}

// NewRunState initializes run state for one query.
func NewRunState(message string) *RunState {
	return &RunState{
		CurrentMessage:  message,
		ToolResults:     make(map[string]activities.ToolOutcome),
		SubAgentResults: make(map[string]activities.ToolOutcome),
	}
}

// RecordOutcome files a capability outcome into the right result map and
// appends the execution-log entry. Every executed call yields exactly one
// outcome, recorded before the decision gate runs.
func (s *RunState) RecordOutcome(res activities.CapabilityResult, at time.Time) {
	out := res.Outcome
	if out.Kind == activities.OutcomeKindAgent {
		s.SubAgentResults[out.Capability] = out
	} else {
		s.ToolResults[out.Capability] = out
	}
	s.ExecutionLog = append(s.ExecutionLog, activities.ExecutionStep{
		Timestamp:     at,
		Step:          "execute",
		Capability:    out.Capability,
		InputSummary:  res.InputSummary,
		OutputSummary: res.OutputSummary,
	})
	if !out.Success && out.Error != "" {
		s.ErrorLog = append(s.ErrorLog, out.Capability+": "+out.Error)
	}
}

// AppendStep adds a non-execution step (plan, gate, synthesize) to the log.
func (s *RunState) AppendStep(step, inputSummary, outputSummary string, at time.Time) {
	s.ExecutionLog = append(s.ExecutionLog, activities.ExecutionStep{
		Timestamp:     at,
		Step:          step,
		InputSummary:  inputSummary,
		OutputSummary: outputSummary,
	})
}
