package activities

import "time"

// Outcome kinds. Search and extract outcomes are judged by different
// richness facets, so the executor labels each outcome with how it was
// produced.
const (
	OutcomeKindSearch  = "search"
	OutcomeKindExtract = "extract"
	OutcomeKindAgent   = "agent"
)

// ToolOutcome is the uniform result of one capability call. Failures are
// encoded here rather than raised: a failed call is still a recorded
// outcome, and the decision gate decides what to do about it.
type ToolOutcome struct {
	Capability   string                 `json:"capability"`
	Kind         string                 `json:"kind"`
	Success      bool                   `json:"success"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
	Error        string                 `json:"error,omitempty"`
	ItemCount    int                    `json:"item_count,omitempty"`
	ContentChars int                    `json:"content_chars,omitempty"`
	PayloadBytes int                    `json:"payload_bytes,omitempty"`
	DurationMs   int64                  `json:"duration_ms,omitempty"`
}

// ExecutionStep is one entry in the run's execution log.
type ExecutionStep struct {
	Timestamp     time.Time `json:"timestamp"`
	Step          string    `json:"step"`
	Capability    string    `json:"capability,omitempty"`
	InputSummary  string    `json:"input_summary,omitempty"`
	OutputSummary string    `json:"output_summary,omitempty"`
}

// PlanInput is the planner activity's input.
type PlanInput struct {
	Query     string   `json:"query"`
	History   []string `json:"history,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
}

// PlanDecision is the planner's structured output. When CanAnswerDirectly
// is true, ToolsToUse is empty; otherwise it names at least one capability.
type PlanDecision struct {
	CanAnswerDirectly bool     `json:"can_answer_directly"`
	ToolsToUse        []string `json:"tools_to_use"`
	Reasoning         string   `json:"reasoning"`
}

// ExecuteCapabilityInput is one capability call.
type ExecuteCapabilityInput struct {
	Capability string                 `json:"capability"`
	Query      string                 `json:"query"`
	Strategy   string                 `json:"strategy,omitempty"`
	SessionID  string                 `json:"session_id,omitempty"`
	Params     map[string]interface{} `json:"params,omitempty"`
}

// CapabilityResult wraps an outcome with log-ready summaries.
type CapabilityResult struct {
	Outcome       ToolOutcome `json:"outcome"`
	InputSummary  string      `json:"input_summary"`
	OutputSummary string      `json:"output_summary"`
}

// SynthesisInput carries everything the synthesizer needs to produce the
// final answer.
type SynthesisInput struct {
	Query             string                 `json:"query"`
	History           []string               `json:"history,omitempty"`
	ToolResults       map[string]ToolOutcome `json:"tool_results,omitempty"`
	SubAgentResults   map[string]ToolOutcome `json:"sub_agent_results,omitempty"`
	HasSufficientInfo bool                   `json:"has_sufficient_info"`
	ErrorLog          []string               `json:"error_log,omitempty"`
	Direct            bool                   `json:"direct"`
}

// SynthesisResult is the synthesizer's output. Degraded marks an answer
// produced by the deterministic fallback rather than the model.
type SynthesisResult struct {
	Response   string   `json:"response"`
	Citations  []string `json:"citations,omitempty"`
	Confidence float64  `json:"confidence"`
	Degraded   bool     `json:"degraded"`
}

// SessionUpdateInput appends the completed exchange to session history.
type SessionUpdateInput struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	Response  string `json:"response"`
}

// PersistRunInput archives one completed run.
type PersistRunInput struct {
	RunID         string          `json:"run_id"`
	SessionID     string          `json:"session_id,omitempty"`
	Query         string          `json:"query"`
	FinalResponse string          `json:"final_response"`
	Confidence    float64         `json:"confidence"`
	Iterations    int             `json:"iterations"`
	ExecutionLog  []ExecutionStep `json:"execution_log,omitempty"`
	ErrorLog      []string        `json:"error_log,omitempty"`
}
