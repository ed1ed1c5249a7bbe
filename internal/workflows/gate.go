package workflows

import "fmt"

// GateState is the decision gate's verdict for one iteration.
type GateState string

const (
	GateRetry   GateState = "RETRY"
	GateProceed GateState = "PROCEED_TO_SYNTHESIS"
)

// GateInput is the snapshot the gate decides on. Iteration is the count
// of completed execution passes, incremented before the gate runs.
type GateInput struct {
	Iteration      int
	MaxIterations  int
	HasGoodResults bool
	HasAnyResults  bool
	StrategiesUsed []RetryStrategy
}

// GateDecision is the gate's output. NextStrategy is set only on RETRY.
// IterationLimit marks a forced PROCEED with nothing gathered, which the
// caller records as an error-log entry.
type GateDecision struct {
	State          GateState
	NextStrategy   RetryStrategy
	Reason         string
	IterationLimit bool
	Snapshot       GateInput
}

// EvaluateGate applies the gate rules in priority order:
//
//  1. good results -> proceed
//  2. any results after two or more passes -> accept partial, proceed
//  3. iteration budget remaining -> retry with the next strategy
//  4. budget exhausted -> proceed with whatever exists
//
// The function is pure and replay-safe; every decision carries a
// human-readable reason.
func EvaluateGate(in GateInput) GateDecision {
	d := GateDecision{Snapshot: in}

	switch {
	case in.HasGoodResults:
		d.State = GateProceed
		d.Reason = fmt.Sprintf("sufficient information gathered after %d iteration(s)", in.Iteration)
	case in.HasAnyResults && in.Iteration >= 2:
		d.State = GateProceed
		d.Reason = fmt.Sprintf("accepting partial results after %d iterations", in.Iteration)
	case in.Iteration < in.MaxIterations:
		d.State = GateRetry
		d.NextStrategy = NextRetryStrategy(in.StrategiesUsed)
		d.Reason = fmt.Sprintf("no usable results on iteration %d/%d, retrying with %s",
			in.Iteration, in.MaxIterations, d.NextStrategy)
	default:
		d.State = GateProceed
		d.IterationLimit = !in.HasAnyResults
		d.Reason = fmt.Sprintf("iteration limit of %d reached, proceeding with available results", in.MaxIterations)
	}
	return d
}
