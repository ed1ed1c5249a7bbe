package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateGateGoodResultsProceed(t *testing.T) {
	d := EvaluateGate(GateInput{
		Iteration:      1,
		MaxIterations:  3,
		HasGoodResults: true,
		HasAnyResults:  true,
	})

	assert.Equal(t, GateProceed, d.State)
	assert.Empty(t, d.NextStrategy)
	assert.False(t, d.IterationLimit)
	assert.Contains(t, d.Reason, "sufficient information")
}

func TestEvaluateGatePartialResultsAcceptedAfterTwoPasses(t *testing.T) {
	// One pass with thin results is worth another try.
	d := EvaluateGate(GateInput{
		Iteration:     1,
		MaxIterations: 3,
		HasAnyResults: true,
	})
	require.Equal(t, GateRetry, d.State)
	assert.Equal(t, RetryBroaderKeywords, d.NextStrategy)

	// Two passes with at least something: accept the partials.
	d = EvaluateGate(GateInput{
		Iteration:      2,
		MaxIterations:  3,
		HasAnyResults:  true,
		StrategiesUsed: []RetryStrategy{RetryBroaderKeywords},
	})
	assert.Equal(t, GateProceed, d.State)
	assert.Contains(t, d.Reason, "partial results")
}

func TestEvaluateGateRetryRotatesStrategies(t *testing.T) {
	var used []RetryStrategy
	want := []RetryStrategy{
		RetryBroaderKeywords,
		RetrySpecificKeywords,
		RetryAlternativeSources,
		RetryAdvancedSearch,
		RetryAlternativeTools,
		// Rotation exhausted: the sixth retry reuses the first strategy.
		RetryBroaderKeywords,
	}

	for i, expected := range want {
		d := EvaluateGate(GateInput{
			Iteration:      i + 1,
			MaxIterations:  10,
			StrategiesUsed: used,
		})
		require.Equal(t, GateRetry, d.State, "retry %d", i+1)
		assert.Equal(t, expected, d.NextStrategy, "retry %d", i+1)
		used = append(used, d.NextStrategy)
	}
}

func TestEvaluateGateTerminatesAtIterationLimit(t *testing.T) {
	// Nothing gathered, budget exhausted: proceed anyway, flagged.
	d := EvaluateGate(GateInput{
		Iteration:      3,
		MaxIterations:  3,
		StrategiesUsed: []RetryStrategy{RetryBroaderKeywords, RetrySpecificKeywords},
	})

	assert.Equal(t, GateProceed, d.State)
	assert.True(t, d.IterationLimit)
	assert.Contains(t, d.Reason, "iteration limit")
}

func TestEvaluateGateLimitWithPartialsIsNotAnError(t *testing.T) {
	d := EvaluateGate(GateInput{
		Iteration:     3,
		MaxIterations: 3,
		HasAnyResults: false,
	})
	assert.True(t, d.IterationLimit)

	// The limit rule only flags an error when nothing at all was gathered.
	d = EvaluateGate(GateInput{
		Iteration:     1,
		MaxIterations: 1,
		HasAnyResults: true,
	})
	assert.Equal(t, GateProceed, d.State)
	assert.False(t, d.IterationLimit)
}

func TestNextRetryStrategySkipsUsed(t *testing.T) {
	assert.Equal(t, RetryBroaderKeywords, NextRetryStrategy(nil))
	assert.Equal(t, RetryAlternativeSources, NextRetryStrategy([]RetryStrategy{
		RetryBroaderKeywords, RetrySpecificKeywords,
	}))
	assert.Equal(t, RetrySpecificKeywords, NextRetryStrategy([]RetryStrategy{
		RetryBroaderKeywords,
		RetrySpecificKeywords,
		RetryAlternativeSources,
		RetryAdvancedSearch,
		RetryAlternativeTools,
		RetryBroaderKeywords,
	}))
}
