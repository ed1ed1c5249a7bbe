package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/praxis-intel/argus/internal/activities"
)

func searchOutcome(items int) activities.ToolOutcome {
	return activities.ToolOutcome{
		Capability: "web_search",
		Kind:       activities.OutcomeKindSearch,
		Success:    true,
		ItemCount:  items,
	}
}

func TestAssessResultsEmpty(t *testing.T) {
	a := AssessResults(nil, nil, DefaultRichness())

	assert.False(t, a.HasAnyResults)
	assert.False(t, a.HasGoodResults)
	assert.Zero(t, a.ResultCount)
}

func TestAssessResultsThinSearchIsNotGood(t *testing.T) {
	tools := map[string]activities.ToolOutcome{
		"web_search": searchOutcome(2),
	}
	a := AssessResults(tools, nil, DefaultRichness())

	assert.True(t, a.HasAnyResults)
	assert.Equal(t, 1, a.ResultCount)
	assert.False(t, a.HasRichData)
	assert.False(t, a.HasGoodResults)
}

func TestAssessResultsRichSearchIsGood(t *testing.T) {
	tools := map[string]activities.ToolOutcome{
		"web_search": searchOutcome(3),
	}
	a := AssessResults(tools, nil, DefaultRichness())

	assert.True(t, a.HasRichData)
	assert.True(t, a.HasGoodResults)
}

func TestAssessResultsExtractThreshold(t *testing.T) {
	th := DefaultRichness()
	short := map[string]activities.ToolOutcome{
		"web_extract": {Kind: activities.OutcomeKindExtract, Success: true, ContentChars: 199},
	}
	assert.False(t, AssessResults(short, nil, th).HasGoodResults)

	long := map[string]activities.ToolOutcome{
		"web_extract": {Kind: activities.OutcomeKindExtract, Success: true, ContentChars: 200},
	}
	assert.True(t, AssessResults(long, nil, th).HasGoodResults)
}

func TestAssessResultsAgentPayloadThreshold(t *testing.T) {
	agents := map[string]activities.ToolOutcome{
		"sentiment_analysis": {Kind: activities.OutcomeKindAgent, Success: true, PayloadBytes: 300},
	}
	a := AssessResults(nil, agents, DefaultRichness())
	assert.True(t, a.HasGoodResults)
}

func TestAssessResultsFailuresDoNotCount(t *testing.T) {
	tools := map[string]activities.ToolOutcome{
		"web_search":  {Kind: activities.OutcomeKindSearch, Error: "timeout"},
		"web_extract": {Kind: activities.OutcomeKindExtract, Error: "no urls"},
	}
	a := AssessResults(tools, nil, DefaultRichness())

	assert.False(t, a.HasAnyResults)
	assert.Zero(t, a.ResultCount)
}

func TestAssessResultsOneRichAmongFailures(t *testing.T) {
	tools := map[string]activities.ToolOutcome{
		"web_search":  searchOutcome(5),
		"web_extract": {Kind: activities.OutcomeKindExtract, Error: "fetch failed"},
	}
	agents := map[string]activities.ToolOutcome{
		"media_bias": {Kind: activities.OutcomeKindAgent, Error: "insufficient outlet diversity"},
	}
	a := AssessResults(tools, agents, DefaultRichness())

	assert.Equal(t, 1, a.ResultCount)
	assert.True(t, a.HasGoodResults)
}
