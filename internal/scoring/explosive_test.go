package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSignalsCaps(t *testing.T) {
	topic := ExtractedTopic{
		Name:             "Breaking crisis attack imminent",
		Frequency:        10,
		LLMExplosiveness: 10,
	}
	s := ComputeSignals(topic, 10, true)

	assert.Equal(t, 40, s.LLMRating)
	assert.Equal(t, 20, s.Frequency)
	assert.Equal(t, 15, s.SourceDiversity)
	assert.Equal(t, 15, s.Urgency)
	assert.Equal(t, 10, s.Recency)
	assert.Equal(t, 100, s.Total())
}

func TestComputeSignalsDeterministic(t *testing.T) {
	topic := ExtractedTopic{Name: "Border escalation", Frequency: 2, LLMExplosiveness: 6}
	first := ComputeSignals(topic, 4, true)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ComputeSignals(topic, 4, true))
	}

	assert.Equal(t, 24, first.LLMRating)
	assert.Equal(t, 10, first.Frequency)
	assert.Equal(t, 12, first.SourceDiversity)
	assert.Equal(t, 5, first.Urgency) // "escalat" matches once
	assert.Equal(t, 10, first.Recency)
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		score int
		want  Classification
	}{
		{100, TierCritical},
		{75, TierCritical},
		{74, TierHigh},
		{50, TierHigh},
		{49, TierModerate},
		{25, TierModerate},
		{24, TierLow},
		{0, TierLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %d", tt.score)
	}
}

func TestScoreTopicsStableTieOrderAndDenseRank(t *testing.T) {
	// With no source diversity and no recency, totals are llm*4 + freq*5.
	topics := []ExtractedTopic{
		{Name: "alpha", LLMExplosiveness: 10, Frequency: 4},   // 60
		{Name: "bravo", LLMExplosiveness: 5, Frequency: 0},    // 20
		{Name: "charlie", LLMExplosiveness: 10, Frequency: 4}, // 60, ties alpha
		{Name: "delta", LLMExplosiveness: 1, Frequency: 0},    // 4
	}
	scored := ScoreTopics(topics, 0, false, 0)

	require.Len(t, scored, 4)
	assert.Equal(t, "alpha", scored[0].Name)
	assert.Equal(t, "charlie", scored[1].Name)
	assert.Equal(t, "bravo", scored[2].Name)
	assert.Equal(t, "delta", scored[3].Name)
	for i, s := range scored {
		assert.Equal(t, i+1, s.Rank)
	}
	assert.Equal(t, scored[0].TotalScore, scored[1].TotalScore)
}

func TestScoreTopicsTruncatesToTopN(t *testing.T) {
	topics := []ExtractedTopic{
		{Name: "a", LLMExplosiveness: 9, Frequency: 3},
		{Name: "b", LLMExplosiveness: 7, Frequency: 2},
		{Name: "c", LLMExplosiveness: 3, Frequency: 1},
	}
	scored := ScoreTopics(topics, 2, true, 2)

	require.Len(t, scored, 2)
	assert.Equal(t, "a", scored[0].Name)
	assert.Equal(t, 1, scored[0].Rank)
	assert.Equal(t, 2, scored[1].Rank)
}
