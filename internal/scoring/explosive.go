package scoring

import (
	"sort"
	"strings"

	"github.com/praxis-intel/argus/internal/metrics"
)

// Explosiveness signal constants. All caps and weights are fixed so that
// identical inputs always produce identical scores and classifications.
const (
	llmRatingScale = 4 // 1-10 rating scaled to max 40
	llmRatingCap   = 40

	frequencyScale = 5
	frequencyCap   = 20

	diversityScale = 3
	diversityCap   = 15

	urgencyScale = 5
	urgencyCap   = 15

	recencyBonus = 10
)

// Classification thresholds over the 0-100 total score.
const (
	criticalThreshold = 75
	highThreshold     = 50
	moderateThreshold = 25
)

// urgencyKeywords are scanned against topic names for the urgency signal.
var urgencyKeywords = []string{
	"urgent", "breaking", "imminent", "emergency", "crisis",
	"attack", "escalat", "collapse", "ultimatum",
}

// Classify maps a total score onto one of the four tiers.
func Classify(totalScore int) Classification {
	switch {
	case totalScore >= criticalThreshold:
		return TierCritical
	case totalScore >= highThreshold:
		return TierHigh
	case totalScore >= moderateThreshold:
		return TierModerate
	default:
		return TierLow
	}
}

// ComputeSignals derives the five-signal breakdown for one topic.
// sourceDomains is the unique source-domain count from the fetch stage;
// recent marks whether the underlying documents fall inside the monitoring
// window (they always do for live fetches, so callers pass true there).
func ComputeSignals(t ExtractedTopic, sourceDomains int, recent bool) SignalBreakdown {
	s := SignalBreakdown{
		LLMRating:       capInt(t.LLMExplosiveness*llmRatingScale, llmRatingCap),
		Frequency:       capInt(t.Frequency*frequencyScale, frequencyCap),
		SourceDiversity: capInt(sourceDomains*diversityScale, diversityCap),
		Urgency:         capInt(urgencyCount(t.Name)*urgencyScale, urgencyCap),
	}
	if recent {
		s.Recency = recencyBonus
	}
	return s
}

// ScoreTopics scores, classifies and ranks topics. Ranking is a dense 1..N
// ordering by total score descending; ties keep their input order (stable
// sort), so equal-scored topics rank in the order they were extracted. The
// result is truncated to topN when topN > 0.
func ScoreTopics(topics []ExtractedTopic, sourceDomains int, recent bool, topN int) []ScoredTopic {
	scored := make([]ScoredTopic, 0, len(topics))
	for _, t := range topics {
		signals := ComputeSignals(t, sourceDomains, recent)
		total := signals.Total()
		scored = append(scored, ScoredTopic{
			ExtractedTopic: t,
			Signals:        signals,
			TotalScore:     total,
			Classification: Classify(total),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})
	for i := range scored {
		scored[i].Rank = i + 1
		metrics.TopicsClassified.WithLabelValues(string(scored[i].Classification)).Inc()
	}

	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}

func urgencyCount(name string) int {
	lower := strings.ToLower(name)
	n := 0
	for _, kw := range urgencyKeywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func capInt(v, max int) int {
	if v > max {
		return max
	}
	if v < 0 {
		return 0
	}
	return v
}
