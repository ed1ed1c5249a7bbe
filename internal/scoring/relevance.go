package scoring

import "strings"

// Relevance scoring constants. These are fixed weights, not configuration:
// the filter must stay deterministic and re-testable.
const (
	keywordMatchWeight = 2
	crisisMatchWeight  = 3
	minRelevanceScore  = 2
)

// RelevanceScore computes the deterministic relevance of one document:
// (keyword matches x weight) + (crisis-keyword matches x weight). Matching is
// case-insensitive over title and content.
func RelevanceScore(ev RawEvent, keywords, crisisKeywords []string) int {
	text := strings.ToLower(ev.Title + " " + ev.Content)

	score := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			score += keywordMatchWeight
		}
	}
	for _, kw := range crisisKeywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			score += crisisMatchWeight
		}
	}
	return score
}

// FilterRelevant keeps only documents at or above the minimum relevance
// score. This gate protects the downstream LLM stages from irrelevant
// volume; no LLM is involved here.
func FilterRelevant(events []RawEvent, keywords, crisisKeywords []string) []RawEvent {
	var kept []RawEvent
	for _, ev := range events {
		if RelevanceScore(ev, keywords, crisisKeywords) >= minRelevanceScore {
			kept = append(kept, ev)
		}
	}
	return kept
}
