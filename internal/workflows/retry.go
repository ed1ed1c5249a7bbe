package workflows

// RetryStrategy names one of the reformulation approaches the decision
// gate hands to the next execution pass. Strategies are currently labels:
// they are recorded, logged, and reported, and give capability handlers a
// hook for strategy-aware behavior later.
type RetryStrategy string

const (
	RetryBroaderKeywords    RetryStrategy = "broader_keywords"
	RetrySpecificKeywords   RetryStrategy = "specific_keywords"
	RetryAlternativeSources RetryStrategy = "alternative_sources"
	RetryAdvancedSearch     RetryStrategy = "advanced_search"
	RetryAlternativeTools   RetryStrategy = "alternative_tools"
)

// retryRotation is the fixed order strategies are consumed in.
var retryRotation = []RetryStrategy{
	RetryBroaderKeywords,
	RetrySpecificKeywords,
	RetryAlternativeSources,
	RetryAdvancedSearch,
	RetryAlternativeTools,
}

// NextRetryStrategy picks the first strategy not yet used this run. Once
// the rotation is exhausted it cycles back to the start, so a sixth retry
// reuses the first strategy.
func NextRetryStrategy(used []RetryStrategy) RetryStrategy {
	seen := make(map[RetryStrategy]bool, len(used))
	for _, s := range used {
		seen[s] = true
	}
	for _, s := range retryRotation {
		if !seen[s] {
			return s
		}
	}
	return retryRotation[len(used)%len(retryRotation)]
}
