package scoring

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/metrics"
)

const (
	maxGeneratedQueries = 3
	temporalQualifier   = "this week"
)

// Completer is the narrow LLM contract the pipeline needs.
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string, out any) error
}

const querygenSystemPrompt = `You generate web search queries for monitoring geopolitical news.
Given a list of watch keywords, produce 2-3 distinct search queries that would
surface significant recent developments. Add temporal qualifiers like
"this week" or "latest". Respond in JSON:
{"queries": ["...", "..."]}`

// GenerateQueries turns watch keywords into search query strings. On any LLM
// failure it falls back to deterministic concatenation; it never returns an
// empty set for non-empty keywords.
func GenerateQueries(ctx context.Context, llm Completer, keywords []string, logger *zap.Logger) ([]string, bool) {
	if len(keywords) == 0 {
		return nil, false
	}

	var parsed struct {
		Queries []string `json:"queries"`
	}
	err := llm.CompleteJSON(ctx, querygenSystemPrompt,
		fmt.Sprintf("Watch keywords: %s", strings.Join(keywords, ", ")), &parsed)
	if err == nil && len(parsed.Queries) > 0 {
		queries := parsed.Queries
		if len(queries) > maxGeneratedQueries {
			queries = queries[:maxGeneratedQueries]
		}
		return queries, false
	}

	if err != nil {
		logger.Warn("Query generation failed, using deterministic fallback", zap.Error(err))
		metrics.LLMParseFailures.WithLabelValues("querygen").Inc()
	}
	return fallbackQueries(keywords), true
}

// fallbackQueries builds queries by plain concatenation so the pipeline can
// never stall for lack of generated queries.
func fallbackQueries(keywords []string) []string {
	joined := strings.Join(keywords, " ")
	queries := []string{
		fmt.Sprintf("%s latest news %s", joined, temporalQualifier),
		fmt.Sprintf("%s breaking developments", joined),
	}
	if len(keywords) > 1 {
		queries = append(queries, fmt.Sprintf("%s crisis update %s", keywords[0], temporalQualifier))
	}
	return queries
}
