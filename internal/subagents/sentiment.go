package subagents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/capabilities"
	"github.com/praxis-intel/argus/internal/scoring"
	"github.com/praxis-intel/argus/internal/search"
)

const sentimentSystemPrompt = `You are a political sentiment analyst. Given news coverage snippets about
a topic, assess the overall sentiment of the coverage. Respond in JSON:
{"overall_sentiment": "positive|negative|neutral|mixed",
 "score": -1.0 to 1.0,
 "by_source": [{"source": "...", "sentiment": "...", "evidence": "..."}],
 "key_phrases": ["..."],
 "summary": "..."}`

// SentimentAgent analyzes the tone of coverage around a topic: it gathers
// recent coverage and has the LLM rate sentiment per source.
type SentimentAgent struct {
	searcher scoring.Searcher
	llm      scoring.Completer
	logger   *zap.Logger
}

// NewSentimentAgent builds the sentiment analysis sub-agent.
func NewSentimentAgent(searcher scoring.Searcher, llm scoring.Completer, logger *zap.Logger) *SentimentAgent {
	return &SentimentAgent{searcher: searcher, llm: llm, logger: logger}
}

func (a *SentimentAgent) Name() string { return capabilities.SentimentAnalysis }

// Invoke runs the sentiment analysis for the query topic.
func (a *SentimentAgent) Invoke(ctx context.Context, query string, _ map[string]any) (*Result, error) {
	resp, err := a.searcher.Search(ctx, search.Request{Query: query + " news coverage", MaxResults: 8})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return failure(fmt.Sprintf("coverage search failed: %v", err)), nil
	}
	if len(resp.Results) == 0 {
		return failure("no coverage found for topic"), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic: %s\n\nCoverage:\n", query))
	for _, r := range resp.Results {
		content := r.Content
		if len(content) > 400 {
			content = content[:400]
		}
		sb.WriteString(fmt.Sprintf("[%s] %s\n%s\n\n", domainLabel(r.URL), r.Title, content))
	}

	var parsed struct {
		OverallSentiment string  `json:"overall_sentiment"`
		Score            float64 `json:"score"`
		BySource         []struct {
			Source    string `json:"source"`
			Sentiment string `json:"sentiment"`
			Evidence  string `json:"evidence"`
		} `json:"by_source"`
		KeyPhrases []string `json:"key_phrases"`
		Summary    string   `json:"summary"`
	}
	if err := a.llm.CompleteJSON(ctx, sentimentSystemPrompt, sb.String(), &parsed); err != nil {
		a.logger.Warn("Sentiment analysis LLM call failed", zap.Error(err))
		return failure(fmt.Sprintf("sentiment analysis failed: %v", err)), nil
	}

	bySource := make([]any, 0, len(parsed.BySource))
	for _, s := range parsed.BySource {
		bySource = append(bySource, map[string]any{
			"source":    s.Source,
			"sentiment": s.Sentiment,
			"evidence":  s.Evidence,
		})
	}

	return &Result{
		Success: true,
		Data: map[string]any{
			"overall_sentiment": parsed.OverallSentiment,
			"score":             parsed.Score,
			"by_source":         bySource,
			"key_phrases":       parsed.KeyPhrases,
			"summary":           parsed.Summary,
			"sources_analyzed":  len(resp.Results),
		},
	}, nil
}

func domainLabel(raw string) string {
	if i := strings.Index(raw, "://"); i != -1 {
		raw = raw[i+3:]
	}
	if i := strings.IndexByte(raw, '/'); i != -1 {
		raw = raw[:i]
	}
	return strings.TrimPrefix(raw, "www.")
}
