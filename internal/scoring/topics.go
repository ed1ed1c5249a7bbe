package scoring

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/metrics"
)

const topicsSystemPrompt = `You are a geopolitical news analyst. Given a batch of news documents,
identify the distinct significant topics they cover. For each topic report:
- name: short topic name
- frequency: how many of the documents cover it
- explosiveness: 1-10 rating of how significant/urgent the topic is
- entities: countries, organizations or people involved
- reasoning: one sentence on why it matters
Respond in JSON: {"topics": [{"name": "...", "frequency": 2,
"explosiveness": 7, "entities": ["..."], "reasoning": "..."}]}`

// ExtractTopics derives topics from a batch of relevant documents with one
// LLM call. The batch is bounded to maxBatch documents for cost control. On
// any failure it returns an empty list; it never fabricates topics.
func ExtractTopics(ctx context.Context, llm Completer, events []RawEvent, maxBatch int, logger *zap.Logger) []ExtractedTopic {
	if len(events) == 0 {
		return nil
	}
	if maxBatch > 0 && len(events) > maxBatch {
		events = events[:maxBatch]
	}

	var sb strings.Builder
	for i, ev := range events {
		sb.WriteString(fmt.Sprintf("Document %d: %s\n%s\n\n", i+1, ev.Title, clip(ev.Content, 500)))
	}

	var parsed struct {
		Topics []struct {
			Name          string   `json:"name"`
			Frequency     int      `json:"frequency"`
			Explosiveness int      `json:"explosiveness"`
			Entities      []string `json:"entities"`
			Reasoning     string   `json:"reasoning"`
		} `json:"topics"`
	}
	if err := llm.CompleteJSON(ctx, topicsSystemPrompt, sb.String(), &parsed); err != nil {
		logger.Warn("Topic extraction failed, returning no topics", zap.Error(err))
		metrics.LLMParseFailures.WithLabelValues("topic_extraction").Inc()
		return nil
	}

	topics := make([]ExtractedTopic, 0, len(parsed.Topics))
	for _, t := range parsed.Topics {
		if t.Name == "" {
			continue
		}
		topic := ExtractedTopic{
			Name:             t.Name,
			Frequency:        t.Frequency,
			LLMExplosiveness: t.Explosiveness,
			Entities:         t.Entities,
			Reasoning:        t.Reasoning,
		}
		// Clamp the model's rating into its documented range.
		if topic.LLMExplosiveness < 1 {
			topic.LLMExplosiveness = 1
		} else if topic.LLMExplosiveness > 10 {
			topic.LLMExplosiveness = 10
		}
		if topic.Frequency < 1 {
			topic.Frequency = 1
		}
		topics = append(topics, topic)
	}

	metrics.TopicsExtracted.Add(float64(len(topics)))
	return topics
}

// clip bounds s to at most limit bytes without splitting a UTF-8 rune.
func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
