package subagents

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/cache"
	"github.com/praxis-intel/argus/internal/capabilities"
	"github.com/praxis-intel/argus/internal/scoring"
)

// TopicPipeline is the contract the monitor and sitrep agents consume.
type TopicPipeline interface {
	Run(ctx context.Context, keywords []string) (*scoring.PipelineResult, error)
}

// FreshnessCache guards the pipeline against redundant fetch+score work.
type FreshnessCache interface {
	Get(ctx context.Context, key string, freshness time.Duration) (json.RawMessage, bool)
	Put(ctx context.Context, key string, value any) error
}

// MonitorAgent runs the event scoring pipeline for live topic monitoring.
// Results are cached by keyword content hash inside a freshness window so
// repeated invocations don't refetch and rescore the same window.
type MonitorAgent struct {
	pipeline  TopicPipeline
	cache     FreshnessCache
	freshness time.Duration
	watch     []string
	logger    *zap.Logger
}

// NewMonitorAgent builds the live-monitor sub-agent. cache may be nil, in
// which case every invocation runs the pipeline. watch is the standing
// keyword list used when an invocation supplies none of its own.
func NewMonitorAgent(pipeline TopicPipeline, c FreshnessCache, freshness time.Duration, watch []string, logger *zap.Logger) *MonitorAgent {
	if freshness <= 0 {
		freshness = 15 * time.Minute
	}
	return &MonitorAgent{pipeline: pipeline, cache: c, freshness: freshness, watch: watch, logger: logger}
}

func (a *MonitorAgent) Name() string { return capabilities.LiveMonitor }

// Invoke runs (or replays from cache) one monitoring sweep.
func (a *MonitorAgent) Invoke(ctx context.Context, query string, params map[string]any) (*Result, error) {
	keywords := keywordsFromParams(params, query)
	if len(keywords) == 0 {
		keywords = a.watch
	}
	if len(keywords) == 0 {
		return failure("no keywords to monitor"), nil
	}

	// Content-hash key: identical keyword sets share one cache entry.
	normalized := append([]string(nil), keywords...)
	for i := range normalized {
		normalized[i] = strings.ToLower(normalized[i])
	}
	sort.Strings(normalized)
	key := cache.ContentKey(append([]string{"monitor"}, normalized...)...)

	if a.cache != nil {
		if raw, ok := a.cache.Get(ctx, key, a.freshness); ok {
			var cached scoring.PipelineResult
			if err := json.Unmarshal(raw, &cached); err == nil {
				a.logger.Debug("Monitor served from cache", zap.Strings("keywords", keywords))
				return monitorResult(&cached, true), nil
			}
		}
	}

	result, err := a.pipeline.Run(ctx, keywords)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return failure("monitor pipeline failed: " + err.Error()), nil
	}

	if a.cache != nil {
		if err := a.cache.Put(ctx, key, result); err != nil {
			a.logger.Warn("Failed to cache monitor result", zap.Error(err))
		}
	}
	return monitorResult(result, false), nil
}

func monitorResult(r *scoring.PipelineResult, fromCache bool) *Result {
	topics := make([]any, 0, len(r.Topics))
	for _, t := range r.Topics {
		topics = append(topics, map[string]any{
			"name":           t.Name,
			"total_score":    t.TotalScore,
			"classification": string(t.Classification),
			"rank":           t.Rank,
			"entities":       t.Entities,
			"reasoning":      t.Reasoning,
		})
	}
	return &Result{
		Success: true,
		Data: map[string]any{
			"topics":         topics,
			"fetched_count":  r.FetchedCount,
			"relevant_count": r.RelevantCount,
			"source_domains": r.SourceDomains,
			"from_cache":     fromCache,
		},
	}
}
