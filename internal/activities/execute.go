package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/praxis-intel/argus/internal/capabilities"
	"github.com/praxis-intel/argus/internal/metrics"
	"github.com/praxis-intel/argus/internal/search"
)

// ExecuteCapability runs one capability call. Failures are encoded in the
// returned outcome, never raised: the decision gate owns retry policy, so
// this activity reports what happened and nothing more. Only context
// cancellation propagates as an error.
func (a *Activities) ExecuteCapability(ctx context.Context, in ExecuteCapabilityInput) (CapabilityResult, error) {
	logger := activity.GetLogger(ctx)
	start := time.Now()

	inputSummary := fmt.Sprintf("%s: %q", in.Capability, in.Query)
	if in.Strategy != "" {
		inputSummary += " (strategy " + in.Strategy + ")"
	}

	desc, known := a.caps.Get(in.Capability)
	var out ToolOutcome
	switch {
	case !known:
		logger.Warn("Unknown capability requested", "capability", in.Capability)
		out = failedOutcome(in.Capability, OutcomeKindSearch, "unknown capability")
	case desc.Kind == capabilities.KindAgent:
		var err error
		out, err = a.runAgent(ctx, in)
		if err != nil {
			return CapabilityResult{}, err
		}
	case in.Capability == capabilities.WebExtract:
		out = a.runExtract(ctx, in)
	default:
		out = a.runSearch(ctx, in)
	}

	out.DurationMs = time.Since(start).Milliseconds()
	status := "success"
	if !out.Success {
		status = "failure"
	}
	metrics.CapabilityExecutions.WithLabelValues(in.Capability, status).Inc()
	metrics.CapabilityDuration.WithLabelValues(in.Capability).Observe(time.Since(start).Seconds())
	logger.Info("Capability executed",
		"capability", in.Capability,
		"status", status,
		"duration_ms", out.DurationMs,
	)

	return CapabilityResult{
		Outcome:       out,
		InputSummary:  inputSummary,
		OutputSummary: outcomeSummary(out),
	}, nil
}

func (a *Activities) runSearch(ctx context.Context, in ExecuteCapabilityInput) ToolOutcome {
	resp, err := a.search.Search(ctx, search.Request{Query: in.Query, MaxResults: 10})
	if err != nil {
		return failedOutcome(in.Capability, OutcomeKindSearch, err.Error())
	}

	results := make([]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, map[string]interface{}{
			"title":   r.Title,
			"content": r.Content,
			"url":     r.URL,
			"score":   r.Score,
		})
	}
	return ToolOutcome{
		Capability: in.Capability,
		Kind:       OutcomeKindSearch,
		Success:    true,
		ItemCount:  len(resp.Results),
		Payload: map[string]interface{}{
			"results": results,
			"answer":  resp.Answer,
		},
	}
}

func (a *Activities) runExtract(ctx context.Context, in ExecuteCapabilityInput) ToolOutcome {
	urls := urlsFromParams(in.Params)
	if len(urls) == 0 {
		return failedOutcome(in.Capability, OutcomeKindExtract, "no urls provided for extraction")
	}

	resp, err := a.search.Extract(ctx, urls, "markdown")
	if err != nil {
		return failedOutcome(in.Capability, OutcomeKindExtract, err.Error())
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "extraction failed"
		}
		return failedOutcome(in.Capability, OutcomeKindExtract, msg)
	}
	return ToolOutcome{
		Capability:   in.Capability,
		Kind:         OutcomeKindExtract,
		Success:      true,
		ContentChars: len(resp.Content),
		Payload: map[string]interface{}{
			"content": resp.Content,
			"urls":    urls,
		},
	}
}

func (a *Activities) runAgent(ctx context.Context, in ExecuteCapabilityInput) (ToolOutcome, error) {
	agent, ok := a.agents.Get(in.Capability)
	if !ok {
		return failedOutcome(in.Capability, OutcomeKindAgent, "sub-agent not registered"), nil
	}

	res, err := agent.Invoke(ctx, in.Query, in.Params)
	if err != nil {
		// Sub-agents only error on context cancellation.
		return ToolOutcome{}, err
	}
	if !res.Success {
		return failedOutcome(in.Capability, OutcomeKindAgent, res.Error), nil
	}

	payload := res.Data
	if payload == nil {
		payload = map[string]interface{}{}
	}
	if len(res.Artifacts) > 0 {
		artifacts := make([]interface{}, 0, len(res.Artifacts))
		for _, art := range res.Artifacts {
			artifacts = append(artifacts, map[string]interface{}{
				"type":    art.Type,
				"title":   art.Title,
				"content": art.Content,
			})
		}
		payload["artifacts"] = artifacts
	}

	size := 0
	if b, err := json.Marshal(payload); err == nil {
		size = len(b)
	}
	return ToolOutcome{
		Capability:   in.Capability,
		Kind:         OutcomeKindAgent,
		Success:      true,
		PayloadBytes: size,
		Payload:      payload,
	}, nil
}

func failedOutcome(capability, kind, msg string) ToolOutcome {
	return ToolOutcome{Capability: capability, Kind: kind, Error: msg}
}

func outcomeSummary(out ToolOutcome) string {
	if !out.Success {
		return "failed: " + out.Error
	}
	switch out.Kind {
	case OutcomeKindSearch:
		return fmt.Sprintf("%d results", out.ItemCount)
	case OutcomeKindExtract:
		return fmt.Sprintf("%d chars extracted", out.ContentChars)
	default:
		return fmt.Sprintf("%d byte payload", out.PayloadBytes)
	}
}

func urlsFromParams(params map[string]interface{}) []string {
	if params == nil {
		return nil
	}
	switch v := params["urls"].(type) {
	case []string:
		return v
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v != "" {
			return []string{v}
		}
	}
	return nil
}
