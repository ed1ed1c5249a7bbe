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

const mediaBiasSystemPrompt = `You are a media analysis expert. Given coverage of the same topic from
multiple outlets, identify framing differences and likely bias per outlet.
Respond in JSON:
{"outlets": [{"name": "...", "lean": "left|center-left|center|center-right|right|state|unknown",
  "framing": "...", "notable_language": ["..."]}],
 "framing_divergence": "low|moderate|high",
 "summary": "..."}`

// MediaBiasAgent compares how different outlets frame the same topic.
type MediaBiasAgent struct {
	searcher scoring.Searcher
	llm      scoring.Completer
	logger   *zap.Logger
}

// NewMediaBiasAgent builds the media-bias detection sub-agent.
func NewMediaBiasAgent(searcher scoring.Searcher, llm scoring.Completer, logger *zap.Logger) *MediaBiasAgent {
	return &MediaBiasAgent{searcher: searcher, llm: llm, logger: logger}
}

func (a *MediaBiasAgent) Name() string { return capabilities.MediaBias }

// Invoke runs the bias comparison for the query topic.
func (a *MediaBiasAgent) Invoke(ctx context.Context, query string, _ map[string]any) (*Result, error) {
	resp, err := a.searcher.Search(ctx, search.Request{Query: query, MaxResults: 10, Depth: "advanced"})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return failure(fmt.Sprintf("outlet search failed: %v", err)), nil
	}

	// Bias comparison needs coverage from at least two outlets.
	byOutlet := make(map[string]search.Result)
	for _, r := range resp.Results {
		d := domainLabel(r.URL)
		if _, ok := byOutlet[d]; !ok && d != "" {
			byOutlet[d] = r
		}
	}
	if len(byOutlet) < 2 {
		return failure("insufficient outlet diversity for bias comparison"), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic: %s\n\n", query))
	for outlet, r := range byOutlet {
		content := r.Content
		if len(content) > 400 {
			content = content[:400]
		}
		sb.WriteString(fmt.Sprintf("Outlet %s: %s\n%s\n\n", outlet, r.Title, content))
	}

	var parsed struct {
		Outlets []struct {
			Name            string   `json:"name"`
			Lean            string   `json:"lean"`
			Framing         string   `json:"framing"`
			NotableLanguage []string `json:"notable_language"`
		} `json:"outlets"`
		FramingDivergence string `json:"framing_divergence"`
		Summary           string `json:"summary"`
	}
	if err := a.llm.CompleteJSON(ctx, mediaBiasSystemPrompt, sb.String(), &parsed); err != nil {
		a.logger.Warn("Media bias LLM call failed", zap.Error(err))
		return failure(fmt.Sprintf("bias analysis failed: %v", err)), nil
	}

	outlets := make([]any, 0, len(parsed.Outlets))
	for _, o := range parsed.Outlets {
		outlets = append(outlets, map[string]any{
			"name":             o.Name,
			"lean":             o.Lean,
			"framing":          o.Framing,
			"notable_language": o.NotableLanguage,
		})
	}

	return &Result{
		Success: true,
		Data: map[string]any{
			"outlets":            outlets,
			"framing_divergence": parsed.FramingDivergence,
			"summary":            parsed.Summary,
			"outlets_compared":   len(byOutlet),
		},
	}, nil
}
