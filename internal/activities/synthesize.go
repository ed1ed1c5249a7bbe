package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.temporal.io/sdk/activity"

	"github.com/praxis-intel/argus/internal/metrics"
)

const synthesizerSystemPrompt = `You are the analysis module of a political research assistant.
Write a clear, well-structured answer to the user's question using ONLY the
gathered material below. Cite sources inline as [n] matching the source list.
If the material is thin, say what is known and what could not be verified.
Do not invent facts.`

const directSystemPrompt = `You are a political research assistant. Answer the user's question
from the conversation so far. Be concise and factual.`

// Synthesize produces the final answer from everything the run gathered.
// A model failure degrades to a deterministic apology rather than an
// error: the workflow always has a response to return.
func (a *Activities) Synthesize(ctx context.Context, in SynthesisInput) (SynthesisResult, error) {
	logger := activity.GetLogger(ctx)

	if in.Direct {
		return a.synthesizeDirect(ctx, in)
	}

	material, citations := renderMaterial(in)
	var user strings.Builder
	if len(in.History) > 0 {
		user.WriteString("Conversation so far:\n")
		user.WriteString(strings.Join(in.History, "\n"))
		user.WriteString("\n\n")
	}
	user.WriteString("Question: " + in.Query + "\n\n")
	user.WriteString("Gathered material:\n" + material)
	if !in.HasSufficientInfo {
		user.WriteString("\nNote: the gathered material is incomplete. Acknowledge the gaps.")
	}

	text, err := a.llm.Complete(ctx, synthesizerSystemPrompt, user.String())
	if err != nil {
		if ctx.Err() != nil {
			return SynthesisResult{}, ctx.Err()
		}
		metrics.SynthesisFallbacks.Inc()
		logger.Warn("Synthesis model call failed, returning degraded response", "error", err)
		return SynthesisResult{
			Response:   degradedSynthesis(in),
			Confidence: 0.1,
			Degraded:   true,
		}, nil
	}

	return SynthesisResult{
		Response:   text,
		Citations:  citations,
		Confidence: confidenceScore(in),
	}, nil
}

func (a *Activities) synthesizeDirect(ctx context.Context, in SynthesisInput) (SynthesisResult, error) {
	var user strings.Builder
	if len(in.History) > 0 {
		user.WriteString("Conversation so far:\n")
		user.WriteString(strings.Join(in.History, "\n"))
		user.WriteString("\n\n")
	}
	user.WriteString("Question: " + in.Query)

	text, err := a.llm.Complete(ctx, directSystemPrompt, user.String())
	if err != nil {
		if ctx.Err() != nil {
			return SynthesisResult{}, ctx.Err()
		}
		metrics.SynthesisFallbacks.Inc()
		return SynthesisResult{
			Response:   degradedSynthesis(in),
			Confidence: 0.1,
			Degraded:   true,
		}, nil
	}
	return SynthesisResult{Response: text, Confidence: 0.9}, nil
}

// renderMaterial serializes successful outcomes into prompt text and
// collects source URLs for the citation list. Outcomes are walked in
// sorted name order so the prompt is stable across runs.
func renderMaterial(in SynthesisInput) (string, []string) {
	var sb strings.Builder
	var citations []string
	n := 0

	walk := func(outcomes map[string]ToolOutcome) {
		names := make([]string, 0, len(outcomes))
		for name := range outcomes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out := outcomes[name]
			if !out.Success {
				continue
			}
			sb.WriteString("## " + name + "\n")
			if results, ok := out.Payload["results"].([]interface{}); ok {
				for _, item := range results {
					m, ok := item.(map[string]interface{})
					if !ok {
						continue
					}
					n++
					url, _ := m["url"].(string)
					title, _ := m["title"].(string)
					content, _ := m["content"].(string)
					sb.WriteString(fmt.Sprintf("[%d] %s (%s)\n%s\n", n, title, url, clip(content, 600)))
					if url != "" {
						citations = append(citations, url)
					}
				}
			} else if b, err := json.Marshal(out.Payload); err == nil {
				sb.WriteString(string(b) + "\n")
			}
			sb.WriteString("\n")
		}
	}
	walk(in.ToolResults)
	walk(in.SubAgentResults)

	if sb.Len() == 0 {
		sb.WriteString("(nothing was gathered)\n")
	}
	return sb.String(), citations
}

// confidenceScore derives a coarse confidence from result quality: the
// share of successful calls, discounted when the gate accepted partials.
func confidenceScore(in SynthesisInput) float64 {
	total := len(in.ToolResults) + len(in.SubAgentResults)
	if total == 0 {
		return 0.1
	}
	succeeded := 0
	for _, out := range in.ToolResults {
		if out.Success {
			succeeded++
		}
	}
	for _, out := range in.SubAgentResults {
		if out.Success {
			succeeded++
		}
	}
	score := 0.3 + 0.6*float64(succeeded)/float64(total)
	if !in.HasSufficientInfo {
		score *= 0.6
	}
	if score > 1 {
		score = 1
	}
	return score
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

func degradedSynthesis(in SynthesisInput) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("I was unable to produce a full analysis for %q at this time.", in.Query))
	if len(in.ErrorLog) > 0 {
		sb.WriteString(" Some research steps failed:\n")
		for _, e := range in.ErrorLog {
			sb.WriteString("- " + e + "\n")
		}
	}
	sb.WriteString("\nPlease try again shortly or rephrase the question.")
	return sb.String()
}
