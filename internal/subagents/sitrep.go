package subagents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/capabilities"
	"github.com/praxis-intel/argus/internal/scoring"
)

// SitrepArchiver persists generated situation reports.
type SitrepArchiver interface {
	SaveSitrep(ctx context.Context, keywords []string, report string, topicCount int) error
}

// SitrepAgent builds a situation report: a ranked digest of current events
// produced by the event scoring pipeline.
type SitrepAgent struct {
	pipeline TopicPipeline
	archiver SitrepArchiver
	watch    []string
	logger   *zap.Logger
}

// NewSitrepAgent builds the sitrep sub-agent. archiver may be nil. watch
// is the standing keyword list used when an invocation supplies none.
func NewSitrepAgent(pipeline TopicPipeline, archiver SitrepArchiver, watch []string, logger *zap.Logger) *SitrepAgent {
	return &SitrepAgent{pipeline: pipeline, archiver: archiver, watch: watch, logger: logger}
}

func (a *SitrepAgent) Name() string { return capabilities.Sitrep }

// Invoke generates one situation report.
func (a *SitrepAgent) Invoke(ctx context.Context, query string, params map[string]any) (*Result, error) {
	keywords := keywordsFromParams(params, query)
	if len(keywords) == 0 {
		keywords = a.watch
	}
	if len(keywords) == 0 {
		return failure("no keywords for situation report"), nil
	}

	result, err := a.pipeline.Run(ctx, keywords)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return failure("sitrep pipeline failed: " + err.Error()), nil
	}

	report := FormatSitrep(keywords, result, time.Now().UTC())

	if a.archiver != nil {
		if err := a.archiver.SaveSitrep(ctx, keywords, report, len(result.Topics)); err != nil {
			a.logger.Warn("Failed to archive sitrep", zap.Error(err))
		}
	}

	return &Result{
		Success: true,
		Data: map[string]any{
			"report":         report,
			"topic_count":    len(result.Topics),
			"fetched_count":  result.FetchedCount,
			"relevant_count": result.RelevantCount,
		},
		Artifacts: []Artifact{{
			Type:    "report",
			Title:   "Situation Report: " + strings.Join(keywords, ", "),
			Content: report,
		}},
	}, nil
}

// FormatSitrep renders a ranked topic list as a plain-text digest grouped
// by classification tier.
func FormatSitrep(keywords []string, result *scoring.PipelineResult, at time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("SITUATION REPORT - %s\n", at.Format("2006-01-02 15:04 UTC")))
	sb.WriteString(fmt.Sprintf("Watch: %s\n", strings.Join(keywords, ", ")))
	sb.WriteString(fmt.Sprintf("Sources scanned: %d documents across %d domains, %d relevant\n\n",
		result.FetchedCount, result.SourceDomains, result.RelevantCount))

	if len(result.Topics) == 0 {
		sb.WriteString("No significant topics detected in this window.\n")
		return sb.String()
	}

	tiers := []scoring.Classification{
		scoring.TierCritical, scoring.TierHigh, scoring.TierModerate, scoring.TierLow,
	}
	for _, tier := range tiers {
		var lines []string
		for _, t := range result.Topics {
			if t.Classification != tier {
				continue
			}
			line := fmt.Sprintf("  %d. %s (score %d)", t.Rank, t.Name, t.TotalScore)
			if len(t.Entities) > 0 {
				line += " - " + strings.Join(t.Entities, ", ")
			}
			if t.Reasoning != "" {
				line += "\n     " + t.Reasoning
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		sb.WriteString(strings.ToUpper(string(tier)) + ":\n")
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}
