package workflows

import "github.com/praxis-intel/argus/internal/activities"

// RichnessThresholds define when an individual outcome counts as rich.
type RichnessThresholds struct {
	SearchMinItems  int
	ExtractMinChars int
	AgentMinPayload int
}

// DefaultRichness returns the standard thresholds: a search is rich with
// three or more items, an extraction with 200+ characters of content, and
// an agent result with a payload of 256+ bytes.
func DefaultRichness() RichnessThresholds {
	return RichnessThresholds{SearchMinItems: 3, ExtractMinChars: 200, AgentMinPayload: 256}
}

// Assessment summarizes the quality of everything gathered so far. It is
// a read-only judgment; the decision gate turns it into a state change.
type Assessment struct {
	HasAnyResults  bool
	HasGoodResults bool
	ResultCount    int
	HasRichData    bool
}

// AssessResults inspects accumulated tool and sub-agent outcomes. A run
// has good results only when at least one call succeeded and at least one
// successful outcome is rich by its kind's threshold.
func AssessResults(tools, agents map[string]activities.ToolOutcome, th RichnessThresholds) Assessment {
	var a Assessment
	judge := func(out activities.ToolOutcome) {
		if !out.Success {
			return
		}
		a.ResultCount++
		switch out.Kind {
		case activities.OutcomeKindSearch:
			if out.ItemCount >= th.SearchMinItems {
				a.HasRichData = true
			}
		case activities.OutcomeKindExtract:
			if out.ContentChars >= th.ExtractMinChars {
				a.HasRichData = true
			}
		case activities.OutcomeKindAgent:
			if out.PayloadBytes >= th.AgentMinPayload {
				a.HasRichData = true
			}
		}
	}
	for _, out := range tools {
		judge(out)
	}
	for _, out := range agents {
		judge(out)
	}
	a.HasAnyResults = a.ResultCount > 0
	a.HasGoodResults = a.HasAnyResults && a.HasRichData
	return a
}
