package scoring

// RawEvent is one fetched document before filtering.
type RawEvent struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date,omitempty"`
}

// ExtractedTopic is a topic derived from a batch of relevant documents.
type ExtractedTopic struct {
	Name             string   `json:"name"`
	Frequency        int      `json:"frequency"`
	LLMExplosiveness int      `json:"llm_explosiveness"` // 1-10
	Entities         []string `json:"entities,omitempty"`
	Reasoning        string   `json:"reasoning,omitempty"`
}

// SignalBreakdown holds the five independent integer signals that sum to the
// total explosiveness score.
type SignalBreakdown struct {
	LLMRating       int `json:"llm_rating"`       // scaled, max 40
	Frequency       int `json:"frequency"`        // capped, max 20
	SourceDiversity int `json:"source_diversity"` // capped, max 15
	Urgency         int `json:"urgency"`          // capped, max 15
	Recency         int `json:"recency"`          // fixed bonus, max 10
}

// Total sums the signals.
func (s SignalBreakdown) Total() int {
	return s.LLMRating + s.Frequency + s.SourceDiversity + s.Urgency + s.Recency
}

// Classification is one of four ordered tiers derived from the total score.
type Classification string

const (
	TierCritical Classification = "critical"
	TierHigh     Classification = "high"
	TierModerate Classification = "moderate"
	TierLow      Classification = "low"
)

// ScoredTopic is an extracted topic with its final score, tier and rank.
type ScoredTopic struct {
	ExtractedTopic
	Signals        SignalBreakdown `json:"signals"`
	TotalScore     int             `json:"total_score"` // 0-100
	Classification Classification  `json:"classification"`
	Rank           int             `json:"rank"` // dense 1..N by score desc
}

// PipelineResult is the full output of one pipeline run.
type PipelineResult struct {
	Queries          []string      `json:"queries"`
	FetchedCount     int           `json:"fetched_count"`
	RelevantCount    int           `json:"relevant_count"`
	SourceDomains    int           `json:"source_domains"`
	Topics           []ScoredTopic `json:"topics"`
	QuerygenFellBack bool          `json:"querygen_fell_back"`
}
