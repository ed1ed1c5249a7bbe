package subagents

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/praxis-intel/argus/internal/scoring"
	"github.com/praxis-intel/argus/internal/search"
)

type stubSearcher struct {
	results []search.Result
	err     error
}

func (s *stubSearcher) Search(_ context.Context, _ search.Request) (*search.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &search.Response{Success: true, Results: s.results}, nil
}

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) CompleteJSON(_ context.Context, _, _ string, out any) error {
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.response), out)
}

type stubPipeline struct {
	result   *scoring.PipelineResult
	err      error
	runs     int
	keywords []string
}

func (s *stubPipeline) Run(_ context.Context, keywords []string) (*scoring.PipelineResult, error) {
	s.runs++
	s.keywords = keywords
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// memCache is an always-fresh in-memory FreshnessCache.
type memCache struct {
	entries map[string]json.RawMessage
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]json.RawMessage)}
}

func (m *memCache) Get(_ context.Context, key string, _ time.Duration) (json.RawMessage, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *memCache) Put(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func samplePipelineResult() *scoring.PipelineResult {
	return &scoring.PipelineResult{
		Queries:       []string{"q"},
		FetchedCount:  6,
		RelevantCount: 4,
		SourceDomains: 3,
		Topics: []scoring.ScoredTopic{
			{
				ExtractedTopic: scoring.ExtractedTopic{
					Name:     "Strait tensions",
					Entities: []string{"Taiwan", "China"},
				},
				TotalScore:     80,
				Classification: scoring.TierCritical,
				Rank:           1,
			},
			{
				ExtractedTopic: scoring.ExtractedTopic{Name: "Trade talks"},
				TotalScore:     30,
				Classification: scoring.TierModerate,
				Rank:           2,
			},
		},
	}
}

func TestMonitorAgentCachesByKeywordSet(t *testing.T) {
	pipe := &stubPipeline{result: samplePipelineResult()}
	c := newMemCache()
	agent := NewMonitorAgent(pipe, c, 15*time.Minute, nil, zaptest.NewLogger(t))
	ctx := context.Background()

	res, err := agent.Invoke(ctx, "", map[string]any{"keywords": []string{"Taiwan", "strait"}})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, false, res.Data["from_cache"])
	assert.Equal(t, 1, pipe.runs)

	// Same set, different case and order: served from cache.
	res, err = agent.Invoke(ctx, "", map[string]any{"keywords": []string{"strait", "taiwan"}})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, true, res.Data["from_cache"])
	assert.Equal(t, 1, pipe.runs)

	// A different set misses.
	_, err = agent.Invoke(ctx, "", map[string]any{"keywords": []string{"sahel"}})
	require.NoError(t, err)
	assert.Equal(t, 2, pipe.runs)
}

func TestMonitorAgentWithoutCacheAlwaysRuns(t *testing.T) {
	pipe := &stubPipeline{result: samplePipelineResult()}
	agent := NewMonitorAgent(pipe, nil, 0, nil, zaptest.NewLogger(t))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := agent.Invoke(ctx, "taiwan strait", nil)
		require.NoError(t, err)
		assert.True(t, res.Success)
	}
	assert.Equal(t, 2, pipe.runs)
}

func TestMonitorAgentNoKeywords(t *testing.T) {
	agent := NewMonitorAgent(&stubPipeline{}, nil, 0, nil, zaptest.NewLogger(t))

	res, err := agent.Invoke(context.Background(), "   ", nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no keywords")
}

func TestMonitorAgentFallsBackToWatchList(t *testing.T) {
	pipe := &stubPipeline{result: samplePipelineResult()}
	agent := NewMonitorAgent(pipe, nil, 0, []string{"taiwan", "sahel"}, zaptest.NewLogger(t))

	res, err := agent.Invoke(context.Background(), "   ", nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, []string{"taiwan", "sahel"}, pipe.keywords)
}

func TestSitrepAgentFallsBackToWatchList(t *testing.T) {
	pipe := &stubPipeline{result: samplePipelineResult()}
	agent := NewSitrepAgent(pipe, nil, []string{"taiwan"}, zaptest.NewLogger(t))

	res, err := agent.Invoke(context.Background(), "", nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, []string{"taiwan"}, pipe.keywords)
}

func TestMonitorAgentPipelineFailure(t *testing.T) {
	agent := NewMonitorAgent(&stubPipeline{err: errors.New("boom")}, nil, 0, nil, zaptest.NewLogger(t))

	res, err := agent.Invoke(context.Background(), "taiwan", nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

type captureArchiver struct {
	report     string
	topicCount int
	calls      int
}

func (c *captureArchiver) SaveSitrep(_ context.Context, _ []string, report string, topicCount int) error {
	c.calls++
	c.report = report
	c.topicCount = topicCount
	return nil
}

func TestSitrepAgentGeneratesAndArchives(t *testing.T) {
	pipe := &stubPipeline{result: samplePipelineResult()}
	arch := &captureArchiver{}
	agent := NewSitrepAgent(pipe, arch, nil, zaptest.NewLogger(t))

	res, err := agent.Invoke(context.Background(), "taiwan strait", nil)
	require.NoError(t, err)
	require.True(t, res.Success)

	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, "report", res.Artifacts[0].Type)
	assert.Equal(t, 1, arch.calls)
	assert.Equal(t, 2, arch.topicCount)
	assert.Contains(t, arch.report, "SITUATION REPORT")
}

func TestFormatSitrepGroupsByTier(t *testing.T) {
	at := time.Date(2026, 8, 23, 14, 0, 0, 0, time.UTC)
	out := FormatSitrep([]string{"taiwan"}, samplePipelineResult(), at)

	assert.Contains(t, out, "2026-08-23 14:00 UTC")
	assert.Contains(t, out, "CRITICAL:")
	assert.Contains(t, out, "1. Strait tensions (score 80)")
	assert.Contains(t, out, "Taiwan, China")
	assert.Contains(t, out, "MODERATE:")
	// Tiers with no topics are omitted entirely.
	assert.NotContains(t, out, "HIGH:")
	assert.NotContains(t, out, "LOW:")
}

func TestFormatSitrepEmpty(t *testing.T) {
	out := FormatSitrep([]string{"taiwan"}, &scoring.PipelineResult{}, time.Now().UTC())
	assert.Contains(t, out, "No significant topics detected")
}

func TestSentimentAgent(t *testing.T) {
	searcher := &stubSearcher{results: []search.Result{
		{Title: "Coverage A", Content: "upbeat", URL: "https://alpha.example/a"},
		{Title: "Coverage B", Content: "grim", URL: "https://bravo.example/b"},
	}}
	llm := &stubCompleter{response: `{
		"overall_sentiment": "mixed", "score": -0.1,
		"by_source": [{"source": "alpha.example", "sentiment": "positive", "evidence": "upbeat"}],
		"key_phrases": ["upbeat"], "summary": "split coverage"
	}`}
	agent := NewSentimentAgent(searcher, llm, zaptest.NewLogger(t))

	res, err := agent.Invoke(context.Background(), "election", nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "mixed", res.Data["overall_sentiment"])
	assert.Equal(t, 2, res.Data["sources_analyzed"])
}

func TestSentimentAgentNoCoverage(t *testing.T) {
	agent := NewSentimentAgent(&stubSearcher{}, &stubCompleter{}, zaptest.NewLogger(t))

	res, err := agent.Invoke(context.Background(), "obscure", nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no coverage")
}

func TestMediaBiasAgentRequiresOutletDiversity(t *testing.T) {
	searcher := &stubSearcher{results: []search.Result{
		{Title: "A", URL: "https://same.example/1"},
		{Title: "B", URL: "https://same.example/2"},
	}}
	agent := NewMediaBiasAgent(searcher, &stubCompleter{}, zaptest.NewLogger(t))

	res, err := agent.Invoke(context.Background(), "summit", nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "outlet diversity")
}

func TestMediaBiasAgentComparesOutlets(t *testing.T) {
	searcher := &stubSearcher{results: []search.Result{
		{Title: "A", Content: "framing one", URL: "https://alpha.example/1"},
		{Title: "B", Content: "framing two", URL: "https://bravo.example/2"},
	}}
	llm := &stubCompleter{response: `{
		"outlets": [
			{"name": "alpha.example", "lean": "center", "framing": "neutral"},
			{"name": "bravo.example", "lean": "right", "framing": "alarmist"}
		],
		"framing_divergence": "high", "summary": "outlets diverge"
	}`}
	agent := NewMediaBiasAgent(searcher, llm, zaptest.NewLogger(t))

	res, err := agent.Invoke(context.Background(), "summit", nil)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "high", res.Data["framing_divergence"])
	assert.Equal(t, 2, res.Data["outlets_compared"])
}

func TestKeywordsFromParams(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, keywordsFromParams(map[string]any{"keywords": []string{"a", "b"}}, ""))
	assert.Equal(t, []string{"a", "b"}, keywordsFromParams(map[string]any{"keywords": []interface{}{"a", "b"}}, ""))
	assert.Equal(t, []string{"a", "b"}, keywordsFromParams(map[string]any{"keywords": "a b"}, ""))
	assert.Equal(t, []string{"from", "query"}, keywordsFromParams(nil, "from query"))
	assert.Empty(t, keywordsFromParams(nil, "  "))
}
