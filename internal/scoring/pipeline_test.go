package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/praxis-intel/argus/internal/search"
)

type fakeSearcher struct {
	results []search.Result
	err     error
	calls   int
}

func (f *fakeSearcher) Search(_ context.Context, _ search.Request) (*search.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &search.Response{Success: true, Results: f.results}, nil
}

func TestPipelineEndToEnd(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{
		{Title: "Ukraine war intensifies", Content: "Front line reports", URL: "https://alpha.example/1"},
		{Title: "Ukraine aid package", Content: "New support announced", URL: "https://bravo.example/2"},
		{Title: "Celebrity cooking show", Content: "Season finale", URL: "https://charlie.example/3"},
	}}
	llm := &fakeCompleter{
		// Query generation fails; topic extraction succeeds.
		errs: []error{errors.New("model down"), nil},
		responses: []string{
			"",
			`{"topics": [{"name": "Ukraine war escalation", "frequency": 3,
			  "explosiveness": 8, "entities": ["Ukraine", "Russia"],
			  "reasoning": "active front line movement"}]}`,
		},
	}
	p := NewPipeline(searcher, llm, []string{"war"}, PipelineOptions{}, zaptest.NewLogger(t))

	result, err := p.Run(context.Background(), []string{"ukraine"})
	require.NoError(t, err)

	assert.True(t, result.QuerygenFellBack)
	// Fallback produces two queries for a single keyword; results dedup by URL.
	assert.Equal(t, 2, searcher.calls)
	assert.Equal(t, 3, result.FetchedCount)
	assert.Equal(t, 3, result.SourceDomains)
	assert.Equal(t, 2, result.RelevantCount)

	require.Len(t, result.Topics, 1)
	top := result.Topics[0]
	assert.Equal(t, "Ukraine war escalation", top.Name)
	assert.Equal(t, 1, top.Rank)
	// llm 8*4 + freq 3*5 + diversity 3*3 + urgency "escalat" 5 + recency 10
	assert.Equal(t, 71, top.TotalScore)
	assert.Equal(t, TierHigh, top.Classification)
}

func TestPipelineNoRelevantDocuments(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{
		{Title: "Gardening tips", Content: "Tomatoes", URL: "https://a.example/1"},
	}}
	llm := &fakeCompleter{errs: []error{errors.New("model down")}}
	p := NewPipeline(searcher, llm, nil, PipelineOptions{}, zaptest.NewLogger(t))

	result, err := p.Run(context.Background(), []string{"ukraine"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FetchedCount)
	assert.Zero(t, result.RelevantCount)
	assert.Empty(t, result.Topics)
	// Only the querygen call happened; extraction was skipped.
	assert.Equal(t, 1, llm.calls)
}

func TestPipelineSearchFailureDegrades(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("upstream 500")}
	llm := &fakeCompleter{errs: []error{errors.New("model down")}}
	p := NewPipeline(searcher, llm, nil, PipelineOptions{}, zaptest.NewLogger(t))

	result, err := p.Run(context.Background(), []string{"ukraine"})
	require.NoError(t, err)

	assert.Zero(t, result.FetchedCount)
	assert.Empty(t, result.Topics)
}

func TestPipelineCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(&fakeSearcher{}, &fakeCompleter{}, nil, PipelineOptions{}, zaptest.NewLogger(t))
	_, err := p.Run(ctx, []string{"ukraine"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchDeduplicatesByURL(t *testing.T) {
	searcher := &fakeSearcher{results: []search.Result{
		{Title: "one", URL: "https://a.example/x"},
		{Title: "dup", URL: "https://a.example/x"},
		{Title: "two", URL: "https://www.b.example/y"},
	}}
	out := Fetch(context.Background(), searcher, []string{"q1", "q2"}, 10, zaptest.NewLogger(t))

	assert.Len(t, out.Events, 2)
	// www. prefix is stripped when counting domains.
	assert.Equal(t, 2, out.SourceDomains)
}

func TestExtractTopicsClampsModelOutput(t *testing.T) {
	llm := &fakeCompleter{responses: []string{
		`{"topics": [
			{"name": "overrated", "frequency": 0, "explosiveness": 99},
			{"name": "", "frequency": 1, "explosiveness": 5},
			{"name": "underrated", "frequency": 2, "explosiveness": -3}
		]}`,
	}}
	topics := ExtractTopics(context.Background(), llm,
		[]RawEvent{{Title: "doc"}}, 12, zaptest.NewLogger(t))

	require.Len(t, topics, 2)
	assert.Equal(t, 10, topics[0].LLMExplosiveness)
	assert.Equal(t, 1, topics[0].Frequency)
	assert.Equal(t, 1, topics[1].LLMExplosiveness)
}

func TestClipKeepsRuneBoundary(t *testing.T) {
	// Cyrillic runes are two bytes; an odd byte limit lands mid-rune.
	s := strings.Repeat("ий", 200)
	out := clip(s, 501)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 500, len(out))
	assert.Equal(t, "short", clip("short", 501))
}
