package scoring

import (
	"context"

	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/metrics"
)

// Pipeline wires the stages of the event scoring flow:
// query generation -> fetch -> relevance filter -> topic extraction ->
// explosiveness scoring -> ranking. The monitor and sitrep agents share one
// instance.
type Pipeline struct {
	searcher       Searcher
	llm            Completer
	crisisKeywords []string
	maxBatch       int
	topN           int
	maxResults     int
	logger         *zap.Logger
}

// PipelineOptions bound the pipeline's per-run work.
type PipelineOptions struct {
	MaxBatch   int // documents per topic-extraction call
	TopN       int // ranked topics kept
	MaxResults int // results requested per search query
}

// NewPipeline builds a pipeline over the given collaborators.
func NewPipeline(searcher Searcher, llm Completer, crisisKeywords []string, opts PipelineOptions, logger *zap.Logger) *Pipeline {
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = 12
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}
	return &Pipeline{
		searcher:       searcher,
		llm:            llm,
		crisisKeywords: crisisKeywords,
		maxBatch:       opts.MaxBatch,
		topN:           opts.TopN,
		maxResults:     opts.MaxResults,
		logger:         logger,
	}
}

// Run executes the full pipeline for the given watch keywords. It degrades
// rather than fails: LLM stage failures produce empty topic lists, and only
// a cancelled context aborts the run.
func (p *Pipeline) Run(ctx context.Context, keywords []string) (*PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queries, fellBack := GenerateQueries(ctx, p.llm, keywords, p.logger)
	result := &PipelineResult{Queries: queries, QuerygenFellBack: fellBack}
	if len(queries) == 0 {
		return result, nil
	}

	fetched := Fetch(ctx, p.searcher, queries, p.maxResults, p.logger)
	result.FetchedCount = len(fetched.Events)
	result.SourceDomains = fetched.SourceDomains

	relevant := FilterRelevant(fetched.Events, keywords, p.crisisKeywords)
	result.RelevantCount = len(relevant)
	metrics.PipelineDocumentsKept.Add(float64(len(relevant)))

	p.logger.Info("Pipeline fetch and filter complete",
		zap.Int("fetched", result.FetchedCount),
		zap.Int("relevant", result.RelevantCount),
		zap.Int("source_domains", result.SourceDomains),
	)

	if len(relevant) == 0 {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topics := ExtractTopics(ctx, p.llm, relevant, p.maxBatch, p.logger)
	result.Topics = ScoreTopics(topics, fetched.SourceDomains, true, p.topN)

	p.logger.Info("Pipeline scoring complete",
		zap.Int("topics", len(result.Topics)),
	)
	return result, nil
}
