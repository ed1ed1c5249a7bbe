package scoring

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/metrics"
	"github.com/praxis-intel/argus/internal/search"
)

// Searcher is the narrow search contract the pipeline needs.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Response, error)
}

// FetchResult carries the deduplicated documents plus source statistics.
type FetchResult struct {
	Events        []RawEvent
	SourceDomains int
}

// Fetch executes each query against the search collaborator, deduplicates
// results by URL across all queries, and counts unique source domains. A
// failing query is logged and skipped; fetch only fails when every query
// fails to even execute.
func Fetch(ctx context.Context, searcher Searcher, queries []string, maxResults int, logger *zap.Logger) FetchResult {
	seen := make(map[string]bool)
	domains := make(map[string]bool)
	var events []RawEvent

	for _, q := range queries {
		resp, err := searcher.Search(ctx, search.Request{Query: q, MaxResults: maxResults})
		if err != nil {
			logger.Warn("Pipeline fetch query failed", zap.String("query", q), zap.Error(err))
			continue
		}
		for _, r := range resp.Results {
			if r.URL == "" || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			if d := domainOf(r.URL); d != "" {
				domains[d] = true
			}
			events = append(events, RawEvent{
				Title:         r.Title,
				Content:       r.Content,
				URL:           r.URL,
				PublishedDate: r.PublishedDate,
			})
		}
	}

	metrics.PipelineDocumentsFetched.Add(float64(len(events)))
	return FetchResult{Events: events, SourceDomains: len(domains)}
}

func domainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
