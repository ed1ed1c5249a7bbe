package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Workflow metrics
	WorkflowsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_workflows_started_total",
			Help: "Total number of research workflows started",
		},
		[]string{"workflow_type"},
	)

	WorkflowsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_workflows_completed_total",
			Help: "Total number of research workflows completed",
		},
		[]string{"workflow_type", "status"},
	)

	// Decision gate metrics
	GateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_gate_decisions_total",
			Help: "Decision gate outcomes by state",
		},
		[]string{"state"},
	)

	RetryStrategiesUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_retry_strategies_total",
			Help: "Retry strategies selected by the decision gate",
		},
		[]string{"strategy"},
	)

	// Capability metrics
	CapabilityExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_capability_executions_total",
			Help: "Capability invocations by name and status",
		},
		[]string{"capability", "status"},
	)

	CapabilityDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "argus_capability_duration_seconds",
			Help:    "Capability invocation duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"capability"},
	)

	// Scoring pipeline metrics
	PipelineDocumentsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_pipeline_documents_fetched_total",
			Help: "Raw documents fetched by the event scoring pipeline",
		},
	)

	PipelineDocumentsKept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_pipeline_documents_kept_total",
			Help: "Documents passing the relevance filter",
		},
	)

	TopicsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_topics_extracted_total",
			Help: "Topics extracted from relevant document batches",
		},
	)

	TopicsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_topics_classified_total",
			Help: "Scored topics by classification tier",
		},
		[]string{"tier"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_cache_hits_total",
			Help: "Monitor cache hits within the freshness window",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_cache_misses_total",
			Help: "Monitor cache misses or stale entries",
		},
	)

	// LLM collaborator metrics
	LLMParseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_llm_parse_failures_total",
			Help: "Structured-output parse failures by call site",
		},
		[]string{"site"},
	)

	SynthesisFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_synthesis_fallbacks_total",
			Help: "Degraded responses returned after synthesis failure",
		},
	)

	// Session metrics
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_sessions_created_total",
			Help: "Total number of sessions created",
		},
	)

	SessionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_session_cache_hits_total",
			Help: "Session local-cache hits",
		},
	)

	SessionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_session_cache_misses_total",
			Help: "Session local-cache misses",
		},
	)
)
