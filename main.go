package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/activities"
	"github.com/praxis-intel/argus/internal/cache"
	"github.com/praxis-intel/argus/internal/capabilities"
	"github.com/praxis-intel/argus/internal/config"
	"github.com/praxis-intel/argus/internal/constants"
	"github.com/praxis-intel/argus/internal/health"
	"github.com/praxis-intel/argus/internal/llm"
	"github.com/praxis-intel/argus/internal/registry"
	"github.com/praxis-intel/argus/internal/scoring"
	"github.com/praxis-intel/argus/internal/search"
	"github.com/praxis-intel/argus/internal/session"
	"github.com/praxis-intel/argus/internal/store"
	"github.com/praxis-intel/argus/internal/subagents"
	"github.com/praxis-intel/argus/internal/tracing"
	"github.com/praxis-intel/argus/internal/workflows"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	keywordsPath := os.Getenv("ARGUS_KEYWORDS_PATH")
	if keywordsPath == "" {
		keywordsPath = "config/keywords.yaml"
	}
	keywords, err := config.LoadKeywords(keywordsPath)
	if err != nil {
		logger.Fatal("Failed to load keywords", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Initialize(cfg.Tracing, logger)
		if err != nil {
			logger.Warn("Tracing init failed, continuing without it", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(ctx)
			}()
		}
	}

	// Collaborators.
	llmClient := llm.New(cfg.LLM, logger)
	searchClient := search.NewClient(cfg.Search, logger)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	sessions := session.NewManager(rdb, logger)
	monitorCache := cache.New(rdb, time.Hour, logger)

	runStore, err := store.Open(cfg.Postgres, logger)
	if err != nil {
		// Archival is a non-critical path; run without it rather than refuse to start.
		logger.Warn("Postgres unavailable, run records will not be archived", zap.Error(err))
		runStore = nil
	} else {
		defer runStore.Close()
	}

	// Event scoring pipeline, shared by the monitor and sitrep agents.
	pipeline := scoring.NewPipeline(searchClient, llmClient, keywords.Crisis, scoring.PipelineOptions{
		MaxBatch:   cfg.Monitor.MaxBatch,
		TopN:       cfg.Monitor.TopN,
		MaxResults: cfg.Search.MaxResults,
	}, logger)

	var archiver subagents.SitrepArchiver
	if runStore != nil {
		archiver = runStore
	}
	agents := subagents.NewAgentRegistry(
		subagents.NewSentimentAgent(searchClient, llmClient, logger),
		subagents.NewMediaBiasAgent(searchClient, llmClient, logger),
		subagents.NewMonitorAgent(pipeline, monitorCache, cfg.Monitor.FreshnessWindow, keywords.Watch, logger),
		subagents.NewSitrepAgent(pipeline, archiver, keywords.Watch, logger),
	)

	deps := activities.Deps{
		LLM:      llmClient,
		Search:   searchClient,
		Agents:   agents,
		Caps:     capabilities.DefaultRegistry(),
		Sessions: sessions,
		Logger:   logger,
	}
	if runStore != nil {
		deps.Runs = runStore
	}
	acts := activities.NewActivities(deps)

	// Health and metrics endpoints.
	healthMgr := health.NewManager(logger)
	healthMgr.Register(health.CheckerFunc{CheckerName: "redis", Fn: sessions.Ping})
	if runStore != nil {
		healthMgr.Register(health.CheckerFunc{CheckerName: "postgres", Fn: runStore.Ping})
	}
	go serveHTTP(fmt.Sprintf(":%d", cfg.HealthPort), healthMgr.Handler(), "health", logger)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	go serveHTTP(fmt.Sprintf(":%d", cfg.MetricsPort), metricsMux, "metrics", logger)

	// Temporal worker.
	temporalClient, err := client.Dial(client.Options{
		HostPort: cfg.TemporalHost,
	})
	if err != nil {
		logger.Fatal("Failed to connect to Temporal", zap.Error(err))
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, constants.DefaultTaskQueue, worker.Options{})
	registry.RegisterWorkflows(w, workflows.Defaults{
		MaxIterations: cfg.Orchestrator.MaxIterations,
		Richness: workflows.RichnessThresholds{
			SearchMinItems:  cfg.Orchestrator.RichResultMinItems,
			ExtractMinChars: cfg.Orchestrator.RichContentMinChars,
			AgentMinPayload: cfg.Orchestrator.RichPayloadMinBytes,
		},
	})
	registry.RegisterActivities(w, acts)

	logger.Info("Worker starting",
		zap.String("task_queue", constants.DefaultTaskQueue),
		zap.String("temporal_host", cfg.TemporalHost),
	)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("Worker exited", zap.Error(err))
	}
	logger.Info("Worker stopped")
}

func serveHTTP(addr string, handler http.Handler, name string, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("HTTP server listening", zap.String("server", name), zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("HTTP server failed", zap.String("server", name), zap.Error(err))
	}
}
