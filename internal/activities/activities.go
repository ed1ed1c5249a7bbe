package activities

import (
	"context"

	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/capabilities"
	"github.com/praxis-intel/argus/internal/search"
	"github.com/praxis-intel/argus/internal/session"
	"github.com/praxis-intel/argus/internal/store"
	"github.com/praxis-intel/argus/internal/subagents"
)

// LLMClient is the slice of the language-model client the activities use.
type LLMClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
	CompleteJSON(ctx context.Context, system, user string, out any) error
}

// SearchClient is the slice of the web search client the executor uses.
type SearchClient interface {
	Search(ctx context.Context, req search.Request) (*search.Response, error)
	Extract(ctx context.Context, urls []string, format string) (*search.ExtractResponse, error)
}

// AgentRegistry resolves sub-agents by capability name.
type AgentRegistry interface {
	Get(name string) (subagents.Agent, bool)
}

// SessionStore appends exchanges to conversation history.
type SessionStore interface {
	AddTurn(ctx context.Context, sessionID string, turn session.Turn) error
}

// RunStore archives completed run records.
type RunStore interface {
	SaveRunRecord(ctx context.Context, rec store.RunRecord) error
}

// Activities bundles the orchestrator's activity implementations with
// their dependencies. Optional dependencies (sessions, runs) may be nil;
// the corresponding activities then no-op with a warning.
type Activities struct {
	llm      LLMClient
	search   SearchClient
	agents   AgentRegistry
	caps     *capabilities.Registry
	sessions SessionStore
	runs     RunStore
	logger   *zap.Logger
}

// Deps collects the collaborators injected into the activity set.
type Deps struct {
	LLM      LLMClient
	Search   SearchClient
	Agents   AgentRegistry
	Caps     *capabilities.Registry
	Sessions SessionStore
	Runs     RunStore
	Logger   *zap.Logger
}

// NewActivities builds the activity set.
func NewActivities(d Deps) *Activities {
	caps := d.Caps
	if caps == nil {
		caps = capabilities.DefaultRegistry()
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Activities{
		llm:      d.LLM,
		search:   d.Search,
		agents:   d.Agents,
		caps:     caps,
		sessions: d.Sessions,
		runs:     d.Runs,
		logger:   logger,
	}
}
