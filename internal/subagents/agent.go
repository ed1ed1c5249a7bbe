package subagents

import (
	"context"
	"strings"
)

// Result is the uniform envelope every sub-agent returns, regardless of
// identity. Failures are carried inside the envelope; Invoke only returns an
// error for context cancellation.
type Result struct {
	Success   bool           `json:"success"`
	Data      map[string]any `json:"data,omitempty"`
	Artifacts []Artifact     `json:"artifacts,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Artifact is an optional renderable output (chart data, report document).
type Artifact struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// Agent is a delegated capability the orchestrator can invoke.
type Agent interface {
	Name() string
	Invoke(ctx context.Context, query string, params map[string]any) (*Result, error)
}

// Registry maps capability names to agents.
type Registry struct {
	agents map[string]Agent
}

// NewAgentRegistry builds a registry from the given agents.
func NewAgentRegistry(agents ...Agent) *Registry {
	r := &Registry{agents: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		r.agents[a.Name()] = a
	}
	return r
}

// Get looks up an agent by capability name.
func (r *Registry) Get(name string) (Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// keywordsFromParams pulls a keyword list out of loosely-typed invocation
// params; workflow payloads round-trip through JSON so lists arrive as
// []interface{}.
func keywordsFromParams(params map[string]any, query string) []string {
	if params != nil {
		switch v := params["keywords"].(type) {
		case []string:
			if len(v) > 0 {
				return v
			}
		case []interface{}:
			var out []string
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if v != "" {
				return strings.Fields(v)
			}
		}
	}
	return strings.Fields(query)
}

func failure(msg string) *Result {
	return &Result{Success: false, Error: msg}
}
