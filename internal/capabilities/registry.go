package capabilities

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind distinguishes direct tools from delegated sub-agents.
type Kind string

const (
	KindTool  Kind = "tool"
	KindAgent Kind = "agent"
)

// Well-known capability names.
const (
	WebSearch         = "web_search"
	WebExtract        = "web_extract"
	SentimentAnalysis = "sentiment_analysis"
	MediaBias         = "media_bias"
	LiveMonitor       = "live_monitor"
	Sitrep            = "sitrep"
)

// DefaultCapability is the fallback the planner selects when it cannot
// produce a parseable decision. It must always be registered.
const DefaultCapability = WebSearch

// Capability describes one callable unit the orchestrator can delegate to.
type Capability struct {
	Name        string
	Description string
	UseFor      []string
	Kind        Kind
}

// Registry holds the capability descriptors available to the planner.
type Registry struct {
	mu   sync.RWMutex
	caps map[string]Capability
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]Capability)}
}

// Register adds or replaces a capability descriptor.
func (r *Registry) Register(c Capability) error {
	if c.Name == "" {
		return fmt.Errorf("capability name is required")
	}
	if c.Kind != KindTool && c.Kind != KindAgent {
		return fmt.Errorf("capability %q has unknown kind %q", c.Name, c.Kind)
	}
	r.mu.Lock()
	r.caps[c.Name] = c
	r.mu.Unlock()
	return nil
}

// Get looks up a capability by name.
func (r *Registry) Get(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caps[name]
	return c, ok
}

// List returns all capabilities sorted by name.
func (r *Registry) List() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Capability, 0, len(r.caps))
	for _, c := range r.caps {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Describe renders the registry as prompt-ready text: one line per
// capability with its use_for tags.
func (r *Registry) Describe() string {
	var sb strings.Builder
	for _, c := range r.List() {
		sb.WriteString(fmt.Sprintf("- %s: %s (use for: %s)\n",
			c.Name, c.Description, strings.Join(c.UseFor, ", ")))
	}
	return sb.String()
}

// DefaultRegistry builds the standing capability set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	defaults := []Capability{
		{
			Name:        WebSearch,
			Description: "Search the web for news, analysis and primary sources",
			UseFor:      []string{"current events", "background research", "fact finding"},
			Kind:        KindTool,
		},
		{
			Name:        WebExtract,
			Description: "Extract full page content from specific URLs",
			UseFor:      []string{"deep reading", "document retrieval"},
			Kind:        KindTool,
		},
		{
			Name:        SentimentAnalysis,
			Description: "Analyze sentiment of coverage around a political topic or actor",
			UseFor:      []string{"public opinion", "tone of coverage"},
			Kind:        KindAgent,
		},
		{
			Name:        MediaBias,
			Description: "Detect framing and bias across outlets covering a topic",
			UseFor:      []string{"bias detection", "source comparison"},
			Kind:        KindAgent,
		},
		{
			Name:        LiveMonitor,
			Description: "Monitor live news for explosive geopolitical topics",
			UseFor:      []string{"breaking news", "topic monitoring"},
			Kind:        KindAgent,
		},
		{
			Name:        Sitrep,
			Description: "Generate a situation report of ranked current events",
			UseFor:      []string{"situation report", "periodic digest"},
			Kind:        KindAgent,
		},
	}
	for _, c := range defaults {
		_ = r.Register(c)
	}
	return r
}
