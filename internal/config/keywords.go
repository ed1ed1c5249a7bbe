package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Keywords holds the watch-keyword sets used by the live monitor and sitrep
// pipelines. Scoring weights and thresholds are fixed constants in the
// scoring package; only the keyword vocabulary is configurable.
type Keywords struct {
	Watch  []string `yaml:"watch"`
	Crisis []string `yaml:"crisis"`
}

// DefaultCrisisKeywords covers the standing crisis vocabulary applied when no
// keywords file is configured.
var DefaultCrisisKeywords = []string{
	"war", "invasion", "coup", "sanctions", "escalation",
	"mobilization", "airstrike", "ceasefire", "insurgency", "blockade",
}

// LoadKeywords reads the keyword sets from the given YAML file. A missing
// file is not an error; the defaults apply.
func LoadKeywords(path string) (*Keywords, error) {
	if path == "" {
		return &Keywords{Crisis: DefaultCrisisKeywords}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Keywords{Crisis: DefaultCrisisKeywords}, nil
		}
		return nil, fmt.Errorf("read keywords file: %w", err)
	}
	var k Keywords
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("parse keywords file: %w", err)
	}
	if len(k.Crisis) == 0 {
		k.Crisis = DefaultCrisisKeywords
	}
	return &k, nil
}
