package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the immutable process configuration. It is loaded once at startup
// and passed into component constructors; nothing mutates it afterwards.
type Config struct {
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Search       SearchConfig       `mapstructure:"search"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Postgres     PostgresConfig     `mapstructure:"postgres"`
	Monitor      MonitorConfig      `mapstructure:"monitor"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
	MetricsPort  int                `mapstructure:"metrics_port"`
	HealthPort   int                `mapstructure:"health_port"`
	TemporalHost string             `mapstructure:"temporal_host"`
}

// OrchestratorConfig holds the iteration-loop knobs.
type OrchestratorConfig struct {
	MaxIterations int `mapstructure:"max_iterations"`

	// Richness thresholds for the quality assessor.
	RichResultMinItems  int `mapstructure:"rich_result_min_items"`
	RichContentMinChars int `mapstructure:"rich_content_min_chars"`
	RichPayloadMinBytes int `mapstructure:"rich_payload_min_bytes"`
}

// LLMConfig configures the completion collaborator.
type LLMConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchConfig configures the web search/extraction collaborator.
type SearchConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	RPS        float64       `mapstructure:"rps"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxResults int           `mapstructure:"max_results"`
}

// RedisConfig configures session storage and the monitor cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PostgresConfig configures the run-record store.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the lib/pq connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// MonitorConfig holds live-monitor and sitrep pipeline knobs.
type MonitorConfig struct {
	FreshnessWindow time.Duration `mapstructure:"freshness_window"`
	TopN            int           `mapstructure:"top_n"`
	MaxBatch        int           `mapstructure:"max_batch"`
}

// TracingConfig mirrors the OTLP exporter settings.
type TracingConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// Load reads config from CONFIG_PATH (default config/argus.yaml) with
// ARGUS_-prefixed environment overrides.
func Load() (*Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/argus.yaml"
	}

	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetEnvPrefix("ARGUS")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("orchestrator.max_iterations", 3)
	v.SetDefault("orchestrator.rich_result_min_items", 3)
	v.SetDefault("orchestrator.rich_content_min_chars", 200)
	v.SetDefault("orchestrator.rich_payload_min_bytes", 256)

	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("search.rps", 2.0)
	v.SetDefault("search.timeout", 30*time.Second)
	v.SetDefault("search.max_results", 10)

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "argus")
	v.SetDefault("postgres.database", "argus")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("monitor.freshness_window", 15*time.Minute)
	v.SetDefault("monitor.top_n", 10)
	v.SetDefault("monitor.max_batch", 12)

	v.SetDefault("tracing.service_name", "argus-orchestrator")

	v.SetDefault("metrics_port", 2112)
	v.SetDefault("health_port", 8081)
	v.SetDefault("temporal_host", "localhost:7233")
}

// Validate rejects configurations the orchestrator cannot run with.
func (c *Config) Validate() error {
	if c.Orchestrator.MaxIterations < 1 {
		return fmt.Errorf("orchestrator.max_iterations must be >= 1, got %d", c.Orchestrator.MaxIterations)
	}
	if c.Orchestrator.RichResultMinItems < 1 {
		return fmt.Errorf("orchestrator.rich_result_min_items must be >= 1")
	}
	if c.Search.RPS <= 0 {
		return fmt.Errorf("search.rps must be > 0")
	}
	return nil
}
