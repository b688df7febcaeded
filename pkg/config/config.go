package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:vidscope.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for text generation"`

	Video VideoConfig `yaml:"video" json:"video" jsonschema:"description=Multimodal video reading configuration"`

	Search SearchConfig `yaml:"search" json:"search" jsonschema:"description=Related content web search configuration"`

	Cache struct {
		AnalysisTTLDays int           `yaml:"analysis_ttl_days" json:"analysis_ttl_days" jsonschema:"default=7,description=Days before a cached analysis expires"`
		CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanup_interval" jsonschema:"default=6h,description=Interval between expired-entry sweeps"`
	} `yaml:"cache" json:"cache" jsonschema:"description=Cache configuration"`

	Session struct {
		IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout" jsonschema:"default=30m,description=Inactivity before a watch session rolls over"`
		CheckinInterval time.Duration `yaml:"checkin_interval" json:"checkin_interval" jsonschema:"default=20m,description=Interval between check-in prompts"`
	} `yaml:"session" json:"session" jsonschema:"description=Watch session configuration"`
}

// ModelsConfig selects the model per generation task; empty values fall back to llm.model
type ModelsConfig struct {
	Summarization    string `yaml:"summarization" json:"summarization" jsonschema:"description=Model for summary generation"`
	TagGeneration    string `yaml:"tag_generation" json:"tag_generation" jsonschema:"description=Model for tag generation"`
	ContentAnalysis  string `yaml:"content_analysis" json:"content_analysis" jsonschema:"description=Model for scoring and verdict"`
	Reasoning        string `yaml:"reasoning" json:"reasoning" jsonschema:"description=Model for personalized recommendation reasoning"`
	MemoryExtraction string `yaml:"memory_extraction" json:"memory_extraction" jsonschema:"description=Model for preference extraction and merging"`
}

// LLMConfig holds configuration for the OpenAI-compatible text endpoint
type LLMConfig struct {
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"required,description=OpenAI-compatible API endpoint"`
	APIKey      string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model       string        `yaml:"model" json:"model" jsonschema:"required,description=Default model name"`
	Models      ModelsConfig  `yaml:"models" json:"models" jsonschema:"description=Per-task model overrides"`
	Temperature float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=1000,description=Maximum tokens in response"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	Retries     int           `yaml:"retries" json:"retries" jsonschema:"default=3,description=Retry attempts for text generation"`
	RetryDelay  time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=1s,description=Base delay between retries"`
}

// generation task identifiers used for per-task model selection
const (
	TaskSummarization    = "summarization"
	TaskTagGeneration    = "tag_generation"
	TaskContentAnalysis  = "content_analysis"
	TaskReasoning        = "reasoning"
	TaskMemoryExtraction = "memory_extraction"
)

// ModelFor returns the task-specific model or the default one.
func (c LLMConfig) ModelFor(task string) string {
	var m string
	switch task {
	case TaskSummarization:
		m = c.Models.Summarization
	case TaskTagGeneration:
		m = c.Models.TagGeneration
	case TaskContentAnalysis:
		m = c.Models.ContentAnalysis
	case TaskReasoning:
		m = c.Models.Reasoning
	case TaskMemoryExtraction:
		m = c.Models.MemoryExtraction
	}
	if m == "" {
		return c.Model
	}
	return m
}

// VideoConfig holds configuration for the multimodal video-reading endpoint
type VideoConfig struct {
	APIKey     string        `yaml:"api_key" json:"api_key" jsonschema:"description=Gemini API key"`
	Model      string        `yaml:"model" json:"model" jsonschema:"default=gemini-2.0-flash,description=Multimodal model name"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=120s,description=Per-video read timeout"`
	Retries    int           `yaml:"retries" json:"retries" jsonschema:"default=3,description=Retry attempts for video reads"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=2s,description=Base delay between retries"`
}

// SearchConfig holds configuration for the related-content search API
type SearchConfig struct {
	Endpoint   string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api.search.brave.com/res/v1/web/search,description=Web search API endpoint"`
	APIKey     string        `yaml:"api_key" json:"api_key" jsonschema:"description=Search API subscription token"`
	MaxResults int           `yaml:"max_results" json:"max_results" jsonschema:"default=8,description=Number of results per query"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Search request timeout"`
	Retries    int           `yaml:"retries" json:"retries" jsonschema:"default=2,description=Retry attempts for search calls"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=500ms,description=Base delay between retries"`
	EnrichTop  int           `yaml:"enrich_top" json:"enrich_top" jsonschema:"default=0,description=Extract a text preview for the top N results (0 disables)"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:vidscope.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for LLM
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1000
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.LLM.Retries == 0 {
		cfg.LLM.Retries = 3
	}
	if cfg.LLM.RetryDelay == 0 {
		cfg.LLM.RetryDelay = time.Second
	}

	// set defaults for video reading
	if cfg.Video.Model == "" {
		cfg.Video.Model = "gemini-2.0-flash"
	}
	if cfg.Video.Timeout == 0 {
		cfg.Video.Timeout = 120 * time.Second
	}
	if cfg.Video.Retries == 0 {
		cfg.Video.Retries = 3
	}
	if cfg.Video.RetryDelay == 0 {
		cfg.Video.RetryDelay = 2 * time.Second
	}

	// set defaults for search
	if cfg.Search.Endpoint == "" {
		cfg.Search.Endpoint = "https://api.search.brave.com/res/v1/web/search"
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 8
	}
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = 15 * time.Second
	}
	if cfg.Search.Retries == 0 {
		cfg.Search.Retries = 2
	}
	if cfg.Search.RetryDelay == 0 {
		cfg.Search.RetryDelay = 500 * time.Millisecond
	}

	// set defaults for cache
	if cfg.Cache.AnalysisTTLDays == 0 {
		cfg.Cache.AnalysisTTLDays = 7
	}
	if cfg.Cache.CleanupInterval == 0 {
		cfg.Cache.CleanupInterval = 6 * time.Hour
	}

	// set defaults for session
	if cfg.Session.IdleTimeout == 0 {
		cfg.Session.IdleTimeout = 30 * time.Minute
	}
	if cfg.Session.CheckinInterval == 0 {
		cfg.Session.CheckinInterval = 20 * time.Minute
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {

	// validate LLM config
	if cfg.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}

	// validate video config
	if cfg.Video.Timeout < time.Second {
		return fmt.Errorf("video.timeout must be at least 1 second")
	}

	// validate search config
	if cfg.Search.MaxResults < 1 || cfg.Search.MaxResults > 20 {
		return fmt.Errorf("search.max_results must be between 1 and 20")
	}
	if cfg.Search.EnrichTop < 0 {
		return fmt.Errorf("search.enrich_top must be non-negative")
	}

	// validate cache config
	if cfg.Cache.AnalysisTTLDays < 1 {
		return fmt.Errorf("cache.analysis_ttl_days must be at least 1")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}

// GetVideoConfig returns video reading configuration
func (c *Config) GetVideoConfig() VideoConfig {
	return c.Video
}

// GetSearchConfig returns related content search configuration
func (c *Config) GetSearchConfig() SearchConfig {
	return c.Search
}

// AnalysisTTL returns the analysis cache lifetime
func (c *Config) AnalysisTTL() time.Duration {
	return time.Duration(c.Cache.AnalysisTTLDays) * 24 * time.Hour
}
