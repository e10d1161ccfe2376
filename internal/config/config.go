// Package config loads application configuration from file and
// environment and owns the global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	SerpAPI SerpAPIConfig `yaml:"serpapi" mapstructure:"serpapi"`
	Groq    GroqConfig    `yaml:"groq" mapstructure:"groq"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SerpAPIConfig holds SerpAPI credentials and search locale.
type SerpAPIConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
	HL  string `yaml:"hl" mapstructure:"hl"`
	GL  string `yaml:"gl" mapstructure:"gl"`
}

// GroqConfig holds Groq API settings.
type GroqConfig struct {
	Key                  string  `yaml:"key" mapstructure:"key"`
	Model                string  `yaml:"model" mapstructure:"model"`
	Temperature          float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens            int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	MinRequestIntervalMS int     `yaml:"min_request_interval_ms" mapstructure:"min_request_interval_ms"`
	MaxRetries           int     `yaml:"max_retries" mapstructure:"max_retries"`
}

// SearchConfig configures result count and page content enhancement.
type SearchConfig struct {
	MaxResults       int     `yaml:"max_results" mapstructure:"max_results"`
	ContentLimit     int     `yaml:"content_limit" mapstructure:"content_limit"`
	FetchTimeoutSecs int     `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	FetchRPS         float64 `yaml:"fetch_rps" mapstructure:"fetch_rps"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Size              int `yaml:"size" mapstructure:"size"`
	InterBatchPauseMS int `yaml:"inter_batch_pause_ms" mapstructure:"inter_batch_pause_ms"`
	FailurePauseMS    int `yaml:"failure_pause_ms" mapstructure:"failure_pause_ms"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credentials default to empty so AutomaticEnv can bind
	// them without a config file entry.
	v.SetDefault("serpapi.key", "")
	v.SetDefault("groq.key", "")
	v.SetDefault("serpapi.hl", "en")
	v.SetDefault("serpapi.gl", "us")
	v.SetDefault("groq.model", "mixtral-8x7b-32768")
	v.SetDefault("groq.temperature", 0.1)
	v.SetDefault("groq.max_tokens", 1000)
	v.SetDefault("groq.min_request_interval_ms", 2000)
	v.SetDefault("groq.max_retries", 3)
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.content_limit", 5000)
	v.SetDefault("search.fetch_timeout_secs", 10)
	v.SetDefault("search.fetch_rps", 2.0)
	v.SetDefault("batch.size", 10)
	v.SetDefault("batch.inter_batch_pause_ms", 2000)
	v.SetDefault("batch.failure_pause_ms", 5000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that required credentials are present, before any
// entity is processed.
func (c *Config) Validate() error {
	var missing []string
	if c.SerpAPI.Key == "" {
		missing = append(missing, "AGENT_SERPAPI_KEY")
	}
	if c.Groq.Key == "" {
		missing = append(missing, "AGENT_GROQ_KEY")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
