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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Serper    SerperConfig    `yaml:"serper" mapstructure:"serper"`
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	HaikuModel  string `yaml:"haiku_model" mapstructure:"haiku_model"`
	SonnetModel string `yaml:"sonnet_model" mapstructure:"sonnet_model"`
	MaxTokens   int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SerperConfig holds Serper web-search API settings.
type SerperConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	ResultCount int     `yaml:"result_count" mapstructure:"result_count"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// AnalysisConfig configures pipeline behavior and the heuristic word lists
// used by company-name extraction. The lists are data, not control flow, so
// deployments can extend them without a code change.
type AnalysisConfig struct {
	BatchSize        int      `yaml:"batch_size" mapstructure:"batch_size"`
	MaxQueries       int      `yaml:"max_queries" mapstructure:"max_queries"`
	ArticleSites     []string `yaml:"article_sites" mapstructure:"article_sites"`
	GenericKeywords  []string `yaml:"generic_keywords" mapstructure:"generic_keywords"`
	BusinessSuffixes []string `yaml:"business_suffixes" mapstructure:"business_suffixes"`
}

// RetryConfig configures the retry wrapper around external calls.
type RetryConfig struct {
	MaxRetries       int `yaml:"max_retries" mapstructure:"max_retries"`
	InitialBackoffMS int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMS     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("IDEA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys with no natural default still need an entry so
	// AutomaticEnv picks them up during Unmarshal.
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("serper.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.sonnet_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("serper.result_count", 10)
	v.SetDefault("serper.rate_per_sec", 5.0)
	v.SetDefault("analysis.batch_size", 8)
	v.SetDefault("analysis.max_queries", 4)
	v.SetDefault("analysis.article_sites", DefaultArticleSites())
	v.SetDefault("analysis.generic_keywords", DefaultGenericKeywords())
	v.SetDefault("analysis.business_suffixes", DefaultBusinessSuffixes())
	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.initial_backoff_ms", 1000)
	v.SetDefault("retry.max_backoff_ms", 30000)

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

// DefaultArticleSites lists domains whose search hits are articles and
// reviews rather than company pages.
func DefaultArticleSites() []string {
	return []string{
		"techcrunch", "forbes", "businessinsider", "entrepreneur", "inc",
		"wired", "theverge", "venturebeat", "medium", "reddit", "quora",
		"wikipedia", "youtube", "capterra", "g2", "trustpilot", "yelp",
		"tripadvisor", "producthunt", "crunchbase", "linkedin", "facebook",
		"instagram", "twitter", "pinterest", "nytimes", "wsj", "bloomberg",
		"cnbc", "bbc", "cnn", "usatoday", "huffpost", "buzzfeed",
	}
}

// DefaultGenericKeywords lists tokens that mark a title as a generic page
// title rather than a company name.
func DefaultGenericKeywords() []string {
	return []string{
		"tour", "tours", "about", "contact", "shop", "blog", "home",
		"gallery", "faq", "review", "reviews", "best", "top", "guide",
		"comparison", "alternatives", "vs", "pricing", "services",
		"products", "welcome", "official", "website", "page", "site",
		"book", "booking", "your", "our",
	}
}

// DefaultBusinessSuffixes lists domain-label suffixes that get split off and
// title-cased when deriving a company name from a domain.
func DefaultBusinessSuffixes() []string {
	return []string{"farm", "farms", "tours", "tour", "co", "inc", "llc", "corp"}
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
