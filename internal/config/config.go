package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/pipeline"
)

// Config holds the full application configuration.
type Config struct {
	Analysis      AnalysisConfig      `yaml:"analysis" mapstructure:"analysis"`
	Metrics       MetricsConfig       `yaml:"metrics" mapstructure:"metrics"`
	Exclusions    ExclusionsConfig    `yaml:"exclusions" mapstructure:"exclusions"`
	Rules         RulesConfig         `yaml:"rules" mapstructure:"rules"`
	SearchConsole SearchConsoleConfig `yaml:"search_console" mapstructure:"search_console"`
	Anthropic     AnthropicConfig     `yaml:"anthropic" mapstructure:"anthropic"`
	Store         StoreConfig         `yaml:"store" mapstructure:"store"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// AnalysisConfig configures the analysis pipeline itself.
type AnalysisConfig struct {
	Domain        string           `yaml:"domain" mapstructure:"domain"`
	DaysBack      int              `yaml:"days_back" mapstructure:"days_back"`
	Workers       int              `yaml:"workers" mapstructure:"workers"`
	BrandKeywords []string         `yaml:"brand_keywords" mapstructure:"brand_keywords"`
	Filters       pipeline.Filters `yaml:"filters" mapstructure:"filters"`
}

// MetricsConfig configures the vendor keyword-metrics dataset.
type MetricsConfig struct {
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// ExclusionsConfig configures the persistent exclusion list.
type ExclusionsConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RulesConfig points at the optional scoring-weights rules file.
type RulesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SearchConsoleConfig holds Search Console API settings.
type SearchConsoleConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the read-only HTTP API.
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
	v.SetEnvPrefix("KWANALYZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("analysis.days_back", 90)
	v.SetDefault("analysis.workers", 8)
	v.SetDefault("analysis.filters.max_position", 100)
	v.SetDefault("analysis.filters.min_impressions", 10)
	v.SetDefault("analysis.filters.min_query_length", 3)
	v.SetDefault("metrics.data_dir", "data")
	v.SetDefault("exclusions.path", "excluded_keywords.txt")
	v.SetDefault("search_console.base_url", "https://www.googleapis.com/webmasters/v3")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "keyword_analysis.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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
