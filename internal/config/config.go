// Package config loads application configuration from file and environment
// and owns global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/danang-cvb/leadgen-cli/internal/scorer"
	"github.com/danang-cvb/leadgen-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Import  ImportConfig  `yaml:"import" mapstructure:"import"`
	Scoring scorer.Config `yaml:"scoring" mapstructure:"scoring"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the persistence backend. DatabaseURL is either a
// postgres:// connection string or a SQLite file path.
type StoreConfig struct {
	DatabaseURL string            `yaml:"database_url" mapstructure:"database_url"`
	Pool        *store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// ImportConfig configures candidate building.
type ImportConfig struct {
	Year        int    `yaml:"year" mapstructure:"year"`
	Campaign    string `yaml:"campaign" mapstructure:"campaign"`
	FormatsPath string `yaml:"formats_path" mapstructure:"formats_path"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// ReportConfig configures ranking output.
type ReportConfig struct {
	Top    int    `yaml:"top" mapstructure:"top"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the scoring API server.
type ServerConfig struct {
	Port      int     `yaml:"port" mapstructure:"port"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
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
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.database_url", "leads.db")
	v.SetDefault("import.concurrency", 4)
	v.SetDefault("report.top", 0)
	v.SetDefault("report.format", "table")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 10)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	sc := scorer.DefaultConfig()
	v.SetDefault("scoring.home_country", sc.HomeCountry)
	v.SetDefault("scoring.home_country_code", sc.HomeCountryCode)
	v.SetDefault("scoring.nearby_countries", sc.NearbyCountries)
	v.SetDefault("scoring.name_keywords", sc.NameKeywords)
	v.SetDefault("scoring.continent_countries", sc.ContinentCountries)
	v.SetDefault("scoring.delegates_full", sc.DelegatesFull)
	v.SetDefault("scoring.delegates_medium", sc.DelegatesMedium)
	v.SetDefault("scoring.delegates_small", sc.DelegatesSmall)
	v.SetDefault("scoring.high_threshold", sc.HighThreshold)
	v.SetDefault("scoring.medium_threshold", sc.MediumThreshold)

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

	if err := scorer.Validate(cfg.Scoring); err != nil {
		return nil, eris.Wrap(err, "config: scoring")
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
