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
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Ingest  IngestConfig  `yaml:"ingest" mapstructure:"ingest"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Decay   DecayConfig   `yaml:"decay" mapstructure:"decay"`
	Market  MarketConfig  `yaml:"market" mapstructure:"market"`
	Enrich  EnrichConfig  `yaml:"enrich" mapstructure:"enrich"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string     `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string     `yaml:"database_url" mapstructure:"database_url"`
	Pool        PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig holds optional Postgres connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// IngestConfig configures ingestion batches.
type IngestConfig struct {
	MaxWorkers        int    `yaml:"max_workers" mapstructure:"max_workers"`
	DefaultSource     string `yaml:"default_source" mapstructure:"default_source"`
	DefaultMarketZone string `yaml:"default_market_zone" mapstructure:"default_market_zone"`
	VocabPath         string `yaml:"vocab_path" mapstructure:"vocab_path"`
}

// ScoringConfig configures the rule-based scoring engine.
type ScoringConfig struct {
	Base                  float64 `yaml:"base" mapstructure:"base"`
	Floor                 float64 `yaml:"floor" mapstructure:"floor"`
	HypeBrandBonus        float64 `yaml:"hype_brand_bonus" mapstructure:"hype_brand_bonus"`
	PremiumPriceThreshold float64 `yaml:"premium_price_threshold" mapstructure:"premium_price_threshold"`
	BargainPriceThreshold float64 `yaml:"bargain_price_threshold" mapstructure:"bargain_price_threshold"`
	PremiumPriceBonus     float64 `yaml:"premium_price_bonus" mapstructure:"premium_price_bonus"`
	BargainPricePenalty   float64 `yaml:"bargain_price_penalty" mapstructure:"bargain_price_penalty"`
}

// DecayConfig configures the staleness decay job.
type DecayConfig struct {
	StaleAfterHours float64 `yaml:"stale_after_hours" mapstructure:"stale_after_hours"`
	Step            float64 `yaml:"step" mapstructure:"step"`
	BatchSize       int     `yaml:"batch_size" mapstructure:"batch_size"`
}

// MarketConfig configures the market aggregator.
type MarketConfig struct {
	BuyThresholdPct     float64 `yaml:"buy_threshold_pct" mapstructure:"buy_threshold_pct"`
	SellThresholdPct    float64 `yaml:"sell_threshold_pct" mapstructure:"sell_threshold_pct"`
	EmergingMinScore    float64 `yaml:"emerging_min_score" mapstructure:"emerging_min_score"`
	EmergingMaxArticles int     `yaml:"emerging_max_articles" mapstructure:"emerging_max_articles"`
	MinArticles         int     `yaml:"min_articles" mapstructure:"min_articles"`
	TopN                int     `yaml:"top_n" mapstructure:"top_n"`
	WindowHours         int     `yaml:"window_hours" mapstructure:"window_hours"`
}

// EnrichConfig configures the external enrichment collaborator.
// An empty URL disables enrichment entirely.
type EnrichConfig struct {
	URL            string  `yaml:"url" mapstructure:"url"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	RetryAttempts  int     `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoffMs int     `yaml:"retry_backoff_ms" mapstructure:"retry_backoff_ms"`
}

// ServerConfig configures the webhook/read API server.
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
	v.SetEnvPrefix("TREND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "trend.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("ingest.max_workers", 8)
	v.SetDefault("ingest.default_source", "scraper")
	v.SetDefault("ingest.default_market_zone", "EU")
	v.SetDefault("scoring.base", 50)
	v.SetDefault("scoring.floor", 10)
	v.SetDefault("scoring.hype_brand_bonus", 15)
	v.SetDefault("scoring.premium_price_threshold", 70)
	v.SetDefault("scoring.bargain_price_threshold", 15)
	v.SetDefault("scoring.premium_price_bonus", 10)
	v.SetDefault("scoring.bargain_price_penalty", 10)
	v.SetDefault("decay.stale_after_hours", 22)
	v.SetDefault("decay.step", 0.2)
	v.SetDefault("decay.batch_size", 500)
	v.SetDefault("market.buy_threshold_pct", 5)
	v.SetDefault("market.sell_threshold_pct", -5)
	v.SetDefault("market.emerging_min_score", 70)
	v.SetDefault("market.emerging_max_articles", 5)
	v.SetDefault("market.min_articles", 2)
	v.SetDefault("market.top_n", 10)
	v.SetDefault("market.window_hours", 0)
	v.SetDefault("enrich.timeout_secs", 20)
	v.SetDefault("enrich.requests_per_sec", 2)
	v.SetDefault("enrich.retry_attempts", 2)
	v.SetDefault("enrich.retry_backoff_ms", 500)

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
