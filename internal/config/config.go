package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Bulletin BulletinConfig `yaml:"bulletin" mapstructure:"bulletin"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Corpus   CorpusConfig   `yaml:"corpus" mapstructure:"corpus"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// BulletinConfig configures acquisition of the daily IRSA bulletin.
type BulletinConfig struct {
	BaseURL          string    `yaml:"base_url" mapstructure:"base_url"`
	UserAgent        string    `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs      int       `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ProbeTimeoutSecs int       `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
	LookbackDays     int       `yaml:"lookback_days" mapstructure:"lookback_days"`
	PDF              PDFConfig `yaml:"pdf" mapstructure:"pdf"`
}

// PDFConfig configures PDF text extraction.
type PDFConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// CacheConfig configures the snapshot cache and its backing store.
type CacheConfig struct {
	TTLMinutes   int    `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
	Driver       string `yaml:"driver" mapstructure:"driver"`
	Path         string `yaml:"path" mapstructure:"path"`
	DatabaseURL  string `yaml:"database_url" mapstructure:"database_url"`
	SingleFlight bool   `yaml:"single_flight" mapstructure:"single_flight"`
}

// TTL returns the cache time-to-live as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// CorpusConfig configures the historical knowledge base.
type CorpusConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the API server.
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
	v.SetEnvPrefix("FLOODWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("bulletin.base_url", "http://pakirsa.gov.pk")
	v.SetDefault("bulletin.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("bulletin.timeout_secs", 15)
	v.SetDefault("bulletin.probe_timeout_secs", 10)
	v.SetDefault("bulletin.lookback_days", 1)
	v.SetDefault("bulletin.pdf.provider", "library")
	v.SetDefault("bulletin.pdf.pdftotext_path", "pdftotext")
	v.SetDefault("cache.ttl_minutes", 60)
	v.SetDefault("cache.driver", "file")
	v.SetDefault("cache.path", "data/latest_data.json")
	v.SetDefault("cache.single_flight", false)
	v.SetDefault("corpus.path", "data/flood-knowledge-base.json")
	v.SetDefault("server.port", 8000)
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
