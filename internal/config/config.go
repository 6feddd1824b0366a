package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"FundLens/internal/collector"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port    int  `yaml:"port"`
		DevMode bool `yaml:"dev_mode"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	DataSource struct {
		BaseURL        string `yaml:"base_url"`
		RateLimit      int    `yaml:"rate_limit"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Cache struct {
		SchemesTTLSeconds int   `yaml:"schemes_ttl_seconds"`
		SchemeTTLSeconds  int   `yaml:"scheme_ttl_seconds"`
		MaxEntries        int64 `yaml:"max_entries"`
	} `yaml:"cache"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		WarmupCron string `yaml:"warmup_cron"`
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Watchlist struct {
		File    string `yaml:"file"`
		Initial []int  `yaml:"initial"`
	} `yaml:"watchlist"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DEV_MODE"); v != "" {
		cfg.Server.DevMode = v == "true" || v == "1"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MFAPI_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_DIGEST"); v != "" {
		cfg.Schedule.DigestCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = collector.DefaultBaseURL
	}
	if cfg.DataSource.RateLimit == 0 {
		cfg.DataSource.RateLimit = collector.DefaultRateLimit
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = int(collector.DefaultTimeout / time.Second)
	}
	if cfg.Cache.SchemesTTLSeconds == 0 {
		cfg.Cache.SchemesTTLSeconds = 86400
	}
	if cfg.Cache.SchemeTTLSeconds == 0 {
		cfg.Cache.SchemeTTLSeconds = 43200
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 512
	}
	if cfg.Schedule.WarmupCron == "" {
		cfg.Schedule.WarmupCron = "0 0 6 * * *"
	}
	if cfg.Schedule.DigestCron == "" {
		cfg.Schedule.DigestCron = "0 30 20 * * 1-5"
	}
	if cfg.Watchlist.File == "" {
		cfg.Watchlist.File = "data/watchlist.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/fundlens.db"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.DataSource.RateLimit <= 0 {
		return fmt.Errorf("data_source.rate_limit must be positive")
	}
	if c.DataSource.TimeoutSeconds <= 0 {
		return fmt.Errorf("data_source.timeout_seconds must be positive")
	}
	if c.Cache.SchemesTTLSeconds <= 0 || c.Cache.SchemeTTLSeconds <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Schedule.WarmupCron == "" || c.Schedule.DigestCron == "" {
		return fmt.Errorf("schedule cron expressions are required")
	}
	return nil
}

// TelegramEnabled reports whether digests and bot commands are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// CacheConfig converts the cache section for the caching fetcher.
func (c *Config) CacheConfig() collector.CacheConfig {
	return collector.CacheConfig{
		SchemesTTL: time.Duration(c.Cache.SchemesTTLSeconds) * time.Second,
		SchemeTTL:  time.Duration(c.Cache.SchemeTTLSeconds) * time.Second,
		MaxEntries: c.Cache.MaxEntries,
	}
}

// FetchTimeout is the upstream request timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}
