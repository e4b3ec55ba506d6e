// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment
// variables.
type Config struct {
	DBPath     string `env:"AGRO_DB_PATH" envDefault:"./data/agrocms.db"`
	ServerHost string `env:"AGRO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"AGRO_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"AGRO_ENV" envDefault:"development"`
	LogLevel   string `env:"AGRO_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"AGRO_UPLOADS_DIR" envDefault:"./uploads"`

	// Translation configuration
	TranslateProvider string `env:"AGRO_TRANSLATE_PROVIDER" envDefault:"mymemory"` // mymemory, openai or off
	OpenAIAPIKey      string `env:"AGRO_OPENAI_API_KEY"`
	OpenAIModel       string `env:"AGRO_OPENAI_MODEL"`

	// Retranslation sweep schedule, in cron syntax. Empty disables the sweep.
	RetranslateCron string `env:"AGRO_RETRANSLATE_CRON" envDefault:"@hourly"`

	// Cache configuration
	RedisURL    string `env:"AGRO_REDIS_URL"` // Optional Redis URL for distributed caching
	CachePrefix string `env:"AGRO_CACHE_PREFIX" envDefault:"agrocms:"`
	CacheTTL    int    `env:"AGRO_CACHE_TTL" envDefault:"3600"` // Seconds
}

// IsDevelopment reports whether the application runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the listen address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache reports whether Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// TranslationEnabled reports whether a translation provider is configured.
func (c Config) TranslationEnabled() bool {
	return c.TranslateProvider != "off" && c.TranslateProvider != ""
}

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.TranslateProvider {
	case "mymemory", "openai", "off", "":
	default:
		return nil, fmt.Errorf("unknown AGRO_TRANSLATE_PROVIDER %q", cfg.TranslateProvider)
	}
	if cfg.TranslateProvider == "openai" && cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("AGRO_OPENAI_API_KEY is required when AGRO_TRANSLATE_PROVIDER=openai")
	}

	return cfg, nil
}
