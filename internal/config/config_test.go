// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/agrocms.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.TranslateProvider != "mymemory" {
		t.Errorf("TranslateProvider = %q", cfg.TranslateProvider)
	}
	if !cfg.TranslationEnabled() {
		t.Error("translation should be enabled by default")
	}
	if cfg.UseRedisCache() {
		t.Error("Redis should be off by default")
	}
	if cfg.CacheTTLDuration() != time.Hour {
		t.Errorf("CacheTTLDuration = %v", cfg.CacheTTLDuration())
	}
	if cfg.RetranslateCron != "@hourly" {
		t.Errorf("RetranslateCron = %q", cfg.RetranslateCron)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "AGRO_DB_PATH", "/srv/agro.db")
	setEnv(t, "AGRO_SERVER_HOST", "0.0.0.0")
	setEnv(t, "AGRO_SERVER_PORT", "3000")
	setEnv(t, "AGRO_ENV", "production")
	setEnv(t, "AGRO_REDIS_URL", "redis://localhost:6379/1")
	setEnv(t, "AGRO_TRANSLATE_PROVIDER", "off")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/srv/agro.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("production env reported as development")
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache should be true")
	}
	if cfg.TranslationEnabled() {
		t.Error("provider off should disable translation")
	}
}

func TestLoad_OpenAIRequiresKey(t *testing.T) {
	os.Clearenv()
	setEnv(t, "AGRO_TRANSLATE_PROVIDER", "openai")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for openai provider without API key")
	}

	setEnv(t, "AGRO_OPENAI_API_KEY", "sk-test")
	if _, err := Load(); err != nil {
		t.Fatalf("Load() error with key set: %v", err)
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	os.Clearenv()
	setEnv(t, "AGRO_TRANSLATE_PROVIDER", "bing")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for unknown provider")
	}
}
