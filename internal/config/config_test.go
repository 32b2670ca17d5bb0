package config

import (
	"testing"
	"time"
)

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_SessionDefaults(t *testing.T) {
	c := Config{
		App:     AppConfig{Env: "local", Port: 8080},
		Backend: BackendConfig{BaseURL: "http://localhost:4000"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Session.CookieName != "doj_token" {
		t.Fatalf("expected doj_token default, got %q", c.Session.CookieName)
	}
	if c.Session.CookieMaxAge != 7*24*time.Hour {
		t.Fatalf("expected one-week default, got %v", c.Session.CookieMaxAge)
	}
	if c.Session.EntryPath != "/" {
		t.Fatalf("expected / entry path default, got %q", c.Session.EntryPath)
	}
}

func TestValidate_ProductionRequiresRedisAndSecureCookie(t *testing.T) {
	c := Config{
		App:     AppConfig{Env: "production", Port: 8080},
		Backend: BackendConfig{BaseURL: "https://doj-backend.example"},
		Session: SessionConfig{CookieSecure: true},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without REDIS_HOST")
	}

	c.Redis = RedisConfig{Host: "redis", Port: 6379}
	c.Session.CookieSecure = false
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for insecure cookie in production")
	}

	c.Session.CookieSecure = true
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_DBBlockIsOptionalButComplete(t *testing.T) {
	c := Config{
		App:     AppConfig{Env: "local", Port: 8080},
		Backend: BackendConfig{BaseURL: "http://localhost:4000"},
		DB:      DBConfig{Host: "localhost", Port: 5432},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for partial DB config")
	}

	c.DB.User = "postgres"
	c.DB.Name = "doj"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}
