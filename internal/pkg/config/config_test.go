package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" || !cfg.IsDevelopment() {
		t.Errorf("port=%q env=%q", cfg.Port, cfg.Env)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.DSN != "taskboard.db" {
		t.Errorf("db = %+v", cfg.DB)
	}
	if cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Errorf("idempotency ttl = %v", cfg.Redis.IdempotencyTTL)
	}
	if cfg.Identity.Timeout != 10*time.Second {
		t.Errorf("identity timeout = %v", cfg.Identity.Timeout)
	}
	if cfg.Mongo.AttachmentsBucket != "attachments" {
		t.Errorf("bucket = %q", cfg.Mongo.AttachmentsBucket)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":              "production",
		"DB_DRIVER":        "postgres",
		"DB_DSN":           "host=db user=app",
		"IDENTITY_API_KEY": "sk_test",
		"IDEMPOTENCY_TTL":  "90m",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IsDevelopment() {
		t.Error("production reported as development")
	}
	if cfg.DB.Driver != "postgres" || cfg.Identity.APIKey != "sk_test" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Redis.IdempotencyTTL != 90*time.Minute {
		t.Errorf("ttl = %v", cfg.Redis.IdempotencyTTL)
	}
}

func TestLoadWith_RejectsUnknownDriver(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"DB_DRIVER": "mysql"}))
	if err == nil {
		t.Fatal("expected error")
	}
}
