package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("database.driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.DocStore.Driver != "badger" || cfg.DocStore.MongoDB != "appdb" {
		t.Errorf("unexpected docstore defaults: %+v", cfg.DocStore)
	}
	if cfg.Search.Debounce != 300*time.Millisecond {
		t.Errorf("search.debounce = %v, want 300ms", cfg.Search.Debounce)
	}
	if cfg.Redis.ListTTL != 5*time.Minute {
		t.Errorf("redis.list_ttl = %v, want 5m", cfg.Redis.ListTTL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("MONGODB_DB", "plant")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("database.driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.DocStore.MongoDB != "plant" {
		t.Errorf("docstore.mongo_db = %q, want plant", cfg.DocStore.MongoDB)
	}
	if cfg.JWT.Secret != "s3cret" {
		t.Errorf("jwt.secret = %q", cfg.JWT.Secret)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("BWS_TEST_VALUE", "x")
	if got := GetEnvOrDefault("BWS_TEST_VALUE", "y"); got != "x" {
		t.Errorf("got %q, want x", got)
	}
	if got := GetEnvOrDefault("BWS_TEST_UNSET", "y"); got != "y" {
		t.Errorf("got %q, want y", got)
	}
}
