package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("CIVICEYE_CONFIG", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing config file, got cfg %+v", cfg)
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("Store.Driver = %q, want memory", cfg.Store.Driver)
	}
	if !cfg.IsAdminEmail("Admin@CivicEye.com") {
		t.Error("default admin email should match case-insensitively")
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "civiceye.yaml")
	body := []byte("server:\n  port: \"9000\"\nstore:\n  driver: redis\n  redisAddr: cache:6379\nadmin:\n  emails: [boss@example.com]\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("ADMIN_EMAILS", "a@example.com, b@example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9100" {
		t.Errorf("Port = %q, want env override 9100", cfg.Server.Port)
	}
	if cfg.Store.Driver != DriverRedis || cfg.Store.RedisAddr != "cache:6379" {
		t.Errorf("store = %+v, want redis at cache:6379", cfg.Store)
	}
	if len(cfg.Admin.Emails) != 2 || cfg.Admin.Emails[1] != "b@example.com" {
		t.Errorf("Admin.Emails = %v", cfg.Admin.Emails)
	}
}

func TestValidate_RejectsUnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = "sqlite"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	cfg.Store.Driver = DriverPostgres
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for postgres without DATABASE_URL")
	}
}

func TestRefreshInterval(t *testing.T) {
	cfg := Default()
	cfg.Analytics.RefreshInterval = "90s"
	d, err := cfg.RefreshInterval()
	if err != nil || d.Seconds() != 90 {
		t.Fatalf("RefreshInterval = %v, %v", d, err)
	}
	cfg.Analytics.RefreshInterval = "-1m"
	if _, err := cfg.RefreshInterval(); err == nil {
		t.Fatal("expected error for negative interval")
	}
}
