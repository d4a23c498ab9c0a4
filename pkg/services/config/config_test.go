package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.SessionTTL() != time.Hour {
		t.Errorf("expected 1h TTL, got %s", cfg.SessionTTL())
	}
	if cfg.Audit.ConfidenceThreshold != 0.8 {
		t.Errorf("expected threshold 0.8, got %v", cfg.Audit.ConfidenceThreshold)
	}
	if cfg.MaxLicensesPerRequest != 1000 {
		t.Errorf("expected limit 1000, got %d", cfg.MaxLicensesPerRequest)
	}
	if cfg.Session.RedisURL != "" {
		t.Errorf("expected in-memory session store by default, got %s", cfg.Session.RedisURL)
	}
	if cfg.ReportExpiry() != 24*time.Hour {
		t.Errorf("expected 24h report expiry, got %s", cfg.ReportExpiry())
	}
}

func TestLoadConfig_ValidYAML_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `server:
  port: "9090"
session:
  ttl_minutes: 30
  redis_url: "redis://localhost:6379/0"
audit:
  confidence_threshold: 0.75
classifier:
  inactive_days: 60`
	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.SessionTTL() != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %s", cfg.SessionTTL())
	}
	if cfg.Session.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("unexpected redis url %s", cfg.Session.RedisURL)
	}
	if cfg.Audit.ConfidenceThreshold != 0.75 {
		t.Errorf("expected threshold 0.75, got %v", cfg.Audit.ConfidenceThreshold)
	}
	if cfg.Classifier.InactiveDays != 60 {
		t.Errorf("expected 60 inactive days, got %d", cfg.Classifier.InactiveDays)
	}
	// Untouched keys keep their defaults.
	if cfg.Audit.HighImpactSavings != 500.0 {
		t.Errorf("expected default high impact savings, got %v", cfg.Audit.HighImpactSavings)
	}
}

func TestLoadConfig_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	err := os.WriteFile(path, []byte("server: port: : bad"), 0o644)
	if err != nil {
		t.Fatalf("failed to write bad config: %v", err)
	}

	_, err = LoadConfig(path)
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}
