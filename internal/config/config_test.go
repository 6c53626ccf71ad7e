package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CHATSPLIT_DAYS", "CHATSPLIT_LOG_LEVEL", "CHATSPLIT_LOG_DIR", "CHATSPLIT_METRICS_FILE", "CHATSPLIT_UTC_OFFSET"} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Days != "" {
		t.Errorf("Days = %q, want empty", cfg.Days)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.LogDir != "logs" {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.UTCOffset != 5*time.Hour {
		t.Errorf("UTCOffset = %v", cfg.UTCOffset)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHATSPLIT_DAYS", "14")
	t.Setenv("CHATSPLIT_LOG_LEVEL", "debug")
	t.Setenv("CHATSPLIT_LOG_DIR", "/var/log/chatsplit")
	t.Setenv("CHATSPLIT_METRICS_FILE", "/var/lib/node_exporter/chatsplit.prom")
	t.Setenv("CHATSPLIT_UTC_OFFSET", "-3h30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Days != "14" || cfg.LogLevel != "debug" || cfg.LogDir != "/var/log/chatsplit" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.MetricsFile != "/var/lib/node_exporter/chatsplit.prom" {
		t.Errorf("MetricsFile = %q", cfg.MetricsFile)
	}
	if cfg.UTCOffset != -3*time.Hour-30*time.Minute {
		t.Errorf("UTCOffset = %v", cfg.UTCOffset)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("CHATSPLIT_UTC_OFFSET", "five hours")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
