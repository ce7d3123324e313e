package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.ServerAddr != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.ServerAddr)
	}
	if cfg.MediaBackend != "local" {
		t.Fatalf("expected local backend, got %s", cfg.MediaBackend)
	}
	if cfg.AuthRateLimit != 5 || cfg.AuthRateWindow != 15*time.Minute {
		t.Fatalf("unexpected auth limits: %d per %v", cfg.AuthRateLimit, cfg.AuthRateWindow)
	}
	if cfg.APIRateLimit != 100 || cfg.APIRateWindow != time.Minute {
		t.Fatalf("unexpected api limits: %d per %v", cfg.APIRateLimit, cfg.APIRateWindow)
	}
	if cfg.UploadRateLimit != 10 || cfg.UploadRateWindow != time.Minute {
		t.Fatalf("unexpected upload limits: %d per %v", cfg.UploadRateLimit, cfg.UploadRateWindow)
	}
	if cfg.DirectUploadTimeout != 20*time.Second {
		t.Fatalf("expected 20s direct upload timeout, got %v", cfg.DirectUploadTimeout)
	}
	if cfg.SessionDuration != 24*time.Hour {
		t.Fatalf("expected 24h sessions, got %v", cfg.SessionDuration)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("API_RATE_LIMIT", "50")
	t.Setenv("AUTH_RATE_WINDOW", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerAddr != ":9000" {
		t.Fatalf("expected :9000, got %s", cfg.ServerAddr)
	}
	if cfg.APIRateLimit != 50 {
		t.Fatalf("expected 50, got %d", cfg.APIRateLimit)
	}
	if cfg.AuthRateWindow != 5*time.Minute {
		t.Fatalf("expected 5m, got %v", cfg.AuthRateWindow)
	}
}

func TestLoadTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXY_CIDRS", "10.0.0.0/8,192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.TrustedProxies) != 2 {
		t.Fatalf("expected 2 trusted proxy ranges, got %d", len(cfg.TrustedProxies))
	}

	t.Setenv("TRUSTED_PROXY_CIDRS", "garbage")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid CIDR list")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("API_RATE_LIMIT", "lots")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric limit")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("MEDIA_BACKEND", "ftp")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown media backend")
	}
}

func TestLoadS3RequiresBucket(t *testing.T) {
	t.Setenv("MEDIA_BACKEND", "s3")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for s3 backend without bucket")
	}

	t.Setenv("S3_BUCKET", "pantree-media")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load with bucket: %v", err)
	}
	if cfg.S3Bucket != "pantree-media" {
		t.Fatalf("expected bucket recorded, got %s", cfg.S3Bucket)
	}
}
