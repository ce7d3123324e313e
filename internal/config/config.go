package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"time"

	"pantree/internal/requestip"
)

// Config holds all runtime settings, loaded from environment variables.
type Config struct {
	ServerAddr   string
	DatabasePath string
	DataDir      string

	// Media storage backend: "local" or "s3".
	MediaBackend  string
	MediaFolder   string
	PublicBaseURL string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	// Upload timeouts.
	UploadTimeout       time.Duration
	DirectUploadTimeout time.Duration

	// Rate limit windows and caps.
	AuthRateLimit    int
	AuthRateWindow   time.Duration
	APIRateLimit     int
	APIRateWindow    time.Duration
	UploadRateLimit  int
	UploadRateWindow time.Duration

	// Optional Redis address for a shared rate-limit counter store.
	// Empty means the in-memory store is used.
	RedisAddr string

	SessionDuration time.Duration
	CookieSecure    bool

	// TrustedProxies are CIDR ranges whose forwarded headers are honored
	// when resolving client IPs for rate limiting.
	TrustedProxies []netip.Prefix
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/pantree.db"),
		DataDir:      getEnv("DATA_DIR", "./data"),

		MediaBackend:  getEnv("MEDIA_BACKEND", "local"),
		MediaFolder:   getEnv("MEDIA_FOLDER", "pantree"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		RedisAddr: getEnv("REDIS_ADDR", ""),

		CookieSecure: getEnv("COOKIE_SECURE", "") == "true",
	}

	var err error
	if cfg.UploadTimeout, err = getDuration("UPLOAD_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.DirectUploadTimeout, err = getDuration("DIRECT_UPLOAD_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionDuration, err = getDuration("SESSION_DURATION", 24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.AuthRateLimit, err = getInt("AUTH_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.AuthRateWindow, err = getDuration("AUTH_RATE_WINDOW", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.APIRateLimit, err = getInt("API_RATE_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.APIRateWindow, err = getDuration("API_RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.UploadRateLimit, err = getInt("UPLOAD_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.UploadRateWindow, err = getDuration("UPLOAD_RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	if cfg.TrustedProxies, err = requestip.ParseTrustedProxyCIDRs(getEnv("TRUSTED_PROXY_CIDRS", "")); err != nil {
		return nil, err
	}

	if cfg.MediaBackend != "local" && cfg.MediaBackend != "s3" {
		return nil, fmt.Errorf("invalid MEDIA_BACKEND %q: must be local or s3", cfg.MediaBackend)
	}
	if cfg.MediaBackend == "s3" && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("MEDIA_BACKEND=s3 requires S3_BUCKET")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
