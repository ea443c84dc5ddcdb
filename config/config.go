package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Config is the canonical environment schema. Every handler and middleware
// reads its settings from here rather than from os.Getenv directly.
type Config struct {
	Port      string
	APIPrefix string
	Mode      string

	// Comma-separated list of allowed CORS origins. "*" allows everything.
	AllowedOrigins []string

	// Shared admin secret gating all mutating requests.
	APIToken string

	DatabaseURI  string
	DatabaseName string

	// Default page size for list endpoints.
	PageSize int

	// Lifetime of signed storage URLs.
	SignedURLTTL time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Bucket          string

	RateLimitWindow time.Duration
	RateLimitMax    int
}

const (
	PortEnv            = "PORT"
	APIPrefixEnv       = "API_PREFIX"
	ModeEnv            = "APP_MODE"
	FrontendURLEnv     = "FRONTEND_URL"
	APITokenEnv        = "API_TOKEN"
	DatabaseEnv        = "DATABASE"
	DatabaseNameEnv    = "DATABASE_NAME"
	PaginationPageEnv  = "PAGINATION_PAGE"
	ExpiredTimeEnv     = "EXPIRED_TIME"
	R2AccountIDEnv     = "R2_ACCOUNT_ID"
	R2AccessKeyEnv     = "R2_ACCESS_KEY_ID"
	R2SecretKeyEnv     = "R2_SECRET_ACCESS_KEY"
	R2BucketEnv        = "R2_BUCKET_NAME"
	RateLimitWindowEnv = "RATE_LIMIT_WINDOW"
	RateLimitMaxEnv    = "RATE_LIMIT_MAX"
)

// FromEnv builds a Config from environment variables and validates it.
// Missing required keys fail startup instead of surfacing mid-request.
func FromEnv() (Config, error) {
	var cfg Config

	cfg.Port = getEnv(PortEnv, "3030")
	cfg.APIPrefix = getEnv(APIPrefixEnv, "/api/v1")
	cfg.Mode = getEnv(ModeEnv, ModeDevelopment)
	cfg.APIToken = os.Getenv(APITokenEnv)
	cfg.DatabaseURI = os.Getenv(DatabaseEnv)
	cfg.DatabaseName = getEnv(DatabaseNameEnv, "rayverse")
	cfg.R2AccountID = os.Getenv(R2AccountIDEnv)
	cfg.R2AccessKeyID = os.Getenv(R2AccessKeyEnv)
	cfg.R2SecretAccessKey = os.Getenv(R2SecretKeyEnv)
	cfg.R2Bucket = os.Getenv(R2BucketEnv)

	if cfg.Mode != ModeDevelopment && cfg.Mode != ModeProduction {
		return cfg, fmt.Errorf("invalid %v: %q", ModeEnv, cfg.Mode)
	}

	origins := getEnv(FrontendURLEnv, "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	var err error
	if cfg.PageSize, err = getEnvInt(PaginationPageEnv, 4); err != nil {
		return cfg, fmt.Errorf("invalid %v: %w", PaginationPageEnv, err)
	}
	ttlSeconds, err := getEnvInt(ExpiredTimeEnv, 86400)
	if err != nil {
		return cfg, fmt.Errorf("invalid %v: %w", ExpiredTimeEnv, err)
	}
	cfg.SignedURLTTL = time.Duration(ttlSeconds) * time.Second

	windowStr := getEnv(RateLimitWindowEnv, "15m")
	if cfg.RateLimitWindow, err = time.ParseDuration(windowStr); err != nil {
		return cfg, fmt.Errorf("invalid %v: %w", RateLimitWindowEnv, err)
	}
	if cfg.RateLimitMax, err = getEnvInt(RateLimitMaxEnv, 40); err != nil {
		return cfg, fmt.Errorf("invalid %v: %w", RateLimitMaxEnv, err)
	}

	if missing := cfg.missingRequired(); len(missing) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if cfg.PageSize < 1 {
		return cfg, fmt.Errorf("%v must be at least 1", PaginationPageEnv)
	}
	if cfg.RateLimitMax < 1 {
		return cfg, fmt.Errorf("%v must be at least 1", RateLimitMaxEnv)
	}

	return cfg, nil
}

func (c Config) missingRequired() []string {
	var missing []string
	required := []struct {
		key, value string
	}{
		{APITokenEnv, c.APIToken},
		{DatabaseEnv, c.DatabaseURI},
		{R2AccountIDEnv, c.R2AccountID},
		{R2AccessKeyEnv, c.R2AccessKeyID},
		{R2SecretKeyEnv, c.R2SecretAccessKey},
		{R2BucketEnv, c.R2Bucket},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	return missing
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	return i, nil
}
