package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPPort string
	LogLevel string

	DatabaseURL string
	RedisAddr   string

	CtxPrivateKeyPEM string
	CtxPublicKeyPEM  string

	SupabaseURL            string
	SupabaseAnonKey        string
	SupabaseServiceRoleKey string

	ShortlinkDomain string
	BuilderAppURL   string

	CORSAllowedOrigins []string

	DefaultTTLMinutes int
	MaxTTLMinutes     int
	FetchGraceTTL     time.Duration
	JanitorInterval   time.Duration

	MintRateLimitPerMin int
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		CtxPrivateKeyPEM:       os.Getenv("WB_CTX_PRIVATE_KEY"),
		CtxPublicKeyPEM:        os.Getenv("WB_CTX_PUBLIC_KEY"),
		SupabaseURL:            strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseAnonKey:        os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseServiceRoleKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		ShortlinkDomain:        strings.TrimRight(getEnv("SHORTLINK_DOMAIN", "https://wblink.app"), "/"),
		BuilderAppURL:          strings.TrimRight(getEnv("BUILDER_APP_URL", "https://builder.rrpsystem.com"), "/"),
		CORSAllowedOrigins:     splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		DefaultTTLMinutes:      getEnvInt("DEFAULT_TTL_MINUTES", 15),
		MaxTTLMinutes:          getEnvInt("MAX_TTL_MINUTES", 1440),
		MintRateLimitPerMin:    getEnvInt("MINT_RATE_LIMIT_PER_MIN", 60),
	}

	graceTTL, err := time.ParseDuration(getEnv("FETCH_GRACE_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("parse FETCH_GRACE_TTL: %w", err)
	}
	cfg.FetchGraceTTL = graceTTL

	janitorInterval, err := time.ParseDuration(getEnv("JANITOR_INTERVAL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("parse JANITOR_INTERVAL: %w", err)
	}
	cfg.JanitorInterval = janitorInterval

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.CtxPrivateKeyPEM == "" {
		errs = append(errs, "WB_CTX_PRIVATE_KEY is required")
	}
	if c.CtxPublicKeyPEM == "" {
		errs = append(errs, "WB_CTX_PUBLIC_KEY is required")
	}
	if c.SupabaseURL == "" {
		errs = append(errs, "SUPABASE_URL is required")
	}
	if c.SupabaseAnonKey == "" {
		errs = append(errs, "SUPABASE_ANON_KEY is required")
	}
	if c.DefaultTTLMinutes <= 0 {
		errs = append(errs, "DEFAULT_TTL_MINUTES must be > 0")
	}
	if c.MaxTTLMinutes < c.DefaultTTLMinutes {
		errs = append(errs, "MAX_TTL_MINUTES must be >= DEFAULT_TTL_MINUTES")
	}
	if c.FetchGraceTTL <= 0 || c.FetchGraceTTL > 10*time.Minute {
		errs = append(errs, "FETCH_GRACE_TTL must be between 1s and 10m")
	}
	if c.JanitorInterval <= 0 {
		errs = append(errs, "JANITOR_INTERVAL must be > 0")
	}
	if c.MintRateLimitPerMin <= 0 {
		errs = append(errs, "MINT_RATE_LIMIT_PER_MIN must be > 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// CtxFunctionBase is the API base URL baked into minted context records;
// the builder app uses it to fetch the context back after redirect.
func (c *Config) CtxFunctionBase() string {
	return c.SupabaseURL + "/functions/v1"
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trim := strings.TrimSpace(p)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}
