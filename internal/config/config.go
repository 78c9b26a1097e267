package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

type Config struct {
	// Database
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int

	// Auth (session tokens issued by the identity provider)
	AuthJWKSURL string
	AuthSecret  string
	AuthIssuer  string

	// Identity provider backend API (profile lookup on sync)
	ClerkSecretKey string
	ClerkAPIURL    string

	// Check-in ledger
	CheckinTimezone string
	CheckinPoints   int

	// Server
	Port               string
	CORSOrigins        string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	RedisURL           string

	// Logging
	LogFile          string
	LogMaxSizeMB     int
	LogMaxBackups    int
	LogMaxAgeDays    int
	LogRetentionDays int

	// Error tracking
	SentryDSN string
	AppEnv    string

	// malformed env values seen by Load; Validate reports them
	parseErrs []error
}

func Load() *Config {
	var errs []error
	intEnv := func(key string, fallback int) int { return getInt(key, fallback, &errs) }
	durationEnv := func(key string, fallback time.Duration) time.Duration {
		return getDuration(key, fallback, &errs)
	}

	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "checkins"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: intEnv("DB_MAX_OPEN_CONNS", 25),

		AuthJWKSURL: getEnv("AUTH_JWKS_URL", ""),
		AuthSecret:  getEnv("AUTH_SECRET", ""),
		AuthIssuer:  getEnv("AUTH_ISSUER", ""),

		ClerkSecretKey: getEnv("CLERK_SECRET_KEY", ""),
		ClerkAPIURL:    getEnv("CLERK_API_URL", "https://api.clerk.com"),

		CheckinTimezone: getEnv("CHECKIN_TIMEZONE", "Europe/London"),
		CheckinPoints:   intEnv("CHECKIN_POINTS", 10),

		Port:               getEnv("PORT", "4000"),
		CORSOrigins:        getEnv("CORS_ORIGINS", "*"),
		RequestTimeout:     durationEnv("REQUEST_TIMEOUT", 10*time.Second),
		RateLimitPerMinute: intEnv("RATE_LIMIT_PER_MINUTE", 60),
		RedisURL:           getEnv("REDIS_URL", ""),

		LogFile:          getEnv("LOG_FILE", ""),
		LogMaxSizeMB:     intEnv("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:    intEnv("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:    intEnv("LOG_MAX_AGE_DAYS", 7),
		LogRetentionDays: intEnv("LOG_RETENTION_DAYS", 30),

		SentryDSN: getEnv("SENTRY_DSN", ""),
		AppEnv:    getEnv("APP_ENV", "development"),
	}
	cfg.parseErrs = errs
	return cfg
}

// Validate reports configuration that would make the service unable to
// authenticate requests or resolve check-in days.
func (c *Config) Validate() error {
	if err := errors.Join(c.parseErrs...); err != nil {
		return err
	}
	if c.AuthJWKSURL == "" && c.AuthSecret == "" {
		return errors.New("either AUTH_JWKS_URL or AUTH_SECRET is required")
	}
	if c.DatabaseURL == "" && c.DBPassword == "" {
		return errors.New("DATABASE_URL or DB_PASSWORD is required")
	}
	if _, err := time.LoadLocation(c.CheckinTimezone); err != nil {
		return fmt.Errorf("invalid CHECKIN_TIMEZONE %q: %w", c.CheckinTimezone, err)
	}
	if c.CheckinPoints <= 0 {
		return fmt.Errorf("CHECKIN_POINTS must be positive, got %d", c.CheckinPoints)
	}
	return nil
}

// DSN prefers DATABASE_URL (hosted Postgres) and falls back to discrete DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getInt falls back on an unset variable; a set but malformed one also falls
// back and is recorded in errs.
func getInt(key string, fallback int, errs *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: want an integer", key, raw))
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: want a duration like 10s", key, raw))
		return fallback
	}
	return d
}
