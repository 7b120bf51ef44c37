package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	sqlitePrefix      = "sqlite:"
	minProdJWTSecret  = 32
	defaultDotEnvFile = ".env"
)

type Config struct {
	Addr               string
	DatabaseURL        string
	JWTSecret          string
	JWTTTL             time.Duration
	FrontendDir        string
	Environment        string
	MigrationsDir      string
	RunMigrations      bool
	SeedUserName       string
	SeedUserEmail      string
	SeedUserPassword   string
	MaxBodyBytes       int64
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	TaxRegimeFile      string
	HistoryRetention   time.Duration
	RetentionSchedule  string
	MetricsEnabled     bool
	LogLevel           string
	LogFormat          string
}

// Load reads the environment after applying any .env file in the working
// directory. Variables already set in the environment win over the file.
func Load() Config {
	LoadDotEnv(defaultDotEnvFile)
	return FromEnv()
}

// LoadDotEnv applies each file that exists. Missing files are skipped.
func LoadDotEnv(files ...string) {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			slog.Warn("dotenv load failed", "file", file, "err", err)
		}
	}
}

func FromEnv() Config {
	return Config{
		Addr:               getEnv("APP_ADDR", ":5000"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTTL:             getEnvDuration("JWT_TTL", time.Hour),
		FrontendDir:        getEnv("FRONTEND_DIR", "frontend/build"),
		Environment:        getEnv("APP_ENV", "development"),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "migrations"),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		SeedUserName:       getEnv("SEED_USER_NAME", "Demo User"),
		SeedUserEmail:      getEnv("SEED_USER_EMAIL", ""),
		SeedUserPassword:   getEnv("SEED_USER_PASSWORD", ""),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		TaxRegimeFile:      getEnv("TAX_REGIME_FILE", ""),
		HistoryRetention:   getEnvDuration("HISTORY_RETENTION", 0),
		RetentionSchedule:  getEnv("RETENTION_SCHEDULE", "@daily"),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}
}

// Backend reports which store DATABASE_URL selects.
func (c Config) Backend() string {
	if strings.HasPrefix(c.DatabaseURL, sqlitePrefix) {
		return BackendSQLite
	}
	return BackendPostgres
}

// SQLitePath is the file part of a sqlite: URL.
func (c Config) SQLitePath() string {
	path := strings.TrimPrefix(c.DatabaseURL, sqlitePrefix)
	return strings.TrimPrefix(path, "//")
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Backend() == BackendSQLite && c.SQLitePath() == "" {
		return errors.New("DATABASE_URL sqlite: form needs a file path")
	}
	if c.IsProduction() && len(strings.TrimSpace(c.JWTSecret)) < minProdJWTSecret {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production", minProdJWTSecret)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return errors.New("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.HistoryRetention < 0 {
		return errors.New("HISTORY_RETENTION must not be negative")
	}
	if c.SeedUserEmail != "" && len(c.SeedUserPassword) < 6 {
		return errors.New("SEED_USER_PASSWORD must be at least 6 characters when SEED_USER_EMAIL is set")
	}
	return nil
}
