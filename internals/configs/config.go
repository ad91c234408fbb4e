package configs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"condoku_backend/internals/helpers/logger"
)

// Config is built once in main and passed down; nothing here is a package global.
type Config struct {
	Port string

	// Supabase
	SupabaseURL            string
	SupabaseAnonKey        string
	SupabaseServiceRoleKey string
	SupabaseJWTSecret      string

	// Postgres
	DatabaseURL     string
	DBUser          string
	DBPassword      string
	DBHost          string
	DBPort          string
	DBName          string
	DBSSLMode       string
	DBAutoMigrate   bool
	DBRLSRoleSwitch bool

	RedisAddress  string
	RedisPassword string

	Timezone        string
	CorsOrigins     []string
	ImportChunkSize int
	BatchTTLDays    int

	LogLevel  string
	LogFormat string

	Environment string
}

// =======================
// ENV LOADER
// =======================

// LoadEnv reads .env on local runs; managed platforms inject the environment directly.
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" || os.Getenv("VERCEL_ENV") != "" {
		log.Info().Msg("running on a managed platform, using system env")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env not found, using system env")
		return
	}
	log.Info().Msg(".env loaded")
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load builds the Config from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port: GetEnv("PORT", "3000"),

		SupabaseURL:            strings.TrimRight(GetEnv("SUPABASE_URL", GetEnv("NEXT_PUBLIC_SUPABASE_URL")), "/"),
		SupabaseAnonKey:        GetEnv("SUPABASE_ANON_KEY", GetEnv("NEXT_PUBLIC_SUPABASE_ANON_KEY")),
		SupabaseServiceRoleKey: GetEnv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseJWTSecret:      GetEnv("SUPABASE_JWT_SECRET", GetEnv("JWT_SECRET")),

		DatabaseURL:     GetEnv("DATABASE_URL"),
		DBUser:          GetEnv("DB_USER"),
		DBPassword:      GetEnv("DB_PASSWORD"),
		DBHost:          GetEnv("DB_HOST"),
		DBPort:          GetEnv("DB_PORT", "5432"),
		DBName:          GetEnv("DB_NAME", "postgres"),
		DBSSLMode:       GetEnv("DB_SSLMODE", "require"),
		DBAutoMigrate:   getBool("DB_AUTO_MIGRATE", false),
		DBRLSRoleSwitch: getBool("DB_RLS_ROLE_SWITCH", true),

		RedisAddress:  GetEnv("REDIS_ADDRESS"),
		RedisPassword: GetEnv("REDIS_PASSWORD"),

		Timezone:        GetEnv("APP_TIMEZONE", "America/Sao_Paulo"),
		CorsOrigins:     splitList(GetEnv("CORS_ORIGINS", "http://localhost:3000")),
		ImportChunkSize: getInt("IMPORT_CHUNK_SIZE", 200),
		BatchTTLDays:    getInt("IMPORT_BATCH_TTL_DAYS", 7),

		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		LogFormat: GetEnv("LOG_FORMAT", "console"),

		Environment: GetEnv("APP_ENV", GetEnv("VERCEL_ENV", "development")),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" && c.DBHost == "" {
		return errors.New("DATABASE_URL or DB_HOST is required")
	}
	if c.SupabaseJWTSecret == "" && (c.SupabaseURL == "" || c.SupabaseAnonKey == "") {
		return errors.New("SUPABASE_JWT_SECRET or SUPABASE_URL + SUPABASE_ANON_KEY is required")
	}
	if c.ImportChunkSize <= 0 {
		return errors.New("IMPORT_CHUNK_SIZE must be positive")
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise one built from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=condoku&options=-c statement_timeout=5000",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

const sqlitePrefix = "sqlite://"

// SQLitePath returns the file path of a sqlite:// DATABASE_URL, or "" for Postgres.
func (c *Config) SQLitePath() string {
	if !strings.HasPrefix(c.DatabaseURL, sqlitePrefix) {
		return ""
	}
	return strings.TrimPrefix(c.DatabaseURL, sqlitePrefix)
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: "stdout",
	}
}

// EnvironmentInfo is what /api/env-check exposes: presence flags, never secrets.
type EnvironmentInfo struct {
	HasSupabaseURL bool   `json:"hasSupabaseUrl"`
	HasAnonKey     bool   `json:"hasAnonKey"`
	HasServiceKey  bool   `json:"hasServiceKey"`
	HasJWTSecret   bool   `json:"hasJwtSecret"`
	HasRedis       bool   `json:"hasRedis"`
	SupabaseURL    string `json:"supabaseUrl"`
	Environment    string `json:"environment"`
}

func (c *Config) EnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		HasSupabaseURL: c.SupabaseURL != "",
		HasAnonKey:     c.SupabaseAnonKey != "",
		HasServiceKey:  c.SupabaseServiceRoleKey != "",
		HasJWTSecret:   c.SupabaseJWTSecret != "",
		HasRedis:       c.RedisAddress != "",
		SupabaseURL:    c.SupabaseURL,
		Environment:    c.Environment,
	}
}
