package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"DATABASE_URL", "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_PORT", "DB_NAME", "DB_SSLMODE",
		"SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY",
		"SUPABASE_JWT_SECRET", "JWT_SECRET", "IMPORT_CHUNK_SIZE", "CORS_ORIGINS", "DB_AUTO_MIGRATE",
		"APP_ENV", "VERCEL_ENV", "DB_RLS_ROLE_SWITCH", "PORT", "APP_TIMEZONE", "IMPORT_BATCH_TTL_DAYS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/postgres")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Equal(t, 200, cfg.ImportChunkSize)
	assert.Equal(t, 7, cfg.BatchTTLDays)
	assert.True(t, cfg.DBRLSRoleSwitch)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CorsOrigins)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "postgres://u:p@db:5432/postgres", cfg.DSN())
	assert.Empty(t, cfg.SQLitePath())
}

func TestLoadParsesValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db.supabase.co")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("NEXT_PUBLIC_SUPABASE_ANON_KEY", "anon")
	t.Setenv("CORS_ORIGINS", " https://a.app , ,https://b.app")
	t.Setenv("IMPORT_CHUNK_SIZE", "50")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, []string{"https://a.app", "https://b.app"}, cfg.CorsOrigins)
	assert.Equal(t, 50, cfg.ImportChunkSize)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Contains(t, cfg.DSN(), "postgres://postgres:pw@db.supabase.co:5432/postgres?sslmode=require")

	info := cfg.EnvironmentInfo()
	assert.True(t, info.HasSupabaseURL)
	assert.True(t, info.HasAnonKey)
	assert.False(t, info.HasJWTSecret)
}

func TestLoadValidation(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL or DB_HOST")

	t.Setenv("DATABASE_URL", "sqlite://local.db")
	_, err = Load()
	assert.ErrorContains(t, err, "SUPABASE_JWT_SECRET")

	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "local.db", cfg.SQLitePath())

	t.Setenv("IMPORT_CHUNK_SIZE", "0")
	_, err = Load()
	assert.ErrorContains(t, err, "IMPORT_CHUNK_SIZE")
}

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("CONDOKU_TEST_KEY", "  ")
	assert.Equal(t, "fallback", GetEnv("CONDOKU_TEST_KEY", "fallback"))
	t.Setenv("CONDOKU_TEST_KEY", "v")
	assert.Equal(t, "v", GetEnv("CONDOKU_TEST_KEY", "fallback"))
}
