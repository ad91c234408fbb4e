package database

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"condoku_backend/internals/configs"
	"condoku_backend/internals/features/delinquency/model"
)

// ConnectDB opens the privileged Postgres handle. It is created once in main and injected.
// A DATABASE_URL of the form sqlite://<path> opens a local SQLite file instead.
func ConnectDB(cfg *configs.Config, log zerolog.Logger) (*gorm.DB, error) {
	if path := cfg.SQLitePath(); path != "" {
		log.Info().Str("path", path).Msg("connecting to SQLite")
		return OpenSQLite(path, configs.NewGormLogger(log))
	}

	log.Info().Str("host", cfg.DBHost).Msg("connecting to Postgres (Supabase)")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger: configs.NewGormLogger(log),
	})
	if err != nil {
		return nil, err
	}
	log.Info().Msg("DB connected")
	return db, nil
}

// OpenSQLite opens a SQLite database; pass "file:<name>?mode=memory&cache=shared" for an
// in-memory one.
func OpenSQLite(dsn string, l gormLogger.Interface) (*gorm.DB, error) {
	if l == nil {
		l = gormLogger.Discard
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: l})
}

func TunePool(db *gorm.DB, log zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn().Err(err).Msg("pool tune failed")
		return
	}
	// Sized for the Supabase pooler limits.
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUp(db *gorm.DB, log zerolog.Logger) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(db); err != nil {
			log.Warn().Err(err).Msg("warm-up ping failed")
		}
	}()
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Migrate creates or updates the delinquency tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.PaymentSlip{},
		&model.ImportBatch{},
		&model.ImportBatchDocument{},
	)
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
