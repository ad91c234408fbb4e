package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"condoku_backend/internals/configs"
	database "condoku_backend/internals/databases"
	"condoku_backend/internals/features/delinquency/controller"
	"condoku_backend/internals/features/delinquency/repository"
	delinquencyRoute "condoku_backend/internals/features/delinquency/route"
	"condoku_backend/internals/features/delinquency/scheduler"
	"condoku_backend/internals/features/delinquency/service"
	helper "condoku_backend/internals/helpers"
	helperAuth "condoku_backend/internals/helpers/auth"
	"condoku_backend/internals/helpers/dbtime"
	"condoku_backend/internals/helpers/logger"
	middlewares "condoku_backend/internals/middlewares"
	reqLogger "condoku_backend/internals/middlewares/logger"
	routes "condoku_backend/internals/route"
)

func main() {
	_ = logger.Setup(logger.DefaultConfig())
	configs.LoadEnv()

	cfg, err := configs.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Warn().Err(err).Msg("logger config rejected, keeping defaults")
	}
	appLog := logger.WithComponent("api")

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		BodyLimit:             20 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helper.FromFiberError(c, err)
		},
	})

	app.Use(middlewares.RecoveryMiddleware(appLog))
	app.Use(reqLogger.LoggerMiddleware(logger.WithComponent("http")))
	app.Use(middlewares.CorsMiddleware(cfg.CorsOrigins))
	app.Use(middlewares.GlobalRateLimiter())
	app.Use(middlewares.RequestTimeout(45 * time.Second))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// DB connect + pool + warm-up
	db, err := database.ConnectDB(cfg, logger.WithComponent("db"))
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	database.TunePool(db, appLog)
	database.WarmUp(db, appLog)
	if cfg.DBAutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	var locker service.BatchLocker = service.NoopLocker{}
	var rdb *redis.Client
	if cfg.RedisAddress != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddress, Password: cfg.RedisPassword})
		locker = service.NewRedisLocker(rdb)
		appLog.Info().Str("addr", cfg.RedisAddress).Msg("import batches locked through redis")
	}

	var verifier helperAuth.Verifier
	if cfg.SupabaseJWTSecret != "" {
		verifier = helperAuth.NewJWTVerifier(cfg.SupabaseJWTSecret)
	} else {
		verifier = helperAuth.NewSupabaseUserVerifier(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	}

	clock := dbtime.NewClock(cfg.Timezone)
	repo := repository.NewSlipRepository(db)
	batchTTL := time.Duration(cfg.BatchTTLDays) * 24 * time.Hour

	deps := delinquencyRoute.Deps{
		Importer:  service.NewImporter(repo, locker, clock, logger.WithComponent("importer")),
		Metrics:   service.NewMetricsService(repository.NewScopedReaders(db, cfg.DBRLSRoleSwitch && cfg.SQLitePath() == ""), clock, logger.WithComponent("metrics")),
		Repo:      repo,
		ChunkSize: cfg.ImportChunkSize,
		BatchTTL:  batchTTL,
		Log:       appLog,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	scheduler.StartBatchCleanupScheduler(ctx, repo, batchTTL, 6*time.Hour, logger.WithComponent("scheduler"))

	routes.SetupRoutes(app, controller.NewSystemController(cfg, db), verifier, deps, appLog)

	app.Server().ReadTimeout = 30 * time.Second
	app.Server().WriteTimeout = 60 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		appLog.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("listening")
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)

	if rdb != nil {
		_ = rdb.Close()
	}
	database.Close(db)
	appLog.Info().Msg("bye")
}
