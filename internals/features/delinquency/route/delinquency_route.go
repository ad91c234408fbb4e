package route

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"condoku_backend/internals/features/delinquency/controller"
	"condoku_backend/internals/features/delinquency/repository"
	"condoku_backend/internals/features/delinquency/service"
	helperAuth "condoku_backend/internals/helpers/auth"
	"condoku_backend/internals/middlewares"
	authMiddleware "condoku_backend/internals/middlewares/auth"
)

// Deps are the collaborators built once in main.
type Deps struct {
	Importer  *service.Importer
	Metrics   *service.MetricsService
	Repo      *repository.SlipRepository
	ChunkSize int
	BatchTTL  time.Duration
	Log       zerolog.Logger
}

// UserRoutes expects api to be behind AuthMiddleware.
func UserRoutes(api fiber.Router, d Deps) {
	uploadCtrl := controller.NewUploadController(d.Importer, d.ChunkSize, d.Log)
	metricsCtrl := controller.NewMetricsController(d.Metrics, d.Log)
	batchCtrl := controller.NewBatchController(d.Repo, d.BatchTTL, d.Log)

	api.Post("/upload", middlewares.UploadRateLimiter(), uploadCtrl.Upload)
	api.Post("/upload/file", middlewares.UploadRateLimiter(), uploadCtrl.UploadFile)

	api.Get("/metrics", metricsCtrl.GetMetrics)
	api.Get("/import-batches/:id", batchCtrl.GetBatch)
}

// AdminRoutes are restricted to the service role key.
func AdminRoutes(api fiber.Router, d Deps) {
	batchCtrl := controller.NewBatchController(d.Repo, d.BatchTTL, d.Log)

	admin := api.Group("/admin", authMiddleware.OnlyRoles("Apenas service_role", helperAuth.RoleServiceRole))
	admin.Post("/import-batches/purge", batchCtrl.Purge)
}
