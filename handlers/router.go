package handlers

import (
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Routes groups the handlers mounted by SetupRoutes. Metrics may be nil.
type Routes struct {
	Catalog          *CatalogHandler
	Predict          *PredictHandler
	System           *SystemHandler
	Metrics          *MetricsHandler
	PredictRateLimit int
}

// SetupRoutes installs middleware and mounts the canonical routes plus the
// legacy /api/get_* aliases
func SetupRoutes(app *fiber.App, routes Routes) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(RequestLogger())
	app.Use(cors.New())

	predictLimiter := limiter.New(limiter.Config{
		Max:        routes.PredictRateLimit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"predictions": []models.PredictionResult{},
				"error":       "Too many requests",
			})
		},
	})

	app.Get("/", routes.System.Root)
	app.Get("/health", routes.System.Health)

	app.Get("/states", routes.Catalog.GetStates)
	app.Get("/colleges", routes.Catalog.GetColleges)
	app.Get("/categories", routes.Catalog.GetCategories)
	app.Get("/college", routes.Catalog.GetCollege)
	app.Get("/state", routes.Catalog.GetStateName)
	app.Get("/cutoffs", routes.Catalog.GetCutoffs)
	app.Post("/predict", predictLimiter, routes.Predict.Predict)

	legacy := app.Group("/api")
	legacy.Get("/get_states", routes.Catalog.GetStates)
	legacy.Get("/get_colleges", routes.Catalog.GetColleges)
	legacy.Get("/get_colleges_by_state/:state_id", routes.Catalog.GetColleges)
	legacy.Get("/get_categories_by_state/:state_id", routes.Catalog.GetCategories)
	legacy.Get("/get_college_name_by_id/:college_id", routes.Catalog.GetCollege)
	legacy.Get("/get_state_name_by_id/:state_id", routes.Catalog.GetStateName)
	legacy.Get("/get_cutoffs_by_state/:state_id", routes.Catalog.GetCutoffsByState)
	legacy.Get("/get_cutoffs_by_college/:college_id", routes.Catalog.GetCutoffsByCollege)
	legacy.Post("/predict_colleges", predictLimiter, routes.Predict.Predict)

	if routes.Metrics != nil {
		metrics := app.Group("/metrics")
		metrics.Get("/", routes.Metrics.GetMetrics)
		metrics.Delete("/", routes.Metrics.ResetMetrics)
		metrics.Delete("/cache", routes.Metrics.ClearCache)
		metrics.Post("/cache/warmup", routes.Metrics.WarmupCache)
	}
}

// RequestLogger logs one structured line per request
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		entry := logrus.WithFields(logrus.Fields{
			"request_id": c.Locals("requestid"),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    time.Since(start),
			"ip":         c.IP(),
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Warn("Request failed")
		default:
			entry.Info("Request handled")
		}
		return err
	}
}
