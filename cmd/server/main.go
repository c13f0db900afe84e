package main

import (
	"os"
	"strings"

	"transition-hub-backend/internal/allocation"
	"transition-hub-backend/internal/audit"
	"transition-hub-backend/internal/auth"
	"transition-hub-backend/internal/company"
	"transition-hub-backend/internal/config"
	"transition-hub-backend/internal/database"
	"transition-hub-backend/internal/emission"
	"transition-hub-backend/internal/logging"
	"transition-hub-backend/internal/models"
	"transition-hub-backend/internal/notification"
	"transition-hub-backend/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	logging.Setup(os.Getenv("LOG_PRETTY") == "true")

	cfg := config.Load()
	database.Init(cfg)

	// Delivery strategy is chosen once here, never branched per call.
	var strategy notification.Strategy
	if cfg.TransactionalEmailEnabled {
		client := notification.NewHTTPTransactionalClient(cfg.EmailProviderBaseURL, cfg.EmailProviderAPIKey)
		strategy = notification.NewTransactionalStrategy(client)
		logging.L.Info().Msg("notifications: transactional provider")
	} else {
		strategy = notification.NewQueueStrategy(database.DB)
		logging.L.Info().Msg("notifications: email queue")

		mailer := worker.NewProviderMailer(cfg.EmailProviderBaseURL, cfg.EmailProviderAPIKey, cfg.EmailFromAddress)
		emailWorker := worker.NewEmailWorker(database.DB, mailer, cfg.EmailMaxAttempts, logging.L)
		if _, err := emailWorker.Start(cfg.EmailWorkerSchedule); err != nil {
			logging.L.Fatal().Err(err).Msg("could not start email worker")
		}
	}

	dispatcher := notification.NewDispatcher(database.DB, strategy, logging.L)
	allocationCtl := allocation.NewController(database.DB, dispatcher, logging.L)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logging.L.Error().Err(err).Str("path", c.Path()).Msg("unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-company-admin", auth.RegisterCompanyAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Companies & relationships
	protected.Get("/companies/:id", company.GetCompanyHandler())
	protected.Post("/company-relationships", company.CreateRelationshipHandler())
	protected.Get("/company-relationships", company.ListRelationshipsHandler())
	protected.Put("/company-relationships/:id", company.UpdateRelationshipHandler())

	// Corporate emissions
	canEdit := auth.RequireRole(models.RoleAdmin, models.RoleEditor)
	protected.Post("/corporate-emissions", canEdit, emission.CreateEmissionHandler())
	protected.Get("/corporate-emissions", emission.ListEmissionsHandler())
	protected.Put("/corporate-emissions/:id", canEdit, emission.UpdateEmissionHandler())

	// Emission allocations
	protected.Get("/emission-allocations", allocation.ListAllocationsHandler(allocationCtl))
	protected.Post("/emission-allocations", canEdit, allocation.CreateAllocationHandler(allocationCtl))
	protected.Put("/emission-allocations/:id", canEdit, allocation.UpdateAllocationHandler(allocationCtl))
	protected.Delete("/emission-allocations/:id", canEdit, allocation.DeleteAllocationHandler(allocationCtl))

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	logging.L.Info().Str("port", cfg.HTTPPort).Msg("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logging.L.Fatal().Err(err).Msg("server stopped")
	}
}
