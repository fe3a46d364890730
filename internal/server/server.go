package server

import (
	"log"

	"ai-crm-be/internal/bootstrap"
	"ai-crm-be/internal/config"
	"ai-crm-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024, // transcripts can be large
		ErrorHandler: serverutils.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	// Probes hit the bare root, outside the /api prefix.
	c.HealthController.RegisterRoutes(app)

	api := app.Group("/api")

	// Public
	c.AuthController.RegisterRoutes(api)
	c.NotificationHandler.RegisterRoutes(api) // WS does its own token check

	// Authenticated
	protected := api.Group("", serverutils.JwtMiddleware(cfg.Auth.JWTSecret))
	c.ContactController.RegisterRoutes(protected)
	c.DealController.RegisterRoutes(protected)
	c.ActivityController.RegisterRoutes(protected)
	c.InsightController.RegisterRoutes(protected)
}
