package handler

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/skillbridge/server/internal/apperr"
	"github.com/skillbridge/server/internal/config"
	"github.com/skillbridge/server/internal/metrics"
)

const (
	appName      = "Skill Bridge"
	bodyLimit    = 4 * 1024 * 1024
	readTimeout  = 30 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second

	LivenessMessage = "Skill Bridge Server is running"
)

// NewRouter builds the fiber application with the global middlewares and all
// routes registered.
func NewRouter(cfg *config.Config, h *HTTPHandler, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		BodyLimit:             bodyLimit,
		ReadTimeout:           readTimeout,
		WriteTimeout:          writeTimeout,
		IdleTimeout:           idleTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(apperr.Mapper{Production: cfg.IsProduction()}, m),
	})

	app.Use(requestLogger(m))
	app.Use(recoverPanic())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     originOf(cfg.AppURL),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(jsonBody())

	app.Get("/", h.handleRoot)
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	api := app.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.Post("/sign-in", h.handleSignIn)
	authGroup.Get("/me", h.requireAuth, h.handleMe)
	authGroup.Post("/sign-out", h.requireAuth, h.handleSignOut)

	return app
}

// originOf reduces a URL to the scheme://host form the CORS middleware
// accepts.
func originOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimRight(raw, "/")
	}
	return u.Scheme + "://" + u.Host
}
