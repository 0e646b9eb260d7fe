package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/facefind/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/facefind/internal/api/handler"
	adminHandler "github.com/saturnino-fabrica-de-software/facefind/internal/api/handler/admin"
	"github.com/saturnino-fabrica-de-software/facefind/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facefind/internal/auth"
	"github.com/saturnino-fabrica-de-software/facefind/internal/backend"
	"github.com/saturnino-fabrica-de-software/facefind/internal/database"
	"github.com/saturnino-fabrica-de-software/facefind/internal/ratelimit"
	"github.com/saturnino-fabrica-de-software/facefind/internal/recognition"
	"github.com/saturnino-fabrica-de-software/facefind/internal/ws"
)

type Dependencies struct {
	Backend *backend.Client
	Issuer  *auth.Issuer
	Manager *recognition.Manager
	Hub     *ws.Hub
	// Sightings is nil when persistence is disabled
	Sightings handler.SightingStore
	// DB is nil when persistence is disabled
	DB database.Pinger
	// APILimiter bounds requests per user; nil disables it
	APILimiter *ratelimit.Limiter
	// CameraSyncer registers cameras created or edited through the admin API; optional
	CameraSyncer adminHandler.CameraSyncer
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(logger),
		AppName:               "FaceFind Gateway",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	var sessions handler.RunningCounter
	if r.deps != nil && r.deps.Manager != nil {
		sessions = r.deps.Manager
	}
	var db database.Pinger
	if r.deps != nil {
		db = r.deps.DB
	}

	healthHandler := handler.NewHealthHandler(db, sessions, r.logger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/v1")

	// Login is public and limited per client address
	authHandler := handler.NewAuthHandler(r.deps.Backend.Auth, r.deps.Issuer, r.logger)
	v1.Post("/auth/login", middleware.RateLimit(r.deps.APILimiter, middleware.IPKey), authHandler.Login)

	// Everything below requires a session
	v1.Use(middleware.Auth(r.deps.Issuer))
	v1.Use(middleware.RateLimit(r.deps.APILimiter, middleware.SessionKey))

	v1.Get("/auth/me", authHandler.Me)

	cameraHandler := handler.NewCameraHandler(r.deps.Backend.Cameras, r.deps.Manager, r.logger)
	sightingHandler := handler.NewSightingHandler(r.deps.Sightings, r.logger)

	cameras := v1.Group("/cameras")
	cameras.Get("/", cameraHandler.List)
	cameras.Get("/:id/recognition", cameraHandler.Status)
	cameras.Post("/:id/recognition/start", cameraHandler.Start)
	cameras.Post("/:id/recognition/stop", cameraHandler.Stop)
	cameras.Post("/:id/recognition/capture", cameraHandler.Capture)
	cameras.Get("/:id/overlay.png", cameraHandler.Overlay)
	cameras.Get("/:id/sightings", sightingHandler.List)

	backendHandler := handler.NewBackendHandler(r.deps.Backend.Cases, r.deps.Backend.Alerts, r.logger)
	v1.Get("/cases", backendHandler.ListCases)
	v1.Get("/cases/:id", backendHandler.GetCase)
	v1.Get("/alerts", backendHandler.ListAlerts)
	v1.Post("/alerts/:id/acknowledge", backendHandler.AcknowledgeAlert)

	v1.Get("/sightings/stats", sightingHandler.Stats)

	notificationHandler := handler.NewNotificationHandler(r.deps.Backend.Notifications, r.logger)
	v1.Get("/notifications", notificationHandler.List)
	v1.Post("/notifications/:id/read", notificationHandler.MarkRead)

	r.setupAdminRoutes(v1.Group("/admin", middleware.RequireAdmin()))

	// WebSocket endpoint
	if r.deps.Hub != nil {
		v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.deps.Hub))
	}
}

func (r *Router) setupAdminRoutes(adminGroup fiber.Router) {
	casesHandler := adminHandler.NewCasesHandler(r.deps.Backend.Cases, r.logger)
	camerasHandler := adminHandler.NewCamerasHandler(r.deps.Backend.Cameras, r.deps.CameraSyncer, r.logger)
	usersHandler := adminHandler.NewUsersHandler(r.deps.Backend.Users, r.logger)
	reportsHandler := adminHandler.NewReportsHandler(r.deps.Backend.Reports, r.logger)

	adminGroup.Post("/cases", casesHandler.Create)
	adminGroup.Put("/cases/:id", casesHandler.Update)
	adminGroup.Delete("/cases/:id", casesHandler.Delete)

	adminGroup.Get("/cameras/:id", camerasHandler.Get)
	adminGroup.Post("/cameras", camerasHandler.Create)
	adminGroup.Put("/cameras/:id", camerasHandler.Update)
	adminGroup.Delete("/cameras/:id", camerasHandler.Delete)

	adminGroup.Get("/users", usersHandler.List)
	adminGroup.Post("/users", usersHandler.Create)
	adminGroup.Delete("/users/:id", usersHandler.Delete)

	adminGroup.Get("/reports/export", reportsHandler.Export)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

// Shutdown stops accepting requests and waits up to timeout for in-flight ones
func (r *Router) Shutdown(timeout time.Duration) error {
	return r.app.ShutdownWithTimeout(timeout)
}
