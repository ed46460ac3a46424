// Package devstub is an in-process implementation of the portal API contract
// the client SDK consumes. It exists for local development and integration
// tests; the production backend remains an external collaborator.
package devstub

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campuslink/portal/internal/core/domain"
	"github.com/campuslink/portal/internal/devstub/handler"
	"github.com/campuslink/portal/internal/devstub/middleware"
	"github.com/campuslink/portal/internal/devstub/store"
	"github.com/campuslink/portal/internal/infrastructure/config"
)

// Deps carries the stub's stores plus the optional raw connections used by
// the readiness probe. Leave Mongo/Redis nil when running fully in memory.
type Deps struct {
	Users     store.UserStore
	OTPs      store.OTPStore
	Resources store.ResourceStore
	Mongo     *mongo.Database
	Redis     *redis.Client
}

// MemoryDeps returns a Deps wired entirely to in-memory stores.
func MemoryDeps() Deps {
	return Deps{
		Users:     store.NewMemoryUsers(),
		OTPs:      store.NewMemoryOTPs(),
		Resources: store.NewMemoryResources(),
	}
}

// NewRouter builds the Echo instance with all portal routes registered under
// /api, mirroring the path layout the client's base URL expects.
func NewRouter(cfg *config.StubConfig, deps Deps, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("campus_portal_stub"))

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	api := e.Group("/api")

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Users, deps.OTPs, cfg.JWTSecret, cfg.DevMode(), log)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/verify-login", authHandler.VerifyLogin)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/verify-register", authHandler.VerifyRegister)
	api.POST("/auth/request-password-reset", authHandler.RequestPasswordReset)
	api.POST("/auth/verify-password-reset", authHandler.VerifyPasswordReset)
	api.POST("/auth/resend-otp", authHandler.ResendOTP)

	// --- Resource routes: reads open, mutations admin-only ---
	auth := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	for _, name := range handler.Resources {
		rh := handler.NewResourceHandler(name, deps.Resources, log)
		api.GET("/"+name, rh.List)
		api.GET("/"+name+"/:id", rh.Get)
		api.POST("/"+name, rh.Create, auth, adminOnly)
		api.PUT("/"+name+"/:id", rh.Update, auth, adminOnly)
		api.DELETE("/"+name+"/:id", rh.Delete, auth, adminOnly)
	}
	results := handler.NewResourceHandler("results", deps.Resources, log)
	api.GET("/results/student/:studentId", results.StudentResults)

	contact := handler.NewContactHandler(deps.Resources, log)
	api.POST("/contact", contact.Submit)

	return e
}
