package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lexcrm/crm-system/internal/api/handler"
	"github.com/lexcrm/crm-system/internal/api/middleware"
	"github.com/lexcrm/crm-system/internal/core/service"
	"github.com/lexcrm/crm-system/internal/infrastructure/db/postgres"
	redisinfra "github.com/lexcrm/crm-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; login throttling is then disabled and readiness only checks
// the database.
func NewRouter(db *sql.DB, rdb *redis.Client, tokens *service.TokenIssuer, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("crm_http"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(db)
	dealRepo := postgres.NewDealRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)

	var limiter *redisinfra.LoginThrottle
	if rdb != nil {
		limiter = redisinfra.NewLoginThrottle(rdb)
	}

	authService := newAuthService(userRepo, tokens, limiter)
	userService := service.NewUserService(userRepo)
	dealService := service.NewDealService(dealRepo, log)
	catalogService := service.NewCatalogService(catalogRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	dealHandler := handler.NewDealHandler(dealService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	authRequired := middleware.Auth(tokens)

	// --- Public routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/users", userHandler.ListByRole)
	e.GET("/services", catalogHandler.List)

	// --- Authenticated routes ---
	e.GET("/cabinet", authHandler.Cabinet, authRequired)
	e.GET("/profile", userHandler.Profile, authRequired)
	e.POST("/profile", userHandler.UpdateProfile, authRequired)
	e.GET("/deals", dealHandler.List, authRequired)
	e.POST("/deals", dealHandler.Create, authRequired)
	e.GET("/deals/:id", dealHandler.Get, authRequired)
	e.POST("/deals/:id", dealHandler.Update, authRequired)
	e.POST("/deals/:id/stage", dealHandler.UpdateStage, authRequired)

	// --- Operational routes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

// newAuthService keeps the nil-limiter case a true nil interface.
func newAuthService(repo *postgres.UserRepository, tokens *service.TokenIssuer, limiter *redisinfra.LoginThrottle) *service.AuthService {
	if limiter == nil {
		return service.NewAuthService(repo, tokens, nil)
	}
	return service.NewAuthService(repo, tokens, limiter)
}
