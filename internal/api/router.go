package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/handler"
	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/core/service"
	"github.com/csemotors/dealership/internal/infrastructure/config"
	"github.com/csemotors/dealership/internal/infrastructure/db/postgres"
	redisdb "github.com/csemotors/dealership/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	secure := !cfg.Development()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("dealership"))

	// --- Dependencies ---
	accountRepo := postgres.NewAccountRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	accountService := service.NewAccountService(accountRepo)
	inventoryService := service.NewInventoryService(inventoryRepo)
	reviewService := service.NewReviewService(reviewRepo, inventoryRepo)

	sessionStore := redisdb.NewSessionStore(rdb)
	bridge := middleware.NewSessionBridge(tokenService, sessionStore, secure, log)
	e.Use(bridge.Middleware())

	accountHandler := handler.NewAccountHandler(accountService, tokenService, inventoryService, secure)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, reviewService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	// --- Public pages ---
	e.GET("/", inventoryHandler.Home)
	e.Static("/public", "public")
	e.GET("/inv/type/:classificationID", inventoryHandler.ByClassification)
	e.GET("/inv/detail/:vehicleID", inventoryHandler.Detail)

	// --- Account pages ---
	e.GET("/account/login", accountHandler.ShowLogin)
	e.POST("/account/login", accountHandler.Login)
	e.GET("/account/register", accountHandler.ShowRegister)
	e.POST("/account/register", accountHandler.Register)
	e.GET("/account/logout", accountHandler.Logout)

	authed := e.Group("/account", middleware.RequireAccount())
	authed.GET("", accountHandler.Dashboard)
	authed.GET("/update", accountHandler.ShowUpdate)
	authed.POST("/update", accountHandler.Update)
	authed.POST("/password", accountHandler.ChangePassword)

	// --- Reviews (any authenticated visitor) ---
	e.POST("/inv/detail/:vehicleID/review", reviewHandler.Create, middleware.RequireAccount())

	// --- Inventory management (Employee/Admin only) ---
	staff := e.Group("/inv", middleware.RequireStaff())
	staff.GET("", inventoryHandler.Manage)
	staff.GET("/classification/new", inventoryHandler.ShowAddClassification)
	staff.POST("/classification/new", inventoryHandler.AddClassification)
	staff.GET("/new", inventoryHandler.ShowAddVehicle)
	staff.POST("/new", inventoryHandler.AddVehicle)
	staff.GET("/edit/:vehicleID", inventoryHandler.ShowEditVehicle)
	staff.POST("/edit/:vehicleID", inventoryHandler.EditVehicle)
	staff.POST("/delete/:vehicleID", inventoryHandler.DeleteVehicle)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
