// Package api is the HTTP surface of the sandbox backend: routing, auth
// middleware, handlers and the error envelope.
package api

import (
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/storefront/internal/api/docs"
	"github.com/99minutos/storefront/internal/api/handler"
	"github.com/99minutos/storefront/internal/api/middleware"
	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/service"
	"github.com/99minutos/storefront/internal/sandbox"
)

// BasePath prefixes every REST route. Health and metrics sit at the root.
const BasePath = "/api"

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title                       Storefront Sandbox API
// @version                     1.0
// @description                 In-memory storefront backend for local development and tests.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(store *sandbox.Store, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = service.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/health" || strings.HasPrefix(p, "/swagger/")
		},
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Str("request_id", v.RequestID).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	// Request metrics go to a per-router registry so several routers can
	// coexist in one process.
	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "sandbox",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health" || c.Path() == "/swagger/*"
		},
	}))

	// --- Dependencies ---
	authService := sandbox.NewAuthService(store, jwtSecret, 24*time.Hour)
	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(store)
	cartHandler := handler.NewCartHandler(store)
	orderHandler := handler.NewOrderHandler(store)
	userHandler := handler.NewUserHandler(store)
	authMiddleware := middleware.Auth(jwtSecret)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))

	g := e.Group(BasePath)

	// --- Public routes ---
	g.POST("/auth/register", authHandler.Register)
	g.POST("/auth/login", authHandler.Login)
	g.GET("/products", catalogHandler.ListProducts)
	g.GET("/products/search", catalogHandler.SearchProducts)
	g.GET("/products/:id", catalogHandler.GetProduct)
	g.GET("/categories", catalogHandler.Categories)

	// --- Authenticated routes ---
	authed := g.Group("", authMiddleware)
	authed.GET("/cart", cartHandler.Get)
	authed.POST("/cart/add", cartHandler.Add)
	authed.PUT("/cart/item/:id", cartHandler.Update)
	authed.DELETE("/cart/item/:id", cartHandler.Remove)
	authed.GET("/wishlist", cartHandler.Wishlist)
	authed.POST("/wishlist/add", cartHandler.AddToWishlist)
	authed.DELETE("/wishlist/item/:id", cartHandler.RemoveFromWishlist)
	authed.POST("/orders", orderHandler.Place)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.PUT("/orders/:id/cancel", orderHandler.Cancel)
	authed.GET("/users/profile", userHandler.Profile)
	authed.GET("/users/addresses", userHandler.Addresses)
	authed.POST("/users/addresses", userHandler.AddAddress)

	// --- Admin routes ---
	admin := g.Group("", authMiddleware, adminOnly)
	admin.POST("/products", catalogHandler.CreateProduct)
	admin.PUT("/products/:id", catalogHandler.UpdateProduct)
	admin.DELETE("/products/:id", catalogHandler.DeleteProduct)
	admin.GET("/orders/all", orderHandler.ListAll)
	admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	admin.PUT("/orders/:id/cancel-admin", orderHandler.ForceCancel)

	// --- Probes and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
