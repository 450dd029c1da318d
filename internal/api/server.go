package api

import (
	"context"
	"net/http"
	"time"

	"example.com/bistro/services/restaurant/config"
	"example.com/bistro/services/restaurant/internal/metrics"
	"example.com/bistro/services/restaurant/internal/models"
	"example.com/bistro/services/restaurant/internal/realtime"
	"example.com/bistro/services/restaurant/internal/services"
	"example.com/bistro/services/restaurant/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Services bundles everything the HTTP layer depends on
type Services struct {
	Orders   *services.OrderService
	Menu     *services.MenuService
	Category *services.CategoryService
	Gallery  *services.GalleryService
	Users    *services.UserService
	Auth     *services.AuthService
	Settings *services.SettingsService
}

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server
	services   Services
	hub        *realtime.Hub
	tracer     tracing.Tracer
	metrics    *metrics.Metrics
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, svcs Services, hub *realtime.Hub, tracer tracing.Tracer, m *metrics.Metrics) *Server {
	server := &Server{
		config:   cfg,
		services: svcs,
		hub:      hub,
		tracer:   tracer,
		metrics:  m,
	}

	server.router = server.setupRouter()
	server.httpServer = &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      server.router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
	}

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	if s.config.CorsEnabled {
		router.Use(CORS(s.config.CorsOrigins))
	}
	if app := s.tracer.App(); app != nil {
		router.Use(nrgin.Middleware(app))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.metrics.Snapshot())
	})

	router.GET("/ws", func(c *gin.Context) {
		if err := s.hub.ServeWS(c.Writer, c.Request); err != nil {
			log.Warn().Err(err).Msg("Websocket upgrade failed")
		}
	})

	s.registerRoutes(router)
	return router
}

func (s *Server) registerRoutes(router *gin.Engine) {
	ordersHandler := NewOrdersHandler(s.services.Orders, s.tracer, s.metrics)
	menuHandler := NewMenuHandler(s.services.Menu)
	categoryHandler := NewCategoryHandler(s.services.Category)
	galleryHandler := NewGalleryHandler(s.services.Gallery)
	usersHandler := NewUsersHandler(s.services.Users)
	authHandler := NewAuthHandler(s.services.Auth, s.config.Auth.SecureCookies)
	settingsHandler := NewSettingsHandler(s.services.Settings)

	authed := RequireAuth(s.services.Auth)
	adminOnly := RequireRole(models.RoleAdmin)
	staffOrAdmin := RequireRole(models.RoleAdmin, models.RoleDelivery)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", ordersHandler.CreateOrder)
		orders.GET("/track/:orderNumber", ordersHandler.TrackOrder)

		orders.GET("", authed, adminOnly, ordersHandler.ListOrders)
		orders.GET("/recent", authed, adminOnly, ordersHandler.RecentOrders)
		orders.GET("/overview", authed, adminOnly, ordersHandler.StatusOverview)
		orders.GET("/revenue", authed, adminOnly, ordersHandler.TotalRevenue)
		orders.GET("/my-orders", authed, staffOrAdmin, ordersHandler.MyOrders)
		orders.GET("/status/:status", authed, staffOrAdmin, ordersHandler.ListByStatus)
		orders.GET("/:id", authed, staffOrAdmin, ordersHandler.GetOrder)
		orders.PATCH("/:id/status", authed, staffOrAdmin, ordersHandler.UpdateStatus)
		orders.PATCH("/:id/assign-delivery", authed, adminOnly, ordersHandler.AssignDelivery)
		orders.DELETE("/all", authed, adminOnly, ordersHandler.DeleteAll)
	}

	menu := api.Group("/menu")
	{
		menu.GET("", menuHandler.List)
		menu.GET("/count", authed, adminOnly, menuHandler.Count)
		menu.GET("/:id", menuHandler.Get)
		menu.POST("", authed, adminOnly, menuHandler.Create)
		menu.PATCH("/:id", authed, adminOnly, menuHandler.Update)
		menu.POST("/:id/image", authed, adminOnly, menuHandler.UploadImage)
		menu.DELETE("/:id", authed, adminOnly, menuHandler.Delete)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.List)
		categories.POST("", authed, adminOnly, categoryHandler.Create)
		categories.PATCH("/:id", authed, adminOnly, categoryHandler.Update)
		categories.DELETE("/:id", authed, adminOnly, categoryHandler.Delete)
	}

	gallery := api.Group("/gallery")
	{
		gallery.GET("", galleryHandler.List)
		gallery.POST("", authed, adminOnly, galleryHandler.Upload)
		gallery.DELETE("/:id", authed, adminOnly, galleryHandler.Delete)
	}

	users := api.Group("/users")
	{
		users.GET("/me", authed, usersHandler.Me)
		users.GET("/delivery", authed, adminOnly, usersHandler.List)
		users.POST("/delivery", authed, adminOnly, usersHandler.Create)
		users.GET("/delivery/active-count", authed, adminOnly, usersHandler.CountActive)
		users.PATCH("/delivery/:id", authed, adminOnly, usersHandler.Update)
		users.PATCH("/delivery/:id/status", authed, adminOnly, usersHandler.SetStatus)
		users.DELETE("/delivery/:id", authed, adminOnly, usersHandler.Delete)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", settingsHandler.Get)
		settings.GET("/stats", authed, adminOnly, settingsHandler.Stats)
		settings.PATCH("/open", authed, adminOnly, settingsHandler.SetOpen)
		settings.PATCH("/general", authed, adminOnly, settingsHandler.UpdateGeneral)
		settings.PATCH("/contact", authed, adminOnly, settingsHandler.UpdateContact)
		settings.PATCH("/owner", authed, adminOnly, settingsHandler.UpdateOwner)
		settings.PATCH("/hero", authed, adminOnly, settingsHandler.UpdateHero)
		settings.PATCH("/instagram", authed, adminOnly, settingsHandler.UpdateInstagram)
		settings.PUT("/hours", authed, adminOnly, settingsHandler.UpdateHours)
		settings.POST("/images/:kind", authed, adminOnly, settingsHandler.UploadImage)
		settings.DELETE("/images/:kind", authed, adminOnly, settingsHandler.RemoveImage)
		settings.POST("/reset", authed, adminOnly, settingsHandler.Reset)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
