package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/bistro/services/restaurant/config"
	"example.com/bistro/services/restaurant/internal/api"
	"example.com/bistro/services/restaurant/internal/cache"
	"example.com/bistro/services/restaurant/internal/messaging"
	"example.com/bistro/services/restaurant/internal/metrics"
	"example.com/bistro/services/restaurant/internal/models"
	"example.com/bistro/services/restaurant/internal/realtime"
	"example.com/bistro/services/restaurant/internal/repositories"
	"example.com/bistro/services/restaurant/internal/search"
	"example.com/bistro/services/restaurant/internal/services"
	"example.com/bistro/services/restaurant/internal/storage"
	"example.com/bistro/services/restaurant/internal/tracing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server handling orders, menu, settings and the dashboard websocket`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := initDatabase(cfg)
	if err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
		redisCache = &cache.RedisCache{}
	}

	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		tracer = tracing.Disabled()
	}

	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without search functionality")
	}

	blobStore, err := storage.NewBlobStore(cfg.Storage)
	if err != nil {
		return err
	}

	bus, err := messaging.NewAzureServiceBus(cfg.Azure, tracer)
	if err != nil {
		return err
	}
	defer bus.Close()

	metricsCollector := metrics.NewMetrics()

	hub := realtime.NewHub()
	go hub.Run(ctx)

	svcs := buildServices(db, redisCache, elasticClient, blobStore, bus, hub, tracer, cfg)

	server := api.NewServer(cfg, svcs, hub, tracer, metricsCollector)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutting down API server")
	return nil
}

func buildServices(
	db *gorm.DB,
	redisCache *cache.RedisCache,
	elasticClient *search.ElasticClient,
	blobStore *storage.BlobStore,
	bus *messaging.AzureServiceBus,
	hub *realtime.Hub,
	tracer tracing.Tracer,
	cfg config.Config,
) api.Services {
	orderRepo := repositories.NewOrderRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	galleryRepo := repositories.NewGalleryRepository(db)
	userRepo := repositories.NewUserRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	settingsService := services.NewSettingsService(settingsRepo, blobStore, redisCache)
	orderService := services.NewOrderService(
		orderRepo, menuRepo, userRepo,
		settingsService, settingsService,
		hub, bus, elasticClient, tracer,
	)

	return api.Services{
		Orders:   orderService,
		Menu:     services.NewMenuService(menuRepo, blobStore, redisCache),
		Category: services.NewCategoryService(categoryRepo),
		Gallery:  services.NewGalleryService(galleryRepo, blobStore),
		Users:    services.NewUserService(userRepo),
		Auth:     services.NewAuthService(userRepo, cfg.Auth),
		Settings: settingsService,
	}
}

func initDatabase(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := models.SetupModels(db); err != nil {
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying DB connection")
	}

	maxOpen := cfg.DB.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 50
	}
	maxIdle := cfg.DB.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 10
	}
	lifetime := cfg.DB.ConnMaxLifetime
	if lifetime == 0 {
		lifetime = time.Hour
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)

	return db, nil
}
