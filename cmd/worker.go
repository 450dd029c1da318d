package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/bistro/services/restaurant/config"
	"example.com/bistro/services/restaurant/internal/cache"
	"example.com/bistro/services/restaurant/internal/messaging"
	"example.com/bistro/services/restaurant/internal/realtime"
	"example.com/bistro/services/restaurant/internal/repositories"
	"example.com/bistro/services/restaurant/internal/search"
	"example.com/bistro/services/restaurant/internal/services"
	"example.com/bistro/services/restaurant/internal/storage"
	"example.com/bistro/services/restaurant/internal/tracing"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker to index delivered orders from the event queue and reconcile missed ones`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
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

	g, ctx := errgroup.WithContext(ctx)

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

	// The worker exists to index orders; without Elasticsearch there is
	// nothing for it to do
	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		return err
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

	// The worker has no websocket clients; events fan out to nobody
	hub := realtime.NewHub()
	go hub.Run(ctx)

	settingsRepo := repositories.NewSettingsRepository(db)
	settingsService := services.NewSettingsService(settingsRepo, blobStore, redisCache)
	orderService := services.NewOrderService(
		repositories.NewOrderRepository(db),
		repositories.NewMenuRepository(db),
		repositories.NewUserRepository(db),
		settingsService, settingsService,
		hub, bus, elasticClient, tracer,
	)

	g.Go(func() error {
		log.Info().Str("queue", cfg.Azure.QueueName).Msg("Starting Azure Service Bus processor")
		return bus.ProcessMessages(ctx, orderService.ProcessOrderMessage)
	})

	g.Go(func() error {
		log.Info().Msg("Starting index reconciliation cron job as fallback mechanism")

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(5*time.Minute),
			gocron.NewTask(func() {
				log.Info().Msg("Running fallback reconciliation job to catch any missed orders")
				if err := orderService.ReconcileIndex(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to reconcile order index in fallback job")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()

		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
