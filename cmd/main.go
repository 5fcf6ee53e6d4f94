package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/sketchaa/sketchaa/internal/domain"
	"github.com/sketchaa/sketchaa/internal/game"
	"github.com/sketchaa/sketchaa/internal/infrastructure/configs"
	"github.com/sketchaa/sketchaa/internal/infrastructure/contracts"
	"github.com/sketchaa/sketchaa/internal/infrastructure/events"
	"github.com/sketchaa/sketchaa/internal/infrastructure/logging"
	"github.com/sketchaa/sketchaa/internal/infrastructure/messaging"
	"github.com/sketchaa/sketchaa/internal/infrastructure/ratelimiter"
	"github.com/sketchaa/sketchaa/internal/infrastructure/tracing"
	"github.com/sketchaa/sketchaa/internal/persistence/db"
	"github.com/sketchaa/sketchaa/internal/persistence/repository"
	"github.com/sketchaa/sketchaa/internal/presentation/api"
	"github.com/sketchaa/sketchaa/internal/presentation/handler/health"
	"github.com/sketchaa/sketchaa/internal/presentation/handler/rooms"
)

const (
	serviceName = "sketchaa-api"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		FilePath: cfg.Logger.FilePath,
		Encoding: cfg.Logger.Encoding,
		Level:    cfg.Logger.Level,
		Logger:   cfg.Logger.Logger,
	})

	if cfg.Tracing.Enabled {
		tracerCfg := tracing.NewDefaultConfig(serviceName)
		tracerCfg.JaegerEndpoint = cfg.Tracing.Endpoint

		sh, err := tracing.InitTracer(tracerCfg)
		if err != nil {
			log.Fatalf("Failed to initialize the tracer: %v", err)
		}
		defer sh(ctx)
	}

	audit := game.NopAuditSink()
	if cfg.AMQP.Enabled {
		rabbitmq, err := messaging.NewRabbitMQ(cfg.AMQP.URL)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitmq.Close()

		if err := rabbitmq.Setup(contracts.AllRoutingKeys()); err != nil {
			log.Fatal(err)
		}

		logger.Info(logging.RabbitMQ, logging.Startup, "rabbitmq connected", nil)

		publisher := events.NewRoomPublisher(rabbitmq, logger)
		defer publisher.Close()
		audit = publisher

		var audits domain.RoomAuditRepository
		if cfg.Mongo.Enabled {
			mongoCfg := &db.MongoConfig{
				URI:               cfg.Mongo.URI,
				Database:          db.DefaultDatabase,
				ConnectionTimeout: cfg.Mongo.Timeout,
			}

			client, err := db.NewMongoClient(ctx, mongoCfg)
			if err != nil {
				log.Fatal(err)
			}
			defer db.DisconnectMongo(context.Background(), client)

			audits = repository.NewRoomAuditLogRepository(db.GetDatabase(client, mongoCfg))
			if err := audits.EnsureIndexes(ctx); err != nil {
				logger.Warn(logging.Mongo, logging.Startup, "failed to ensure audit indexes", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
			}
		}

		consumer := events.NewRoomConsumer(rabbitmq, audits, logger)
		go consumer.Listen()
	}

	registry := game.NewRegistry(cfg.Game.MaxRooms)
	coordinator := game.NewCoordinator(game.Config{
		DrawingTime:   cfg.Game.DrawingTime,
		JudgingTime:   cfg.Game.JudgingTime,
		TickInterval:  cfg.Game.TickInterval,
		MaxRooms:      cfg.Game.MaxRooms,
		RoomIdleTTL:   cfg.Game.RoomIdleTTL,
		SweepInterval: cfg.Game.SweepInterval,
	}, registry, logger, game.NewAverageScorer(), audit)
	go coordinator.RunSweeper(ctx)

	roomHandler := rooms.NewHandler(coordinator, logger)
	healthHandler := health.NewHandler()

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		CacheTTL:         cfg.RateLimiter.CacheTTL,
		SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
	})
	app := api.NewApplication(*cfg, roomHandler, healthHandler, logger, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
