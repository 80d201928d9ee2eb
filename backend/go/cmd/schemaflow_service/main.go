package main

import (
	"SchemaFlow/backend/go/internal/config"
	"SchemaFlow/backend/go/internal/database/neo4j"
	"SchemaFlow/backend/go/internal/layout"
	"SchemaFlow/backend/go/internal/llm"
	"SchemaFlow/backend/go/internal/models"
	"SchemaFlow/backend/go/internal/relationship/cache"
	"SchemaFlow/backend/go/internal/schemaflow_service/api"
	"SchemaFlow/backend/go/internal/schemaflow_service/service"
	"SchemaFlow/backend/go/internal/schemaflow_service/store"
	"SchemaFlow/backend/go/pkg/circuitbreaker"
	httpserver "SchemaFlow/backend/go/pkg/http"
	"SchemaFlow/backend/go/pkg/logger"
	"SchemaFlow/backend/go/pkg/ratelimiter"
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	appLogger := logger.New("schemaflow_service")
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Relationship cache
	relCache, err := cache.New(ctx, &cfg.Cache)
	if err != nil {
		appLogger.Fatal("failed to initialize relationship cache: " + err.Error())
	}
	defer relCache.Close()
	appLogger.WithPayload(map[string]interface{}{"backend": relCache.Backend()}).Info("Relationship cache ready")

	opts := []service.Option{
		service.WithCache(relCache),
		service.WithLayoutOptions(layout.OptionsFromConfig(cfg.Layout)),
	}

	// LLM client, guarded by the circuit breaker
	model, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		appLogger.WithError(models.ErrorInfo{Message: err.Error(), Type: "llm_error"}).
			Warn("LLM client unavailable, relationships will be inferred heuristically")
		model = nil
	}
	if model != nil {
		if cfg.Middleware.CircuitBreaker.Enabled {
			cb := cfg.Middleware.CircuitBreaker
			breakerLog := appLogger.WithPayload(map[string]interface{}{"provider": model.Provider()})
			model = llm.WithBreaker(model, circuitbreaker.New(circuitbreaker.Settings{
				FailureThreshold: cb.FailureThreshold,
				SuccessThreshold: cb.SuccessThreshold,
				Timeout:          config.Duration(cb.Timeout, 30*time.Second),
				OnStateChange: func(from, to circuitbreaker.State) {
					breakerLog.Warn("LLM circuit breaker " + from.String() + " -> " + to.String())
				},
			}))
		}
		defer func() {
			if err := llm.Close(model); err != nil {
				appLogger.WithError(models.ErrorInfo{Message: err.Error(), Type: "llm_error"}).Warn("failed to close LLM client")
			}
		}()
		opts = append(opts, service.WithLLM(model))
		appLogger.Info("LLM provider: " + model.Provider())
	}

	// Optional Neo4j export
	if cfg.Export.Neo4j.Enabled {
		client, err := neo4j.NewClient(ctx, &cfg.Export.Neo4j)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		defer client.Close(context.Background())
		opts = append(opts, service.WithGraphStore(store.NewNeo4jStore(client)))
		appLogger.Info("Neo4j export enabled")
	}

	// Initialize dependencies (Store -> Service -> Handler)
	sampler := store.NewMongoSampler(&cfg.MongoDB)
	schemaService := service.New(sampler, cfg.LLM, appLogger, opts...)
	apiHandler := api.NewHandler(schemaService, appLogger)

	var limiter ratelimiter.KeyedRateLimiter
	if rl := cfg.Middleware.RateLimiter; rl.Enabled {
		limiter = ratelimiter.NewKeyedTokenBucket(rl.Rate, rl.Capacity)
	}
	router := api.SetupRouter(apiHandler, appLogger, limiter)

	srv := httpserver.NewServer(router,
		httpserver.WithAddress(cfg.Server.Address),
		httpserver.WithTimeouts(
			config.Duration(cfg.Server.ReadTimeout, 30*time.Second),
			config.Duration(cfg.Server.WriteTimeout, 120*time.Second),
		),
		httpserver.WithShutdownTimeout(config.Duration(cfg.Server.ShutdownTimeout, 10*time.Second)),
	)

	listener, err := net.Listen("tcp", srv.Addr())
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Starting server on " + listener.Addr().String())

	if err := srv.Run(ctx, listener); err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Server stopped")
}
