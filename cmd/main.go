package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-engine/internal/api"
	"storefront-engine/internal/catalog"
	"storefront-engine/internal/config"
	"storefront-engine/internal/coordinator"
	"storefront-engine/internal/logger"
	"storefront-engine/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const serviceName = "storefront-engine"

// backends groups what main opened so shutdown can release it.
type backends struct {
	catalog store.CatalogReader
	slots   store.SlotStore
	db      *store.PostgresStore
	redis   *redis.Client
}

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{ServiceName: serviceName})
		bootLog.Fatal().Err(err).Msg("error loading configuration")
	}

	log := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if envErr != nil {
		log.Info().Msg(".env file not found, relying on system environment")
	}
	log.Info().Str("app_env", cfg.AppEnv).
		Str("catalog_source", cfg.Catalog.Source).
		Str("wishlist_backend", cfg.Wishlist.Backend).
		Msg("configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open backends")
	}

	raw, err := b.catalog.LoadCatalog(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}
	cat, err := catalog.New(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog rejected")
	}
	log.Info().Int("products", len(raw.Products)).Int("categories", len(raw.Categories)).Msg("catalog loaded")

	coord := coordinator.New(ctx, coordinator.Options{
		Catalog:      cat,
		Slots:        b.slots,
		SlotKey:      cfg.Wishlist.Key,
		WriteTimeout: cfg.Wishlist.WriteTimeout,
		Logger:       log,
	})
	loop := coordinator.NewLoop(coord, log)
	loopDone := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(loopDone)
	}()

	// --- HTTP ---
	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, log)
	registerHealthCheck(httpRouter, log, b)
	api.NewHTTPHandler(loop, log).RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		log.Info().Str("port", cfg.HttpServer.Port).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server ListenAndServe error")
		}
		log.Info().Msg("HTTP server has stopped")
	}()

	// --- gRPC ---
	grpcServer := setupGRPCServer(log, api.NewGRPCHandler(loop, log))
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.GrpcServer.Port).Msg("failed to listen for gRPC")
	}

	go func() {
		log.Info().Str("port", cfg.GrpcServer.Port).Msg("gRPC server listening")
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Fatal().Err(err).Msg("gRPC server Serve error")
		}
		log.Info().Msg("gRPC server has stopped")
	}()

	shutdownComplete := make(chan struct{})
	go waitForShutdown(log, httpServer, grpcServer, b, shutdownComplete)

	<-shutdownComplete
	cancel()
	<-loopDone
	log.Info().Msg("service shutdown sequence finished")
}

// openBackends connects the catalog source and the wishlist slot store chosen by cfg.
// A single Postgres pool is shared when both use it.
func openBackends(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backends, error) {
	b := &backends{}

	if cfg.UsesPostgres() {
		db, err := sql.Open("postgres", cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		b.db = store.NewPostgresStore(db)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := b.db.Ping(pingCtx); err != nil {
			_ = b.db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		log.Info().Msg("database connection established")
	}

	switch cfg.Catalog.Source {
	case config.CatalogPostgres:
		b.catalog = b.db
	default:
		b.catalog = store.NewFixtureFile(cfg.Catalog.FixturePath)
	}

	switch cfg.Wishlist.Backend {
	case config.SlotMemory:
		b.slots = store.NewMemoryStore()
	case config.SlotRedis:
		opts, err := store.RedisOptions(cfg.Redis.URL, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		b.redis = redis.NewClient(opts)
		if err := b.redis.Ping(ctx).Err(); err != nil {
			// Wishlist writes are best-effort; keep serving and let them log.
			log.Warn().Err(err).Msg("redis unreachable at startup")
		}
		b.slots = store.NewRedisStore(b.redis)
	case config.SlotPostgres:
		b.slots = b.db
	default:
		fs, err := store.NewFileStore(cfg.Wishlist.FileDir)
		if err != nil {
			return nil, err
		}
		b.slots = fs
	}
	return b, nil
}

func (b *backends) Close(log zerolog.Logger) {
	closers := map[string]io.Closer{}
	if b.db != nil {
		closers["postgres"] = b.db
	}
	if b.redis != nil {
		closers["redis"] = b.redis
	}
	for name, c := range closers {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Str("backend", name).Msg("error closing backend")
		}
	}
}

func setupBaseMiddleware(router *chi.Mux, log zerolog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(api.RequestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
}

func registerHealthCheck(router *chi.Mux, log zerolog.Logger, b *backends) {
	router.Get("/api/v1/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		payload := map[string]interface{}{
			"status":      "healthy",
			"serviceName": serviceName,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		}
		if b.db != nil {
			dbStatus := "healthy"
			if err := b.db.Ping(ctx); err != nil {
				dbStatus = "unhealthy"
				log.Warn().Err(err).Msg("health check DB ping failed")
			}
			payload["database"] = dbStatus
		}
		if b.redis != nil {
			redisStatus := "healthy"
			if err := b.redis.Ping(ctx).Err(); err != nil {
				redisStatus = "unhealthy"
				log.Warn().Err(err).Msg("health check redis ping failed")
			}
			payload["redis"] = redisStatus
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(payload)
	})
}

func setupGRPCServer(log zerolog.Logger, handler *api.GRPCHandler) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(api.UnaryLoggingInterceptor(log)))

	s.RegisterService(&api.StorefrontServiceDesc, handler)
	grpc_health_v1.RegisterHealthServer(s, health.NewServer())
	reflection.Register(s)
	log.Info().Msg("gRPC services registered")

	return s
}

func waitForShutdown(
	log zerolog.Logger,
	httpServer *http.Server,
	grpcServer *grpc.Server,
	b *backends,
	shutdownComplete chan struct{},
) {
	defer close(shutdownComplete)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	received := <-sigChan
	log.Info().Str("signal", received.String()).Msg("starting graceful shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server graceful shutdown failed")
	}

	select {
	case <-stoppedGrpc:
	case <-shutdownCtx.Done():
		log.Warn().Err(shutdownCtx.Err()).Msg("gRPC graceful shutdown timed out, forcing stop")
		grpcServer.Stop()
	}

	b.Close(log)
}
