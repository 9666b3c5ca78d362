package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nimasrn/seller-crm/internal/config"
	"github.com/nimasrn/seller-crm/internal/handlers"
	"github.com/nimasrn/seller-crm/internal/idempotency"
	"github.com/nimasrn/seller-crm/internal/repository"
	"github.com/nimasrn/seller-crm/internal/services"
	xhttp "github.com/nimasrn/seller-crm/pkg/http"
	"github.com/nimasrn/seller-crm/pkg/logger"
	"github.com/nimasrn/seller-crm/pkg/pg"
	"github.com/nimasrn/seller-crm/pkg/prom"
	"github.com/nimasrn/seller-crm/pkg/redis"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer logger.Sync()

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	logger.Info("starting seller-crm", "version", version, "commit", commit, "date", date, "env", config.Get().AppEnv)

	if config.Get().AppDebug {
		host, _ := os.Hostname()
		if err := prom.Create(host, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed creating metrics", "error", err)
		} else {
			go prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(prom.RequestMetricsMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(config.Get().HttpRequestTimeout))

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	var guard *idempotency.Guard
	if addr := config.Get().RedisAddr; addr != "" {
		redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
			Addrs:      []string{addr},
			ClientName: config.Get().AppName,
			DB:         config.Get().RedisDatabase,
			Username:   config.Get().RedisUsername,
			Password:   config.Get().RedisPassword,
		})
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			return
		}
		defer redisAdap.Close()

		idemConf := idempotency.DefaultConfig()
		idemConf.ResultTTL = config.Get().IdempotencyTTL
		guard = idempotency.NewGuard(redisAdap, idemConf)
	} else {
		logger.Warn("REDIS_ADDR is empty, Idempotency-Key headers will be ignored")
	}

	sellerRepo := repository.NewSellerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	aggregationRepo := repository.NewAggregationRepository(db)

	// services
	sellerService := services.NewSellerService(sellerRepo, transactionRepo, aggregationRepo)
	transactionService := services.NewTransactionService(transactionRepo, sellerRepo)

	// v1 handlers
	sellerHandler := handlers.NewSellerHandler(sellerService, guard)
	transactionHandler := handlers.NewTransactionHandler(transactionService, guard)
	healthHandler := handlers.NewHealthHandler(db)

	v1 := s.Router.Group("/api/v1")
	handlers.RegisterSellerRoutes(v1, sellerHandler)
	handlers.RegisterTransactionRoutes(v1, transactionHandler)
	handlers.RegisterHealthRoutes(v1, healthHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// a failed listener cancels gctx and brings the shutdown goroutine down with it
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.ListenAndServe(config.Get().HttpListenAddr)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.Shutdown()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("error in running http-server", "error", err)
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, "--env=") {
			path := strings.TrimPrefix(v, "--env=")
			if _, err := os.Stat(path); err != nil {
				logger.Error("failed to open the passed env file", "path", path, "error", err)
				return ""
			}
			return path
		}
	}
	return ""
}
