package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-membership-api/config"
	"github.com/oksasatya/go-ddd-membership-api/internal/container"
	pginfra "github.com/oksasatya/go-ddd-membership-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-membership-api/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-membership-api/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-membership-api/internal/router"
	"github.com/oksasatya/go-ddd-membership-api/pkg/helpers"
	"github.com/oksasatya/go-ddd-membership-api/pkg/metrics"
	"github.com/oksasatya/go-ddd-membership-api/pkg/response"
	"github.com/oksasatya/go-ddd-membership-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLoggerWithLevel(cfg.AppName, cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Initialize Postgres pool
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		logger.Fatalf("failed to init token verifier: %v", err)
	}

	// RabbitMQ (optional): membership events for the indexer
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQMembershipQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; membership events disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// Elasticsearch (optional): user directory search
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch client init failed; search disabled")
		} else {
			if err := search.NewUserIndex(es, cfg.ESUsersIndex).EnsureIndex(ctx); err != nil {
				logger.WithError(err).Warn("ensure users index failed")
			}
			container.SetES(es)
		}
	}

	m := metrics.New()

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetVerifier(verifier)
	container.SetMetrics(m)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithField("panic", recovered).WithField("request_id", c.GetString("request_id")).Error("panic recovered")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	// CORS
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.AccessLogEnabled() {
		r.Use(middleware.RequestLogger(logger))
	}
	r.Use(middleware.Metrics(m))

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r, "")
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go serve(srv, logger, "server")

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = m.Server(cfg.MetricsAddr)
		go serve(metricsSrv, logger, "metrics")
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(ctxShutdown)
	}
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func serve(srv *http.Server, logger *logrus.Logger, name string) {
	logger.Infof("%s starting on %s", name, srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("%s listen: %s", name, err)
	}
}

func newVerifier(cfg *config.Config) (*helpers.TokenVerifier, error) {
	opts := helpers.TokenVerifierOptions{
		Secret:           cfg.JWTSecret,
		Issuer:           cfg.JWTIssuer,
		Audience:         cfg.JWTAudience,
		AuthoritiesClaim: cfg.JWTAuthoritiesClaim,
		AuthorityPrefix:  cfg.JWTAuthorityPrefix,
	}
	if cfg.JWTPublicKeyPath != "" {
		pem, err := os.ReadFile(cfg.JWTPublicKeyPath)
		if err != nil {
			return nil, err
		}
		opts.PublicKeyPEM = pem
	}
	return helpers.NewTokenVerifier(opts)
}
