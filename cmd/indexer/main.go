package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-membership-api/config"
	"github.com/oksasatya/go-ddd-membership-api/internal/application"
	pginfra "github.com/oksasatya/go-ddd-membership-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-membership-api/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-membership-api/internal/worker"
	"github.com/oksasatya/go-ddd-membership-api/pkg/helpers"
	"github.com/oksasatya/go-ddd-membership-api/pkg/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLoggerWithLevel(cfg.AppName+"-indexer", cfg.Env, cfg.LogLevel)
	if cfg.RabbitMQURL == "" || cfg.RabbitMQMembershipQueue == "" {
		logger.Info("RABBITMQ_URL not set; indexer disabled")
		return
	}
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 {
		logger.Fatal("Elasticsearch not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.Fatalf("elasticsearch client: %v", err)
	}
	index := search.NewUserIndex(es, cfg.ESUsersIndex)
	if err := index.EnsureIndex(ctx); err != nil {
		logger.Fatalf("ensure users index: %v", err)
	}

	// Prefetch for fair dispatch
	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQMembershipQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()
	msgs, err := consumer.Consume(cfg.AppName + "-indexer")
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	// reads only; the indexer never writes memberships
	users := application.NewUserService(
		pginfra.NewUserRepository(pool),
		pginfra.NewAccountRepository(pool),
		pginfra.NewTransactor(pool),
		nil, nil, logger,
	)

	m := metrics.New()
	w := worker.NewIndexer(users, index, logger)
	w.OnSettled = func(o worker.Outcome) { m.IndexerMessages.WithLabelValues(o.String()).Inc() }

	var metricsSrv *http.Server
	if cfg.IndexerMetricsAddr != "" {
		metricsSrv = m.Server(cfg.IndexerMetricsAddr)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("metrics listener stopped")
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		w.Run(ctx, msgs)
		close(done)
	}()

	logger.Infof("indexer listening on queue=%s", cfg.RabbitMQMembershipQueue)
	select {
	case <-ctx.Done():
	case <-done:
		logger.Warn("delivery channel closed")
	}
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
	}
}
