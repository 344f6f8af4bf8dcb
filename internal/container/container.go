package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-membership-api/config"
	"github.com/oksasatya/go-ddd-membership-api/pkg/helpers"
	"github.com/oksasatya/go-ddd-membership-api/pkg/metrics"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg    *config.Config
	logger *logrus.Logger
	pgPool *pgxpool.Pool

	verifier *helpers.TokenVerifier

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
	metricSet *metrics.Metrics
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetVerifier(v *helpers.TokenVerifier)    { verifier = v }
func GetVerifier() *helpers.TokenVerifier     { return verifier }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetMetrics(m *metrics.Metrics)           { metricSet = m }
func GetMetrics() *metrics.Metrics            { return metricSet }
