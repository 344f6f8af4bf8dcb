package config

import (
	"errors"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName  string
	Env      string // development, staging, production
	Port     string
	GinMode  string
	LogLevel string

	// Database
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Migrations
	MigrationsDir string

	// CORS
	CORSAllowedOrigins string // comma-separated

	// JWT resource server. JWTPublicKeyPath (RS256) wins over JWTSecret (HS256).
	JWTSecret           string
	JWTPublicKeyPath    string
	JWTIssuer           string
	JWTAudience         string
	JWTAuthoritiesClaim string
	JWTAuthorityPrefix  string
	UsersReadAuthority  string

	// RabbitMQ; empty URL disables membership events
	RabbitMQURL             string
	RabbitMQMembershipQueue string

	// Elasticsearch; empty addrs disables the user directory
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESUsersIndex       string

	// Prometheus listeners; empty disables /metrics
	MetricsAddr        string
	IndexerMetricsAddr string

	// HTTP access log toggle
	HTTPLogEnabled bool

	HealthTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName:  getenv("APP_NAME", "membership-api"),
		Env:      getenv("APP_ENV", "development"),
		Port:     getenv("PORT", "8080"),
		GinMode:  getenv("GIN_MODE", "release"),
		LogLevel: getenv("LOG_LEVEL", ""),

		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "membership"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		JWTSecret:           getenv("JWT_SECRET", ""),
		JWTPublicKeyPath:    getenv("JWT_PUBLIC_KEY_PATH", ""),
		JWTIssuer:           getenv("JWT_ISSUER", ""),
		JWTAudience:         getenv("JWT_AUDIENCE", ""),
		JWTAuthoritiesClaim: getenv("JWT_AUTHORITIES_CLAIM", "roles"),
		JWTAuthorityPrefix:  getenv("JWT_AUTHORITY_PREFIX", "ROLE_"),
		UsersReadAuthority:  getenv("USERS_READ_AUTHORITY", "poc.users.read"),

		RabbitMQURL:             getenv("RABBITMQ_URL", ""),
		RabbitMQMembershipQueue: getenv("RABBITMQ_MEMBERSHIP_QUEUE", "membership-events"),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESUsersIndex:       getenv("ES_USERS_INDEX", "users"),

		MetricsAddr:        getenv("METRICS_ADDR", ":9090"),
		IndexerMetricsAddr: getenv("INDEXER_METRICS_ADDR", ":9091"),

		// HTTP access log toggle (default false; always on in development)
		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),

		HealthTimeout: getdur("HEALTH_TIMEOUT", 3*time.Second),
	}
}

// Validate reports settings the API cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.JWTPublicKeyPath == "" {
		return errors.New("config: JWT_SECRET or JWT_PUBLIC_KEY_PATH must be set")
	}
	if c.DBMinConns > c.DBMaxConns {
		return errors.New("config: DB_MIN_CONNS exceeds DB_MAX_CONNS")
	}
	return nil
}

// PostgresDSN returns a DSN compatible with pgx
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// AccessLogEnabled is true when HTTP_LOG_ENABLED is set or in development.
func (c *Config) AccessLogEnabled() bool {
	return c.HTTPLogEnabled || c.Env == "development"
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string { return splitList(c.CORSAllowedOrigins) }

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string { return splitList(c.ElasticsearchAddrs) }

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
