package router

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-membership-api/internal/application"
	"github.com/oksasatya/go-ddd-membership-api/internal/container"
	"github.com/oksasatya/go-ddd-membership-api/internal/domain/repository"
	"github.com/oksasatya/go-ddd-membership-api/internal/infrastructure/messaging"
	pginfra "github.com/oksasatya/go-ddd-membership-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-membership-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-ddd-membership-api/internal/interface/http"
	"github.com/oksasatya/go-ddd-membership-api/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-membership-api/internal/router/modules"
)

// Deps is everything the API module needs. Optional fields may be nil.
type Deps struct {
	Users    repository.UserRepository
	Accounts repository.AccountRepository
	Tx       repository.Transactor

	Events application.EventPublisher
	Search application.UserSearcher
	Health []application.HealthContributor

	Verifier      middleware.TokenVerifier
	ReadAuthority string
	HealthTimeout time.Duration
	Logger        *logrus.Logger
}

type APIModuleDeps struct {
	Users    *application.UserService
	Accounts *application.AccountService
	Server   *handlers.Server
	Module   *modules.APIModule
}

// Build wires services, handlers and the module from deps.
func Build(d Deps, basePath string) APIModuleDeps {
	users := application.NewUserService(d.Users, d.Accounts, d.Tx, d.Events, d.Search, d.Logger)
	accounts := application.NewAccountService(d.Accounts, d.Users, d.Tx, d.Events, d.Logger)
	health := application.NewHealthService(d.HealthTimeout, d.Logger, d.Health...)

	server := handlers.NewServer(
		handlers.NewUsersAPI(users, d.Logger),
		handlers.NewAccountsAPI(accounts, d.Logger),
		handlers.NewHealthAPI(health),
	)
	module := modules.NewAPIModule(server, d.Verifier, modules.DefaultPolicy(basePath, d.ReadAuthority), d.Logger)

	return APIModuleDeps{Users: users, Accounts: accounts, Server: server, Module: module}
}

// buildDeps reads the process singletons. RabbitMQ and Elasticsearch are only
// wired when their clients were constructed.
func buildDeps() Deps {
	cfg := container.GetConfig()
	pool := container.GetPGPool()

	d := Deps{
		Users:         pginfra.NewUserRepository(pool),
		Accounts:      pginfra.NewAccountRepository(pool),
		Tx:            pginfra.NewTransactor(pool),
		Health:        []application.HealthContributor{pginfra.NewHealthCheck(pool)},
		Verifier:      container.GetVerifier(),
		ReadAuthority: cfg.JWTAuthorityPrefix + cfg.UsersReadAuthority,
		HealthTimeout: cfg.HealthTimeout,
		Logger:        container.GetLogger(),
	}
	if pub := container.GetRabbitPub(); pub != nil {
		events := messaging.NewEventPublisher(pub)
		d.Events = events
		d.Health = append(d.Health, events)
	}
	if es := container.GetES(); es != nil {
		index := search.NewUserIndex(es, cfg.ESUsersIndex)
		d.Search = index
		d.Health = append(d.Health, index)
	}
	return d
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	apiDeps := Build(buildDeps(), r.API.BasePath())
	r.Add(apiDeps.Module)
}
