package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-membership-api/config"
	"github.com/oksasatya/go-ddd-membership-api/internal/application"
	pginfra "github.com/oksasatya/go-ddd-membership-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-membership-api/pkg/api"
	"github.com/oksasatya/go-ddd-membership-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	usersRepo := pginfra.NewUserRepository(pool)
	accountsRepo := pginfra.NewAccountRepository(pool)
	tx := pginfra.NewTransactor(pool)
	users := application.NewUserService(usersRepo, accountsRepo, tx, nil, nil, logger)
	accounts := application.NewAccountService(accountsRepo, usersRepo, tx, nil, logger)

	user, err := users.CreateUser(ctx, api.User{Email: "demo@example.com", Name: "Demo", Surname: "User"})
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s\n", *user.Id, user.Email)

	account, err := accounts.CreateAccount(ctx, api.Account{Name: "Demo Corp", Industry: "Software"})
	if err != nil {
		log.Fatalf("failed to seed account: %v", err)
	}
	fmt.Printf("seeded account: id=%d name=%s\n", *account.Id, account.Name)

	if err := users.LinkUserToAccountWithMembership(ctx, *user.Id, *account.Id); err != nil {
		log.Fatalf("failed to link: %v", err)
	}
	fmt.Println("linked demo user to demo account")

	if cfg.JWTSecret == "" {
		fmt.Println("JWT_SECRET not set; no dev token printed")
		return
	}
	verifier, err := helpers.NewTokenVerifier(helpers.TokenVerifierOptions{
		Secret:           cfg.JWTSecret,
		Issuer:           cfg.JWTIssuer,
		Audience:         cfg.JWTAudience,
		AuthoritiesClaim: cfg.JWTAuthoritiesClaim,
		AuthorityPrefix:  cfg.JWTAuthorityPrefix,
	})
	if err != nil {
		log.Fatalf("token verifier: %v", err)
	}
	token, exp, err := verifier.GenerateToken(user.Email, []string{cfg.UsersReadAuthority}, 24*time.Hour)
	if err != nil {
		log.Fatalf("sign dev token: %v", err)
	}
	fmt.Printf("dev token (expires %s):\n%s\n", exp.Format(time.RFC3339), token)
}
