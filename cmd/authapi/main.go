package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	authapi "github.com/goliatone/go-authapi"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg, err := authapi.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	store := authapi.NewStore(db)
	if err := store.InitSchema(context.Background()); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	authapi.DefaultBcryptCost = cfg.GetBcryptCost()

	tokenService := authapi.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenValidity(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		nil,
	)

	auther := authapi.NewAuthenticator(store, cfg).
		WithTokenService(tokenService)
	registrar := authapi.NewRegistrar(store, tokenService)
	policies := authapi.DefaultPolicies()

	app := fiber.New()
	authapi.NewAuthController(auther, registrar, store, policies).RegisterRoutes(app)

	if err := app.Listen(cfg.GetListenAddr()); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
