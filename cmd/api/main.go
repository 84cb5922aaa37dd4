// Command api runs the e-commerce identity and catalog HTTP service.
//
// @title           API Ecommerce
// @version         1.0
// @description     API to manage products, categories and users.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/gerarics/ecommerce-api/docs"
	"github.com/gerarics/ecommerce-api/internal/api"
	"github.com/gerarics/ecommerce-api/internal/bootstrap"
	"github.com/gerarics/ecommerce-api/internal/core/service"
	"github.com/gerarics/ecommerce-api/internal/infrastructure/config"
	mongodb "github.com/gerarics/ecommerce-api/internal/infrastructure/db/mongo"
	redisdb "github.com/gerarics/ecommerce-api/internal/infrastructure/db/redis"
	"github.com/gerarics/ecommerce-api/internal/infrastructure/queue"
	"github.com/gerarics/ecommerce-api/internal/security/password"
	"github.com/gerarics/ecommerce-api/internal/security/token"
	"github.com/gerarics/ecommerce-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// No logger yet; config failures (including a missing JWT secret)
		// must abort before anything binds.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	issuer, err := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer misconfigured")
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	store := mongodb.NewCredentialStore(db)
	roles := mongodb.NewRoleRegistry(db)
	hasher := password.NewBcryptHasher(cfg.BcryptCost)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)

	auditTrail := queue.NewDispatcher(cfg.AuditWorkers, mongodb.NewAuditLog(db), log)
	auditTrail.Start(ctx)

	authService := service.NewAuthService(store, roles, hasher, issuer, throttle, auditTrail, log)
	userService := service.NewUserService(store)

	seeder := bootstrap.NewSeeder(authService, roles, store, log)
	if err := seeder.Seed(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.DisplayName); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		UserService: userService,
		TokenIssuer: issuer,
		Mongo:       db,
		Redis:       rdb,
		Log:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
