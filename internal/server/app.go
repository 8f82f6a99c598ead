// Package server initializes and runs the vault server: database and
// migrations, token key pair, revocation store, services, and the HTTP API
// with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/locksmith/internal/cryptox"
	"github.com/dmitrijs2005/locksmith/internal/logging"
	"github.com/dmitrijs2005/locksmith/internal/server/auth"
	"github.com/dmitrijs2005/locksmith/internal/server/config"
	"github.com/dmitrijs2005/locksmith/internal/server/httpapi"
	"github.com/dmitrijs2005/locksmith/internal/server/quota"
	"github.com/dmitrijs2005/locksmith/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/locksmith/internal/server/revoke"
	"github.com/dmitrijs2005/locksmith/internal/server/services"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

// NewApp wires every component together. It fails rather than starts when
// the configuration is unusable: missing encryption key, unreadable signing
// keys, unreachable database.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	priv, err := auth.LoadPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("private key error: %w", err)
	}
	pub, err := auth.LoadPublicKey(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("public key error: %w", err)
	}
	issuer := auth.NewIssuer(priv, cfg.AccessTokenValidityDuration)
	authenticator := auth.NewAuthenticator(pub)

	encryptionKey := cryptox.DeriveKey([]byte(cfg.EncryptionKey))

	revoked := revoke.NewRedisList(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}))

	qm := quota.NewManager(rm.Users(db), rm.Secrets(db))

	userService := services.NewUserService(db, rm, issuer)
	vaultService := services.NewVaultService(db, rm, qm, encryptionKey, logger)

	api := httpapi.NewServer(userService, vaultService, authenticator, revoked,
		cfg.AccessTokenValidityDuration, cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	return &App{config: cfg, logger: logger, db: db, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP API until ctx is cancelled or a signal arrives, then
// shuts down gracefully.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.Router(),
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, err.Error())
		}
		if err := app.db.Close(); err != nil {
			app.logger.Error(shutdownCtx, err.Error())
		}
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
}
