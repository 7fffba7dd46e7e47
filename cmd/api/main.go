package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farm-dashboard/internal/adapters/auth/argon"
	"farm-dashboard/internal/adapters/auth/paseto"
	pg "farm-dashboard/internal/adapters/storage/postgres"
	"farm-dashboard/internal/config"
	"farm-dashboard/internal/platform/logger"
	"farm-dashboard/internal/platform/metrics"
	"farm-dashboard/internal/ports/auth"
	"farm-dashboard/internal/router"
)

// @title Farm Dashboard API
// @version 1.0
// @description Aves, ganado y alertas sanitarias de la finca.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.DBDSN != "" {
		opened, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer opened.Close()

		if err := pg.Migrate(ctx, opened); err != nil {
			return err
		}
		db = opened
		log.Info("storage: postgres", nil)
	} else {
		log.Warn("storage: in-memory, data is lost on restart", nil)
	}

	keyHex := cfg.TokenKey
	if keyHex == "" {
		generated, err := paseto.GenerateKeyHex()
		if err != nil {
			return err
		}
		keyHex = generated
		log.Warn("token_key not set: sessions do not survive restarts", nil)
	}
	tokens, err := paseto.NewTokenService(keyHex, cfg.TokenTTL)
	if err != nil {
		return err
	}

	pins, err := pinChecker(cfg)
	if err != nil {
		return err
	}

	m := metrics.NewManager(metrics.WithRuntimeCollectors())

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: router.NewRouter(router.Options{
			Config:  cfg,
			Logger:  log,
			Metrics: m,
			Tokens:  tokens,
			Issuer:  tokens,
			PINs:    pins,
			DB:      db,
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr, "timezone": cfg.Timezone, "dev_mode": cfg.DevMode})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// pinChecker: pin_hash gana sobre pin en claro.
func pinChecker(cfg *config.Config) (auth.PINChecker, error) {
	if cfg.PINHash != "" {
		return argon.FromHash(cfg.PINHash)
	}
	return argon.FromPIN(cfg.PIN)
}
