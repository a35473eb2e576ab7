package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agcbo/internal/api"
	"agcbo/internal/auth"
	"agcbo/internal/config"
	"agcbo/internal/logging"
	"agcbo/internal/model"
	"agcbo/internal/service"
	"agcbo/internal/storage"
	"agcbo/internal/web"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("failed to parse config")
		os.Exit(1)
	}
	closer := logging.Setup(cfg)
	defer closer.Close()

	if err := run(cfg); err != nil {
		logrus.WithError(err).Error("server stopped")
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	store, err := model.InitRepository(&cfg)
	if err != nil {
		return fmt.Errorf("initialise repository: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if cfg.SeedGeography {
		if err := model.SeedGeography(ctx, store); err != nil {
			logrus.WithError(err).Warn("failed to seed geography")
		}
	}
	if err := model.SeedReference(ctx, store.Tables); err != nil {
		logrus.WithError(err).Warn("failed to seed reference data")
	}
	created, err := model.EnsureSuperAdmin(ctx, store, cfg.BootstrapAdminUser, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPass)
	if err != nil {
		logrus.WithError(err).Warn("failed to create bootstrap admin")
	} else if created {
		logrus.WithField("username", cfg.BootstrapAdminUser).Info("bootstrap super admin created")
	}

	media, err := storage.NewStorage(cfg)
	if err != nil {
		return fmt.Errorf("initialise storage: %w", err)
	}

	tokens, err := auth.NewManager(cfg.SecretKey, cfg.JWTIssuer,
		time.Duration(cfg.JWTAccessMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshMinutes)*time.Minute)
	if err != nil {
		return fmt.Errorf("initialise tokens: %w", err)
	}
	var tokenStore auth.TokenStore = auth.NewMemoryTokenStore()
	if cfg.RedisURL != "" {
		client, err := auth.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		tokenStore = auth.NewRedisTokenStore(client)
	}
	logrus.WithField("capabilities", cfg.Capabilities()).Info("integrations")

	svc := service.NewServices(store, tokens, tokenStore, storage.NewUploader(media, cfg.UploadMaxBytes, cfg.StoragePublicBaseURL))

	r := api.NewEngine(cfg)
	httpHandler, err := api.NewHTTPHandler(cfg, svc, media)
	if err != nil {
		return fmt.Errorf("initialise api: %w", err)
	}
	httpHandler.Register(r)

	site, err := web.NewHandler(cfg, svc)
	if err != nil {
		return fmt.Errorf("initialise site: %w", err)
	}
	site.Register(r)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  180 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("host", serverHost).Info("server starting")
		errCh <- httpServer.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-quit:
		logrus.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
