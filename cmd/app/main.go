package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wichananm65/fireworks-shop/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %+v", err)
	}
	setupLogging(cfg)

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize and migrate database with error: %+v", err)
	}
	defer st.close()

	srv := newServer(cfg, st)
	defer srv.unsubscribe()

	if !cfg.UseDatabase() && cfg.DemoFallback {
		if _, err := srv.products.ResetToDemo(ctx); err != nil {
			logrus.WithError(err).Warn("seeding demo catalog failed")
		}
	}
	if cfg.AdminEmail != "" {
		if _, err := srv.users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			logrus.WithError(err).Error("admin bootstrap failed")
		} else {
			logrus.WithField("email", cfg.AdminEmail).Info("admin account ready")
		}
	}

	go func() {
		logrus.Infof("Server starting at %s", cfg.Addr)
		if err := srv.app.Listen(cfg.Addr); err != nil {
			logrus.Fatalf("Failed to run server with error %+v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	if err := srv.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}

func setupLogging(cfg config.Config) {
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
