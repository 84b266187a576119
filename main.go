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

	"protofolio/backend/app"
	"protofolio/backend/config"
	"protofolio/backend/db"
	"protofolio/backend/internal"
	"protofolio/backend/internal/auth"
	"protofolio/backend/internal/cache"
	"protofolio/backend/internal/oauth"
	"protofolio/backend/internal/service"
	"protofolio/backend/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.Setup()
	if err != nil {
		if errors.Is(err, config.ErrNoJWTSecret) {
			fmt.Printf("No JWT secret configured. Set jwt.secret or JWT_SECRET, here is one you can use:\n\n%s\n", config.GenSecret())
			os.Exit(1)
		}

		panic(err)
	}

	makeLogger(cfg.App, nil)

	conn, err := db.New(&cfg.Database)
	if err != nil {
		zap.L().Fatal("Failed to open database", zap.Error(err))
	}

	st := store.New(conn)

	// Errors from here on are also kept in the logs table
	makeLogger(cfg.App, st)
	defer zap.L().Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []auth.Option
	if bl := cache.NewBlacklist(&cfg.Redis); bl != nil {
		opts = append(opts, auth.WithBlacklistCache(bl))
		defer bl.Close()
	}

	d := &internal.Deps{
		Config: cfg,
		Store:  st,
		Auth:   auth.New(&cfg.JWT, st, service.NewDispatcher(&cfg.Mail), opts...),
	}

	if cfg.Google.Enabled() {
		d.Google = oauth.NewGoogle(&cfg.Google)
	}

	service.TokenCleanup(ctx, cfg.Cleanup.Interval, st)
	service.AccountCleanup(ctx, cfg.Cleanup.Interval, cfg.Cleanup.UnverifiedTTL, st)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Host.Port),
		Handler:           app.NewRouter(d),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Server starting", zap.Int("port", cfg.Host.Port), zap.Bool("ssl", cfg.Host.SSL.Enabled))

		var err error
		if cfg.Host.SSL.Enabled {
			err = srv.ListenAndServeTLS(cfg.Host.SSL.CertificatePath, cfg.Host.SSL.CertificateKeyPath)
		} else {
			err = srv.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Failed to shut down cleanly", zap.Error(err))
	}
}
