package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"vms/backend/foundation/web"
	"vms/backend/internal/auth"
	redisRepo "vms/backend/internal/repository/redis"
	"vms/backend/internal/router"
	"vms/backend/internal/service/qr"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.db.Close()

	rdb, err := redisRepo.New(ctx, redisRepo.Config{
		URL:          e.cfg.Redis.URL,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		return errors.Wrap(err, "connecting to redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	a, err := auth.New(e.cfg.JWT.Key, e.cfg.JWT.AccessTTL, e.cfg.JWT.RefreshTTL)
	if err != nil {
		return err
	}

	uploader, err := router.NewUploader(e.cfg.Storage)
	if err != nil {
		return err
	}

	renderer, err := qr.CheckRenderer(qr.NewPNGRenderer())
	if err != nil {
		log.Warn().Err(err).Msg("qr codes cannot be rendered; qr endpoints answer 503")
	}

	gin.SetMode(gin.ReleaseMode)
	app := web.NewApp()
	r := router.NewRouter(app, e.db, rdb, a, uploader, renderer, e.cfg)
	if err := r.Init(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         e.settings.Web.Host,
		Handler:      app,
		ReadTimeout:  e.settings.Web.ReadTimeout,
		WriteTimeout: e.settings.Web.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("api listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server error")
	case <-ctx.Done():
		log.Info().Msg("shutdown started")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), e.settings.Web.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return errors.Wrap(err, "could not stop server gracefully")
		}
		log.Info().Msg("shutdown complete")
	}

	return nil
}
