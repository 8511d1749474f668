package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"watermark-studio/internal/config"
	"watermark-studio/internal/export"
	studio_h "watermark-studio/internal/http-server/handler/studio"
	"watermark-studio/internal/http-server/router"
	"watermark-studio/internal/render"
	minio_mirror "watermark-studio/internal/repository/mirror/minio"
	"watermark-studio/internal/snapshot"
	studio_uc "watermark-studio/internal/usecase/studio"

	"github.com/wb-go/wbf/zlog"
)

type App struct {
	cfg     *config.Config
	server  *http.Server
	logger  *zlog.Zerolog
	session *studio_uc.Session
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	resolver := render.NewFontResolver(cfg.Fonts.Candidates)
	engine := render.NewEngine(resolver.Resolve())

	store := snapshot.NewStore(cfg.Snapshots.Dir)

	var mirror export.Mirror
	if cfg.Mirror.Enabled {
		m, err := minio_mirror.NewMirror(cfg, cfg.DefaultRetryStrategy(), logger)
		if err != nil {
			return nil, err
		}
		mirror = m
	}

	driver := export.NewDriver(engine, mirror, logger)

	session := studio_uc.NewSession(engine, store, driver, cfg.Preview.ThumbnailSize, logger)
	session.RestoreLastUsed()

	studioHandler := studio_h.NewStudioHandler(session, logger)

	mux := router.SetupRouter(&router.Handler{
		StudioHandler: studioHandler,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:     cfg,
		server:  server,
		logger:  logger,
		session: session,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Str("addr", a.cfg.Server.Addr).Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		// Normal shutdown is the one moment the reserved last-used
		// snapshot gets written.
		a.session.PersistLastUsed()

		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
