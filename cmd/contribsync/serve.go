package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/alimgiray/contribsync/internal/handlers"
	"github.com/alimgiray/contribsync/internal/services"
	"github.com/alimgiray/contribsync/internal/workers"
	"github.com/alimgiray/contribsync/pkg/logger"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run scheduled syncs",
		Long: `Start the HTTP API (health, run history, manual trigger). When
SYNC_INTERVAL_MINUTES is set, a worker also syncs on that interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)

	target, err := a.target()
	if err != nil {
		return err
	}

	db, err := a.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	runService := newRunService(db)
	syncService, err := a.newSyncService(ctx, runService)
	if err != nil {
		return err
	}
	policy := a.cfg.Policy()

	workerManager := workers.NewWorkerManager()
	if minutes := a.cfg.Server.SyncIntervalMinutes; minutes > 0 {
		workerManager.Add(workers.NewSyncWorker("sync-1", syncService, runService, workers.SyncWorkerConfig{
			Target:    target,
			Policy:    policy,
			Options:   a.options(false),
			Interval:  time.Duration(minutes) * time.Minute,
			Retention: time.Duration(a.cfg.Server.RunRetentionDays) * 24 * time.Hour,
		}))
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		APIToken: a.cfg.Server.APIToken,
		Health:   handlers.NewHealthHandler(workerManager.GetWorkerStatus),
		Runs:     handlers.NewRunHandler(runService, services.NewReportService(runService)),
		Sync:     handlers.NewSyncHandler(syncService, target, policy, a.options(false)),
	})

	if err := workerManager.StartAll(); err != nil {
		return err
	}
	defer workerManager.StopAll()

	server := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on :%s", a.cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server stopped")
	return nil
}
