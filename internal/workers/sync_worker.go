package workers

import (
	"context"
	"time"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/services"
	"github.com/alimgiray/contribsync/pkg/logger"
)

// Syncer runs one synchronization
type Syncer interface {
	Run(ctx context.Context, target services.SyncTarget, policy models.AggregationPolicy, opts services.SyncOptions) (*models.Run, error)
}

// RunPruner removes old run history
type RunPruner interface {
	PruneRuns(retention time.Duration) (int64, error)
}

// SyncWorkerConfig describes what the worker syncs and how often
type SyncWorkerConfig struct {
	Target    services.SyncTarget
	Policy    models.AggregationPolicy
	Options   services.SyncOptions
	Interval  time.Duration
	Retention time.Duration // 0 keeps history forever
}

// SyncWorker runs a sync on a fixed interval, starting immediately
type SyncWorker struct {
	*BaseWorker
	syncer Syncer
	pruner RunPruner
	config SyncWorkerConfig
}

// NewSyncWorker creates a new sync worker. pruner may be nil.
func NewSyncWorker(workerID string, syncer Syncer, pruner RunPruner, config SyncWorkerConfig) *SyncWorker {
	return &SyncWorker{
		BaseWorker: NewBaseWorker(workerID),
		syncer:     syncer,
		pruner:     pruner,
		config:     config,
	}
}

// Start begins the sync worker process
func (w *SyncWorker) Start(ctx context.Context) error {
	w.setRunning(true)
	defer w.setRunning(false)

	log := logger.WithField("worker_id", w.WorkerID)
	log.Infof("Sync worker started, interval %s", w.config.Interval)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		w.runOnce(ctx)

		select {
		case <-ctx.Done():
			log.Info("Sync worker stopping due to context cancellation")
			return ctx.Err()
		case <-w.StopChan:
			log.Info("Sync worker stopping")
			return nil
		case <-ticker.C:
		}
	}
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	log := logger.WithField("worker_id", w.WorkerID)

	run, err := w.syncer.Run(ctx, w.config.Target, w.config.Policy, w.config.Options)
	if err != nil {
		log.WithError(err).Errorf("Scheduled sync of %s failed", w.config.Target)
	} else {
		log.WithField("run_id", run.ID).Infof("Scheduled sync of %s finished: %s", w.config.Target, run.GetOutcome())
	}

	if w.pruner == nil || w.config.Retention <= 0 {
		return
	}
	deleted, err := w.pruner.PruneRuns(w.config.Retention)
	if err != nil {
		log.WithError(err).Warn("Failed to prune run history")
		return
	}
	if deleted > 0 {
		log.Infof("Pruned %d old runs", deleted)
	}
}
