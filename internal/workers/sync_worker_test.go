package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/services"
)

type countingSyncer struct {
	mu      sync.Mutex
	calls   int
	targets []services.SyncTarget
	err     error
	ran     chan struct{}
}

func (s *countingSyncer) Run(_ context.Context, target services.SyncTarget, _ models.AggregationPolicy, _ services.SyncOptions) (*models.Run, error) {
	s.mu.Lock()
	s.calls++
	s.targets = append(s.targets, target)
	s.mu.Unlock()

	select {
	case s.ran <- struct{}{}:
	default:
	}

	run := models.NewRun(target.Owner, target.Repo, target.ManifestPath)
	if s.err != nil {
		run.MarkFailed(s.err)
		return run, s.err
	}
	run.MarkCompleted(models.RunOutcomeUnchanged)
	return run, nil
}

func (s *countingSyncer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type countingPruner struct {
	mu        sync.Mutex
	retention []time.Duration
}

func (p *countingPruner) PruneRuns(retention time.Duration) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retention = append(p.retention, retention)
	return 1, nil
}

func waitForRun(t *testing.T, ran chan struct{}) {
	t.Helper()
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("sync did not run")
	}
}

func TestSyncWorkerRunsImmediatelyAndOnInterval(t *testing.T) {
	syncer := &countingSyncer{ran: make(chan struct{}, 1)}
	pruner := &countingPruner{}
	target := services.SyncTarget{Owner: "octo", Repo: "widgets", ManifestPath: "package.json"}
	worker := NewSyncWorker("sync-1", syncer, pruner, SyncWorkerConfig{
		Target:    target,
		Interval:  20 * time.Millisecond,
		Retention: 24 * time.Hour,
	})

	done := make(chan error, 1)
	go func() { done <- worker.Start(context.Background()) }()

	waitForRun(t, syncer.ran)
	waitForRun(t, syncer.ran)
	assert.True(t, worker.IsRunning())

	require.NoError(t, worker.Stop())
	require.NoError(t, worker.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	assert.GreaterOrEqual(t, syncer.Calls(), 2)
	assert.Equal(t, target, syncer.targets[0])
	assert.False(t, worker.IsRunning())

	pruner.mu.Lock()
	defer pruner.mu.Unlock()
	assert.NotEmpty(t, pruner.retention)
	assert.Equal(t, 24*time.Hour, pruner.retention[0])
}

func TestSyncWorkerKeepsRunningAfterFailure(t *testing.T) {
	syncer := &countingSyncer{ran: make(chan struct{}, 1), err: errors.New("boom")}
	worker := NewSyncWorker("sync-1", syncer, nil, SyncWorkerConfig{Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Start(ctx) }()

	waitForRun(t, syncer.ran)
	waitForRun(t, syncer.ran)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerManager(t *testing.T) {
	syncer := &countingSyncer{ran: make(chan struct{}, 1)}
	manager := NewWorkerManager()
	manager.Add(NewSyncWorker("sync-1", syncer, nil, SyncWorkerConfig{Interval: time.Hour}))

	require.NoError(t, manager.StartAll())
	waitForRun(t, syncer.ran)

	assert.Eventually(t, func() bool {
		return manager.GetWorkerStatus()["sync-1"]
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, manager.StopAll())
	assert.Equal(t, map[string]bool{"sync-1": false}, manager.GetWorkerStatus())
	assert.Equal(t, 1, syncer.Calls())
}
