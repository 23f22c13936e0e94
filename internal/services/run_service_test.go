package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimgiray/contribsync/internal/models"
)

func TestRunServiceRoundTrip(t *testing.T) {
	service := newTestRunService(t)

	run := models.NewRun("octo", "widgets", "package.json")
	require.NoError(t, service.CreateRun(run))

	run.MarkStarted()
	require.NoError(t, service.SaveRun(run))

	stored, err := service.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusInProgress, stored.Status)
	assert.Empty(t, stored.Identities)

	run.SetIdentities([]models.Identity{{Name: "alice"}, {Name: "bob"}}, []string{"bob"}, nil)
	run.MarkCompleted(models.RunOutcomeUpdated)
	require.NoError(t, service.SaveRun(run))

	stored, err = service.GetRun(run.ID)
	require.NoError(t, err)
	require.Len(t, stored.Identities, 2)
	assert.Equal(t, "bob", stored.Identities[1].Name)

	runs, err := service.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestRunServiceGetUnknown(t *testing.T) {
	_, err := newTestRunService(t).GetRun("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunServiceLatestRun(t *testing.T) {
	service := newTestRunService(t)

	_, err := service.LatestRun("octo", "widgets")
	assert.ErrorIs(t, err, ErrRunNotFound)

	older := models.NewRun("octo", "widgets", "package.json")
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, service.CreateRun(older))
	require.NoError(t, service.CreateRun(models.NewRun("octo", "gadgets", "package.json")))

	latest := models.NewRun("octo", "widgets", "package.json")
	require.NoError(t, service.CreateRun(latest))
	latest.SetIdentities([]models.Identity{{Name: "alice"}}, nil, nil)
	latest.MarkCompleted(models.RunOutcomeUnchanged)
	require.NoError(t, service.SaveRun(latest))

	got, err := service.LatestRun("octo", "widgets")
	require.NoError(t, err)
	assert.Equal(t, latest.ID, got.ID)
	require.Len(t, got.Identities, 1)
	assert.Equal(t, "alice", got.Identities[0].Name)
}

func TestRunServicePrune(t *testing.T) {
	service := newTestRunService(t)

	old := models.NewRun("octo", "widgets", "package.json")
	old.CreatedAt = time.Now().Add(-72 * time.Hour)
	require.NoError(t, service.CreateRun(old))
	require.NoError(t, service.CreateRun(models.NewRun("octo", "widgets", "package.json")))

	deleted, err := service.PruneRuns(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	runs, err := service.ListRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
