package sources

import (
	"context"

	"github.com/alimgiray/contribsync/internal/gitlog"
	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/pkg/logger"
)

// CommitLogSource provides name to email enrichment from local history
type CommitLogSource struct {
	querier gitlog.Querier
}

// NewCommitLogSource wraps querier; a nil querier always yields no records
func NewCommitLogSource(querier gitlog.Querier) *CommitLogSource {
	return &CommitLogSource{querier: querier}
}

// Fetch never fails: history that cannot be read just means no enrichment
func (s *CommitLogSource) Fetch(ctx context.Context) []models.LogRecord {
	if s.querier == nil {
		return nil
	}

	records, err := s.querier.QueryCommitAuthors(ctx)
	if err != nil {
		logger.WithError(err).Warnf("Commit history unavailable, continuing without email enrichment")
		return nil
	}

	logger.WithField("count", len(records)).Debugf("Commit authors read from history")
	return records
}
