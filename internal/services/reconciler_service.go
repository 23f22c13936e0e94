package services

import (
	"github.com/alimgiray/contribsync/internal/manifest"
	"github.com/alimgiray/contribsync/internal/models"
)

// ReconcileResult describes the edits made to a contributors list
type ReconcileResult struct {
	Changed      bool
	Added        []string
	Updated      []string
	Contributors *manifest.ContributorList
}

// ReconcilerService merges resolved identities into the persisted
// contributors list. It only appends and corrects, never removes.
type ReconcilerService struct{}

// NewReconcilerService creates a new reconciler service
func NewReconcilerService() *ReconcilerService {
	return &ReconcilerService{}
}

// Reconcile edits contributors in place. Identities without an entry are
// appended; matched entries get their email and url overwritten when they
// differ. Entries no identity matches are left as they are.
func (s *ReconcilerService) Reconcile(identities []models.Identity, contributors *manifest.ContributorList) ReconcileResult {
	result := ReconcileResult{Contributors: contributors}

	for _, identity := range identities {
		entry := contributors.Find(identity.Name)
		if entry == nil {
			contributors.Append(identity)
			result.Added = append(result.Added, identity.Name)
			continue
		}

		updated := false
		if entry.Email() != identity.Email {
			entry.SetEmail(identity.Email)
			updated = true
		}
		if entry.URL() != identity.URL {
			entry.SetURL(identity.URL)
			updated = true
		}
		if updated {
			result.Updated = append(result.Updated, identity.Name)
		}
	}

	result.Changed = len(result.Added) > 0 || len(result.Updated) > 0
	return result
}
