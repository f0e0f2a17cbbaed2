package service

import (
	"context"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
)

// ExportSnapshot returns a deep copy of all collections stamped with the export time.
func (s *LedgerStore) ExportSnapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snapshotLocked()
	exportedAt := s.now().UTC()
	snap.ExportDate = &exportedAt
	return snap
}

// ImportSnapshot replaces every collection present in the patch and leaves the rest alone.
func (s *LedgerStore) ImportSnapshot(ctx context.Context, patch models.SnapshotPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(patch)
	s.commitLocked(ctx, "snapshot", "import")
}

// ClearAll empties all five collections.
func (s *LedgerStore) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes = []models.Class{}
	s.students = []models.Student{}
	s.teachers = []models.Teacher{}
	s.bills = []models.Bill{}
	s.payments = []models.Payment{}
	s.commitLocked(ctx, "snapshot", "clear")
}
