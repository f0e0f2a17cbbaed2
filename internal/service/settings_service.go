package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
)

// BackupFilename is the suggested name for exported snapshots.
const BackupFilename = "school_fees_backup.json"

type settingsLedger interface {
	ExportSnapshot() models.Snapshot
	ImportSnapshot(ctx context.Context, patch models.SnapshotPatch)
	ClearAll(ctx context.Context)
}

type snapshotPuller interface {
	Pull(ctx context.Context) (*models.SnapshotPatch, error)
}

// SettingsService exposes data management operations reserved for administrators.
type SettingsService struct {
	ledger settingsLedger
	mirror snapshotPuller
	logger *zap.Logger
}

// NewSettingsService constructs a SettingsService. mirror may be nil.
func NewSettingsService(ledger settingsLedger, mirror snapshotPuller, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{ledger: ledger, mirror: mirror, logger: logger}
}

// Export returns the pretty-printed snapshot backup.
func (s *SettingsService) Export(role models.Role) ([]byte, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(s.ledger.ExportSnapshot(), "", "  ")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode backup")
	}
	return data, nil
}

// Import decodes a backup document and replaces the collections it contains.
// Nothing is applied when decoding fails.
func (s *SettingsService) Import(ctx context.Context, role models.Role, data []byte) ([]string, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	patch, err := models.DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	s.ledger.ImportSnapshot(ctx, *patch)
	keys := patch.Keys()
	s.logger.Info("snapshot imported", zap.Strings("collections", keys))
	return keys, nil
}

// Clear wipes every collection.
func (s *SettingsService) Clear(ctx context.Context, role models.Role) error {
	if err := requireAdmin(role); err != nil {
		return err
	}
	s.ledger.ClearAll(ctx)
	s.logger.Warn("ledger cleared")
	return nil
}

// PullMirror replaces local collections with those held by the remote mirror.
func (s *SettingsService) PullMirror(ctx context.Context, role models.Role) ([]string, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	if s.mirror == nil {
		return nil, appErrors.ErrMirrorDisabled
	}
	patch, err := s.mirror.Pull(ctx)
	if err != nil {
		return nil, fmt.Errorf("pull mirror: %w", err)
	}
	s.ledger.ImportSnapshot(ctx, *patch)
	keys := patch.Keys()
	s.logger.Info("snapshot pulled from mirror", zap.Strings("collections", keys))
	return keys, nil
}

func requireAdmin(role models.Role) error {
	if !role.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "data management requires the admin role")
	}
	return nil
}
