package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
)

// SnapshotFilename is the document written by FileSnapshotRepository.
const SnapshotFilename = "ledger.json"

type blobStorage interface {
	Save(filename string, data []byte) error
	Read(filename string) ([]byte, error)
}

// FileSnapshotRepository keeps the whole ledger in a single JSON document.
type FileSnapshotRepository struct {
	storage  blobStorage
	filename string
}

// NewFileSnapshotRepository constructs a file-backed snapshot repository.
func NewFileSnapshotRepository(storage blobStorage) *FileSnapshotRepository {
	return &FileSnapshotRepository{storage: storage, filename: SnapshotFilename}
}

// Load returns nil when no snapshot has been written yet.
func (r *FileSnapshotRepository) Load(ctx context.Context) (*models.SnapshotPatch, error) {
	data, err := r.storage.Read(r.filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	patch, err := models.DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.filename, err)
	}
	return patch, nil
}

// Save replaces the stored document.
func (r *FileSnapshotRepository) Save(ctx context.Context, snapshot models.Snapshot) error {
	data, err := json.Marshal(snapshot.Clone())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return r.storage.Save(r.filename, data)
}
