package repository

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
)

// BucketLedger holds one key per collection.
const BucketLedger = "ledger"

// BoltSnapshotRepository stores each collection under its own key in a bbolt bucket.
type BoltSnapshotRepository struct {
	db *bolt.DB
}

// NewBoltSnapshotRepository creates the ledger bucket if needed.
func NewBoltSnapshotRepository(db *bolt.DB) (*BoltSnapshotRepository, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketLedger)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketLedger, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &BoltSnapshotRepository{db: db}, nil
}

// Load returns nil when the bucket holds no collections.
func (r *BoltSnapshotRepository) Load(ctx context.Context) (*models.SnapshotPatch, error) {
	raw := make(map[string][]byte, len(models.CollectionKeys))
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketLedger))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketLedger)
		}
		for _, key := range models.CollectionKeys {
			if v := b.Get([]byte(key)); v != nil {
				// Values are only valid for the life of the transaction.
				raw[key] = append([]byte(nil), v...)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return models.DecodeCollections(raw)
}

// Save writes all five collections in one transaction.
func (r *BoltSnapshotRepository) Save(ctx context.Context, snapshot models.Snapshot) error {
	collections, err := snapshot.Collections()
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketLedger))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketLedger)
		}
		for _, key := range models.CollectionKeys {
			if err := b.Put([]byte(key), collections[key]); err != nil {
				return fmt.Errorf("put %s: %w", key, err)
			}
		}
		return nil
	})
}
