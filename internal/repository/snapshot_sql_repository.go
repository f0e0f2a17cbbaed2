package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
)

const ledgerCollectionsSchema = `CREATE TABLE IF NOT EXISTS ledger_collections (
	collection TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

type ledgerCollectionRow struct {
	Collection string `db:"collection"`
	Payload    string `db:"payload"`
}

// SQLSnapshotRepository stores one row per collection in PostgreSQL or SQLite.
type SQLSnapshotRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLSnapshotRepository constructs the repository. Call EnsureSchema before first use.
func NewSQLSnapshotRepository(db *sqlx.DB) *SQLSnapshotRepository {
	return &SQLSnapshotRepository{db: db, now: time.Now}
}

// EnsureSchema creates the ledger_collections table when missing.
func (r *SQLSnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, ledgerCollectionsSchema); err != nil {
		return fmt.Errorf("create ledger_collections: %w", err)
	}
	return nil
}

// Load returns nil when the table is empty.
func (r *SQLSnapshotRepository) Load(ctx context.Context) (*models.SnapshotPatch, error) {
	var rows []ledgerCollectionRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT collection, payload FROM ledger_collections"); err != nil {
		return nil, fmt.Errorf("select ledger collections: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	raw := make(map[string][]byte, len(rows))
	for _, row := range rows {
		raw[row.Collection] = []byte(row.Payload)
	}
	return models.DecodeCollections(raw)
}

// Save upserts all five collections in one transaction.
func (r *SQLSnapshotRepository) Save(ctx context.Context, snapshot models.Snapshot) (err error) {
	collections, err := snapshot.Collections()
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := r.db.Rebind(`INSERT INTO ledger_collections (collection, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT (collection) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`)
	updatedAt := r.now().UTC()
	for _, key := range models.CollectionKeys {
		if _, err = tx.ExecContext(ctx, query, key, string(collections[key]), updatedAt); err != nil {
			return fmt.Errorf("upsert %s: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot tx: %w", err)
	}
	return nil
}
