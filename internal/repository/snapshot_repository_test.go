package repository

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
	"github.com/noah-isme/sma-fees-ledger/pkg/database"
	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
	"github.com/noah-isme/sma-fees-ledger/pkg/storage"
)

func sampleSnapshot() models.Snapshot {
	date := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)
	return models.Snapshot{
		Classes:  []models.Class{{ID: 2, Name: "Grade 2"}, {ID: 1, Name: "Grade 1"}},
		Students: []models.Student{{ID: 10, Name: "Ama", ClassID: 1, ExternalStudentID: "S001", Phone: "0244"}},
		Teachers: []models.Teacher{{ID: 20, Name: "Mrs. Owusu", Email: "owusu@example.com"}},
		Bills:    []models.Bill{{ID: 30, StudentID: 10, Description: "Tuition", Amount: decimal.RequireFromString("500.25"), Date: date}},
		Payments: []models.Payment{{ID: 40, StudentID: 10, Amount: decimal.RequireFromString("200"), Date: date}},
	}
}

func assertSnapshotPatch(t *testing.T, want models.Snapshot, got *models.SnapshotPatch) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, models.CollectionKeys, got.Keys())
	assert.Equal(t, want.Classes, *got.Classes)
	assert.Equal(t, want.Students, *got.Students)
	assert.Equal(t, want.Teachers, *got.Teachers)
	require.Len(t, *got.Bills, 1)
	assert.True(t, want.Bills[0].Amount.Equal((*got.Bills)[0].Amount))
	assert.True(t, want.Bills[0].Date.Equal((*got.Bills)[0].Date))
	require.Len(t, *got.Payments, 1)
	assert.True(t, want.Payments[0].Amount.Equal((*got.Payments)[0].Amount))
}

func TestFileSnapshotRepositoryRoundTrip(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewFileSnapshotRepository(local)
	ctx := context.Background()

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty)

	snap := sampleSnapshot()
	require.NoError(t, repo.Save(ctx, snap))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assertSnapshotPatch(t, snap, loaded)
}

func TestFileSnapshotRepositoryCorruptFile(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, local.Save(SnapshotFilename, []byte(`{"classes":`)))

	_, err = NewFileSnapshotRepository(local).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrImportFormat))
}

func TestBoltSnapshotRepositoryRoundTrip(t *testing.T) {
	db, err := database.NewBolt(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer db.Close()

	repo, err := NewBoltSnapshotRepository(db)
	require.NoError(t, err)
	ctx := context.Background()

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty)

	snap := sampleSnapshot()
	require.NoError(t, repo.Save(ctx, snap))
	snap.Classes = snap.Classes[:1]
	require.NoError(t, repo.Save(ctx, snap))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assertSnapshotPatch(t, snap, loaded)
}

func newSnapshotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSQLSnapshotRepositorySaveUpsertsEveryCollection(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewSQLSnapshotRepository(db)

	mock.ExpectBegin()
	for _, key := range models.CollectionKeys {
		mock.ExpectExec("INSERT INTO ledger_collections").
			WithArgs(key, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), sampleSnapshot()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSnapshotRepositorySaveRollsBack(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewSQLSnapshotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_collections").
		WithArgs(models.CollectionClasses, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), sampleSnapshot())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSnapshotRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewSQLSnapshotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT collection, payload FROM ledger_collections")).
		WillReturnRows(sqlmock.NewRows([]string{"collection", "payload"}).
			AddRow("classes", `[{"id":1,"name":"Grade 1"}]`).
			AddRow("bills", `[]`))

	patch, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{models.CollectionClasses, models.CollectionBills}, patch.Keys())
	assert.Equal(t, "Grade 1", (*patch.Classes)[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSnapshotRepositoryLoadEmpty(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewSQLSnapshotRepository(db)

	mock.ExpectQuery("SELECT collection, payload FROM ledger_collections").
		WillReturnRows(sqlmock.NewRows([]string{"collection", "payload"}))

	patch, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, patch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSnapshotRepositorySQLite(t *testing.T) {
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "ledger.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLSnapshotRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	snap := sampleSnapshot()
	require.NoError(t, repo.Save(ctx, snap))
	snap.Teachers = nil
	require.NoError(t, repo.Save(ctx, snap))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	snap.Teachers = []models.Teacher{}
	assertSnapshotPatch(t, snap, loaded)
}

func TestRedisMirrorRepositoryWithoutClient(t *testing.T) {
	repo := NewRedisMirrorRepository(nil, "school-fees:snapshot")

	assert.True(t, errors.Is(repo.Push(context.Background(), sampleSnapshot()), appErrors.ErrMirrorDisabled))
	_, err := repo.Pull(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrMirrorDisabled))
	assert.NoError(t, repo.Close())
}
