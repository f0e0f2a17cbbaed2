package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
)

type stubPuller struct {
	patch *models.SnapshotPatch
	err   error
}

func (s stubPuller) Pull(ctx context.Context) (*models.SnapshotPatch, error) {
	return s.patch, s.err
}

func TestSettingsServiceRequiresAdmin(t *testing.T) {
	ledger := seededLedger(t)
	svc := NewSettingsService(ledger, nil, nil)
	ctx := context.Background()

	for _, role := range []models.Role{models.RoleCashier, models.RoleNone, ""} {
		_, err := svc.Export(role)
		assert.True(t, errors.Is(err, appErrors.ErrForbidden))
		_, err = svc.Import(ctx, role, []byte(`{}`))
		assert.True(t, errors.Is(err, appErrors.ErrForbidden))
		assert.True(t, errors.Is(svc.Clear(ctx, role), appErrors.ErrForbidden))
		_, err = svc.PullMirror(ctx, role)
		assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	}

	assert.False(t, ledger.IsEmpty())
}

func TestSettingsServiceExportImport(t *testing.T) {
	source := seededLedger(t)
	svc := NewSettingsService(source, nil, nil)

	backup, err := svc.Export(models.RoleAdmin)
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(backup, &top))
	assert.Contains(t, top, "exportDate")

	target, _, _ := newTestLedger(t)
	keys, err := NewSettingsService(target, nil, nil).Import(context.Background(), models.RoleAdmin, backup)
	require.NoError(t, err)
	assert.Equal(t, models.CollectionKeys, keys)
	want, got := source.Totals(), target.Totals()
	assert.Equal(t, want.TotalStudents, got.TotalStudents)
	assert.True(t, want.Outstanding.Equal(got.Outstanding))
	assert.Equal(t, source.Students(), target.Students())
}

func TestSettingsServiceImportMalformedAppliesNothing(t *testing.T) {
	ledger := seededLedger(t)
	before := ledger.ExportSnapshot()
	svc := NewSettingsService(ledger, nil, nil)

	_, err := svc.Import(context.Background(), models.RoleAdmin, []byte(`{"classes":[],"students":"oops"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrImportFormat))

	after := ledger.ExportSnapshot()
	assert.Equal(t, before.Classes, after.Classes)
	assert.Equal(t, before.Students, after.Students)
}

func TestSettingsServiceClear(t *testing.T) {
	ledger := seededLedger(t)
	require.NoError(t, NewSettingsService(ledger, nil, nil).Clear(context.Background(), models.RoleAdmin))
	assert.True(t, ledger.IsEmpty())
}

func TestSettingsServicePullMirror(t *testing.T) {
	ledger := seededLedger(t)
	teachers := []models.Teacher{{ID: 8, Name: "Mr. Asante"}}

	svc := NewSettingsService(ledger, stubPuller{patch: &models.SnapshotPatch{Teachers: &teachers}}, nil)
	keys, err := svc.PullMirror(context.Background(), models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{models.CollectionTeachers}, keys)
	assert.Equal(t, teachers, ledger.Teachers())
	assert.Len(t, ledger.Students(), 2)

	failing := NewSettingsService(ledger, stubPuller{err: appErrors.ErrNotFound}, nil)
	_, err = failing.PullMirror(context.Background(), models.RoleAdmin)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = NewSettingsService(ledger, nil, nil).PullMirror(context.Background(), models.RoleAdmin)
	assert.True(t, errors.Is(err, appErrors.ErrMirrorDisabled))
}
