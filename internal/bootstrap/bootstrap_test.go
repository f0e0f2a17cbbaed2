package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fees-ledger/internal/service"
	"github.com/noah-isme/sma-fees-ledger/pkg/config"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Storage: config.StorageConfig{
			Driver:   driver,
			FileDir:  dir,
			BoltPath: filepath.Join(dir, "ledger.db"),
		},
		Database: config.DatabaseConfig{SQLitePath: filepath.Join(dir, "ledger.sqlite")},
		Ledger:   config.LedgerConfig{NodeID: 3},
	}
}

func TestNewPersistsAcrossRestarts(t *testing.T) {
	for _, driver := range []string{config.StorageDriverFile, config.StorageDriverBolt, config.StorageDriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)
			ctx := context.Background()

			app, err := New(ctx, cfg, nil, Options{})
			require.NoError(t, err)
			class, err := app.Ledger.AddClass(ctx, service.ClassRequest{Name: "Grade 5"})
			require.NoError(t, err)
			require.NoError(t, app.Close())

			reopened, err := New(ctx, cfg, nil, Options{})
			require.NoError(t, err)
			defer reopened.Close() //nolint:errcheck

			got, ok := reopened.Ledger.Class(class.ID)
			require.True(t, ok)
			assert.Equal(t, "Grade 5", got.Name)
			assert.False(t, reopened.Mirror.Enabled())
		})
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), testConfig(t, "cassette"), nil, Options{})
	assert.Error(t, err)
}

func TestCredentials(t *testing.T) {
	creds := Credentials(config.AuthConfig{AdminUsername: "a", AdminPassword: "b", CashierUsername: "c", CashierPassword: "d"})
	require.Len(t, creds, 2)
	assert.True(t, creds[0].Role.IsAdmin())
	assert.False(t, creds[1].Role.IsAdmin())
}
