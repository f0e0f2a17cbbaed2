package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
)

type blockingMirrorRepo struct {
	mu      sync.Mutex
	release chan struct{}
	started chan struct{}
	pushed  []models.Snapshot
	pushErr error
	pulled  []byte
	pullErr error
}

func newBlockingMirrorRepo() *blockingMirrorRepo {
	return &blockingMirrorRepo{release: make(chan struct{}), started: make(chan struct{}, 10)}
}

func (r *blockingMirrorRepo) Push(ctx context.Context, snapshot models.Snapshot) error {
	r.started <- struct{}{}
	<-r.release
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushed = append(r.pushed, snapshot)
	return r.pushErr
}

func (r *blockingMirrorRepo) Pull(ctx context.Context) ([]byte, error) {
	return r.pulled, r.pullErr
}

func (r *blockingMirrorRepo) pushes() []models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Snapshot{}, r.pushed...)
}

func snapshotWithClass(name string) models.Snapshot {
	return models.Snapshot{Classes: []models.Class{{ID: 1, Name: name}}}
}

func TestMirrorServiceSinglePushInFlight(t *testing.T) {
	repo := newBlockingMirrorRepo()
	svc := NewMirrorService(repo, nil, nil, MirrorConfig{Enabled: true, StatusReset: time.Hour})

	svc.Push(snapshotWithClass("first"))
	<-repo.started
	assert.Equal(t, MirrorStatusSyncing, svc.Status().Status)

	svc.Push(snapshotWithClass("second"))
	svc.Push(snapshotWithClass("third"))

	close(repo.release)
	svc.Wait()

	pushes := repo.pushes()
	require.Len(t, pushes, 2)
	assert.Equal(t, "first", pushes[0].Classes[0].Name)
	assert.Equal(t, "third", pushes[1].Classes[0].Name)
	assert.Equal(t, MirrorStatusSynced, svc.Status().Status)
}

func TestMirrorServiceFailureSetsErrorThenResets(t *testing.T) {
	repo := newBlockingMirrorRepo()
	repo.pushErr = errors.New("connection refused")
	close(repo.release)
	svc := NewMirrorService(repo, nil, nil, MirrorConfig{Enabled: true, StatusReset: 20 * time.Millisecond})

	svc.Push(snapshotWithClass("a"))
	svc.Wait()

	status := svc.Status()
	assert.Equal(t, MirrorStatusError, status.Status)
	assert.Equal(t, "connection refused", status.LastError)

	assert.Eventually(t, func() bool {
		return svc.Status().Status == MirrorStatusIdle
	}, time.Second, 5*time.Millisecond)
}

func TestMirrorServiceDisabled(t *testing.T) {
	repo := newBlockingMirrorRepo()
	svc := NewMirrorService(repo, nil, nil, MirrorConfig{Enabled: false})

	svc.Push(snapshotWithClass("ignored"))
	svc.Wait()
	assert.Empty(t, repo.pushes())
	assert.False(t, svc.Status().Enabled)

	_, err := svc.Pull(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrMirrorDisabled))

	nilRepo := NewMirrorService(nil, nil, nil, MirrorConfig{Enabled: true})
	assert.False(t, nilRepo.Enabled())
}

func TestMirrorServicePullDecodes(t *testing.T) {
	repo := newBlockingMirrorRepo()
	repo.pulled = []byte(`{"teachers":[{"id":4,"name":"Mrs. Boateng","email":"","phone":""}]}`)
	svc := NewMirrorService(repo, nil, nil, MirrorConfig{Enabled: true})

	patch, err := svc.Pull(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{models.CollectionTeachers}, patch.Keys())

	repo.pulled = []byte(`{"teachers":"nope"}`)
	_, err = svc.Pull(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrImportFormat))
}

func TestLedgerMutationsFeedMirror(t *testing.T) {
	repo := newBlockingMirrorRepo()
	close(repo.release)
	mirror := NewMirrorService(repo, nil, nil, MirrorConfig{Enabled: true, StatusReset: time.Hour})
	ledger := NewLedgerStore(LedgerStoreParams{Store: &memorySnapshotStore{}, Mirror: mirror, IDs: &sequentialIDs{}})

	_, err := ledger.AddClass(context.Background(), ClassRequest{Name: "Grade 5"})
	require.NoError(t, err)
	mirror.Wait()

	pushes := repo.pushes()
	require.NotEmpty(t, pushes)
	assert.Equal(t, "Grade 5", pushes[len(pushes)-1].Classes[0].Name)
}
