package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-fees-ledger/internal/dto"
	"github.com/noah-isme/sma-fees-ledger/internal/models"
	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
)

// Mirror statuses reported to clients.
const (
	MirrorStatusIdle    = "idle"
	MirrorStatusSyncing = "syncing"
	MirrorStatusSynced  = "synced"
	MirrorStatusError   = "error"
)

const defaultMirrorStatusReset = 3 * time.Second

type mirrorRepository interface {
	Push(ctx context.Context, snapshot models.Snapshot) error
	Pull(ctx context.Context) ([]byte, error)
}

type mirrorMetrics interface {
	ObserveMirrorPush(duration time.Duration, err error)
}

// MirrorConfig tunes the remote mirror.
type MirrorConfig struct {
	Enabled     bool
	StatusReset time.Duration
	PushTimeout time.Duration
}

// MirrorService pushes full snapshots to the remote mirror in the background.
//
// At most one push runs at a time. A snapshot handed over while a push is in flight replaces any
// earlier waiting one and is pushed as soon as the running push finishes. Failures only change
// the reported status; nothing is retried.
type MirrorService struct {
	repo    mirrorRepository
	metrics mirrorMetrics
	logger  *zap.Logger
	config  MirrorConfig

	mu         sync.Mutex
	status     string
	lastErr    string
	syncing    bool
	pending    *models.Snapshot
	resetTimer *time.Timer
	wg         sync.WaitGroup
}

// NewMirrorService constructs a MirrorService. A nil repository disables the mirror.
func NewMirrorService(repo mirrorRepository, metrics mirrorMetrics, logger *zap.Logger, config MirrorConfig) *MirrorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.StatusReset <= 0 {
		config.StatusReset = defaultMirrorStatusReset
	}
	if repo == nil {
		config.Enabled = false
	}
	return &MirrorService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		config:  config,
		status:  MirrorStatusIdle,
	}
}

// Enabled reports whether pushes and pulls reach the remote store.
func (s *MirrorService) Enabled() bool {
	return s != nil && s.config.Enabled
}

// Push schedules a background upload of the snapshot and returns immediately.
func (s *MirrorService) Push(snapshot models.Snapshot) {
	if !s.Enabled() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncing {
		s.pending = &snapshot
		return
	}
	s.syncing = true
	s.status = MirrorStatusSyncing
	if s.resetTimer != nil {
		s.resetTimer.Stop()
	}
	s.wg.Add(1)
	go s.run(snapshot)
}

func (s *MirrorService) run(snapshot models.Snapshot) {
	defer s.wg.Done()
	for {
		err := s.pushOnce(snapshot)

		s.mu.Lock()
		if err != nil {
			s.status = MirrorStatusError
			s.lastErr = err.Error()
		} else {
			s.status = MirrorStatusSynced
			s.lastErr = ""
		}
		if s.pending != nil {
			snapshot = *s.pending
			s.pending = nil
			s.status = MirrorStatusSyncing
			s.mu.Unlock()
			continue
		}
		s.syncing = false
		s.resetTimer = time.AfterFunc(s.config.StatusReset, s.resetStatus)
		s.mu.Unlock()
		return
	}
}

func (s *MirrorService) pushOnce(snapshot models.Snapshot) error {
	ctx := context.Background()
	if s.config.PushTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.PushTimeout)
		defer cancel()
	}
	start := time.Now()
	err := s.repo.Push(ctx, snapshot)
	if s.metrics != nil {
		s.metrics.ObserveMirrorPush(time.Since(start), err)
	}
	if err != nil {
		s.logger.Warn("mirror push failed", zap.Error(err))
		return err
	}
	s.logger.Debug("mirror push completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func (s *MirrorService) resetStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.syncing {
		s.status = MirrorStatusIdle
	}
}

// Wait blocks until no push is running.
func (s *MirrorService) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

// Status returns the current mirror state.
func (s *MirrorService) Status() dto.MirrorStatusResponse {
	if s == nil {
		return dto.MirrorStatusResponse{Status: MirrorStatusIdle}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return dto.MirrorStatusResponse{
		Enabled:   s.config.Enabled,
		Status:    s.status,
		LastError: s.lastErr,
	}
}

// Pull fetches and decodes the remote snapshot.
func (s *MirrorService) Pull(ctx context.Context) (*models.SnapshotPatch, error) {
	if !s.Enabled() {
		return nil, appErrors.ErrMirrorDisabled
	}
	raw, err := s.repo.Pull(ctx)
	if err != nil {
		return nil, err
	}
	return models.DecodeSnapshot(raw)
}
