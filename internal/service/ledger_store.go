package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
)

type snapshotStore interface {
	Load(ctx context.Context) (*models.SnapshotPatch, error)
	Save(ctx context.Context, snapshot models.Snapshot) error
}

type snapshotPusher interface {
	Push(snapshot models.Snapshot)
}

type ledgerMetrics interface {
	ObserveMutation(entity, action string)
	ObserveSnapshotSave(duration time.Duration, err error)
}

// IDGenerator hands out unique record identifiers.
type IDGenerator interface {
	NextID() int64
}

type snowflakeIDs struct {
	node *snowflake.Node
}

// NewSnowflakeIDGenerator returns timestamp-derived ids from the given snowflake node.
func NewSnowflakeIDGenerator(nodeID int64) (IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node %d: %w", nodeID, err)
	}
	return &snowflakeIDs{node: node}, nil
}

func (g *snowflakeIDs) NextID() int64 {
	return g.node.Generate().Int64()
}

// LedgerStoreParams groups constructor dependencies.
type LedgerStoreParams struct {
	Store     snapshotStore
	Mirror    snapshotPusher
	Metrics   ledgerMetrics
	IDs       IDGenerator
	Validator *validator.Validate
	Logger    *zap.Logger
	Now       func() time.Time
}

// LedgerStore owns the five ledger collections and every operation on them.
//
// All operations are serialised by mu. Each successful mutation saves the full snapshot
// synchronously (failures are logged, not returned) and hands it to the mirror.
// References between collections are not enforced: students may point at deleted classes and
// bills or payments may point at unknown students.
type LedgerStore struct {
	mu       sync.RWMutex
	classes  []models.Class
	students []models.Student
	teachers []models.Teacher
	bills    []models.Bill
	payments []models.Payment

	store     snapshotStore
	mirror    snapshotPusher
	metrics   ledgerMetrics
	ids       IDGenerator
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewLedgerStore constructs an empty ledger. Call Restore to load the persisted snapshot.
func NewLedgerStore(params LedgerStoreParams) *LedgerStore {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.IDs == nil {
		ids, err := NewSnowflakeIDGenerator(1)
		if err != nil {
			panic(err)
		}
		params.IDs = ids
	}
	return &LedgerStore{
		classes:   []models.Class{},
		students:  []models.Student{},
		teachers:  []models.Teacher{},
		bills:     []models.Bill{},
		payments:  []models.Payment{},
		store:     params.Store,
		mirror:    params.Mirror,
		metrics:   params.Metrics,
		ids:       params.IDs,
		validator: newLedgerValidator(params.Validator),
		logger:    params.Logger,
		now:       params.Now,
	}
}

// Restore replaces in-memory state with the persisted snapshot without saving it back.
func (s *LedgerStore) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	patch, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger snapshot: %w", err)
	}
	if patch == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(*patch)
	s.logger.Info("ledger restored",
		zap.Int("classes", len(s.classes)),
		zap.Int("students", len(s.students)),
		zap.Int("teachers", len(s.teachers)),
		zap.Int("bills", len(s.bills)),
		zap.Int("payments", len(s.payments)),
	)
	return nil
}

// IsEmpty reports whether the ledger holds no records at all.
func (s *LedgerStore) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked().IsEmpty()
}

func (s *LedgerStore) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Classes:  s.classes,
		Students: s.students,
		Teachers: s.teachers,
		Bills:    s.bills,
		Payments: s.payments,
	}.Clone()
}

func (s *LedgerStore) applyLocked(patch models.SnapshotPatch) {
	if patch.Classes != nil {
		s.classes = append([]models.Class{}, *patch.Classes...)
	}
	if patch.Students != nil {
		s.students = append([]models.Student{}, *patch.Students...)
	}
	if patch.Teachers != nil {
		s.teachers = append([]models.Teacher{}, *patch.Teachers...)
	}
	if patch.Bills != nil {
		s.bills = append([]models.Bill{}, *patch.Bills...)
	}
	if patch.Payments != nil {
		s.payments = append([]models.Payment{}, *patch.Payments...)
	}
}

// commitLocked persists and mirrors the current state. Callers hold the write lock so saves
// land in mutation order.
func (s *LedgerStore) commitLocked(ctx context.Context, entity, action string) {
	snap := s.snapshotLocked()
	if s.store != nil {
		start := time.Now()
		err := s.store.Save(ctx, snap)
		if s.metrics != nil {
			s.metrics.ObserveSnapshotSave(time.Since(start), err)
		}
		if err != nil {
			s.logger.Warn("failed to persist ledger snapshot",
				zap.String("entity", entity),
				zap.String("action", action),
				zap.Error(err),
			)
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveMutation(entity, action)
	}
	if s.mirror != nil {
		s.mirror.Push(snap)
	}
}

// nextID draws ids until one is unused in the target collection.
func (s *LedgerStore) nextID(taken func(int64) bool) int64 {
	for {
		id := s.ids.NextID()
		if id != 0 && !taken(id) {
			return id
		}
	}
}
