package service

import (
	"context"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
)

// ClassRequest holds the payload for creating or renaming a class.
type ClassRequest struct {
	Name string `json:"name" validate:"required"`
}

// Classes returns all classes in insertion order.
func (s *LedgerStore) Classes() []models.Class {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Class{}, s.classes...)
}

// Class looks a class up by id.
func (s *LedgerStore) Class(id int64) (models.Class, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.classIndex(id)
	if idx < 0 {
		return models.Class{}, false
	}
	return s.classes[idx], true
}

// AddClass appends a new class.
func (s *LedgerStore) AddClass(ctx context.Context, req ClassRequest) (*models.Class, error) {
	trim(&req.Name)
	if err := s.validate(req, "invalid class payload"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	class := models.Class{
		ID:   s.nextID(func(id int64) bool { return s.classIndex(id) >= 0 }),
		Name: req.Name,
	}
	s.classes = append(s.classes, class)
	s.commitLocked(ctx, "class", "create")
	return &class, nil
}

// UpdateClass renames an existing class.
func (s *LedgerStore) UpdateClass(ctx context.Context, id int64, req ClassRequest) (*models.Class, error) {
	trim(&req.Name)
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.classIndex(id)
	if idx < 0 {
		return nil, notFound("class")
	}
	if err := s.validate(req, "invalid class payload"); err != nil {
		return nil, err
	}
	s.classes[idx].Name = req.Name
	class := s.classes[idx]
	s.commitLocked(ctx, "class", "update")
	return &class, nil
}

// DeleteClass removes a class if present. Students keep their class id.
func (s *LedgerStore) DeleteClass(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes = removeWhere(s.classes, func(c models.Class) bool { return c.ID == id })
	s.commitLocked(ctx, "class", "delete")
}

func (s *LedgerStore) classIndex(id int64) int {
	for i := range s.classes {
		if s.classes[i].ID == id {
			return i
		}
	}
	return -1
}

// removeWhere filters in a fresh slice so earlier snapshots never alias the result.
func removeWhere[T any](items []T, match func(T) bool) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	return kept
}
