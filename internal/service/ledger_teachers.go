package service

import (
	"context"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
)

// TeacherRequest holds the payload for creating or updating a teacher.
type TeacherRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (r *TeacherRequest) normalize() {
	trim(&r.Name, &r.Email, &r.Phone)
}

// Teachers returns all teachers in insertion order.
func (s *LedgerStore) Teachers() []models.Teacher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Teacher{}, s.teachers...)
}

// AddTeacher appends a new teacher.
func (s *LedgerStore) AddTeacher(ctx context.Context, req TeacherRequest) (*models.Teacher, error) {
	req.normalize()
	if err := s.validate(req, "invalid teacher payload"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	teacher := models.Teacher{
		ID:    s.nextID(func(id int64) bool { return s.teacherIndex(id) >= 0 }),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	s.teachers = append(s.teachers, teacher)
	s.commitLocked(ctx, "teacher", "create")
	return &teacher, nil
}

// UpdateTeacher replaces the mutable fields of a teacher.
func (s *LedgerStore) UpdateTeacher(ctx context.Context, id int64, req TeacherRequest) (*models.Teacher, error) {
	req.normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.teacherIndex(id)
	if idx < 0 {
		return nil, notFound("teacher")
	}
	if err := s.validate(req, "invalid teacher payload"); err != nil {
		return nil, err
	}
	s.teachers[idx] = models.Teacher{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone}
	teacher := s.teachers[idx]
	s.commitLocked(ctx, "teacher", "update")
	return &teacher, nil
}

// DeleteTeacher removes a teacher if present.
func (s *LedgerStore) DeleteTeacher(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teachers = removeWhere(s.teachers, func(t models.Teacher) bool { return t.ID == id })
	s.commitLocked(ctx, "teacher", "delete")
}

func (s *LedgerStore) teacherIndex(id int64) int {
	for i := range s.teachers {
		if s.teachers[i].ID == id {
			return i
		}
	}
	return -1
}
