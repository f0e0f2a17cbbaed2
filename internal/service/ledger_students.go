package service

import (
	"context"

	"github.com/noah-isme/sma-fees-ledger/internal/dto"
	"github.com/noah-isme/sma-fees-ledger/internal/models"
)

// StudentRequest holds the payload for creating or updating a student.
// ClassID is required but not checked against existing classes.
type StudentRequest struct {
	Name              string `json:"name" validate:"required"`
	ClassID           int64  `json:"classId" validate:"required"`
	ExternalStudentID string `json:"externalStudentId" validate:"required"`
	Phone             string `json:"phone"`
}

func (r *StudentRequest) normalize() {
	trim(&r.Name, &r.ExternalStudentID, &r.Phone)
}

// Students returns all students in insertion order.
func (s *LedgerStore) Students() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Student{}, s.students...)
}

// Student looks a student up by id.
func (s *LedgerStore) Student(id int64) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.studentIndex(id)
	if idx < 0 {
		return models.Student{}, false
	}
	return s.students[idx], true
}

// StudentRows returns every student with its class name ("N/A" when dangling) and balance.
func (s *LedgerStore) StudentRows() []dto.StudentRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]dto.StudentRow, 0, len(s.students))
	for _, student := range s.students {
		className := dto.MissingClassLabel
		if idx := s.classIndex(student.ClassID); idx >= 0 {
			className = s.classes[idx].Name
		}
		rows = append(rows, dto.StudentRow{
			Student:   student,
			ClassName: className,
			Balance:   s.balanceLocked(student.ID),
		})
	}
	return rows
}

// AddStudent appends a new student.
func (s *LedgerStore) AddStudent(ctx context.Context, req StudentRequest) (*models.Student, error) {
	req.normalize()
	if err := s.validate(req, "invalid student payload"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	student := models.Student{
		ID:                s.nextID(func(id int64) bool { return s.studentIndex(id) >= 0 }),
		Name:              req.Name,
		ClassID:           req.ClassID,
		ExternalStudentID: req.ExternalStudentID,
		Phone:             req.Phone,
	}
	s.students = append(s.students, student)
	s.commitLocked(ctx, "student", "create")
	return &student, nil
}

// UpdateStudent replaces the mutable fields of a student.
func (s *LedgerStore) UpdateStudent(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	req.normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.studentIndex(id)
	if idx < 0 {
		return nil, notFound("student")
	}
	if err := s.validate(req, "invalid student payload"); err != nil {
		return nil, err
	}
	s.students[idx] = models.Student{
		ID:                id,
		Name:              req.Name,
		ClassID:           req.ClassID,
		ExternalStudentID: req.ExternalStudentID,
		Phone:             req.Phone,
	}
	student := s.students[idx]
	s.commitLocked(ctx, "student", "update")
	return &student, nil
}

// DeleteStudent removes the student and every bill and payment carrying its id.
// The cascade runs even when no student record has that id.
func (s *LedgerStore) DeleteStudent(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = removeWhere(s.students, func(st models.Student) bool { return st.ID == id })
	s.bills = removeWhere(s.bills, func(b models.Bill) bool { return b.StudentID == id })
	s.payments = removeWhere(s.payments, func(p models.Payment) bool { return p.StudentID == id })
	s.commitLocked(ctx, "student", "delete")
}

func (s *LedgerStore) studentIndex(id int64) int {
	for i := range s.students {
		if s.students[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *LedgerStore) studentNameLocked(id int64) string {
	if idx := s.studentIndex(id); idx >= 0 {
		return s.students[idx].Name
	}
	return dto.MissingStudentLabel
}
