package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/sma-fees-ledger/internal/dto"
	"github.com/noah-isme/sma-fees-ledger/internal/models"
)

// BillRequest holds the payload for creating or updating a bill.
type BillRequest struct {
	StudentID   int64           `json:"studentId" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
}

// PaymentRequest holds the payload for recording a payment.
type PaymentRequest struct {
	StudentID int64           `json:"studentId" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
}

// Bills returns all bills in insertion order.
func (s *LedgerStore) Bills() []models.Bill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Bill{}, s.bills...)
}

// BillRows returns every bill with the student's name ("Unknown" when dangling).
func (s *LedgerStore) BillRows() []dto.BillRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]dto.BillRow, 0, len(s.bills))
	for _, bill := range s.bills {
		rows = append(rows, dto.BillRow{Bill: bill, StudentName: s.studentNameLocked(bill.StudentID)})
	}
	return rows
}

// AddBill charges a student. The bill is dated now.
func (s *LedgerStore) AddBill(ctx context.Context, req BillRequest) (*models.Bill, error) {
	trim(&req.Description)
	if err := s.validate(req, "invalid bill payload"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bill := models.Bill{
		ID:          s.nextID(func(id int64) bool { return s.billIndex(id) >= 0 }),
		StudentID:   req.StudentID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        s.now().UTC(),
	}
	s.bills = append(s.bills, bill)
	s.commitLocked(ctx, "bill", "create")
	return &bill, nil
}

// UpdateBill replaces student, description and amount. The bill date is kept.
func (s *LedgerStore) UpdateBill(ctx context.Context, id int64, req BillRequest) (*models.Bill, error) {
	trim(&req.Description)
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.billIndex(id)
	if idx < 0 {
		return nil, notFound("bill")
	}
	if err := s.validate(req, "invalid bill payload"); err != nil {
		return nil, err
	}
	s.bills[idx].StudentID = req.StudentID
	s.bills[idx].Description = req.Description
	s.bills[idx].Amount = req.Amount
	bill := s.bills[idx]
	s.commitLocked(ctx, "bill", "update")
	return &bill, nil
}

// DeleteBill removes a bill if present.
func (s *LedgerStore) DeleteBill(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills = removeWhere(s.bills, func(b models.Bill) bool { return b.ID == id })
	s.commitLocked(ctx, "bill", "delete")
}

// Payments returns all payments in insertion order.
func (s *LedgerStore) Payments() []models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Payment{}, s.payments...)
}

// PaymentRows returns every payment with the student's name and current balance.
func (s *LedgerStore) PaymentRows() []dto.PaymentRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]dto.PaymentRow, 0, len(s.payments))
	for _, payment := range s.payments {
		rows = append(rows, dto.PaymentRow{
			Payment:     payment,
			StudentName: s.studentNameLocked(payment.StudentID),
			Balance:     s.balanceLocked(payment.StudentID),
		})
	}
	return rows
}

// RecordPayment credits a student. Payments cannot be edited or removed afterwards.
func (s *LedgerStore) RecordPayment(ctx context.Context, req PaymentRequest) (*models.Payment, error) {
	if err := s.validate(req, "invalid payment payload"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	payment := models.Payment{
		ID:        s.nextID(func(id int64) bool { return s.paymentIndex(id) >= 0 }),
		StudentID: req.StudentID,
		Amount:    req.Amount,
		Date:      s.now().UTC(),
	}
	s.payments = append(s.payments, payment)
	s.commitLocked(ctx, "payment", "create")
	return &payment, nil
}

func (s *LedgerStore) billIndex(id int64) int {
	for i := range s.bills {
		if s.bills[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *LedgerStore) paymentIndex(id int64) int {
	for i := range s.payments {
		if s.payments[i].ID == id {
			return i
		}
	}
	return -1
}
