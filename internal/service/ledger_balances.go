package service

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/sma-fees-ledger/internal/dto"
)

// StudentBalance returns billed minus paid for the student. Unknown ids yield zero.
func (s *LedgerStore) StudentBalance(studentID int64) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balanceLocked(studentID)
}

// Totals aggregates billing over every student.
func (s *LedgerStore) Totals() dto.LedgerTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	billed := decimal.Zero
	for _, bill := range s.bills {
		billed = billed.Add(bill.Amount)
	}
	paid := decimal.Zero
	for _, payment := range s.payments {
		paid = paid.Add(payment.Amount)
	}
	return dto.LedgerTotals{
		TotalStudents: len(s.students),
		TotalClasses:  len(s.classes),
		TotalTeachers: len(s.teachers),
		TotalBilled:   billed,
		TotalPaid:     paid,
		Outstanding:   billed.Sub(paid),
	}
}

func (s *LedgerStore) balanceLocked(studentID int64) decimal.Decimal {
	balance := decimal.Zero
	for _, bill := range s.bills {
		if bill.StudentID == studentID {
			balance = balance.Add(bill.Amount)
		}
	}
	for _, payment := range s.payments {
		if payment.StudentID == studentID {
			balance = balance.Sub(payment.Amount)
		}
	}
	return balance
}
