package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
)

// Fallback labels for dangling references.
const (
	MissingClassLabel   = "N/A"
	MissingStudentLabel = "Unknown"
)

// StudentRow is a student enriched with its class name and live balance.
type StudentRow struct {
	models.Student
	ClassName string          `json:"className"`
	Balance   decimal.Decimal `json:"balance"`
}

// BillRow is a bill enriched with the owning student's name.
type BillRow struct {
	models.Bill
	StudentName string `json:"studentName"`
}

// PaymentRow is a payment enriched with the student's name and current balance.
type PaymentRow struct {
	models.Payment
	StudentName string          `json:"studentName"`
	Balance     decimal.Decimal `json:"balance"`
}

// StudentBalance reports the balance of a single student.
type StudentBalance struct {
	StudentID int64           `json:"studentId"`
	Balance   decimal.Decimal `json:"balance"`
}
