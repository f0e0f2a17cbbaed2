package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a credit recorded against a student. Payments are append-only.
type Payment struct {
	ID        int64           `json:"id"`
	StudentID int64           `json:"studentId"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
}
