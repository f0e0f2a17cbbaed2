package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is a charge recorded against a student.
type Bill struct {
	ID          int64           `json:"id"`
	StudentID   int64           `json:"studentId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
}
