package dto

import "github.com/shopspring/decimal"

// LedgerTotals aggregates billing across all students.
type LedgerTotals struct {
	TotalStudents int             `json:"totalStudents"`
	TotalClasses  int             `json:"totalClasses"`
	TotalTeachers int             `json:"totalTeachers"`
	TotalBilled   decimal.Decimal `json:"totalBilled"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// MirrorStatusResponse reports the remote mirror state.
type MirrorStatusResponse struct {
	Enabled   bool   `json:"enabled"`
	Status    string `json:"status"`
	LastError string `json:"lastError,omitempty"`
}
