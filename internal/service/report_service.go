package service

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fees-ledger/internal/dto"
	"github.com/noah-isme/sma-fees-ledger/pkg/export"
)

// Download file names.
const (
	SummaryReportFilename  = "school_fees_summary.pdf"
	ReceiptsReportFilename = "payment_receipts.pdf"
	StudentsCSVFilename    = "students.csv"
)

type reportLedger interface {
	Totals() dto.LedgerTotals
	StudentRows() []dto.StudentRow
	PaymentRows() []dto.PaymentRow
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ReportService renders printable summaries and receipts from the ledger.
type ReportService struct {
	ledger   reportLedger
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	currency string
}

// NewReportService constructs a ReportService. Nil renderers fall back to the default exporters.
func NewReportService(ledger reportLedger, csv csvRenderer, pdf pdfRenderer, currencySymbol string, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{ledger: ledger, csv: csv, pdf: pdf, logger: logger, currency: currencySymbol}
}

// SummaryPDF renders the totals followed by a page listing every student.
func (s *ReportService) SummaryPDF() ([]byte, error) {
	totals := s.ledger.Totals()

	metrics := export.Dataset{Headers: []string{"Metric", "Value"}}
	metrics.AddRow("Total Students", strconv.Itoa(totals.TotalStudents))
	metrics.AddRow("Total Teachers", strconv.Itoa(totals.TotalTeachers))
	metrics.AddRow("Total Classes", strconv.Itoa(totals.TotalClasses))
	metrics.AddRow("Total Billed", s.money(totals.TotalBilled))
	metrics.AddRow("Total Paid", s.money(totals.TotalPaid))
	metrics.AddRow("Outstanding", s.money(totals.Outstanding))

	students := s.studentsDataset()

	out, err := s.pdf.Render(export.Document{
		Title: "School Fees Management - Summary Report",
		Sections: []export.Section{
			{Table: &metrics},
			{NewPage: true, Heading: "Students", Table: &students},
		},
	})
	if err != nil {
		s.logger.Error("failed to render summary pdf", zap.Error(err))
		return nil, fmt.Errorf("render summary: %w", err)
	}
	return out, nil
}

// ReceiptsPDF renders one receipt page per payment.
func (s *ReportService) ReceiptsPDF() ([]byte, error) {
	rows := s.ledger.PaymentRows()
	sections := make([]export.Section, 0, len(rows))
	for _, row := range rows {
		sections = append(sections, export.Section{
			NewPage: true,
			Heading: "Payment Receipt",
			Fields: []export.Field{
				{Label: "Receipt #", Value: strconv.FormatInt(row.ID, 10)},
				{Label: "Date", Value: row.Date.Format("2006-01-02")},
				{Label: "Student", Value: row.StudentName},
				{Label: "Amount Paid", Value: s.money(row.Amount)},
				{Label: "Outstanding Balance", Value: s.money(row.Balance)},
			},
		})
	}
	if len(sections) == 0 {
		sections = append(sections, export.Section{Heading: "No payments recorded"})
	}

	out, err := s.pdf.Render(export.Document{Sections: sections})
	if err != nil {
		s.logger.Error("failed to render receipts pdf", zap.Error(err))
		return nil, fmt.Errorf("render receipts: %w", err)
	}
	return out, nil
}

// StudentsCSV renders the students table as CSV.
func (s *ReportService) StudentsCSV() ([]byte, error) {
	out, err := s.csv.Render(s.studentsDataset())
	if err != nil {
		return nil, fmt.Errorf("render students csv: %w", err)
	}
	return out, nil
}

func (s *ReportService) studentsDataset() export.Dataset {
	data := export.Dataset{Headers: []string{"Name", "Class", "Balance"}}
	for _, row := range s.ledger.StudentRows() {
		data.AddRow(row.Name, row.ClassName, s.money(row.Balance))
	}
	return data
}

func (s *ReportService) money(amount decimal.Decimal) string {
	return s.currency + amount.StringFixed(2)
}
