package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-fees-ledger/internal/service"
	"github.com/noah-isme/sma-fees-ledger/pkg/response"
)

type reportRenderer interface {
	SummaryPDF() ([]byte, error)
	ReceiptsPDF() ([]byte, error)
	StudentsCSV() ([]byte, error)
}

// ReportHandler exposes printable documents.
type ReportHandler struct {
	reports reportRenderer
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportRenderer) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Summary godoc
// @Summary Summary report
// @Tags Reports
// @Produce application/pdf
// @Success 200 {file} file
// @Router /reports/summary.pdf [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	h.serve(c, h.reports.SummaryPDF, service.SummaryReportFilename, "application/pdf")
}

// Receipts godoc
// @Summary Payment receipts, one page per payment
// @Tags Reports
// @Produce application/pdf
// @Success 200 {file} file
// @Router /reports/receipts.pdf [get]
func (h *ReportHandler) Receipts(c *gin.Context) {
	h.serve(c, h.reports.ReceiptsPDF, service.ReceiptsReportFilename, "application/pdf")
}

// StudentsCSV godoc
// @Summary Students table as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} file
// @Router /reports/students.csv [get]
func (h *ReportHandler) StudentsCSV(c *gin.Context) {
	h.serve(c, h.reports.StudentsCSV, service.StudentsCSVFilename, "text/csv; charset=utf-8")
}

func (h *ReportHandler) serve(c *gin.Context, render func() ([]byte, error), filename, contentType string) {
	data, err := render()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, contentType, data)
}
