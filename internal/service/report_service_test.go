package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-fees-ledger/pkg/export"
)

type capturingPDF struct {
	doc export.Document
	err error
}

func (c *capturingPDF) Render(doc export.Document) ([]byte, error) {
	c.doc = doc
	if c.err != nil {
		return nil, c.err
	}
	return []byte("%PDF-stub"), nil
}

func seededLedger(t *testing.T) *LedgerStore {
	t.Helper()
	ledger, _, _ := newTestLedger(t)
	ctx := context.Background()
	class, err := ledger.AddClass(ctx, ClassRequest{Name: "Grade 5"})
	require.NoError(t, err)
	ama, err := ledger.AddStudent(ctx, StudentRequest{Name: "Ama", ClassID: class.ID, ExternalStudentID: "S001"})
	require.NoError(t, err)
	_, err = ledger.AddStudent(ctx, StudentRequest{Name: "Kofi", ClassID: 999, ExternalStudentID: "S002"})
	require.NoError(t, err)
	_, err = ledger.AddBill(ctx, BillRequest{StudentID: ama.ID, Description: "Tuition", Amount: amount("500")})
	require.NoError(t, err)
	_, err = ledger.RecordPayment(ctx, PaymentRequest{StudentID: ama.ID, Amount: amount("200")})
	require.NoError(t, err)
	_, err = ledger.RecordPayment(ctx, PaymentRequest{StudentID: 31337, Amount: amount("15.5")})
	require.NoError(t, err)
	return ledger
}

func TestReportServiceSummaryLayout(t *testing.T) {
	pdf := &capturingPDF{}
	svc := NewReportService(seededLedger(t), nil, pdf, "$", nil)

	out, err := svc.SummaryPDF()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub", string(out))

	require.Len(t, pdf.doc.Sections, 2)
	metrics := pdf.doc.Sections[0].Table
	require.NotNil(t, metrics)
	assert.Equal(t, []string{"Outstanding", "$284.50"}, metrics.Rows[5])
	assert.Equal(t, []string{"Total Students", "2"}, metrics.Rows[0])

	students := pdf.doc.Sections[1]
	assert.True(t, students.NewPage)
	assert.Equal(t, [][]string{{"Ama", "Grade 5", "$300.00"}, {"Kofi", "N/A", "$0.00"}}, students.Table.Rows)
}

func TestReportServiceReceiptsOnePerPayment(t *testing.T) {
	pdf := &capturingPDF{}
	svc := NewReportService(seededLedger(t), nil, pdf, "GH₵", nil)

	_, err := svc.ReceiptsPDF()
	require.NoError(t, err)

	require.Len(t, pdf.doc.Sections, 2)
	first := pdf.doc.Sections[0].Fields
	assert.Equal(t, "Ama", first[2].Value)
	assert.Equal(t, "GH₵200.00", first[3].Value)
	assert.Equal(t, "GH₵300.00", first[4].Value)
	second := pdf.doc.Sections[1].Fields
	assert.Equal(t, "Unknown", second[2].Value)
	assert.Equal(t, "GH₵-15.50", second[4].Value)
}

func TestReportServiceReceiptsEmptyLedger(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	pdf := &capturingPDF{}
	svc := NewReportService(ledger, nil, pdf, "$", nil)

	_, err := svc.ReceiptsPDF()
	require.NoError(t, err)
	require.Len(t, pdf.doc.Sections, 1)
}

func TestReportServiceRealRenderers(t *testing.T) {
	svc := NewReportService(seededLedger(t), nil, nil, "$", nil)

	summary, err := svc.SummaryPDF()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(summary, []byte("%PDF")))

	csv, err := svc.StudentsCSV()
	require.NoError(t, err)
	assert.Equal(t, "Name,Class,Balance\nAma,Grade 5,$300.00\nKofi,N/A,$0.00\n", string(csv))
}

func TestReportServiceRenderFailure(t *testing.T) {
	svc := NewReportService(seededLedger(t), nil, &capturingPDF{err: errors.New("font missing")}, "$", nil)

	_, err := svc.SummaryPDF()
	assert.Error(t, err)
}
