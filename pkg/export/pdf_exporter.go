package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Field is a labelled line of text.
type Field struct {
	Label string
	Value string
}

// Section is a block of a document. A section may start a new page and carries an optional
// heading, a list of fields and a table.
type Section struct {
	NewPage bool
	Heading string
	Fields  []Field
	Table   *Dataset
}

// Document describes a multi-section PDF.
type Document struct {
	Title    string
	Sections []Section
}

// PDFExporter renders documents with gofpdf.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

const pageWidth = 190.0

// Render lays out the document on A4 pages.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	for i, section := range doc.Sections {
		if section.NewPage && (i > 0 || doc.Title != "") {
			pdf.AddPage()
		}
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, section.Heading, "", 1, "L", false, 0, "")
			pdf.Ln(2)
		}
		if len(section.Fields) > 0 {
			pdf.SetFont("Arial", "", 11)
			for _, field := range section.Fields {
				pdf.CellFormat(0, 8, fmt.Sprintf("%s: %s", field.Label, field.Value), "", 1, "L", false, 0, "")
			}
			pdf.Ln(2)
		}
		if section.Table != nil {
			if err := section.Table.validate(); err != nil {
				return nil, fmt.Errorf("pdf section %d: %w", i, err)
			}
			writeTable(pdf, *section.Table)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(pdf *gofpdf.Fpdf, data Dataset) {
	colWidth := pageWidth / float64(len(data.Headers))

	pdf.SetFont("Arial", "B", 10)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, value := range row {
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}
