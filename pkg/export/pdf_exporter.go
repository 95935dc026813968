package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth = 277.0 // A4 landscape minus margins
	pdfFirstCol  = 25.0
)

// PDFExporter renders datasets into a single landscape table.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType is the MIME type of the rendered document.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension is the file extension of the rendered document.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render lays out the title, subtitle and table. The first column is the row
// label and is drawn narrower and bold.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetTitle(data.Title, true)
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, data.Title, "", 1, "C", false, 0, "")
	}
	if data.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, data.Subtitle, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	widths := columnWidths(len(data.Headers))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range data.Rows {
		for i, value := range row {
			if i == 0 {
				pdf.SetFont("Arial", "B", 9)
				pdf.CellFormat(widths[i], 7, value, "1", 0, "C", false, 0, "")
				continue
			}
			pdf.SetFont("Arial", "", 9)
			pdf.CellFormat(widths[i], 7, value, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(n int) []float64 {
	widths := make([]float64, n)
	if n == 1 {
		widths[0] = pdfPageWidth
		return widths
	}
	widths[0] = pdfFirstCol
	rest := (pdfPageWidth - pdfFirstCol) / float64(n-1)
	for i := 1; i < n; i++ {
		widths[i] = rest
	}
	return widths
}
