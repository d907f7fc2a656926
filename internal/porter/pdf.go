package porter

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// DefaultView is the pdf view used when a job names none.
const DefaultView = "table"

// DefaultTitle is the pdf title when the job context sets none.
const DefaultTitle = "Export Data"

// ViewData is what a pdf view receives.
type ViewData struct {
	Data    []any
	Headers []string
	Rows    [][]string
	Title   string
	Context map[string]any
}

// View draws an export onto a landscape A4 document.
type View func(doc *fpdf.Fpdf, data ViewData) error

// DefaultViews returns the built-in pdf views.
func DefaultViews() map[string]View {
	return map[string]View{
		DefaultView: TableView,
	}
}

func newViewData(job ExportJob, table [][]string) ViewData {
	d := ViewData{
		Data:    job.Records,
		Headers: table[0],
		Rows:    table[1:],
		Title:   DefaultTitle,
		Context: job.Context,
	}
	if t, ok := job.Context["title"].(string); ok && t != "" {
		d.Title = t
	}
	return d
}

func renderPDF(view View, data ViewData) ([]byte, error) {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetTitle(data.Title, true)
	doc.SetAutoPageBreak(true, 12)
	doc.AddPage()

	if err := view(doc, data); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// TableView prints the title followed by a bordered grid of every row,
// repeating the header on each page.
func TableView(doc *fpdf.Fpdf, data ViewData) error {
	tr := doc.UnicodeTranslatorFromDescriptor("")
	left, _, right, bottom := doc.GetMargins()
	pageW, pageH := doc.GetPageSize()

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, tr(data.Title), "", 1, "L", false, 0, "")
	doc.Ln(2)

	if len(data.Headers) == 0 {
		return doc.Error()
	}
	colW := (pageW - left - right) / float64(len(data.Headers))
	const lineH = 7.0

	header := func() {
		doc.SetFont("Helvetica", "B", 9)
		doc.SetFillColor(230, 230, 230)
		for _, h := range data.Headers {
			doc.CellFormat(colW, lineH, fit(doc, tr(h), colW), "1", 0, "L", true, 0, "")
		}
		doc.Ln(-1)
		doc.SetFont("Helvetica", "", 8)
	}

	header()
	for _, row := range data.Rows {
		if doc.GetY()+lineH > pageH-bottom-12 {
			doc.AddPage()
			header()
		}
		for _, cell := range row {
			doc.CellFormat(colW, lineH, fit(doc, tr(cell), colW), "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}
	if len(data.Rows) == 0 {
		doc.CellFormat(colW*float64(len(data.Headers)), lineH, "No records", "1", 1, "C", false, 0, "")
	}
	return doc.Error()
}

// fit shortens s until it fits in width w, marking the cut with "..".
// s is already in the single-byte font encoding, so it is cut by bytes.
func fit(doc *fpdf.Fpdf, s string, w float64) string {
	limit := w - 2
	if doc.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && doc.GetStringWidth(s+"..") > limit {
		s = s[:len(s)-1]
	}
	return s + ".."
}
