// internal/document/layout.go
package document

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// ==========================
// Page Geometry
// ==========================

const (
	pageWidth    = 210.0 // A4 portrait, mm
	pageHeight   = 297.0
	pageMargin   = 10.0
	contentWidth = pageWidth - 2*pageMargin
	footerBand   = 16.0
	bottomLimit  = pageHeight - pageMargin - footerBand

	rowHeight       = 7.0
	headerRowHeight = 8.0
)

// Column defines one column of a paginated table.
type Column struct {
	Title string
	Width float64
	Align string // "L", "C" or "R"
}

// Options are the fixed branding elements every document carries.
type Options struct {
	Title       string
	CompanyName string
	CompanyLine string
}

// Builder wraps an A4 portrait PDF with the layout primitives the four
// renderers share: a branded header block, a footer band with page numbers,
// and tables that redraw their header row when a row would cross the page
// boundary. Core fonts only, so text goes through the cp1252 translator.
type Builder struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	opts Options
}

func NewBuilder(opts Options) *Builder {
	pdf := fpdf.New("P", "mm", "A4", "")
	b := &Builder{pdf: pdf, opts: opts}
	b.tr = pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(b.footer)
	pdf.AddPage()
	b.headerBlock()
	return b
}

func (b *Builder) headerBlock() {
	b.pdf.SetFont("Helvetica", "B", 15)
	b.pdf.CellFormat(contentWidth, 8, b.tr(b.opts.CompanyName), "", 1, "L", false, 0, "")
	b.pdf.SetFont("Helvetica", "", 8)
	b.pdf.SetTextColor(90, 90, 90)
	b.pdf.CellFormat(contentWidth, 4, b.tr(b.opts.CompanyLine), "", 1, "L", false, 0, "")
	b.pdf.SetTextColor(0, 0, 0)
	b.pdf.Ln(4)

	b.pdf.SetFont("Helvetica", "B", 13)
	b.pdf.CellFormat(contentWidth, 9, b.tr(b.opts.Title), "1", 1, "C", false, 0, "")
	b.pdf.Ln(4)
}

func (b *Builder) footer() {
	b.pdf.SetY(-(footerBand))
	b.pdf.SetFont("Helvetica", "I", 7)
	b.pdf.SetTextColor(120, 120, 120)
	b.pdf.CellFormat(contentWidth, 4, b.tr(b.opts.CompanyLine), "T", 1, "C", false, 0, "")
	b.pdf.CellFormat(contentWidth, 4, fmt.Sprintf("Page %d/{nb}", b.pdf.PageNo()), "", 0, "C", false, 0, "")
	b.pdf.SetTextColor(0, 0, 0)
}

// ensureRoom starts a new page when the next block of height h would cross
// into the footer band.
func (b *Builder) ensureRoom(h float64) {
	if b.pdf.GetY()+h > bottomLimit {
		b.pdf.AddPage()
	}
}

// ==========================
// Text Primitives
// ==========================

func (b *Builder) SectionTitle(text string) {
	b.ensureRoom(rowHeight + rowHeight)
	b.pdf.SetFont("Helvetica", "B", 11)
	b.pdf.SetFillColor(230, 230, 230)
	b.pdf.CellFormat(contentWidth, rowHeight, b.tr(text), "1", 1, "L", true, 0, "")
	b.pdf.Ln(2)
}

func (b *Builder) KeyValue(label, value string) {
	b.ensureRoom(rowHeight)
	b.pdf.SetFont("Helvetica", "B", 9)
	b.pdf.CellFormat(45, rowHeight, b.tr(label), "", 0, "L", false, 0, "")
	b.pdf.SetFont("Helvetica", "", 9)
	b.pdf.CellFormat(contentWidth-45, rowHeight, b.tr(value), "", 1, "L", false, 0, "")
}

func (b *Builder) Paragraph(text string) {
	if text == "" {
		return
	}
	b.ensureRoom(rowHeight)
	b.pdf.SetFont("Helvetica", "", 9)
	b.pdf.MultiCell(contentWidth, 5, b.tr(text), "", "L", false)
	b.pdf.Ln(1)
}

func (b *Builder) Spacer(h float64) {
	b.pdf.Ln(h)
}

// Output closes the document and returns its bytes.
func (b *Builder) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ==========================
// Paginated Table
// ==========================

// Table draws bordered rows with alternating shading. Every call to Row
// checks the vertical cursor first; when the row would overflow, a new page
// is started and the header row redrawn before the row is placed.
type Table struct {
	b    *Builder
	cols []Column
	fill bool
}

// NewTable draws the header row immediately and returns the table.
func (b *Builder) NewTable(cols []Column) *Table {
	t := &Table{b: b, cols: cols}
	b.ensureRoom(headerRowHeight + rowHeight)
	t.headerRow()
	return t
}

func (t *Table) headerRow() {
	pdf := t.b.pdf
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(210, 210, 210)
	for _, col := range t.cols {
		pdf.CellFormat(col.Width, headerRowHeight, t.b.tr(col.Title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	t.fill = false
}

// Row places one data row, breaking the page first when needed.
func (t *Table) Row(cells ...string) {
	pdf := t.b.pdf
	if pdf.GetY()+rowHeight > bottomLimit {
		pdf.AddPage()
		t.headerRow()
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(244, 244, 244)
	for i, col := range t.cols {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pdf.CellFormat(col.Width, rowHeight, t.b.tr(cell), "1", 0, col.Align, t.fill, 0, "")
	}
	pdf.Ln(-1)
	t.fill = !t.fill
}

// TotalRow places a bold summary row, typically after the last data row.
func (t *Table) TotalRow(cells ...string) {
	pdf := t.b.pdf
	if pdf.GetY()+rowHeight > bottomLimit {
		pdf.AddPage()
		t.headerRow()
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(225, 225, 225)
	for i, col := range t.cols {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pdf.CellFormat(col.Width, rowHeight, t.b.tr(cell), "1", 0, col.Align, true, 0, "")
	}
	pdf.Ln(-1)
}
