package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	pdfFont      = "Helvetica"
	pdfRowHeight = 6.0
)

type pdfWriter struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	school  string
	created time.Time
	current *table
	colW    []float64
}

// writePDF renders each table starting on a new page, repeating the column
// header after every page break.
func writePDF(w io.Writer, school string, created time.Time, tables []table) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	pw := &pdfWriter{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""), // cp1252
		school:  school,
		created: created,
	}
	pdf.SetHeaderFunc(pw.header)
	pdf.SetFooterFunc(pw.footer)

	for i := range tables {
		pw.table(&tables[i])
	}
	if len(tables) == 0 {
		pdf.AddPage()
	}
	if pdf.Err() {
		return errors.Wrap(pdf.Error(), "rendering pdf")
	}
	return errors.Wrap(pdf.Output(w), "writing pdf")
}

func (pw *pdfWriter) table(t *table) {
	orientation := "P"
	if t.landscape {
		orientation = "L"
	}
	pw.current = t
	pw.colW = pw.columnWidths(orientation, t.widths, len(t.headers))
	pw.pdf.AddPageFormat(orientation, pw.pdf.GetPageSizeStr("A4"))

	pw.pdf.SetFont(pdfFont, "", 7)
	for _, row := range t.rows {
		for c, cl := range row {
			fill := false
			if cl.fill != "" {
				r, g, b := hexRGB(cl.fill)
				pw.pdf.SetFillColor(r, g, b)
				fill = true
			}
			pw.pdf.CellFormat(pw.colW[c], pdfRowHeight, pw.fit(cl.text(), pw.colW[c]), "1", 0, "L", fill, 0, "")
		}
		pw.pdf.Ln(-1)
	}
	if len(t.rows) == 0 {
		pw.pdf.SetFont(pdfFont, "I", 8)
		pw.pdf.CellFormat(0, pdfRowHeight, pw.tr("Nenhum registro encontrado"), "", 1, "L", false, 0, "")
	}
}

func (pw *pdfWriter) header() {
	p := pw.pdf
	p.SetFont(pdfFont, "B", 12)
	p.CellFormat(0, 7, pw.tr(pw.school), "", 1, "C", false, 0, "")
	if pw.current == nil {
		return
	}
	p.SetFont(pdfFont, "", 10)
	p.CellFormat(0, 6, pw.tr(pw.current.title), "", 1, "C", false, 0, "")
	p.Ln(2)

	r, g, b := hexRGB(headerFill)
	p.SetFillColor(r, g, b)
	p.SetTextColor(255, 255, 255)
	p.SetFont(pdfFont, "B", 7)
	for c, h := range pw.current.headers {
		p.CellFormat(pw.colW[c], 7, pw.fit(h, pw.colW[c]), "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)
	p.SetTextColor(0, 0, 0)
	p.SetFont(pdfFont, "", 7)
}

func (pw *pdfWriter) footer() {
	p := pw.pdf
	p.SetY(-12)
	p.SetFont(pdfFont, "I", 7)
	pageW, _ := p.GetPageSize()
	left, _, right, _ := p.GetMargins()
	half := (pageW - left - right) / 2
	p.CellFormat(half, 5, pw.tr("Gerado em "+pw.created.Format("02/01/2006 15:04")), "", 0, "L", false, 0, "")
	p.CellFormat(half, 5, pw.tr(fmt.Sprintf("Página %d/{nb}", p.PageNo())), "", 0, "R", false, 0, "")
}

// columnWidths scales the relative widths to the printable width.
func (pw *pdfWriter) columnWidths(orientation string, widths []float64, n int) []float64 {
	size := pw.pdf.GetPageSizeStr("A4")
	pageW := size.Wd
	if orientation == "L" {
		pageW = size.Ht
	}
	left, _, right, _ := pw.pdf.GetMargins()
	usable := pageW - left - right

	out := make([]float64, n)
	var total float64
	for i := range out {
		out[i] = 10
		if i < len(widths) {
			out[i] = widths[i]
		}
		total += out[i]
	}
	for i := range out {
		out[i] = out[i] / total * usable
	}
	return out
}

// fit translates s and shortens it with an ellipsis until it fits width.
func (pw *pdfWriter) fit(s string, width float64) string {
	text := pw.tr(s)
	max := width - 2
	if pw.pdf.GetStringWidth(text) <= max {
		return text
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		text = pw.tr(string(r) + "...")
		if pw.pdf.GetStringWidth(text) <= max {
			return text
		}
	}
	return ""
}

func hexRGB(hex string) (int, int, int) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}
