package transfer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/ledongthuc/pdf"

	"mangabook/pkg/listmap"
)

// pageBreakY is the vertical cutoff on an A4 page before a new page starts.
const pageBreakY = 270.0

// ExtractPDFText pulls the plain text out of every page of a PDF file so it
// can be fed through ParseText.
func ExtractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	for pageNo := 1; pageNo <= r.NumPage(); pageNo++ {
		page := r.Page(pageNo)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", pageNo, err)
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// ExportPDF renders the map into a paginated PDF at path. Category headings
// are bold, entries use the same line format as the TXT export.
func ExportPDF(m *listmap.Map, path string) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, "My Manga List")
	doc.Ln(14)

	for _, category := range m.Categories() {
		if doc.GetY() > pageBreakY {
			doc.AddPage()
		}
		doc.SetFont("Helvetica", "B", 14)
		doc.Cell(0, 8, category.Name)
		doc.Ln(9)

		doc.SetFont("Helvetica", "", 11)
		for _, entry := range sortedByName(category.Entries) {
			if doc.GetY() > pageBreakY {
				doc.AddPage()
				doc.SetFont("Helvetica", "", 11)
			}
			line := fmt.Sprintf("[%s Ch %d](%s)", entry.Name, entry.Chapter, entry.ImageURL)
			doc.Cell(0, 6, line)
			doc.Ln(6)
		}
		doc.Ln(4)
	}

	return doc.OutputFileAndClose(path)
}
