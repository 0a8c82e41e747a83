package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/nayidisha/nayidisha-client/internal/client/models"
)

var columnWidths = []float64{20, 45, 60, 30, 25}

func newDocument(title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetCreator("NayiDisha", false)
	pdf.AddPage()
	return pdf
}

// WritePDF renders issues as a striped table.
func WritePDF(w io.Writer, issues []models.Issue) error {
	if len(issues) == 0 {
		return ErrNothingToExport
	}

	pdf := newDocument(ReportTitle)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 10, ReportTitle)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(41, 128, 185)
	pdf.SetTextColor(255, 255, 255)
	for i, col := range Columns {
		pdf.CellFormat(columnWidths[i], 7, col, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(50, 50, 50)
	for n, is := range issues {
		fill := n%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for i, cell := range Row(is) {
			pdf.CellFormat(columnWidths[i], 6, tr(cell), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// DetailRows is the Field/Details table of one complaint.
func DetailRows(is models.Issue) [][2]string {
	desc := is.Description
	if desc == "" {
		desc = "No description provided."
	}
	return [][2]string{
		{"Title", orNA(is.Title)},
		{"User", orNA(is.Name)},
		{"Email", orNA(is.Email)},
		{"Status", orNA(string(is.Status))},
		{"Location", orNA(is.Location)},
		{"Created At", dateCell(is, timeLayout)},
		{"Description", desc},
	}
}

// WriteDetailPDF renders one complaint. A JPEG or PNG image, when given,
// goes on a second page.
func WriteDetailPDF(w io.Writer, is models.Issue, image *models.Attachment) error {
	pdf := newDocument("Complaint Details")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "", 18)
	pdf.Cell(0, 10, "Complaint Details")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(59, 130, 246)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(40, 7, "Field", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 7, "Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(240, 240, 240)
	for n, row := range DetailRows(is) {
		fill := n%2 == 1
		x, y := pdf.GetXY()
		pdf.SetXY(x+40, y)
		pdf.MultiCell(0, 6, tr(row[1]), "1", "L", fill)
		h := pdf.GetY() - y
		pdf.SetXY(x, y)
		pdf.CellFormat(40, h, row[0], "1", 0, "L", fill, 0, "")
		pdf.SetXY(x, y+h)
	}

	if image != nil {
		if err := addImagePage(pdf, image); err != nil {
			return err
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func addImagePage(pdf *fpdf.Fpdf, image *models.Attachment) error {
	var kind string
	switch image.ContentType {
	case "image/jpeg":
		kind = "JPG"
	case "image/png":
		kind = "PNG"
	default:
		return fmt.Errorf("unsupported image type %q", image.ContentType)
	}

	opts := fpdf.ImageOptions{ImageType: kind, ReadDpi: true}
	pdf.RegisterImageOptionsReader(image.Filename, opts, bytes.NewReader(image.Data))
	if pdf.Err() {
		return fmt.Errorf("load image: %w", pdf.Error())
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 10, "Complaint Image")
	pdf.Ln(12)

	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions(image.Filename, left, pdf.GetY(), pageW-left-right, 0, false, opts, 0, "")
	return nil
}
