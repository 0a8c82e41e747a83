// Package export renders complaint listings as PDF and XLSX reports and can
// publish them to an S3 compatible bucket.
package export

import (
	"errors"
	"strconv"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
)

const (
	PDFFilename  = "complaints_report.pdf"
	XLSXFilename = "complaints_report.xlsx"
	SheetName    = "Complaints"
	ReportTitle  = "Complaints Report"

	PDFContentType  = "application/pdf"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	na         = "N/A"
	dateLayout = "02/01/2006"
	timeLayout = "02/01/2006, 15:04:05"
)

var ErrNothingToExport = errors.New("no issues available to export")

// Columns is the header of both report formats.
var Columns = []string{"ID", "Username", "Title", "Created At", "Status"}

// DetailFilename is the name of the single complaint PDF.
func DetailFilename(id int64) string {
	return "Complaint_" + strconv.FormatInt(id, 10) + ".pdf"
}

func orNA(s string) string {
	if s == "" {
		return na
	}
	return s
}

func idCell(id int64) string {
	if id == 0 {
		return na
	}
	return strconv.FormatInt(id, 10)
}

func statusCell(s models.IssueStatus) string {
	if s == "" {
		return na
	}
	return s.Label()
}

func dateCell(is models.Issue, layout string) string {
	t, ok := is.CreatedTime()
	if !ok {
		return na
	}
	return t.Format(layout)
}

// Row is the report row of is.
func Row(is models.Issue) []string {
	return []string{
		idCell(is.ID),
		orNA(is.Name),
		orNA(is.Title),
		dateCell(is, dateLayout),
		statusCell(is.Status),
	}
}
