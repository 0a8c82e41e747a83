package export

import (
	"fmt"
	"io"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders issues into a single "Complaints" sheet.
func WriteXLSX(w io.Writer, issues []models.Issue) error {
	if len(issues) == 0 {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for n, is := range issues {
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		row := Row(is)
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if is.ID != 0 {
			values[0] = is.ID
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", n+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "E", 22); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
