package excel

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"dataviz/domain/dataset"
)

// WriteTable writes table to w in the given file type. Dates are written as
// YYYY-MM-DD text so a round trip through the reader is lossless.
func WriteTable(w io.Writer, fileType string, table *dataset.Table) error {
	switch fileType {
	case FileTypeCSV:
		return writeCSV(w, table)
	case FileTypeXLSX:
		return writeXLSX(w, table)
	}
	return fmt.Errorf("unsupported file type: %s", fileType)
}

func writeCSV(w io.Writer, table *dataset.Table) error {
	cw := csv.NewWriter(w)
	columns := table.Columns()
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(columns))
	for i := 0; i < table.Len(); i++ {
		for j, c := range columns {
			record[j] = table.Value(i, c).Key()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, table *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	columns := table.Columns()

	header := make([]interface{}, len(columns))
	for j, c := range columns {
		header[j] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write sheet header: %w", err)
	}

	for i := 0; i < table.Len(); i++ {
		row := make([]interface{}, len(columns))
		for j, c := range columns {
			v := table.Value(i, c)
			switch v.Kind() {
			case dataset.KindNumber:
				row[j], _ = v.AsNumber()
			case dataset.KindNull:
				row[j] = nil
			default:
				row[j] = v.Key()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write sheet row %d: %w", i+1, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}
