package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"dataviz/adapters/datareadiness/coercer"
	"dataviz/domain/core"
	"dataviz/domain/dataset"
	"dataviz/internal"
)

// Supported file types
const (
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ExcelConfig
	coercer  *coercer.TypeCoercer
}

// FileTypeOf returns the reader type for a file name and whether it is supported
func FileTypeOf(name string) (string, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FileTypeCSV, true
	case ".xlsx":
		return FileTypeXLSX, true
	}
	return "", false
}

// NewDataReader creates a new data reader that handles both Excel and CSV files.
// The file type is chosen by extension; anything other than .csv is read as xlsx.
func NewDataReader(filePath string) *DataReader {
	return NewDataReaderWithConfig(filePath, DefaultExcelConfig())
}

// NewDataReaderWithConfig creates a reader with explicit sheet and coercion settings
func NewDataReaderWithConfig(filePath string, config ExcelConfig) *DataReader {
	fileType, ok := FileTypeOf(filePath)
	if !ok {
		fileType = FileTypeXLSX
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		config:   config,
		coercer:  coercer.NewTypeCoercer(config.CoercionConfig),
	}
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	internal.DefaultLogger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	file, err := os.Open(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
		}
		return nil, fmt.Errorf("failed to open %s file: %w", strings.ToUpper(r.fileType), err)
	}
	defer file.Close()

	return r.ReadDataFrom(file)
}

// ReadDataFrom reads an upload stream of the reader's file type
func (r *DataReader) ReadDataFrom(src io.Reader) (*ExcelData, error) {
	switch r.fileType {
	case FileTypeCSV:
		return r.readCSVData(src)
	case FileTypeXLSX:
		return r.readExcelData(src)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// ReadTable reads the file at the reader's path into a typed table
func (r *DataReader) ReadTable() (*dataset.Table, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return data.ToTable(r.coercer), nil
}

// ReadTableFrom reads an upload stream into a typed table
func (r *DataReader) ReadTableFrom(src io.Reader) (*dataset.Table, error) {
	data, err := r.ReadDataFrom(src)
	if err != nil {
		return nil, err
	}
	return data.ToTable(r.coercer), nil
}

// readExcelData reads the configured sheet (default: first) into structured format
func (r *DataReader) readExcelData(src io.Reader) (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	internal.DefaultLogger.Debug("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.ErrEmptyUpload
		}
		sheet = sheets[0]
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	internal.DefaultLogger.Debug("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format. Ragged rows are allowed.
func (r *DataReader) readCSVData(src io.Reader) (*ExcelData, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	internal.DefaultLogger.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format. The first
// non-blank row is the header; a header with no data rows is an empty table.
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, core.ErrEmptyUpload
	}

	headers := normalizeHeaders(rows[0])

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	internal.DefaultLogger.Info("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

// normalizeHeaders trims names, strips a UTF-8 BOM, names blank headers
// "Unnamed: i" and suffixes repeats with ".1", ".2", ...
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for n := 1; used[name]; n++ {
			name = h + "." + strconv.Itoa(n)
		}
		used[name] = true
		headers[i] = name
	}
	return headers
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
