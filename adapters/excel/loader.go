package excel

import (
	"io"

	"dataviz/domain/dataset"
)

// Loader reads uploads by file name; it implements ports.TableLoader
type Loader struct {
	Config ExcelConfig
}

// NewLoader creates a loader with default coercion settings
func NewLoader() *Loader {
	return &Loader{Config: DefaultExcelConfig()}
}

// Load reads src as the format implied by name
func (l *Loader) Load(name string, src io.Reader) (*dataset.Table, error) {
	return NewDataReaderWithConfig(name, l.Config).ReadTableFrom(src)
}

// Supports reports whether name is a .csv or .xlsx file
func (l *Loader) Supports(name string) bool {
	_, ok := FileTypeOf(name)
	return ok
}
