package ports

import (
	"io"

	"dataviz/domain/dataset"
)

// TableLoader turns an uploaded file into a table. The file name selects the
// format.
type TableLoader interface {
	Load(name string, src io.Reader) (*dataset.Table, error)

	// Supports reports whether name has a readable format
	Supports(name string) bool
}
