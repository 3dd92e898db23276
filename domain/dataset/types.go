package dataset

import (
	"time"

	"dataviz/domain/core"
)

// Dataset is a loaded upload held in the session cache. The Table is the
// original, never-mutated load; every pipeline run starts from it.
type Dataset struct {
	ID          core.SessionID   `json:"id"`
	Name        string           `json:"name"`
	MimeType    string           `json:"mime_type"`
	FileSize    int64            `json:"file_size"`
	ContentHash core.ContentHash `json:"content_hash"`
	RecordCount int              `json:"record_count"`
	FieldCount  int              `json:"field_count"`
	LoadedAt    time.Time        `json:"loaded_at"`
	LastUsedAt  time.Time        `json:"last_used_at"`

	Table *Table `json:"-"`
}

// NewDataset wraps a freshly loaded table
func NewDataset(name string, table *Table, hash core.ContentHash) *Dataset {
	now := time.Now()
	return &Dataset{
		ID:          core.NewSessionID(),
		Name:        name,
		ContentHash: hash,
		RecordCount: table.Len(),
		FieldCount:  len(table.Columns()),
		LoadedAt:    now,
		LastUsedAt:  now,
		Table:       table,
	}
}
