package excel

import (
	"dataviz/adapters/datareadiness/coercer"
)

// ExcelConfig holds configuration for reading an upload
type ExcelConfig struct {
	Sheet          string                 `json:"sheet"` // empty selects the first sheet
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultExcelConfig returns sensible defaults for upload processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
