package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"dataviz/domain/dataset"
)

// TypeCoercer handles deterministic type coercion of raw cells
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold     float64        `json:"numeric_threshold"`      // % of values that must parse as numbers
	DateThreshold        float64        `json:"date_threshold"`         // % of values that must parse as dates
	CategoricalMaxUnique int            `json:"categorical_max_unique"` // Max distinct values for a categorical column
	CategoricalMaxRatio  float64        `json:"categorical_max_ratio"`  // Max distinct/valid ratio for a categorical column
	NullMarkers          []string       `json:"null_markers"`           // Raw strings read as missing
	Location             *time.Location `json:"-"`
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:     0.8,
		DateThreshold:        0.8,
		CategoricalMaxUnique: 50,
		CategoricalMaxRatio:  0.5,
		NullMarkers:          []string{"", "null", "NULL", "NaN", "nan", "N/A", "n/a", "NA", "#N/A"},
		Location:             time.UTC,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &TypeCoercer{config: config}
}

var defaultCoercer = NewTypeCoercer(DefaultCoercionConfig())

// CoerceCell converts a raw text cell the way a CSV loader would: missing
// markers become null, numbers become numeric, everything else stays text.
// Dates are left as text until a date column is chosen.
func CoerceCell(raw string) dataset.Value {
	return defaultCoercer.CoerceCell(raw)
}

// ParseDate reads a cell as a calendar timestamp using the permissive parser
func ParseDate(v dataset.Value) (time.Time, bool) {
	return defaultCoercer.ParseDate(v)
}

// CoerceCell converts a raw text cell into a typed value
func (c *TypeCoercer) CoerceCell(raw string) dataset.Value {
	s := strings.TrimSpace(raw)
	if c.isNullMarker(s) {
		return dataset.Null()
	}
	if f, ok := c.tryParseNumeric(s); ok {
		return dataset.Number(f)
	}
	return dataset.String(s)
}

// ParseDate interprets any value as a date. Dates pass through unchanged,
// strings go through dateparse, and numbers are read through their text form
// (so 20210105 and 2021 parse). Null and unparseable values report false.
func (c *TypeCoercer) ParseDate(v dataset.Value) (time.Time, bool) {
	switch v.Kind() {
	case dataset.KindDate:
		t, _ := v.AsDate()
		return t, true
	case dataset.KindString:
		s, _ := v.AsString()
		return c.tryParseTimestamp(s)
	case dataset.KindNumber:
		f, _ := v.AsNumber()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return time.Time{}, false
		}
		return c.tryParseTimestamp(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return time.Time{}, false
}

// AnalyzeTypeDistribution analyzes a column sample to determine its best role
func (c *TypeCoercer) AnalyzeTypeDistribution(values []dataset.Value) TypeAnalysis {
	analysis := TypeAnalysis{
		TotalCount: len(values),
	}

	unique := make(map[string]bool)
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		analysis.ValidCount++
		unique[v.Key()] = true

		if n, ok := v.AsNumber(); ok && !math.IsNaN(n) {
			analysis.NumericCount++
		}
		if _, ok := c.ParseDate(v); ok && v.Kind() != dataset.KindNumber {
			analysis.DateCount++
		}
	}
	analysis.UniqueCount = len(unique)

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
		analysis.DateRatio = float64(analysis.DateCount) / float64(analysis.ValidCount)
		analysis.UniqueRatio = float64(analysis.UniqueCount) / float64(analysis.ValidCount)
	}

	analysis.RecommendedType = c.determineRecommendedType(analysis)
	return analysis
}

func (c *TypeCoercer) isNullMarker(s string) bool {
	for _, m := range c.config.NullMarkers {
		if s == m {
			return true
		}
	}
	return false
}

var thousandsPattern = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// tryParseNumeric parses plain and thousands-separated numbers.
// Parentheses mark negatives: (123) -> -123.
func (c *TypeCoercer) tryParseNumeric(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		isNegative = true
	}

	if thousandsPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	if isNegative {
		val = -val
	}
	return val, true
}

// tryParseTimestamp is the permissive date parser; zone-less input is read in
// the configured location.
func (c *TypeCoercer) tryParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, c.config.Location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// determineRecommendedType chooses the best role based on analysis
func (c *TypeCoercer) determineRecommendedType(analysis TypeAnalysis) ColumnType {
	if analysis.ValidCount == 0 {
		return ColumnEmpty
	}
	if analysis.DateRatio >= c.config.DateThreshold {
		return ColumnDate
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return ColumnNumeric
	}
	if analysis.UniqueCount <= c.config.CategoricalMaxUnique || analysis.UniqueRatio <= c.config.CategoricalMaxRatio {
		return ColumnCategorical
	}
	return ColumnText
}

// ColumnType is the role a column is best suited for
type ColumnType string

const (
	ColumnDate        ColumnType = "date"
	ColumnNumeric     ColumnType = "numeric"
	ColumnCategorical ColumnType = "categorical"
	ColumnText        ColumnType = "text"
	ColumnEmpty       ColumnType = "empty"
)

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int        `json:"total_count"`
	ValidCount      int        `json:"valid_count"`
	NumericCount    int        `json:"numeric_count"`
	DateCount       int        `json:"date_count"`
	UniqueCount     int        `json:"unique_count"`
	NumericRatio    float64    `json:"numeric_ratio"`
	DateRatio       float64    `json:"date_ratio"`
	UniqueRatio     float64    `json:"unique_ratio"`
	RecommendedType ColumnType `json:"recommended_type"`
}
