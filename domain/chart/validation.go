package chart

import (
	"fmt"
	"strings"

	"dataviz/domain/core"
)

// FailureKind classifies a failed validation
type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureDomain        FailureKind = "domain_error"
	FailureConfiguration FailureKind = "configuration_error"
)

// Reasons reported alongside a failure
const (
	ReasonNegativeOrInvalid = "negative_or_invalid_values"
	ReasonColumnNotFound    = "column_not_found"
	ReasonIncomplete        = "incomplete_spec"
)

// ValidationResult is the outcome of checking a spec against a table snapshot
type ValidationResult struct {
	OK           bool        `json:"ok"`
	Kind         FailureKind `json:"kind,omitempty"`
	Reason       string      `json:"reason,omitempty"`
	Column       string      `json:"column,omitempty"`
	AffectedRows int         `json:"affected_rows,omitempty"`
	Message      string      `json:"message,omitempty"`
}

// Valid is the passing result
func Valid() ValidationResult {
	return ValidationResult{OK: true}
}

// DomainFailure flags magnitudes the renderer cannot draw
func DomainFailure(column string, affected int) ValidationResult {
	return ValidationResult{
		Kind:         FailureDomain,
		Reason:       ReasonNegativeOrInvalid,
		Column:       column,
		AffectedRows: affected,
		Message: fmt.Sprintf("column %q has %d negative or invalid value(s); hierarchical charts need non-negative magnitudes, choose another value column",
			column, affected),
	}
}

// MissingColumn flags a reference to a column absent from the table
func MissingColumn(column string) ValidationResult {
	return ValidationResult{
		Kind:    FailureConfiguration,
		Reason:  ReasonColumnNotFound,
		Column:  column,
		Message: fmt.Sprintf("column %q is not present in the current table; re-select it", column),
	}
}

// Incomplete flags a spec with required roles left empty
func Incomplete(archetype Archetype, missing []Role) ValidationResult {
	names := make([]string, len(missing))
	for i, r := range missing {
		names[i] = string(r)
	}
	return ValidationResult{
		Kind:    FailureConfiguration,
		Reason:  ReasonIncomplete,
		Message: fmt.Sprintf("%s chart needs %s", archetype, strings.Join(names, ", ")),
	}
}

// Err returns the result as an error wrapping the matching sentinel, or nil
func (r ValidationResult) Err() error {
	switch r.Kind {
	case FailureDomain:
		return core.NewDomainError(r.Column, r.Reason)
	case FailureConfiguration:
		if r.Reason == ReasonIncomplete {
			return fmt.Errorf("%w: %s", core.ErrConfigIncomplete, r.Message)
		}
		return fmt.Errorf("%w: %q", core.ErrColumnNotFound, r.Column)
	}
	return nil
}
