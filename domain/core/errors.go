package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrConfiguration    = errors.New("invalid configuration")
	ErrColumnNotFound   = fmt.Errorf("%w: column not found", ErrConfiguration)
	ErrUnknownArchetype = fmt.Errorf("%w: unknown chart archetype", ErrConfiguration)

	// ErrConfigIncomplete is not a failure: rendering is deferred until all
	// required roles are bound.
	ErrConfigIncomplete = errors.New("chart configuration incomplete")

	// Data errors
	ErrParseFailure = errors.New("value could not be parsed as a calendar date")
	ErrDomain       = errors.New("domain constraint violated")

	// Session / ingestion errors
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrEmptyUpload     = errors.New("uploaded dataset is empty")
)

// Error constructors with context
func NewColumnNotFoundError(column string, available []string) error {
	return fmt.Errorf("%w: %q (available: %s)", ErrColumnNotFound, column, strings.Join(available, ", "))
}

func NewUnknownArchetypeError(archetype string) error {
	return fmt.Errorf("%w: %q", ErrUnknownArchetype, archetype)
}

func NewDomainError(column, reason string) error {
	return fmt.Errorf("%w: %s in column %q", ErrDomain, reason, column)
}

func NewParseError(column, value string) error {
	return fmt.Errorf("%w: %q in column %q", ErrParseFailure, value, column)
}

// Error checking helpers
func IsConfigIncomplete(err error) bool {
	return errors.Is(err, ErrConfigIncomplete)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsDomainError(err error) bool {
	return errors.Is(err, ErrDomain)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
