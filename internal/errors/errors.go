// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrTickerNotFound    = errors.New("ticker not found")
	ErrNoSnapshot        = errors.New("no snapshot available")
	ErrSnapshotStale     = errors.New("snapshot is stale")
	ErrUnknownSortField  = errors.New("unknown sort field")
	ErrUnknownFilter     = errors.New("unknown filter field")
	ErrEmptyUniverse     = errors.New("ticker universe is empty")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrStoreClosed       = errors.New("store is closed")
)

// ProviderError represents a failure talking to the market data provider.
type ProviderError struct {
	Ticker    string
	Operation string
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error [%s] %s: %v", e.Ticker, e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError.
func NewProviderError(ticker, operation string, err error) *ProviderError {
	return &ProviderError{
		Ticker:    ticker,
		Operation: operation,
		Err:       err,
	}
}

// QueryError represents an invalid read query against the snapshot cache.
type QueryError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewQueryError creates a new QueryError.
func NewQueryError(field string, value interface{}, message string) *QueryError {
	return &QueryError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// StoreError represents a persistence failure.
type StoreError struct {
	Backend   string
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s] %s: %v", e.Backend, e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(backend, operation string, err error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
