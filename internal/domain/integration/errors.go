package integration

import (
	"errors"
	"fmt"
)

// FetchFailureKind classifies why a provider call failed. Callers treat
// timeouts as retryable at a later page and provider errors as fatal for the
// attempt, so the two are never conflated.
type FetchFailureKind string

const (
	FailureTimeout       FetchFailureKind = "timeout"
	FailureProviderError FetchFailureKind = "provider-error"
	FailureEmptyResult   FetchFailureKind = "empty-result"
)

// FetchError is the typed failure returned by source adapters
type FetchError struct {
	Provider string
	Kind     FetchFailureKind
	Err      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewTimeoutError reports a call that exceeded its time budget
func NewTimeoutError(provider string, err error) *FetchError {
	return &FetchError{Provider: provider, Kind: FailureTimeout, Err: err}
}

// NewProviderError reports a definitive provider-side error
func NewProviderError(provider string, err error) *FetchError {
	return &FetchError{Provider: provider, Kind: FailureProviderError, Err: err}
}

// NewEmptyResultError reports a call that succeeded but returned no items
func NewEmptyResultError(provider string) *FetchError {
	return &FetchError{Provider: provider, Kind: FailureEmptyResult}
}

// FailureKind extracts the failure kind from an error chain, or "" if the
// error is not a FetchError.
func FailureKind(err error) FetchFailureKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsEmptyResult reports whether err is an empty-result failure
func IsEmptyResult(err error) bool {
	return FailureKind(err) == FailureEmptyResult
}

// IsTimeout reports whether err is a timeout failure
func IsTimeout(err error) bool {
	return FailureKind(err) == FailureTimeout
}
