package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an analysis could not be produced.
type ErrorKind string

const (
	KindConfiguration     ErrorKind = "ConfigurationError"
	KindTransport         ErrorKind = "TransportError"
	KindMalformedResponse ErrorKind = "MalformedResponse"
	KindSchemaViolation   ErrorKind = "SchemaViolation"
)

var (
	// ErrConfiguration indicates missing credentials; no request was attempted.
	ErrConfiguration = errors.New("inference service not configured")
	// ErrTransport indicates a network failure, timeout or non-success status.
	ErrTransport = errors.New("inference request failed")
	// ErrMalformedResponse indicates content that is not JSON or lacks required fields.
	ErrMalformedResponse = errors.New("malformed inference response")
	// ErrSchemaViolation indicates JSON whose values break the declared contract.
	ErrSchemaViolation = errors.New("inference response violates schema")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindTransport:
		return ErrTransport
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindSchemaViolation:
		return ErrSchemaViolation
	}
	return nil
}

// Retryable reports whether the same input may succeed on a later attempt.
func (k ErrorKind) Retryable() bool {
	return k == KindTransport
}

// AnalysisError is the single failure type returned by Analyzer implementations.
type AnalysisError struct {
	Kind ErrorKind
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Is lets callers match on the kind sentinels, e.g. errors.Is(err, ErrTransport).
func (e *AnalysisError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func newError(kind ErrorKind, format string, args ...any) *AnalysisError {
	return &AnalysisError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the failure kind from err, if it carries one.
func KindOf(err error) (ErrorKind, bool) {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}
