package llm

import (
	"errors"
	"fmt"

	"rmf-policy-be/pkg/resilience"
)

// ErrorKind classifies failures of external model services.
type ErrorKind int

const (
	// KindFatal is anything that will not get better on retry.
	KindFatal ErrorKind = iota
	// KindRetryable covers connectivity problems, timeouts and rate limits.
	KindRetryable
	// KindMalformed means the service answered but the payload was unusable.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindRetryable:
		return "retryable"
	case KindMalformed:
		return "malformed"
	default:
		return "fatal"
	}
}

type ServiceError struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%s, status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewServiceError(kind ErrorKind, op string, statusCode int, err error) *ServiceError {
	return &ServiceError{Kind: kind, Op: op, StatusCode: statusCode, Err: err}
}

// FromStatus builds a ServiceError for a non-2xx HTTP response.
func FromStatus(op string, statusCode int, body string) *ServiceError {
	kind := KindFatal
	if resilience.IsTransientHTTPStatus(statusCode) {
		kind = KindRetryable
	}
	return NewServiceError(kind, op, statusCode, fmt.Errorf("%s", body))
}

// FromTransport builds a ServiceError for a failed request (no response).
func FromTransport(op string, err error) *ServiceError {
	kind := KindFatal
	if resilience.IsTransient(err) {
		kind = KindRetryable
	}
	return NewServiceError(kind, op, 0, err)
}

// KindOf extracts the error kind. Untyped errors are classified with the
// transient heuristics.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	if resilience.IsTransient(err) {
		return KindRetryable
	}
	return KindFatal
}

func IsRetryable(err error) bool {
	return err != nil && KindOf(err) == KindRetryable
}
