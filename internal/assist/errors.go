package assist

import (
	"errors"
	"fmt"

	"github.com/toc-cloud/toc-cloud/internal/llm"
)

// ServiceError is returned when the completion service call fails. It is surfaced to
// the caller and never retried.
type ServiceError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("completion service error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("completion service error: %s", e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

func newServiceError(err error) *ServiceError {
	se := &ServiceError{Message: "completion request failed", Cause: err}
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		se.StatusCode = apiErr.StatusCode
	}
	return se
}

// ParseError means the service answered but the reply could not be read. The linter
// recovers from it with an empty result.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// RequestError reports a lint request that cannot be sent.
type RequestError struct {
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid assist request: %s: %s", e.Field, e.Message)
}
