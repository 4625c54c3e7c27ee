package llm

import "fmt"

// APIError is returned when the provider call itself fails.
type APIError struct {
	Provider   Provider
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s: %v", e.Provider, e.StatusCode, e.Message, e.Cause)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s API error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// EmptyResponseError is returned when the provider answered without any usable text.
type EmptyResponseError struct {
	Provider Provider
	Message  string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s returned no text: %s", e.Provider, e.Message)
}
