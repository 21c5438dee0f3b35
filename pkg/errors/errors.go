package errors

import "fmt"

// Error codes
const (
	CodeNotFound  = "NOT_FOUND"
	CodeAPIError  = "API_ERROR"
	CodeStore     = "STORE_ERROR"
	CodeMalformed = "MALFORMED_FIELD"
	CodeScrape    = "SCRAPE_ERROR"
)

type AnalyzerError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AnalyzerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AnalyzerError) Unwrap() error {
	return e.Cause
}

// NotFoundError means an identifier resolved to zero channels. Fatal to the run.
type NotFoundError struct {
	*AnalyzerError
	Input string
}

func NewNotFoundError(message, input string) *NotFoundError {
	return &NotFoundError{
		AnalyzerError: &AnalyzerError{
			Message:    message,
			Code:       CodeNotFound,
			StatusCode: 404,
			Context: map[string]any{
				"input": input,
			},
		},
		Input: input,
	}
}

// APIError wraps a non-success response from the upstream platform.
type APIError struct {
	*AnalyzerError
	Operation string
}

func NewAPIError(message, operation string, statusCode int, cause error) *APIError {
	return &APIError{
		AnalyzerError: &AnalyzerError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context: map[string]any{
				"operation": operation,
			},
			Cause: cause,
		},
		Operation: operation,
	}
}

type StoreError struct {
	*AnalyzerError
	Operation string
	Key       string
}

func NewStoreError(message, operation, key string, cause error) *StoreError {
	return &StoreError{
		AnalyzerError: &AnalyzerError{
			Message:    message,
			Code:       CodeStore,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

// MalformedFieldError reports an unparseable field that was replaced by a
// safe default. Recorded, never fatal.
type MalformedFieldError struct {
	*AnalyzerError
	Field string
	Value string
}

func NewMalformedFieldError(field, value string) *MalformedFieldError {
	return &MalformedFieldError{
		AnalyzerError: &AnalyzerError{
			Message:    fmt.Sprintf("malformed field %s", field),
			Code:       CodeMalformed,
			StatusCode: 422,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type ScrapeError struct {
	*AnalyzerError
	URL string
}

func NewScrapeError(message, url string, cause error) *ScrapeError {
	return &ScrapeError{
		AnalyzerError: &AnalyzerError{
			Message:    message,
			Code:       CodeScrape,
			StatusCode: 502,
			Context: map[string]any{
				"url": url,
			},
			Cause: cause,
		},
		URL: url,
	}
}
