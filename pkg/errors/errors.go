// Package errors defines the typed error taxonomy shared across mengram's
// adapters, orchestrator and vault store: ConfigError, LLMError,
// EmbeddingError, IOError, ParseError, NotFoundError and ExtractionError.
package errors

import "fmt"

// ErrorType categorizes an AppError so callers can branch on failure kind
// without string matching.
type ErrorType string

const (
	ErrorTypeConfig     ErrorType = "CONFIG"
	ErrorTypeLLM        ErrorType = "LLM"
	ErrorTypeEmbedding  ErrorType = "EMBEDDING"
	ErrorTypeIO         ErrorType = "IO"
	ErrorTypeParse      ErrorType = "PARSE"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeExtraction ErrorType = "EXTRACTION"
)

// AppError is the error type returned by every public mengram operation.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to see through an AppError.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewConfig creates a ConfigError (bad config, missing credentials).
func NewConfig(message string, err error) error {
	return &AppError{Type: ErrorTypeConfig, Message: message, Err: err}
}

// NewLLM creates an LLMError (upstream failure after retries).
func NewLLM(message string, err error) error {
	return &AppError{Type: ErrorTypeLLM, Message: message, Err: err}
}

// NewEmbedding creates an EmbeddingError (upstream failure after retries).
func NewEmbedding(message string, err error) error {
	return &AppError{Type: ErrorTypeEmbedding, Message: message, Err: err}
}

// NewIO creates an IOError (vault read/write failure).
func NewIO(message string, err error) error {
	return &AppError{Type: ErrorTypeIO, Message: message, Err: err}
}

// NewParse creates a ParseError (malformed note).
func NewParse(message string, err error) error {
	return &AppError{Type: ErrorTypeParse, Message: message, Err: err}
}

// NewNotFound creates a NotFoundError (entity or tenant absent).
func NewNotFound(message string) error {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewExtraction creates an ExtractionError. Per spec this is non-fatal: the
// orchestrator returns an empty result and a warning rather than propagating it,
// but the type exists so the warning can still be inspected or logged as an error.
func NewExtraction(message string, err error) error {
	return &AppError{Type: ErrorTypeExtraction, Message: message, Err: err}
}

// Wrap attaches additional context to err, preserving its ErrorType if it is
// already an *AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Type:    appErr.Type,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     appErr.Err,
		}
	}
	return &AppError{Type: ErrorTypeIO, Message: message, Err: err}
}

func is(err error, t ErrorType) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == t
}

func IsConfig(err error) bool     { return is(err, ErrorTypeConfig) }
func IsLLM(err error) bool        { return is(err, ErrorTypeLLM) }
func IsEmbedding(err error) bool  { return is(err, ErrorTypeEmbedding) }
func IsIO(err error) bool         { return is(err, ErrorTypeIO) }
func IsParse(err error) bool      { return is(err, ErrorTypeParse) }
func IsNotFound(err error) bool   { return is(err, ErrorTypeNotFound) }
func IsExtraction(err error) bool { return is(err, ErrorTypeExtraction) }
