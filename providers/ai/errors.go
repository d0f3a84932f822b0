package ai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGenerator is the root of the error taxonomy. Every error produced by the
// clients, the parser, the validators and the generators matches it through
// errors.Is.
var ErrGenerator = errors.New("uigen: generator error")

// Stable error codes exposed through the Code method of each error type.
const (
	CodeClientError     = "AI_CLIENT_ERROR"
	CodeParseError      = "PARSE_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
)

// StatusRequestTimeout is the synthetic status carried by a ClientError when
// the per-request timeout fires before the provider answered.
const StatusRequestTimeout = 408

// ClientError reports a transport or HTTP failure. StatusCode drives the
// retry policy: it is the HTTP status for vendor errors, 408 for a client
// side timeout and 0 for network failures or a missing response body.
type ClientError struct {
	Provider   ProviderName
	StatusCode int
	VendorCode string // Error code or type from the vendor envelope, if any
	Message    string
	Err        error
}

// NewClientError builds a ClientError; err may be nil.
func NewClientError(provider ProviderName, statusCode int, message string, err error) *ClientError {
	return &ClientError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

func (e *ClientError) Error() string {
	var b strings.Builder
	b.WriteString("ai client error")
	if e.Provider != "" {
		b.WriteString(" (" + string(e.Provider) + ")")
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " [status %d]", e.StatusCode)
	}
	if e.VendorCode != "" {
		b.WriteString(" [" + e.VendorCode + "]")
	}
	b.WriteString(": " + e.Message)
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *ClientError) Unwrap() error           { return e.Err }
func (e *ClientError) Is(target error) bool    { return target == ErrGenerator }
func (e *ClientError) Code() string            { return CodeClientError }
func (e *ClientError) IsTimeout() bool         { return e.StatusCode == StatusRequestTimeout }
func (e *ClientError) HasStatus(code int) bool { return e.StatusCode == code }

// ParseError reports model output that could not be turned into valid JSON,
// or JSON missing a field the parser will not default. Raw keeps the
// original text for diagnostics.
type ParseError struct {
	Message string
	Raw     string
	Err     error
}

// NewParseError builds a ParseError; err may be nil.
func NewParseError(message, raw string, err error) *ParseError {
	return &ParseError{Message: message, Raw: raw, Err: err}
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "parse error: " + e.Message + ": " + e.Err.Error()
	}
	return "parse error: " + e.Message
}

func (e *ParseError) Unwrap() error        { return e.Err }
func (e *ParseError) Is(target error) bool { return target == ErrGenerator }
func (e *ParseError) Code() string         { return CodeParseError }

// ValidationError lists every structural rule a normalized object violates.
type ValidationError struct {
	Subject string   // "component", "components", "page"
	Issues  []string // One entry per violated rule, in discovery order
}

// NewValidationError builds a ValidationError for subject.
func NewValidationError(subject string, issues []string) *ValidationError {
	return &ValidationError{Subject: subject, Issues: issues}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: invalid %s: %s", e.Subject, strings.Join(e.Issues, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrGenerator }
func (e *ValidationError) Code() string         { return CodeValidationError }

// ErrorCode returns the stable code of err, or "" when err is not part of the
// taxonomy.
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}
