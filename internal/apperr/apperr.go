// Package apperr defines the application error taxonomy and the central
// error reporting handler.
package apperr

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AppError carries an error code, an operator-facing message and the
// i18n key of the text shown to the user. Detail, when set, is appended
// verbatim to the translated user message.
type AppError struct {
	Code       string
	Message    string
	UserKey    string
	Detail     string
	Severity   Severity
	ClearsFlow bool
	cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// NewValidationError reports a reply rejected by a learned criteria
// whitelist. The offending value and the allowed set go into Detail.
func NewValidationError(field, value string, allowed []string) *AppError {
	return &AppError{
		Code:       "E100",
		Message:    fmt.Sprintf("value %q rejected for field %q", value, field),
		UserKey:    "error.validation",
		Detail:     fmt.Sprintf("%q", allowed),
		Severity:   SeverityLow,
		ClearsFlow: true,
	}
}

// NewGatewayError reports a failed booking-gateway call. The raw failure
// text is surfaced to the user per the error handling policy.
func NewGatewayError(operation string, cause error) *AppError {
	var detail string
	if cause != nil {
		detail = cause.Error()
	}

	return &AppError{
		Code:       "E200",
		Message:    fmt.Sprintf("gateway call %s failed", operation),
		UserKey:    "error.gateway",
		Detail:     detail,
		Severity:   SeverityHigh,
		ClearsFlow: true,
		cause:      cause,
	}
}

// NewUnavailableError reports a (category, service) pair that the
// booking catalog does not currently offer.
func NewUnavailableError(category, service string) *AppError {
	return &AppError{
		Code:       "E300",
		Message:    fmt.Sprintf("service %q in category %q is not available", service, category),
		UserKey:    "error.unavailable",
		Severity:   SeverityLow,
		ClearsFlow: true,
	}
}

// NewNotImplementedError reports a recognized category with no wizard flow.
func NewNotImplementedError(category string) *AppError {
	return &AppError{
		Code:       "E400",
		Message:    fmt.Sprintf("category %q has no implemented flow", category),
		UserKey:    "error.not_implemented",
		Severity:   SeverityLow,
		ClearsFlow: true,
	}
}

// NewSessionExpiredError reports an interaction with no live session.
func NewSessionExpiredError() *AppError {
	return &AppError{
		Code:     "E410",
		Message:  "session expired or never started",
		UserKey:  "error.session_expired",
		Severity: SeverityLow,
	}
}

// NewBusyError reports a turn rejected because another interaction for
// the same user holds the advisory lock.
func NewBusyError() *AppError {
	return &AppError{
		Code:     "E420",
		Message:  "another interaction is in flight for this user",
		UserKey:  "error.busy",
		Severity: SeverityLow,
	}
}
