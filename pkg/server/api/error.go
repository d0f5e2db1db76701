package api

import (
	"errors"
	"net/http"

	rpnErrors "intlab/rpncalc/pkg/rpn/errors"
)

// ErrorResponse wraps every error returned by the API.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error and determines the status code.
	Type string `json:"type"`

	// Code is a machine-readable code. For evaluation errors it is the
	// error kind, for example "divide_by_zero".
	Code string `json:"code,omitempty"`

	// Param names the request field at fault.
	Param string `json:"param,omitempty"`

	// Position is the rune offset in the normalized input, when known.
	Position *int `json:"position,omitempty"`

	// Symbol is the offending character or token.
	Symbol string `json:"symbol,omitempty"`

	// Context shows the input around Position with a caret.
	Context string `json:"context,omitempty"`

	// Suggestion is a hint for fixing the input.
	Suggestion string `json:"suggestion,omitempty"`
}

// Error types.
const (
	ErrorTypeInvalidRequest   = "invalid_request_error" // 400
	ErrorTypeAuthentication   = "authentication_error"  // 401
	ErrorTypeNotFound         = "not_found"             // 404
	ErrorTypeTooLarge         = "request_too_large"     // 413
	ErrorTypeEvaluation       = "evaluation_error"      // 422
	ErrorTypeRateLimit        = "rate_limit_exceeded"   // 429
	ErrorTypeServerError      = "server_error"          // 500
	ErrorTypeUnavailable      = "service_unavailable"   // 503
	ErrorTypeMethodNotAllowed = "method_not_allowed"    // 405
)

// Error codes for request problems.
const (
	CodeInvalidJSON  = "invalid_json"
	CodeMissingField = "missing_field"
	CodeInvalidValue = "invalid_value"
	CodeBodyTooLarge = "body_too_large"
	CodeTooLong      = "expression_too_long"

	CodeMissingAPIKey  = "missing_api_key"
	CodeInvalidAPIKey  = "invalid_api_key"
	CodeDisabledAPIKey = "disabled_api_key"
)

// StatusCode returns the HTTP status for an error type.
func StatusCode(errorType string) int {
	switch errorType {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorTypeTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorTypeEvaluation:
		return http.StatusUnprocessableEntity
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewError creates an error response.
func NewError(errorType, code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Message: message, Type: errorType, Code: code}}
}

// NewInvalidRequestError creates a 400 error for a request field.
func NewInvalidRequestError(code, param, message string) *ErrorResponse {
	resp := NewError(ErrorTypeInvalidRequest, code, message)
	resp.Error.Param = param
	return resp
}

// NewServerError creates a 500 error.
func NewServerError(message string) *ErrorResponse {
	return NewError(ErrorTypeServerError, "", message)
}

// FromEvaluationError converts an expression failure into a 422 error with
// its kind, position and hint. Other errors become server errors.
func FromEvaluationError(err error) *ErrorResponse {
	var e *rpnErrors.Error
	if !errors.As(err, &e) {
		return NewServerError(err.Error())
	}

	detail := ErrorDetail{
		Message:    e.Message,
		Type:       ErrorTypeEvaluation,
		Code:       string(e.Kind),
		Symbol:     e.Symbol,
		Suggestion: e.Suggestion,
	}
	if e.HasPosition() {
		pos := e.Position
		detail.Position = &pos
		if e.Input != "" {
			detail.Context = rpnErrors.ExtractContext(e.Input, e.Position)
		}
	}
	return &ErrorResponse{Error: detail}
}
