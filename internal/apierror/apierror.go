// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Redirect tells the storefront where to send the user, e.g. to sign in.
type APIError struct {
	Detail   string `json:"detail"`
	Redirect string `json:"redirect,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func NewRedirect(msg, to string) *APIError {
	return &APIError{Detail: msg, Redirect: to}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
