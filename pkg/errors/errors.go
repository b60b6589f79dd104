package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation             Code = "VALIDATION_ERROR"
	CodeInvalidQuantity        Code = "INVALID_QUANTITY"
	CodeInvalidOptionSelection Code = "INVALID_OPTION_SELECTION"
	CodeUnauthorized           Code = "UNAUTHORIZED"
	CodeForbidden              Code = "FORBIDDEN"
	CodeNotFound               Code = "NOT_FOUND"
	CodeConflict               Code = "CONFLICT"
	CodeIdempotency            Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit              Code = "RATE_LIMITED"
	CodeInconsistentCart       Code = "INCONSISTENT_CART"
	CodeUpstreamUnavailable    Code = "UPSTREAM_UNAVAILABLE"
	CodeInternal               Code = "INTERNAL_ERROR"
	CodeDependency             Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeInvalidQuantity: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "invalid quantity",
		DetailsAllowed: true,
	},
	CodeInvalidOptionSelection: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "invalid option selection",
		DetailsAllowed: true,
	},
	CodeUnauthorized: {
		HTTPStatus:    http.StatusUnauthorized,
		PublicMessage: "authentication required",
	},
	CodeForbidden: {
		HTTPStatus:    http.StatusForbidden,
		PublicMessage: "access denied",
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
	},
	CodeConflict: {
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "conflict detected",
	},
	CodeIdempotency: {
		HTTPStatus:     http.StatusConflict,
		PublicMessage:  "idempotency key reused",
		DetailsAllowed: true,
	},
	CodeRateLimit: {
		HTTPStatus:    http.StatusTooManyRequests,
		Retryable:     true,
		PublicMessage: "too many requests",
	},
	CodeInconsistentCart: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "cart integrity violation",
	},
	CodeUpstreamUnavailable: {
		HTTPStatus:    http.StatusServiceUnavailable,
		Retryable:     true,
		PublicMessage: "please try again",
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "internal server error",
	},
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
}

// MetadataFor returns the transport metadata for code, defaulting to CodeInternal.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed error carried across service and transport layers.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Retryable reports whether callers may retry the failed operation.
func (e *Error) Retryable() bool {
	return MetadataFor(e.Code()).Retryable
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the provided code anywhere in its chain.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

// NotFound reports a missing restaurant, menu item, cart or order.
func NotFound(resource string, id any) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource)).WithDetails(map[string]any{
		"resource": resource,
		"id":       fmt.Sprint(id),
	})
}

// InvalidQuantity rejects an add/update whose quantity falls outside [min, max].
func InvalidQuantity(quantity, min, max int) *Error {
	return New(CodeInvalidQuantity, fmt.Sprintf("quantity must be between %d and %d", min, max)).WithDetails(map[string]any{
		"quantity": quantity,
		"min":      min,
		"max":      max,
	})
}

// InvalidOptionSelection rejects an add/update whose option choice does not match the menu.
func InvalidOptionSelection(reason string) *Error {
	return New(CodeInvalidOptionSelection, reason)
}

// UpstreamUnavailable marks a failed or timed-out collaborator fetch.
func UpstreamUnavailable(collaborator string, err error) *Error {
	return Wrap(CodeUpstreamUnavailable, err, fmt.Sprintf("%s unavailable", collaborator)).WithDetails(map[string]any{
		"collaborator": collaborator,
	})
}

// InconsistentCart marks a stored cart that spans more than one restaurant.
func InconsistentCart(message string) *Error {
	return New(CodeInconsistentCart, message)
}
