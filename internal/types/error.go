package types

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error kinds carried in CustomError.Type
const (
	KindValidation  = "validation"
	KindParse       = "parse"
	KindNotFound    = "notfound"
	KindAuth        = "auth"
	KindStorage     = "storage"
	KindUpstream    = "upstream"
	KindRateLimit   = "ratelimit"
	KindPersistence = "persistence"
)

type CustomError struct {
	Code       int           `json:"code"`
	Message    string        `json:"message"`
	Type       string        `json:"type"`
	RetryAfter time.Duration `json:"-"`
	Err        error         `json:"-"`
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s [type: %s]: %v", e.Code, e.Message, e.Type, e.Err)
	}
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError reports bad caller input (400)
func NewValidationError(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: KindValidation}
}

// NewParseError reports bytes that could not be read as a spreadsheet (400)
func NewParseError(message string, err error) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: KindParse, Err: err}
}

// NewNotFoundError reports an unknown record id (404)
func NewNotFoundError(message string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: message, Type: KindNotFound}
}

// NewAuthError reports a missing or invalid identity (401)
func NewAuthError(message string) *CustomError {
	return &CustomError{Code: http.StatusUnauthorized, Message: message, Type: KindAuth}
}

// NewForbiddenError reports an identity lacking the required role (403)
func NewForbiddenError(message string) *CustomError {
	return &CustomError{Code: http.StatusForbidden, Message: message, Type: KindAuth}
}

// NewStorageError reports an object store failure (502)
func NewStorageError(message string, err error) *CustomError {
	return &CustomError{Code: http.StatusBadGateway, Message: message, Type: KindStorage, Err: err}
}

// NewUpstreamError reports an unusable AI service (502)
func NewUpstreamError(message string, err error) *CustomError {
	return &CustomError{Code: http.StatusBadGateway, Message: message, Type: KindUpstream, Err: err}
}

// NewRateLimitError reports an exhausted AI quota (429)
func NewRateLimitError(message string, retryAfter time.Duration, err error) *CustomError {
	return &CustomError{Code: http.StatusTooManyRequests, Message: message, Type: KindRateLimit, RetryAfter: retryAfter, Err: err}
}

// NewPersistenceError reports a record store failure (500)
func NewPersistenceError(message string, err error) *CustomError {
	return &CustomError{Code: http.StatusInternalServerError, Message: message, Type: KindPersistence, Err: err}
}

// IsKind reports whether err carries a CustomError of the given kind
func IsKind(err error, kind string) bool {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Type == kind
	}
	return false
}

// AsCustomError unwraps err to a CustomError, if it holds one
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
