package dto

import "net/http"

// HTTP-layer error codes for failures that never reach the domain
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain and HTTP-layer error codes to status codes.
// Codes produced by the domain layer keep their names on the wire.
var ErrorCodeHTTPStatus = map[string]int{
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"VALIDATION_ERROR":     http.StatusBadRequest,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"PRECONDITION_FAILED":  http.StatusPreconditionFailed,
	"PROVIDER_TIMEOUT":     http.StatusGatewayTimeout,
	"PROVIDER_ERROR":       http.StatusBadGateway,
	"EMPTY_RESULT":         http.StatusNotFound,
	"PERSISTENCE_ERROR":    http.StatusInternalServerError,
	"UNAUTHORIZED":         http.StatusUnauthorized,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
