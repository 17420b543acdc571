package dto

import (
	"net/http"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
)

// Error codes produced by the view API itself. Domain errors keep the
// codes of the shared taxonomy.
const (
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
	ErrCodeTooLarge    = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:   http.StatusBadRequest,
	shared.CodeUnauthorized: http.StatusUnauthorized,
	shared.CodeNotFound:     http.StatusNotFound,
	shared.CodeInvalidState: http.StatusConflict,
	// the store backend failed, not this process
	shared.CodeNetwork: http.StatusBadGateway,
	shared.CodeServer:  http.StatusBadGateway,

	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeRateLimited: http.StatusTooManyRequests,
	ErrCodeTooLarge:    http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
