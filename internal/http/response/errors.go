package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
)

// StatusForCode maps an aggregate error code to an HTTP status.
func StatusForCode(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeValidationRejected:
		return http.StatusForbidden
	case domainagg.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodeSubstrateFailure, domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondAggregateError writes err with its breadcrumb as the message.
// Errors without an aggregate code are internal.
func RespondAggregateError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	RespondError(c, StatusForCode(code), string(code), err)
}
