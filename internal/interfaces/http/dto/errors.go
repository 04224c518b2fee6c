package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Domain error codes carry their own HTTP status; codes not listed here
// fall back to prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeInternal:     http.StatusInternalServerError,

	"NOT_FOUND":            http.StatusNotFound,
	"FORBIDDEN":            http.StatusForbidden,
	"ALREADY_EXISTS":       http.StatusConflict,
	"EMAIL_TAKEN":          http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SAME_STATUS":          http.StatusConflict,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,

	// State guards: the request is well-formed but the record's state
	// does not allow the operation
	"INVALID_STATE":         http.StatusConflict,
	"ARCHIVED":              http.StatusConflict,
	"NOT_ARCHIVED":          http.StatusConflict,
	"HAS_ACTIVE_WORK":       http.StatusConflict,
	"STAFF_STILL_ACTIVE":    http.StatusConflict,
	"CLIENT_ACTIVE":         http.StatusConflict,
	"TASK_COMPLETED":        http.StatusConflict,
	"HAS_FINANCIAL_HISTORY": http.StatusConflict,
	"ADVANCE_ALREADY_PAID":  http.StatusConflict,
	"BILL_PAID":             http.StatusConflict,
	"BILL_NOT_ISSUED":       http.StatusUnprocessableEntity,

	"CLIENT_NOT_FOUND":   http.StatusUnprocessableEntity,
	"ASSIGNEE_NOT_FOUND": http.StatusUnprocessableEntity,
	"ASSIGNEE_INACTIVE":  http.StatusUnprocessableEntity,
}

// GetHTTPStatus maps an error code to an HTTP status
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
