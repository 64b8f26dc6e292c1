package dto

import "net/http"

// statusByCode maps domain error codes to HTTP statuses. UNBOUND_USER
// is a hard 403: the user is authenticated but cannot act until an
// administrator links a sales rep.
var statusByCode = map[string]int{
	"INVALID_INPUT":  http.StatusBadRequest,
	"UNAUTHORIZED":   http.StatusUnauthorized,
	"USER_NOT_FOUND": http.StatusUnauthorized,
	"FORBIDDEN":      http.StatusForbidden,
	"UNBOUND_USER":   http.StatusForbidden,
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,
	"INVALID_STATE":  http.StatusConflict,
}

// GetHTTPStatus returns the status for a domain error code,
// defaulting to 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
