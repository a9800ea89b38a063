package apperror

// Error codes returned in the response envelope.
//
//	validation and computation failures  INVALID_INPUT     400
//	authentication                       UNAUTHORIZED      401
//	authorization                        FORBIDDEN         403
//	missing record                       NOT_FOUND         404
//	duplicate record or key in flight    CONFLICT          409
//	rate limited                         TOO_MANY_REQUESTS 429
//	dependency failure                   INTERNAL_ERROR    500
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeTooMany       = "TOO_MANY_REQUESTS"
	CodeInternalError = "INTERNAL_ERROR"
)
