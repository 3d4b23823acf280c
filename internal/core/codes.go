package core

// Machine-readable rejection codes returned to callers alongside the
// human-readable message. Clients switch on these, so they are part of the
// wire contract and must not change.
const (
	CodeNoToken       = "NO_TOKEN"
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeMissingToken  = "MISSING_TOKEN"
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeInvalidToken  = "INVALID_TOKEN"
	CodeUserNotFound  = "USER_NOT_FOUND"
	CodeAuthError     = "AUTH_ERROR"

	CodeRateLimit        = "RATE_LIMIT_EXCEEDED"
	CodeAuthRateLimit    = "AUTH_RATE_LIMIT_EXCEEDED"
	CodeUploadRateLimit  = "UPLOAD_RATE_LIMIT_EXCEEDED"
	CodeMessageRateLimit = "MESSAGE_RATE_LIMIT_EXCEEDED"

	CodeBackendError   = "BACKEND_ERROR"
	CodeBackendTimeout = "BACKEND_TIMEOUT"
)
