package dto

import "net/http"

// API error codes. Every error envelope carries one of these in error.code.
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation       = "ERR_VALIDATION"
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
	ErrCodeBadRequest       = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput     = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON      = "ERR_INVALID_JSON"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"

	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeInvalidState rejects a status change the record cannot make,
	// such as retrying an archival job that is already done
	ErrCodeInvalidState = "ERR_INVALID_STATE"

	// ErrCodeFileTooLarge covers both oversized uploads and request bodies
	ErrCodeFileTooLarge     = "ERR_FILE_TOO_LARGE"
	ErrCodeUnsupportedMedia = "ERR_UNSUPPORTED_MEDIA"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	ErrCodeTimeout     = "ERR_TIMEOUT"
)

var statusByCode = map[string]int{
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeValidationFormat: http.StatusBadRequest,
	ErrCodeValidationLength: http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeTokenInvalid:     http.StatusUnauthorized,
	ErrCodeTokenRevoked:     http.StatusUnauthorized,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeFileTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeUnsupportedMedia: http.StatusBadRequest,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodeTimeout:          http.StatusGatewayTimeout,
}

// GetHTTPStatus returns the status for an API error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// codeByDomainCode translates the codes raised by the domain and upload
// services. The upload codes are the ones returned by upload.Service.
var codeByDomainCode = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"INVALID_EMAIL":           ErrCodeValidationFormat,
	"INVALID_PASSWORD":        ErrCodeValidationLength,
	"PASSWORD_HASH_ERROR":     ErrCodeInternal,
	"FILE_TOO_LARGE":          ErrCodeFileTooLarge,
	"DISALLOWED_CONTENT_TYPE": ErrCodeUnsupportedMedia,
	"CONTENT_TYPE_MISMATCH":   ErrCodeUnsupportedMedia,
}

// NormalizeErrorCode converts a domain error code to its API code. Codes it
// does not know pass through unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := codeByDomainCode[code]; ok {
		return apiCode
	}
	return code
}
