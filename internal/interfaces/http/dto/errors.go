package dto

import (
	"net/http"

	"github.com/dms/backend/internal/domain/shared"
)

// Codes owned by the HTTP layer. Domain and rendering codes pass through as
// raised.
const (
	ErrCodeInternal = "ERR_INTERNAL"
	ErrCodeUpstream = "ERR_UPSTREAM"

	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeInvalidState  = "ERR_INVALID_STATE"
	ErrCodeRateLimited   = "ERR_RATE_LIMITED"
)

// codesByStatus groups every code with a fixed status. Domain codes missing
// here fall back to their class.
var codesByStatus = map[int][]string{
	http.StatusBadRequest: {
		ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON,
	},
	http.StatusUnauthorized: {
		ErrCodeUnauthorized, ErrCodeTokenExpired, ErrCodeTokenInvalid,
	},
	http.StatusForbidden: {
		ErrCodeForbidden, "DEALERSHIP_MISMATCH",
	},
	http.StatusNotFound: {
		ErrCodeNotFound, "ORDER_NOT_FOUND", "DOCUMENT_NOT_FOUND",
	},
	http.StatusConflict: {
		ErrCodeAlreadyExists, "BANK_PROFILE_EXISTS", "INSUFFICIENT_STOCK",
	},
	http.StatusRequestEntityTooLarge: {ErrCodeRequestTooLarge},
	http.StatusUnprocessableEntity:   {ErrCodeInvalidState},
	http.StatusTooManyRequests:       {ErrCodeRateLimited},
	http.StatusInternalServerError: {
		ErrCodeInternal, "RENDER_FAILED", "INVALID_HTML", "INVALID_PAPER_SIZE",
		"TEMPLATE_FAILED", "STORAGE_FAILED",
	},
	http.StatusNotImplemented:     {"PRESIGN_UNSUPPORTED"},
	http.StatusBadGateway:         {ErrCodeUpstream},
	http.StatusServiceUnavailable: {"BACKEND_UNAVAILABLE"},
	http.StatusGatewayTimeout:     {"RENDER_TIMEOUT"},
}

var statusByCode = func() map[string]int {
	m := make(map[string]int)
	for status, codes := range codesByStatus {
		for _, code := range codes {
			m[code] = status
		}
	}
	return m
}()

// GetHTTPStatus returns the status for code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

var classHTTPStatus = map[shared.ErrorClass]int{
	shared.ClassPrecondition: http.StatusUnprocessableEntity,
	shared.ClassTerminal:     http.StatusUnprocessableEntity,
	shared.ClassTransient:    http.StatusAccepted,
	shared.ClassUpstream:     http.StatusBadGateway,
}

// StatusForDomainError returns the status of err and the code to report it
// under. An explicit code entry wins over the error class.
func StatusForDomainError(err *shared.DomainError) (int, string) {
	code := NormalizeErrorCode(err.Code)
	if status, ok := statusByCode[code]; ok {
		return status, code
	}
	if status, ok := classHTTPStatus[err.Class]; ok {
		return status, code
	}
	return http.StatusUnprocessableEntity, code
}

// StatusForUpstream passes dealer API client errors through and turns
// everything else into 502
func StatusForUpstream(status int) int {
	if status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}

// sharedCodes are the generic domain codes that get the ERR_ prefix on the wire
var sharedCodes = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"INVALID_INPUT":    ErrCodeInvalidInput,
	"INVALID_STATE":    ErrCodeInvalidState,
	"UNAUTHORIZED":     ErrCodeUnauthorized,
	"FORBIDDEN":        ErrCodeForbidden,
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode maps a generic domain code to its wire form. Other codes
// are returned unchanged.
func NormalizeErrorCode(code string) string {
	if wire, ok := sharedCodes[code]; ok {
		return wire
	}
	return code
}
