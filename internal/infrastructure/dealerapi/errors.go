package dealerapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnavailable is returned when the backend cannot be reached
var ErrUnavailable = errors.New("dealer backend unavailable")

// APIError is a non-2xx answer from the backend.
// Message carries the backend's own text so it can be translated for the user.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("dealer api: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("dealer api: HTTP %d: %s", e.StatusCode, e.Message)
}

// UpstreamMessage returns the backend's own message text
func (e *APIError) UpstreamMessage() string {
	return e.Message
}

// UpstreamStatus returns the HTTP status of the backend answer
func (e *APIError) UpstreamStatus() int {
	return e.StatusCode
}

// IsNotFound reports whether err is a backend 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// errorBody covers the error shapes the backend uses:
// {"message": "..."}, {"error": "..."} and {"error": {"code": "...", "message": "..."}}
type errorBody struct {
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Error   json.RawMessage `json:"error"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Message = eb.Message
		apiErr.Code = eb.Code
		if len(eb.Error) > 0 {
			var s string
			var obj struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			}
			switch {
			case json.Unmarshal(eb.Error, &s) == nil:
				if apiErr.Message == "" {
					apiErr.Message = s
				}
			case json.Unmarshal(eb.Error, &obj) == nil:
				if apiErr.Message == "" {
					apiErr.Message = obj.Message
				}
				if apiErr.Code == "" {
					apiErr.Code = obj.Code
				}
			}
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
