package backendsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a failure reported by the backend.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the backend's machine-readable error code, when it sent one.
	Code string

	// Message is fit to show to users.
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("backend %d: %s", e.StatusCode, e.Message)
}

// parseErrorResponse turns a non-2xx response into an *APIError. The message
// is the first non-empty of "message", "error" and "details", then a generic
// line built from the status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		apiErr.Message = firstText(fields, "message", "error", "details")
		apiErr.Code = firstText(fields, "code", "errorCode")
	}

	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("API request failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return apiErr
}

// firstText returns the first field holding a non-empty value. Strings are
// used as is; other JSON values are re-encoded.
func firstText(fields map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := fields[k].(type) {
		case nil:
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		default:
			b, err := json.Marshal(v)
			if err == nil && len(b) > 0 && string(b) != "{}" && string(b) != "[]" {
				return string(b)
			}
		}
	}
	return ""
}
