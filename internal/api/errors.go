package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnavailable wraps transport-level failures (connection refused, DNS,
// timeout). Callers use it to tell "portal unreachable" apart from a
// well-formed rejection.
var ErrUnavailable = errors.New("exam portal unavailable")

// APIError is a non-2xx reply from a portal service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// IsUnauthorized reports whether err is an HTTP 401 from the portal.
// Authentication failures are the one fatal path during exam initialization.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// decodeAPIError pulls a human-readable message out of an error reply. The
// services are inconsistent here: some send {"message": ...}, some
// {"error": ...}, some a bare string.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if strings.TrimSpace(payload.Message) != "" {
			apiErr.Message = payload.Message
		} else if strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}
