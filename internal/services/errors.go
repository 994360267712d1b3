package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/radar/internal/shared"
)

// NetworkErrorMessage is shown for every transport failure.
const NetworkErrorMessage = "Network error"

// APIError is a failure reported by the backend, or a success payload that failed validation.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.Status, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() []error {
	if e.Err != nil {
		return []error{shared.ErrAPIRequest, e.Err}
	}
	return []error{shared.ErrAPIRequest}
}

// ErrorMessage maps err to the text shown to the user.
//
// Transport failures become [NetworkErrorMessage], backend failures their message, anything else fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, shared.ErrNetwork) {
		return NetworkErrorMessage
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// backendMessage extracts {"error": "..."} from body, or returns fallback.
func backendMessage(body []byte, fallback string) string {
	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	switch v := payload.Error.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case map[string]any:
		if msg, ok := v["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return fallback
}
