package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidToken     = fmt.Errorf("invalid access token")
	ErrMissingCallback  = fmt.Errorf("no authorization code or token received")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and transport errors
	ErrNetwork          = fmt.Errorf("network error")
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrInvalidResponse  = fmt.Errorf("invalid response")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrNoSelection      = fmt.Errorf("no tracks selected")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
