package pokeapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any HTTPError carrying a 404 status.
var ErrNotFound = errors.New("not found")

// TransportError reports that the service could not be reached at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "network error: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError reports a non-2xx response.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("api request failed: %d %s", e.Status, http.StatusText(e.Status))
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// DecodeError reports a response body that is not the expected JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError reports a caller-supplied argument that can never succeed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason) }

// ErrorInfo is the displayable form of any error surfaced by a query.
type ErrorInfo struct {
	Message    string
	StatusCode int // zero when the failure carried no HTTP status
}

// NotFound reports whether the error is the dedicated not-found state.
func (e *ErrorInfo) NotFound() bool {
	return e != nil && e.StatusCode == http.StatusNotFound
}

// Info normalizes err into an ErrorInfo. It returns nil for a nil error.
func Info(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.Status == http.StatusNotFound:
			return &ErrorInfo{Message: "pokemon not found", StatusCode: httpErr.Status}
		case httpErr.Status >= http.StatusInternalServerError:
			return &ErrorInfo{Message: "server error occurred", StatusCode: httpErr.Status}
		default:
			return &ErrorInfo{Message: err.Error(), StatusCode: httpErr.Status}
		}
	}
	return &ErrorInfo{Message: err.Error()}
}
