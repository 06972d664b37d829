package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failed push. StatusCode is 0 when no response was received
// (network error, timeout, cancelled context).
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return "remote: " + e.Err.Error()
	case e.Message != "":
		return fmt.Sprintf("remote: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	default:
		return fmt.Sprintf("remote: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Permanent reports whether retrying the same request is unlikely to help:
// a 4xx other than 408 Request Timeout and 429 Too Many Requests.
func (e *Error) Permanent() bool {
	if e.StatusCode < 400 || e.StatusCode >= 500 {
		return false
	}
	return e.StatusCode != http.StatusRequestTimeout && e.StatusCode != http.StatusTooManyRequests
}

// IsPermanent reports whether err carries a permanent *Error.
func IsPermanent(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Permanent()
}
