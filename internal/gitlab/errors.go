package gitlab

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gl "github.com/xanzy/go-gitlab"
)

// TransientError is returned for failures that may succeed on a later attempt:
// network errors, timeouts, rate limiting and 5xx responses.
type TransientError struct {
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient GitLab error (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient GitLab error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// RequestError is returned for client errors and malformed responses.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GitLab request failed (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("GitLab request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// classifyError maps an error from the GitLab SDK onto TransientError or RequestError
func classifyError(err error) error {
	var errResp *gl.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		status := errResp.Response.StatusCode
		if status == http.StatusTooManyRequests || status >= 500 {
			return &TransientError{StatusCode: status, Err: err}
		}
		return &RequestError{StatusCode: status, Err: enhanceError(status, err)}
	}

	// go-gitlab reports 404 through a sentinel rather than an ErrorResponse
	if errors.Is(err, gl.ErrNotFound) {
		return &RequestError{StatusCode: http.StatusNotFound, Err: enhanceError(http.StatusNotFound, err)}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &RequestError{Err: fmt.Errorf("malformed response: %w", err)}
	}

	return &TransientError{Err: err}
}

// enhanceError adds hints for common authorization failures
func enhanceError(status int, err error) error {
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("authentication failed, check that GITLAB_API_TOKEN is valid: %w", err)
	case http.StatusForbidden:
		return fmt.Errorf("access denied, GITLAB_API_TOKEN may lack read_api scope: %w", err)
	case http.StatusNotFound:
		return fmt.Errorf("project or pipeline not found, or the token cannot see it: %w", err)
	}
	return err
}
