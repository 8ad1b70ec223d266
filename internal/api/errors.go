package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error is a backend rejection. Detail carries the server's human-readable
// explanation when one was present in the response body.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("backend: status %d", e.StatusCode)
}

// BackendDetail returns the server's detail string. It exists so callers
// can read the detail through a local interface instead of importing this
// package.
func (e *Error) BackendDetail() string { return e.Detail }

// Detail extracts the operator-facing text from err: a backend detail
// string when present, otherwise the fallback. Transport failures with no
// response also fall through to the fallback.
func Detail(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &envelope) == nil {
		apiErr.Detail = envelope.Detail
	}
	return apiErr
}
