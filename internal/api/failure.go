package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// FailureKind classifies why a call did not produce a usable result.
type FailureKind int

const (
	// FailureNetwork means the request never completed: dial errors, timeouts,
	// cancelled contexts.
	FailureNetwork FailureKind = iota
	// FailureServer means the API answered with a non-2xx status.
	FailureServer
	// FailureMalformed means the body could not be decoded into the expected shape.
	FailureMalformed
	// FailureInvalid means the call was rejected before any request was sent.
	FailureInvalid
)

func (k FailureKind) String() string {
	switch k {
	case FailureNetwork:
		return "network"
	case FailureServer:
		return "server"
	case FailureMalformed:
		return "malformed"
	case FailureInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Failure is the only error type returned by Client calls.
type Failure struct {
	Kind       FailureKind
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureServer:
		if f.Message != "" {
			return fmt.Sprintf("Server error (%d) on %s: %s", f.StatusCode, f.Endpoint, f.Message)
		}
		return fmt.Sprintf("Server error (%d) on %s", f.StatusCode, f.Endpoint)
	case FailureMalformed:
		return fmt.Sprintf("Unexpected response from %s: %v", f.Endpoint, f.Err)
	case FailureInvalid:
		return fmt.Sprintf("Invalid request to %s: %v", f.Endpoint, f.Err)
	default:
		return fmt.Sprintf("Could not reach API (%s): %v", f.Endpoint, f.Err)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// serverFailure builds a Failure from an error response, preferring the API's
// own "error" or "message" field over the bare status text.
func serverFailure(endpoint string, resp *http.Response) *Failure {
	f := &Failure{
		Kind:       FailureServer,
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || len(body) == 0 {
		return f
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			f.Message = msg
			return f
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			f.Message = msg
		}
	}
	return f
}

func invalid(endpoint, reason string) *Failure {
	return &Failure{Kind: FailureInvalid, Endpoint: endpoint, Err: errors.New(reason)}
}
