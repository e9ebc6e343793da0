// Package tools implements the function-dispatch subsystem: the static
// router the language model's tool calls go through, and the numerology
// handlers behind it.
//
// The wire contract is fixed: a call carries a function name and a flat
// argument mapping (string/number leaf values as decoded from the model's
// JSON); the result is always a JSON-serializable mapping, either a success
// payload or {"error": <kind>, "message": <text>}. Handlers never panic
// outward and the router never returns anything but a well-formed result.
package tools

import "fmt"

// Error kinds carried in failure results.
const (
	ErrInvalidInput    = "InvalidInput"
	ErrUnknownFunction = "UnknownFunction"
	ErrUpstreamFailure = "UpstreamFailure"
)

// Result is the JSON-serializable outcome of a tool call.
type Result map[string]any

// Errorf builds a failure result with a user-safe message.
func Errorf(kind, format string, args ...any) Result {
	return Result{
		"error":   kind,
		"message": fmt.Sprintf(format, args...),
	}
}

// IsError reports whether r is a failure result and returns its kind.
func (r Result) IsError() (string, bool) {
	kind, ok := r["error"].(string)
	return kind, ok
}
