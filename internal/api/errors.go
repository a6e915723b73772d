package api

import (
	"fmt"
	"net/http"
)

// noContentStatuses are the success codes of a mutation. 1223 is the legacy
// code some clients report in place of 204.
var noContentStatuses = []int{http.StatusNoContent, 1223}

// HTTPFailure is any non-success status or transport failure.
// Message is fit to show to a user.
type HTTPFailure struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPFailure) Error() string {
	return e.Message
}

func (e *HTTPFailure) Unwrap() error {
	return e.Err
}

// Transport reports whether the request never got a response.
func (e *HTTPFailure) Transport() bool {
	return e.Status == 0
}

func transportFailure(err error) *HTTPFailure {
	return &HTTPFailure{Message: fmt.Sprintf("request failed: %v", err), Err: err}
}

func statusFailure(status int, body []byte) *HTTPFailure {
	if msg, ok := extractAPIErrorBody(body); ok {
		return &HTTPFailure{Status: status, Message: msg}
	}
	if text := http.StatusText(status); text != "" {
		return &HTTPFailure{Status: status, Message: text}
	}
	return &HTTPFailure{Status: status, Message: fmt.Sprintf("HTTP %d", status)}
}

func statusIn(status int, want []int) bool {
	for _, w := range want {
		if status == w {
			return true
		}
	}
	return false
}
