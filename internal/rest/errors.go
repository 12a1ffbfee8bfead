package rest

import (
	"errors"
	"fmt"
)

// GenericFailureMessage is shown when the server gave no usable message.
const GenericFailureMessage = "Something went wrong. Please try again."

// ErrRejected marks a well-formed response with success=false.
var ErrRejected = errors.New("request rejected by server")

// RequestError is a network or server failure. It is transient: the
// caller may retry the same request.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int    // 0 when no response arrived
	Message    string // server-provided message, if any
	Err        error
}

func (e *RequestError) Error() string {
	detail := e.Message
	if detail == "" && e.Err != nil {
		detail = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, detail)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, detail)
}

func (e *RequestError) Unwrap() error { return e.Err }

// UserMessage picks the text to show for err: the server's message when a
// RequestError carries one, else GenericFailureMessage.
func UserMessage(err error) string {
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return GenericFailureMessage
}
