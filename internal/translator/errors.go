package translator

import (
	"errors"
	"fmt"
)

// ErrRequestFailed is wrapped by every *RequestError.
var ErrRequestFailed = errors.New("translation request failed")

// ErrorKind classifies a failed translation call.
type ErrorKind string

const (
	KindRequest ErrorKind = "request" // request could not be built or encoded
	KindNetwork ErrorKind = "network" // transport error, timeout, cancellation
	KindBackend ErrorKind = "backend" // non-2xx status
	KindParse   ErrorKind = "parse"   // 2xx with an undecodable body
)

type RequestError struct {
	Kind       ErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.Kind == KindBackend && e.Body != "":
		return fmt.Sprintf("%s: backend returned status %d: %s", ErrRequestFailed, e.StatusCode, e.Body)
	case e.Kind == KindBackend:
		return fmt.Sprintf("%s: backend returned status %d", ErrRequestFailed, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", ErrRequestFailed, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrRequestFailed, e.Kind)
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequestFailed}
	}
	return []error{ErrRequestFailed, e.Err}
}

// KindOf returns the kind of a *RequestError anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
