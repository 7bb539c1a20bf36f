package logging

import (
	"github.com/pkg/errors"
)

// Stacktrace is the field that WithStacktrace writes the stack trace to.
const Stacktrace = "stacktrace"

// ExtractStack returns the outermost stack trace recorded by pkg/errors in the chain of err, or nil if there is none.
// Both Cause and Unwrap are followed so errors wrapped with fmt.Errorf("%w") are searched too.
func ExtractStack(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(interface{ StackTrace() errors.StackTrace }); ok {
			return st.StackTrace()
		}
		switch e := err.(type) {
		case interface{ Cause() error }:
			err = e.Cause()
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		default:
			return nil
		}
	}
	return nil
}
