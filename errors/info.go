package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// SuccessCode is the code of a nil error.
const SuccessCode = 0

const (
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the code and the message describing the result of a call.
//
// Errors without a code get the internal code 1. Outside of the debug mode
// the message of such errors, as well as of recovered panics, is replaced
// by a generic one. In debug mode the message carries the stack trace.
func Info(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessCode, ""
	}
	if debug {
		return code(err), fmt.Sprintf("%+v", err)
	}
	return code(err), Redact(err, false).Error()
}

// Redact replaces errors that do not wrap a registered error, and recovered
// panics, with a generic internal error. In debug mode err is returned
// unchanged.
func Redact(err error, debug bool) error {
	if debug || isNilErr(err) {
		return err
	}
	if ErrPanic.Is(err) || code(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}

type coder interface {
	Code() uint32
}

// code returns the code of the first error in the cause chain that has one.
func code(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		x, ok := err.(causer)
		if !ok {
			break
		}
		err = x.Cause()
	}
	return internalCode
}

// isNilErr returns true for nil and for typed nil pointers, such as a nil
// *Error stored in an error interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
