package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Root errors shared by all packages. Extensions register their own codes
// starting at 1000.
var (
	ErrUnauthorized = Register(2, "unauthorized")
	ErrNotFound     = Register(3, "not found")
	ErrModel        = Register(5, "invalid model")
	ErrDuplicate    = Register(6, "duplicate")
	// ErrHuman marks code paths that can be reached only by a programming
	// mistake.
	ErrHuman    = Register(7, "coding error")
	ErrEmpty    = Register(9, "value is empty")
	ErrState    = Register(10, "invalid state")
	ErrType     = Register(11, "invalid type")
	ErrInput    = Register(14, "invalid input")
	ErrDatabase = Register(17, "database")

	// ErrPanic is the result of a recovered panic. Its message is never
	// exposed outside of the debug mode.
	ErrPanic = Register(111222, "panic")
)

// registered holds descriptions of all used codes. Code 1 is reserved for
// errors that carry no code.
var registered = map[uint32]string{internalCode: internalLog}

// Register declares a new root error. It panics if the code is already
// taken, so it must be called only from package level variable
// declarations.
func Register(code uint32, description string) *Error {
	if prev, ok := registered[code]; ok {
		panic(fmt.Sprintf("error code %d already registered as %q", code, prev))
	}
	registered[code] = description
	return &Error{code: code, desc: description}
}

// Error is a root error. Errors created at runtime wrap a root error, which
// gives them a code that can be tested with Is.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the code the error was registered with.
func (e Error) Code() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is a shortcut for Wrapf(e, format, args...).
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is returns true if err is this root error or wraps it. Grouped errors
// match if any of them does.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	for err != nil {
		if root, ok := err.(*Error); ok && root == e {
			return true
		}
		switch x := err.(type) {
		case unpacker:
			for _, inner := range x.Unpack() {
				if e.Is(inner) {
					return true
				}
			}
			return false
		case causer:
			err = x.Cause()
		default:
			return false
		}
	}
	return false
}

// Wrap prefixes err with a description. It returns nil if err is nil. The
// innermost wrap records a stack trace.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap allows the use of the standard library errors.Is and errors.As.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Format prints the stack trace after the message for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	st := stackTrace(e)
	if verb != 'v' || !s.Flag('+') || st == nil {
		fmt.Fprint(s, e.Error())
		return
	}
	fmt.Fprintf(s, "%s%+v", e.Error(), st)
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the outermost stack trace found in the cause chain.
func stackTrace(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}
