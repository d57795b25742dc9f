package errors

import (
	"github.com/hashicorp/go-multierror"
)

// Append clubs together all provided errors. Nil values are ignored. Errors
// that already group other errors are flattened.
//
// If no non-nil error is given, nil is returned. A single error is returned
// as it is.
func Append(errs ...error) error {
	var flat []error
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if u, ok := err.(unpacker); ok {
			flat = append(flat, u.Unpack()...)
			continue
		}
		flat = append(flat, err)
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}

	m := &multierror.Error{
		ErrorFormat: multierror.ListFormatFunc,
	}
	return &multiErr{me: multierror.Append(m, flat...)}
}

// multiErr groups errors using the hashicorp implementation and exposes them
// through the unpacker interface.
type multiErr struct {
	me *multierror.Error
}

func (m *multiErr) Error() string {
	return m.me.Error()
}

// Unpack returns all errors grouped by this instance.
func (m *multiErr) Unpack() []error {
	return m.me.Errors
}

// Code returns the code of the first grouped error that declares one.
func (m *multiErr) Code() uint32 {
	for _, e := range m.me.Errors {
		if c := code(e); c != internalCode {
			return c
		}
	}
	return internalCode
}

// unpacker is implemented by errors that group more than one error.
type unpacker interface {
	Unpack() []error
}
