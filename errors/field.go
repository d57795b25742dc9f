package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches the name of an invalid field to err. It returns nil if err
// is nil.
//
// Names follow the Go field names. Nested fields are joined with a dot and
// list elements are referred to by their index, for example
// Role.Policies.2.NotAfter.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField adds a field error to errs. Nothing is added if fieldErr is
// nil.
func AppendField(errs error, fieldName string, fieldErr error) error {
	return Append(errs, Field(fieldName, fieldErr, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

func (e *fieldError) Field() string {
	return e.field
}

type fielder interface {
	Field() string
}

// FieldErrors returns all errors created for given field. The search stops
// at the outermost match of each branch, so a field error wrapping another
// error of the same field is returned once.
func FieldErrors(err error, fieldName string) []error {
	var res []error
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok && f.Field() == fieldName {
			return append(res, err)
		}
		switch x := err.(type) {
		case unpacker:
			for _, inner := range x.Unpack() {
				res = append(res, FieldErrors(inner, fieldName)...)
			}
			return res
		case causer:
			err = x.Cause()
		default:
			return res
		}
	}
	return res
}
