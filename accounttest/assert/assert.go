package assert

import (
	"reflect"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
)

// Tester is the part of testing.TB used by the assertions.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test if value is not nil. Typed nil pointers, maps and
// slices are nil as well. Errors are printed with their stack trace.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails the test if want and got are not deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test if fn returns without a panic.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("want a panic")
		}
	}()
	fn()
}

// IsErr fails the test unless got is want or wraps it.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q error, got %+v", want, got)
}

// FieldError fails the test unless err holds exactly one error for given
// field and that error is of the wanted kind. A nil want requires that no
// error was reported for the field.
func FieldError(t Tester, err error, fieldName string, want *errors.Error) {
	t.Helper()
	found := errors.FieldErrors(err, fieldName)
	switch {
	case want == nil && len(found) != 0:
		t.Fatalf("want no %s error, got %v", fieldName, found)
	case want == nil:
	case len(found) == 0:
		t.Fatalf("no %s error in %+v", fieldName, err)
	case len(found) > 1:
		t.Fatalf("want a single %s error, got %d: %v", fieldName, len(found), found)
	case !want.Is(found[0]):
		t.Fatalf("want %q %s error, got %+v", want, fieldName, found[0])
	}
}

// HasEvent fails the test if no event of given type was emitted. The first
// matching event is returned.
func HasEvent(t Tester, events []smartaccount.Event, eventType string) smartaccount.Event {
	t.Helper()
	for _, ev := range events {
		if ev.Type == eventType {
			return ev
		}
	}
	t.Fatalf("event %q not found in %d events", eventType, len(events))
	return smartaccount.Event{}
}

// NoEvent fails the test if an event of given type was emitted.
func NoEvent(t Tester, events []smartaccount.Event, eventType string) {
	t.Helper()
	if n := EventCount(events, eventType); n != 0 {
		t.Fatalf("unexpected event %q emitted %d times", eventType, n)
	}
}

// EventCount returns the number of events of given type.
func EventCount(events []smartaccount.Event, eventType string) int {
	var n int
	for _, ev := range events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}
