package assert

import (
	"fmt"
	"testing"

	smartaccount "github.com/iov-one/smartaccount"
	"github.com/iov-one/smartaccount/errors"
)

// recorder counts failures instead of stopping the test.
type recorder struct {
	failures []string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatal(args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprint(args...))
}

func (r *recorder) Fatalf(format string, args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

// expect runs fn against a recorder and checks the number of failures.
func expect(t *testing.T, wantFailures int, fn func(Tester)) {
	t.Helper()
	r := &recorder{}
	fn(r)
	if len(r.failures) != wantFailures {
		t.Fatalf("want %d failures, got %d: %q", wantFailures, len(r.failures), r.failures)
	}
}

func TestNil(t *testing.T) {
	var nilErr *errors.Error
	var nilMap map[string]int
	expect(t, 0, func(r Tester) { Nil(r, nil) })
	expect(t, 0, func(r Tester) { Nil(r, nilErr) })
	expect(t, 0, func(r Tester) { Nil(r, nilMap) })
	expect(t, 1, func(r Tester) { Nil(r, errors.ErrEmpty) })
	expect(t, 1, func(r Tester) { Nil(r, 0) })
	expect(t, 1, func(r Tester) { Nil(r, "") })
}

func TestEqualAndPanics(t *testing.T) {
	expect(t, 0, func(r Tester) { Equal(r, []byte("a"), []byte("a")) })
	expect(t, 1, func(r Tester) { Equal(r, uint32(1), 1) })
	expect(t, 0, func(r Tester) { Panics(r, func() { panic("boom") }) })
	expect(t, 1, func(r Tester) { Panics(r, func() {}) })
}

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		want     error
		got      error
		failures int
	}{
		"same error": {
			want: errors.ErrEmpty,
			got:  errors.ErrEmpty,
		},
		"wrapped": {
			want: errors.ErrEmpty,
			got:  errors.Wrap(errors.ErrEmpty, "role"),
		},
		"both nil": {},
		"nil wanted": {
			got:      errors.ErrEmpty,
			failures: 1,
		},
		"another error": {
			want:     errors.ErrEmpty,
			got:      errors.ErrState.New("migrating"),
			failures: 1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			expect(t, tc.failures, func(r Tester) { IsErr(r, tc.want, tc.got) })
		})
	}
}

func TestFieldError(t *testing.T) {
	keyErr := errors.Field("PublicKey", errors.ErrInput, "too short")

	cases := map[string]struct {
		err      error
		field    string
		want     *errors.Error
		failures int
	}{
		"single matching error": {
			err:   keyErr,
			field: "PublicKey",
			want:  errors.ErrInput,
		},
		"error of another kind": {
			err:      keyErr,
			field:    "PublicKey",
			want:     errors.ErrEmpty,
			failures: 1,
		},
		"no error wanted and none found": {
			err:   keyErr,
			field: "Role",
		},
		"no error wanted but one found": {
			err:      keyErr,
			field:    "PublicKey",
			failures: 1,
		},
		"error wanted but none found": {
			err:      keyErr,
			field:    "Role",
			want:     errors.ErrEmpty,
			failures: 1,
		},
		"two errors of the same field": {
			err:      errors.Append(keyErr, errors.Field("PublicKey", errors.ErrInput, "not on curve")),
			field:    "PublicKey",
			want:     errors.ErrInput,
			failures: 1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			expect(t, tc.failures, func(r Tester) { FieldError(r, tc.err, tc.field, tc.want) })
		})
	}
}

func TestEvents(t *testing.T) {
	events := []smartaccount.Event{
		smartaccount.NewEvent("signer/added", "key", "a"),
		smartaccount.NewEvent("signer/added", "key", "b"),
	}

	var ev smartaccount.Event
	expect(t, 0, func(r Tester) { ev = HasEvent(r, events, "signer/added") })
	if v, _ := ev.Attr("key"); v != "a" {
		t.Fatalf("want the first event, got %q", v)
	}
	expect(t, 1, func(r Tester) { HasEvent(r, events, "signer/revoked") })

	// Both matching events are reported with a single failure.
	expect(t, 1, func(r Tester) { NoEvent(r, events, "signer/added") })
	expect(t, 0, func(r Tester) { NoEvent(r, events, "signer/revoked") })

	if n := EventCount(events, "signer/added"); n != 2 {
		t.Fatalf("want 2 events, got %d", n)
	}
}
