package errors

import (
	"io"
	"testing"
)

func TestInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"success": {
			wantCode: SuccessCode,
		},
		"typed nil": {
			err:      (*Error)(nil),
			wantCode: SuccessCode,
		},
		"root error": {
			err:      ErrDuplicate,
			wantCode: ErrDuplicate.code,
			wantLog:  "duplicate",
		},
		"wrapped root error keeps all descriptions": {
			err:      Wrap(ErrNotFound.New("signer"), "revoke"),
			wantCode: ErrNotFound.code,
			wantLog:  "revoke: signer: not found",
		},
		"error without code is hidden": {
			err:      Wrap(io.ErrUnexpectedEOF, "read bundle"),
			wantCode: internalCode,
			wantLog:  internalLog,
		},
		"error without code in debug mode": {
			err:      io.ErrUnexpectedEOF,
			debug:    true,
			wantCode: internalCode,
			wantLog:  "unexpected EOF",
		},
		"recovered panic is hidden": {
			err:      Wrap(ErrPanic, "index out of range"),
			wantCode: ErrPanic.code,
			wantLog:  internalLog,
		},
		"grouped errors use the first declared code": {
			err:      Append(io.EOF, Wrap(ErrDuplicate, "signer")),
			wantCode: ErrDuplicate.code,
			wantLog:  "2 errors occurred:\n\t* EOF\n\t* signer: duplicate\n\n",
		},
		"code declared by a custom type": {
			err:      customErr{},
			wantCode: 999,
			wantLog:  "custom",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := Info(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want code %d, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic, false); ErrPanic.Is(err) {
		t.Error("redact must not pass through panic error")
	}
	if err := Redact(ErrPanic, true); !ErrPanic.Is(err) {
		t.Error("redact should pass through panic error in debug mode")
	}
	if err := Redact(io.EOF, false); err.Error() != "internal error" {
		t.Errorf("unexpected stdlib error message: %q", err)
	}
	if err := Redact(ErrUnauthorized, false); !ErrUnauthorized.Is(err) {
		t.Error("registered error must be passed through")
	}
}

// customErr is a custom implementation of an error that provides a Code
// method.
type customErr struct{}

func (customErr) Code() uint32 { return 999 }

func (customErr) Error() string { return "custom" }
