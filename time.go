package smartaccount

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/iov-one/smartaccount/errors"
)

// UnixTime is the ledger time in seconds since the epoch. It never
// decreases between two calls.
type UnixTime int64

// AsUnixTime truncates t to whole seconds.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add returns the time moved by d. Fractions of a second are dropped.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// Validate returns ErrState for times before the epoch.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.ErrState.Newf("time %d before epoch", int64(t))
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().UTC().Format(time.RFC3339)
}

// MarshalJSON encodes the time as a number.
func (t UnixTime) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(t), 10), nil
}

// UnmarshalJSON accepts a number, a quoted number as produced by amino or
// an RFC3339 string, which is handy in genesis files.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var (
		num  int64
		text string
	)
	switch {
	case json.Unmarshal(raw, &num) == nil:
	case json.Unmarshal(raw, &text) == nil:
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			num = n
			break
		}
		parsed, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "invalid time %q", text)
		}
		num = parsed.Unix()
	default:
		return errors.Wrap(errors.ErrInput, "time must be a number or a string")
	}
	if num < 0 {
		return errors.ErrInput.Newf("time %d before epoch", num)
	}
	*t = UnixTime(num)
	return nil
}
