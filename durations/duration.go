// Package durations parses and formats durations with a day unit, and provides
// a Duration type that round-trips through JSON and MessagePack.
package durations

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Day is 24 hours. Daylight saving changes are ignored.
const Day = 24 * time.Hour

var (
	// ErrInvalidDuration indicates a string that is neither a Go duration nor
	// a day-suffixed duration.
	ErrInvalidDuration = errors.New("invalid duration")

	dayPattern = regexp.MustCompile(`^(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)
	dayUnits   = []time.Duration{Day, time.Hour, time.Minute, time.Second}
)

// Parse accepts anything time.ParseDuration does, plus strings with a day
// component such as "2d", "1d12h" or "3d4h5m6s". A leading sign is allowed.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	body, neg := s, false
	switch {
	case strings.HasPrefix(body, "-"):
		body, neg = body[1:], true
	case strings.HasPrefix(body, "+"):
		body = body[1:]
	}

	matches := dayPattern.FindStringSubmatch(body)
	if body == "" || matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	var d time.Duration
	for i, match := range matches[1:] {
		if match == "" {
			continue
		}

		n, err := strconv.ParseInt(match, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: segment %q: %v", ErrInvalidDuration, match, err)
		}
		d += time.Duration(n) * dayUnits[i]
	}

	if neg {
		d = -d
	}

	return d, nil
}

// Format renders d as days, hours, minutes and seconds, e.g. "1d2h3m4s", with
// zero components left out. Durations under a second use time.Duration's own
// format; longer ones are truncated to whole seconds.
func Format(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}

	if d < time.Second {
		b.WriteString(d.String())
		return b.String()
	}

	for i, unit := range dayUnits {
		n := d / unit
		if n == 0 {
			continue
		}
		d -= n * unit

		b.WriteString(strconv.FormatInt(int64(n), 10))
		b.WriteByte("dhms"[i])
	}

	return b.String()
}

// Duration is a time.Duration that marshals to its string form and unmarshals
// from a string (see Parse) or a number of nanoseconds.
type Duration time.Duration

var (
	_ json.Marshaler        = Duration(0)
	_ json.Unmarshaler      = (*Duration)(nil)
	_ msgpack.CustomEncoder = Duration(0)
	_ msgpack.CustomDecoder = (*Duration)(nil)
)

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := Parse(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("%w: unsupported JSON value %s", ErrInvalidDuration, b)
	}
}

// EncodeMsgpack writes d as an integer number of nanoseconds.
func (d Duration) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeInt(int64(d))
}

// DecodeMsgpack reads an integer number of nanoseconds or a duration string.
func (d *Duration) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return err
	}

	switch value := v.(type) {
	case int64:
		*d = Duration(value)
	case uint64:
		*d = Duration(int64(value))
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := Parse(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("%w: unsupported msgpack value %T", ErrInvalidDuration, v)
	}

	return nil
}
