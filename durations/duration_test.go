package durations

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1h30m", 90 * time.Minute, false},
		{"250ms", 250 * time.Millisecond, false},
		{"2d", 2 * Day, false},
		{"1d12h", Day + 12*time.Hour, false},
		{"3d4h5m6s", 3*Day + 4*time.Hour + 5*time.Minute + 6*time.Second, false},
		{"-1d", -Day, false},
		{" 7d ", 7 * Day, false},
		{"", 0, true},
		{"d", 0, true},
		{"1x", 0, true},
		{"1h1d", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDuration) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidDuration", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Microsecond, "1.5ms"},
		{90 * time.Second, "1m30s"},
		{Day + 2*time.Hour + 3*time.Minute + 4*time.Second, "1d2h3m4s"},
		{2 * Day, "2d"},
		{-(Day + time.Hour), "-1d1h"},
		{time.Hour + 500*time.Millisecond, "1h"},
	}

	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatParses(t *testing.T) {
	for _, d := range []time.Duration{time.Second, 3 * Day, 26*time.Hour + 61*time.Second} {
		got, err := Parse(Format(d))
		if err != nil {
			t.Fatalf("Parse(Format(%v)) error = %v", d, err)
		}
		if got != d {
			t.Errorf("Parse(Format(%v)) = %v", d, got)
		}
	}
}

func TestDurationJSON(t *testing.T) {
	var cfg struct {
		Timeout Duration `json:"timeout"`
		Retain  Duration `json:"retain"`
		Raw     Duration `json:"raw"`
	}

	in := `{"timeout":"1m30s","retain":"7d","raw":1000000000}`
	if err := json.Unmarshal([]byte(in), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if cfg.Timeout.Std() != 90*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Retain.Std() != 7*Day {
		t.Errorf("Retain = %v", cfg.Retain)
	}
	if cfg.Raw.Std() != time.Second {
		t.Errorf("Raw = %v", cfg.Raw)
	}

	out, err := json.Marshal(Duration(90 * time.Second))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `"1m30s"` {
		t.Errorf("Marshal() = %s", out)
	}

	var d Duration
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Error("expected error for boolean duration")
	}
}

func TestDurationMsgpack(t *testing.T) {
	type job struct {
		Every Duration
	}

	data, err := msgpack.Marshal(job{Every: Duration(36 * time.Hour)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got job
	if err := msgpack.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Every.Std() != 36*time.Hour {
		t.Errorf("Every = %v, want 36h", got.Every)
	}

	// Strings are accepted too.
	data, err = msgpack.Marshal(map[string]string{"Every": "2d"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := msgpack.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Every.Std() != 2*Day {
		t.Errorf("Every = %v, want 48h", got.Every)
	}
}
