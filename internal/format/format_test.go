package format_test

// Notes:
// - Durations come from sample counts, so sub-second inputs are common and
//   are covered explicitly.
// - Realistic large values only (a day of audio, a few GB of WAV).

import (
	"testing"
	"time"

	"github.com/alnah/voicechunk/internal/format"
)

// ---------------------------------------------------------------------------
// TestDuration - MM:SS or HH:MM:SS, truncated
// ---------------------------------------------------------------------------

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{name: "zero", input: 0, want: "00:00"},
		{name: "negative clamps to zero", input: -time.Second, want: "00:00"},
		{name: "fraction truncated", input: 1999 * time.Millisecond, want: "00:01"},
		{name: "boundary: 59 seconds", input: 59 * time.Second, want: "00:59"},
		{name: "boundary: exactly 1 minute", input: time.Minute, want: "01:00"},
		{name: "minutes and seconds", input: 5*time.Minute + 30*time.Second, want: "05:30"},
		{name: "boundary: 59:59", input: time.Hour - time.Second, want: "59:59"},
		{name: "boundary: exactly 1 hour", input: time.Hour, want: "01:00:00"},
		{name: "full", input: 2*time.Hour + 15*time.Minute + 45*time.Second, want: "02:15:45"},
		{name: "a day of audio", input: 24 * time.Hour, want: "24:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := format.Duration(tt.input); got != tt.want {
				t.Errorf("Duration(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDurationHuman - Compact elapsed time
// ---------------------------------------------------------------------------

func TestDurationHuman(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "0ms"},
		{850 * time.Millisecond, "850ms"},
		{time.Second, "1s"},
		{45*time.Second + 900*time.Millisecond, "45s"},
		{time.Minute, "1m"},
		{2*time.Minute + 5*time.Second, "2m5s"},
		{time.Hour, "1h"},
		{time.Hour + 30*time.Minute + 10*time.Second, "1h30m"},
	}

	for _, tt := range tests {
		if got := format.DurationHuman(tt.input); got != tt.want {
			t.Errorf("DurationHuman(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPercent / TestSize
// ---------------------------------------------------------------------------

func TestPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		part, whole time.Duration
		want        string
	}{
		{90 * time.Second, 2 * time.Minute, "75%"},
		{time.Second, 3 * time.Second, "33%"},
		{time.Minute, time.Minute, "100%"},
		{0, time.Minute, "0%"},
		{time.Second, 0, "0%"},
	}

	for _, tt := range tests {
		if got := format.Percent(tt.part, tt.whole); got != tt.want {
			t.Errorf("Percent(%v, %v) = %q, want %q", tt.part, tt.whole, got, tt.want)
		}
	}
}

func TestSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input int64
		want  string
	}{
		{0, "0 bytes"},
		{44, "44 bytes"},
		{1023, "1023 bytes"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{960044, "937.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{31666432, "30.2 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := format.Size(tt.input); got != tt.want {
			t.Errorf("Size(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
