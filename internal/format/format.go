// Package format renders durations, ratios and file sizes for terminal output.
package format

import (
	"fmt"
	"time"
)

// Duration formats d as MM:SS, or HH:MM:SS from one hour on.
// Fractions of a second are truncated so chunk boundaries never round up
// past the end of the audio.
func Duration(d time.Duration) string {
	total := int64(max(d, 0) / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// DurationHuman formats an elapsed time compactly.
// Examples: "850ms", "45s", "2m5s", "1h30m", "2h".
func DurationHuman(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d/time.Millisecond)
	case d < time.Minute:
		return fmt.Sprintf("%ds", d/time.Second)
	case d < time.Hour:
		m, s := d/time.Minute, (d%time.Minute)/time.Second
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h, m := d/time.Hour, (d%time.Hour)/time.Minute
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}

// Percent returns part as a whole-number share of whole, "0%" when whole is zero.
func Percent(part, whole time.Duration) string {
	if whole <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int64(part)*100/int64(whole))
}

// Size formats a byte count with binary units and one decimal above 1 KB.
// Examples: "512 bytes", "1.5 KB", "30.2 MB".
func Size(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d bytes", bytes)
	}
	value := float64(bytes) / unit
	for _, suffix := range []string{"KB", "MB"} {
		if value < unit {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
		value /= unit
	}
	return fmt.Sprintf("%.1f GB", value)
}
