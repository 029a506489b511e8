package common

import "fmt"

// FormatTimecode renders seconds as H:MM:SS for display in citations.
// Fractional seconds are truncated; negative values clamp to 0:00:00.
func FormatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
