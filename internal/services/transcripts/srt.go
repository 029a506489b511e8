package transcripts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ternarybob/verba/internal/models"
)

// ParseSRT parses SubRip subtitle text into ordered transcript segments.
//
//	1
//	00:00:00,000 --> 00:00:01,830
//	I'm happy to
//	have you here today.
//
// Consecutive text lines of one cue are joined into a single segment.
// Malformed cues (bad timestamps) are skipped rather than failing the whole
// parse.
func ParseSRT(text string) []models.Segment {
	if text == "" {
		return nil
	}

	var segments []models.Segment
	var current *models.Segment

	flush := func() {
		if current != nil && strings.TrimSpace(current.Text) != "" {
			current.Text = strings.TrimSpace(current.Text)
			segments = append(segments, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			flush()
			continue
		}

		// Sequence numbers carry no timing or text
		if isDigitOnly(line) {
			continue
		}

		// Timestamp line: HH:MM:SS,mmm --> HH:MM:SS,mmm
		if strings.Contains(line, "-->") {
			flush()
			parts := strings.Split(line, "-->")
			if len(parts) != 2 {
				continue
			}
			start, errStart := parseSRTTimestamp(strings.TrimSpace(parts[0]))
			end, errEnd := parseSRTTimestamp(strings.TrimSpace(parts[1]))
			if errStart != nil || errEnd != nil {
				continue
			}
			current = &models.Segment{StartSeconds: start, EndSeconds: end}
			continue
		}

		if current != nil {
			if current.Text != "" {
				current.Text += " "
			}
			current.Text += line
		}
	}
	flush()

	return segments
}

// parseSRTTimestamp converts "HH:MM:SS,mmm" to seconds. A dot separator for
// milliseconds is tolerated.
func parseSRTTimestamp(ts string) (float64, error) {
	ts = strings.Replace(ts, ".", ",", 1)

	var millis float64
	if i := strings.Index(ts, ","); i >= 0 {
		ms, err := strconv.Atoi(ts[i+1:])
		if err != nil {
			return 0, fmt.Errorf("invalid milliseconds in timestamp %q", ts)
		}
		millis = float64(ms) / 1000
		ts = ts[:i]
	}

	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	s, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	return float64(h*3600+m*60+s) + millis, nil
}

func isDigitOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
