// ABOUTME: Timestamp parsing for chat records
// ABOUTME: Fixed layouts first, then a permissive parser as fallback

package journey

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var timestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006 Jan 2",
	"2006 Jan 2 15:04",
	"2006 January 2",
	"2006 January 2 15:04",
}

// ParseTimestamp parses a chat timestamp in UTC.
func ParseTimestamp(ts string) (time.Time, error) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrDataFormat)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, time.UTC); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseIn(ts, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", ErrDataFormat, ts, err)
	}
	return t, nil
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
