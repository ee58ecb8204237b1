// ABOUTME: Associates chat messages with an episode's 7-day window
// ABOUTME: Parses the episode start date and filters chats by calendar date

package episode

import (
	"fmt"
	"strings"
	"time"

	"github.com/nainya/journeylens/pkg/journey"
	"github.com/nainya/journeylens/pkg/query"
)

// WindowDays is the length of every episode window
const WindowDays = 7

// DefaultYear is the year episode dates are read in
const DefaultYear = 2025

var monthLayouts = []string{"January 2 2006", "Jan 2 2006"}

// Window is the end-exclusive date range of an episode
type Window = query.TimeRange

// ParseWindow reads "<Month> <Day>" from the first two tokens of dateRange.
func ParseWindow(dateRange string, year int) (Window, error) {
	fields := strings.Fields(dateRange)
	if len(fields) < 2 {
		return Window{}, fmt.Errorf("%w: date range %q: want \"<Month> <Day>\"", journey.ErrDataFormat, dateRange)
	}

	day := strings.TrimRight(fields[1], ",.;:-–")
	value := fmt.Sprintf("%s %s %d", fields[0], day, year)
	for _, layout := range monthLayouts {
		if start, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return Window{Start: start, End: start.AddDate(0, 0, WindowDays)}, nil
		}
	}
	return Window{}, fmt.Errorf("%w: date range %q: cannot read start date", journey.ErrDataFormat, dateRange)
}

// Associate returns the chats dated inside the episode window, in their
// original order. A bad date range yields an empty result and an error
// wrapping journey.ErrDataFormat.
func Associate(ep journey.Episode, chats []journey.ChatMessage, year int) ([]journey.ChatMessage, error) {
	w, err := ParseWindow(ep.DateRange, year)
	if err != nil {
		return []journey.ChatMessage{}, err
	}
	return query.Run(chats, query.NewBuilder().Between(w.Start, w.End).Build()), nil
}
