// ABOUTME: Groups the chat stream into calendar weeks ending on Sunday
// ABOUTME: Mirrors how episodes were cut from the conversation

package episode

import (
	"time"

	"github.com/nainya/journeylens/pkg/journey"
)

// Week is a run of consecutive messages that fall before a Sunday cut-off
type Week struct {
	Start    time.Time             `json:"start"` // date of the first message
	End      time.Time             `json:"end"`   // the Sunday closing the week
	Messages []journey.ChatMessage `json:"messages"`
}

// GroupByWeek chunks chats in list order. A message dated after the current
// week's Sunday opens a new week. Messages with unreadable timestamps are
// skipped.
func GroupByWeek(chats []journey.ChatMessage) []Week {
	var weeks []Week
	var cur *Week

	for _, chat := range chats {
		ts, err := journey.ParseTimestamp(chat.Timestamp)
		if err != nil {
			continue
		}
		date := journey.Date(ts)

		if cur == nil || date.After(cur.End) {
			if cur != nil {
				weeks = append(weeks, *cur)
			}
			cur = &Week{Start: date, End: endOfWeek(date)}
		}
		cur.Messages = append(cur.Messages, chat)
	}
	if cur != nil {
		weeks = append(weeks, *cur)
	}

	return weeks
}

func endOfWeek(date time.Time) time.Time {
	return date.AddDate(0, 0, (7-int(date.Weekday()))%7)
}
