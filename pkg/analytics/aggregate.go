// ABOUTME: Dashboard aggregation over the chat list
// ABOUTME: Monthly keyword counts and per-sender team engagement in one pass

package analytics

import (
	"strings"

	"github.com/nainya/journeylens/pkg/journey"
)

// Months are the only month keys a report carries, in chart order.
var Months = []string{
	"January", "February", "March", "April",
	"May", "June", "July", "August",
}

// Keywords counted per month. Matches are independent of each other.
const (
	KeywordWorkout = "workout"
	KeywordMissed  = "missed"
	KeywordStress  = "stress"
)

// MonthlyMetric counts keyword mentions within one month
type MonthlyMetric struct {
	Workout int `json:"workout"`
	Missed  int `json:"missed"`
	Stress  int `json:"stress"`
}

// Total returns the sum of all three counters.
func (m MonthlyMetric) Total() int {
	return m.Workout + m.Missed + m.Stress
}

// Report is the result of Aggregate
type Report struct {
	Monthly    map[string]MonthlyMetric `json:"monthly"`
	Engagement map[string]int           `json:"engagement"`
	Senders    []string                 `json:"senders"` // engagement keys in first-seen order
	Skipped    int                      `json:"skipped"` // records with unreadable timestamps
}

// Aggregate computes monthly metrics and team engagement for chats.
// Messages outside January-August contribute nothing to Monthly. Engagement
// counts every non-member message regardless of its date.
func Aggregate(chats []journey.ChatMessage) Report {
	r := Report{
		Monthly:    make(map[string]MonthlyMetric, len(Months)),
		Engagement: make(map[string]int),
		Senders:    []string{},
	}
	for _, m := range Months {
		r.Monthly[m] = MonthlyMetric{}
	}

	for _, chat := range chats {
		if ts, err := journey.ParseTimestamp(chat.Timestamp); err != nil {
			r.Skipped++
		} else if metric, ok := r.Monthly[ts.Month().String()]; ok {
			text := strings.ToLower(chat.Text)
			if strings.Contains(text, KeywordWorkout) {
				metric.Workout++
			}
			if strings.Contains(text, KeywordMissed) {
				metric.Missed++
			}
			if strings.Contains(text, KeywordStress) {
				metric.Stress++
			}
			r.Monthly[ts.Month().String()] = metric
		}

		if !chat.IsMember() {
			if _, seen := r.Engagement[chat.Sender]; !seen {
				r.Senders = append(r.Senders, chat.Sender)
			}
			r.Engagement[chat.Sender]++
		}
	}

	return r
}
