// ABOUTME: Chat query execution
// ABOUTME: Single order-preserving pass over the chat list

package query

import (
	"strings"

	"github.com/nainya/journeylens/pkg/decision"
	"github.com/nainya/journeylens/pkg/journey"
)

// Run returns the chats matching q in their original order. Messages whose
// timestamp cannot be read never match a query with a Range.
func Run(chats []journey.ChatMessage, q Query) []journey.ChatMessage {
	keyword := strings.ToLower(q.Keyword)

	results := make([]journey.ChatMessage, 0)
	for _, chat := range chats {
		if q.Limit > 0 && len(results) >= q.Limit {
			break
		}
		if q.Sender != "" && chat.Sender != q.Sender {
			continue
		}
		if q.Role != "" && chat.Role != q.Role {
			continue
		}
		if q.TeamOnly && chat.IsMember() {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(chat.Text), keyword) {
			continue
		}
		if q.DecisionsOnly {
			if _, ok := decision.ExtractID(chat.Text); !ok {
				continue
			}
		}
		if q.Range != nil {
			ts, err := journey.ParseTimestamp(chat.Timestamp)
			if err != nil || !q.Range.Contains(ts) {
				continue
			}
		}
		results = append(results, chat)
	}

	return results
}
