// ABOUTME: Journey data model for the recorded coaching conversation
// ABOUTME: Defines chat messages, episodes and decision traces as loaded from JSON

package journey

import "strings"

// RoleMember is the role of the person being coached. Every other role is a
// team member.
const RoleMember = "member"

// ChatMessage is a single message of the journey
type ChatMessage struct {
	ID        string `json:"id"`     // Unique message identifier (e.g. "M42")
	Timestamp string `json:"ts"`     // Date-time string, see ParseTimestamp
	Sender    string `json:"sender"` // Display name of the author
	Role      string `json:"role"`   // "member" or a team role
	Text      string `json:"text"`   // Free text, may carry a [DECISION:id=...] tag
}

// IsMember reports whether the message was written by the member.
func (m ChatMessage) IsMember() bool {
	return m.Role == RoleMember
}

// Episode is a named 7-day window of the journey
type Episode struct {
	Title     string `json:"title"`
	DateRange string `json:"date_range"` // "<Month> <Day> ..." start of the window
}

// DecisionTrace explains a coaching decision referenced from chat text
type DecisionTrace struct {
	DecisionID string   `json:"decision_id"`
	Summary    string   `json:"summary"`
	Trigger    string   `json:"trigger"`
	Rationale  []string `json:"rationale"`
	Owner      string   `json:"owner"`
}

// Dataset holds the bundled episodes and chats. It is never mutated after load.
type Dataset struct {
	Episodes []Episode
	Chats    []ChatMessage

	byID map[string]int
}

// NewDataset indexes episodes and chats for lookups.
func NewDataset(episodes []Episode, chats []ChatMessage) *Dataset {
	byID := make(map[string]int, len(chats))
	for i, c := range chats {
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = i
		}
	}
	return &Dataset{Episodes: episodes, Chats: chats, byID: byID}
}

// Episode returns the episode at index i.
func (d *Dataset) Episode(i int) (Episode, bool) {
	if i < 0 || i >= len(d.Episodes) {
		return Episode{}, false
	}
	return d.Episodes[i], true
}

// MessageByID returns the first message with the given id.
func (d *Dataset) MessageByID(id string) (ChatMessage, bool) {
	i, ok := d.byID[strings.TrimSpace(id)]
	if !ok {
		return ChatMessage{}, false
	}
	return d.Chats[i], true
}
