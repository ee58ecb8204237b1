// ABOUTME: Chat query types and fluent builder
// ABOUTME: Filters over the in-memory chat list, combined with AND

package query

import (
	"time"
)

// Query filters chat messages. Zero-valued fields do not filter.
type Query struct {
	Sender        string     // Exact sender name
	Role          string     // Exact role
	TeamOnly      bool       // Exclude member messages
	Keyword       string     // Case-insensitive substring of the text
	DecisionsOnly bool       // Only messages carrying a decision tag
	Range         *TimeRange // Calendar-date window
	Limit         int        // Maximum results, 0 for all
}

// TimeRange is an end-exclusive window of calendar dates
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of t lies in [Start, End).
func (r TimeRange) Contains(t time.Time) bool {
	y, m, d := t.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !date.Before(r.Start) && date.Before(r.End)
}

// Builder provides fluent interface for building queries
type Builder struct {
	query Query
}

// NewBuilder creates a new query builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Sender restricts results to one sender
func (b *Builder) Sender(name string) *Builder {
	b.query.Sender = name
	return b
}

// Role restricts results to one role
func (b *Builder) Role(role string) *Builder {
	b.query.Role = role
	return b
}

// TeamOnly drops member messages
func (b *Builder) TeamOnly() *Builder {
	b.query.TeamOnly = true
	return b
}

// Keyword requires a case-insensitive substring
func (b *Builder) Keyword(kw string) *Builder {
	b.query.Keyword = kw
	return b
}

// DecisionsOnly keeps decision-bearing messages
func (b *Builder) DecisionsOnly() *Builder {
	b.query.DecisionsOnly = true
	return b
}

// Between restricts results to dates in [start, end)
func (b *Builder) Between(start, end time.Time) *Builder {
	b.query.Range = &TimeRange{Start: start, End: end}
	return b
}

// Limit sets the result limit
func (b *Builder) Limit(limit int) *Builder {
	b.query.Limit = limit
	return b
}

// Build returns the constructed query
func (b *Builder) Build() Query {
	return b.query
}
