// ABOUTME: Decision tag extraction from chat text
// ABOUTME: Recognises [DECISION:id=...] tags and drivers:M1,M2 annotations

package decision

import (
	"regexp"
	"strings"
)

var (
	tagPattern     = regexp.MustCompile(`\[DECISION:id=([^\]]+)\]`)
	driversPattern = regexp.MustCompile(`drivers:([M\d,]+)`)
)

// ExtractID returns the identifier of the first decision tag in text.
// Malformed tags (no closing bracket, empty id) are not decision tags.
func ExtractID(text string) (string, bool) {
	m := tagPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	id := strings.TrimSpace(m[1])
	return id, id != ""
}

// IsDecision reports whether text carries a well-formed decision tag.
func IsDecision(text string) bool {
	_, ok := ExtractID(text)
	return ok
}

// ExtractDrivers returns the message ids listed after "drivers:".
func ExtractDrivers(text string) []string {
	m := driversPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(m[1], ",") {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
