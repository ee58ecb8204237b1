package server

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nainya/journeylens/internal/logger"
	"github.com/nainya/journeylens/internal/metrics"
	"github.com/nainya/journeylens/pkg/decision"
	"github.com/nainya/journeylens/pkg/journey"
)

func testDataset() *journey.Dataset {
	return journey.NewDataset(
		[]journey.Episode{
			{Title: "Kickoff", DateRange: "January 6 - January 12"},
			{Title: "Broken", DateRange: "TBD"},
			{Title: "Quiet week", DateRange: "February 3"},
		},
		[]journey.ChatMessage{
			{ID: "M1", Timestamp: "2025-01-06 08:00", Sender: "Rohan", Role: "member", Text: "Stress is high, missed my workout"},
			{ID: "M2", Timestamp: "2025-01-07 09:00", Sender: "Ruby", Role: "concierge", Text: "Plan set [DECISION:id=D1]"},
			{ID: "M3", Timestamp: "2025-01-08 09:00", Sender: "Advik", Role: "performance", Text: "Zone 2 workout [DECISION:id=D2] drivers:M1"},
			{ID: "M4", Timestamp: "2025-03-20 09:00", Sender: "Ruby", Role: "concierge", Text: "Checking in"},
		},
	)
}

func testDecisions() decision.MapStore {
	return decision.MapStore{
		"D1": {DecisionID: "D1", Summary: "Weekly plan", Trigger: "Kickoff", Rationale: []string{"baseline"}, Owner: "Ruby"},
		"D2": {DecisionID: "D2", Summary: "Zone 2 block", Trigger: "M1", Rationale: []string{"recovery", "stress"}, Owner: "Advik"},
	}
}

// newTestService returns a Service over the fixture data with its own registry
func newTestService(t *testing.T) (*Service, *metrics.Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	svc := NewService(testDataset(), testDecisions(), Options{
		Year:    2025,
		Logger:  logger.Nop(),
		Metrics: m,
	})
	return svc, m, reg
}
