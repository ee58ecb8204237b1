package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildCharts(t *testing.T) {
	charts := BuildCharts(Aggregate(sampleChats()))

	if diff := cmp.Diff(Months, charts.Adherence.Labels); diff != "" {
		t.Errorf("Adherence labels (-want +got):\n%s", diff)
	}
	if len(charts.Adherence.Datasets) != 3 {
		t.Fatalf("Expected 3 datasets, got %d", len(charts.Adherence.Datasets))
	}

	workouts := charts.Adherence.Datasets[0]
	if workouts.Label != "Workouts Completed" {
		t.Errorf("Unexpected label %q", workouts.Label)
	}
	if diff := cmp.Diff([]int{2, 0, 0, 0, 0, 0, 0, 1}, workouts.Data); diff != "" {
		t.Errorf("Workout series (-want +got):\n%s", diff)
	}

	pie := charts.Engagement
	if diff := cmp.Diff([]string{"Ruby", "Dr. Warren", "Advik"}, pie.Labels); diff != "" {
		t.Errorf("Pie labels (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 1, 1}, pie.Datasets[0].Data); diff != "" {
		t.Errorf("Pie data (-want +got):\n%s", diff)
	}
	if len(pie.Datasets[0].Colors) != 3 {
		t.Errorf("Expected a colour per slice, got %v", pie.Datasets[0].Colors)
	}

	if charts.Adherence.Max() != 2 {
		t.Errorf("Max = %d, want 2", charts.Adherence.Max())
	}
}

func TestBuildChartsCyclesColors(t *testing.T) {
	r := Report{Monthly: map[string]MonthlyMetric{}, Engagement: map[string]int{}}
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		r.Senders = append(r.Senders, s)
		r.Engagement[s] = 1
	}

	colors := BuildCharts(r).Engagement.Datasets[0].Colors
	if colors[6] != colors[0] {
		t.Errorf("Expected the seventh colour to wrap, got %s vs %s", colors[6], colors[0])
	}
}
