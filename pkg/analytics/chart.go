// ABOUTME: Chart series derived from a Report
// ABOUTME: Bar chart for adherence and stress, pie chart for team engagement

package analytics

// Dataset is one series of a chart
type Dataset struct {
	Label  string   `json:"label"`
	Data   []int    `json:"data"`
	Colors []string `json:"colors"`
}

// Chart is a labelled set of series
type Chart struct {
	Title    string    `json:"title"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Charts is everything the dashboard draws
type Charts struct {
	Adherence  Chart `json:"adherence"`
	Engagement Chart `json:"engagement"`
}

var pieColors = []string{
	"rgba(255, 99, 132, 0.6)",
	"rgba(54, 162, 235, 0.6)",
	"rgba(255, 206, 86, 0.6)",
	"rgba(75, 192, 192, 0.6)",
	"rgba(153, 102, 255, 0.6)",
	"rgba(255, 159, 64, 0.6)",
}

// BuildCharts lays out r as dashboard charts.
func BuildCharts(r Report) Charts {
	workouts := make([]int, len(Months))
	missed := make([]int, len(Months))
	stress := make([]int, len(Months))
	for i, m := range Months {
		metric := r.Monthly[m]
		workouts[i] = metric.Workout
		missed[i] = metric.Missed
		stress[i] = metric.Stress
	}

	labels := append([]string(nil), Months...)
	adherence := Chart{
		Title:  "Member Adherence & Stress Trends",
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Workouts Completed", Data: workouts, Colors: []string{"rgba(75, 192, 192, 0.6)"}},
			{Label: "Workouts Missed", Data: missed, Colors: []string{"rgba(255, 99, 132, 0.6)"}},
			{Label: "Mentions of Stress", Data: stress, Colors: []string{"rgba(255, 206, 86, 0.6)"}},
		},
	}

	counts := make([]int, len(r.Senders))
	colors := make([]string, len(r.Senders))
	for i, s := range r.Senders {
		counts[i] = r.Engagement[s]
		colors[i] = pieColors[i%len(pieColors)]
	}
	engagement := Chart{
		Title:    "Team Engagement Distribution",
		Labels:   append([]string{}, r.Senders...),
		Datasets: []Dataset{{Label: "# of Messages", Data: counts, Colors: colors}},
	}

	return Charts{Adherence: adherence, Engagement: engagement}
}

// Max returns the largest value across all datasets, or 0 for an empty chart.
func (c Chart) Max() int {
	top := 0
	for _, ds := range c.Datasets {
		for _, v := range ds.Data {
			top = max(top, v)
		}
	}
	return top
}
