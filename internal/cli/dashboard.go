// dashboard.go implements "journeyd dashboard" for terminal analytics.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nainya/journeylens/pkg/analytics"
)

const barWidth = 30

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print monthly adherence and team engagement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.loadDataset()
			if err != nil {
				return err
			}

			report := analytics.Aggregate(data.Chats)
			charts := analytics.BuildCharts(report)
			out := cmd.OutOrStdout()

			adherence := newTable(charts.Adherence.Title, "Month", "Workouts", "Missed", "Stress")
			for _, m := range analytics.Months {
				metric := report.Monthly[m]
				adherence.addRow(m,
					strconv.Itoa(metric.Workout),
					strconv.Itoa(metric.Missed),
					strconv.Itoa(metric.Stress))
			}
			fmt.Fprintln(out, adherence)

			engagement := newTable(charts.Engagement.Title, "Team member", "Messages", "")
			top := charts.Engagement.Max()
			for _, sender := range report.Senders {
				n := report.Engagement[sender]
				engagement.addRow(sender, strconv.Itoa(n), barStyle.Render(strings.Repeat("█", scale(n, top, barWidth))))
			}
			fmt.Fprint(out, engagement)

			if report.Skipped > 0 {
				fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("%d messages had unreadable timestamps", report.Skipped)))
			}
			return nil
		},
	}
}

// scale maps v in [0, top] onto [0, width]
func scale(v, top, width int) int {
	if top <= 0 {
		return 0
	}
	return v * width / top
}
