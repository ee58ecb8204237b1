// weeks.go implements "journeyd weeks" for the calendar-week breakdown.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nainya/journeylens/pkg/episode"
)

func newWeeksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "weeks",
		Short: "Group the conversation into calendar weeks ending on Sunday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.loadDataset()
			if err != nil {
				return err
			}

			weeks := episode.GroupByWeek(data.Chats)
			t := newTable(fmt.Sprintf("%d weeks", len(weeks)), "#", "From", "To", "Messages", "First")
			for i, w := range weeks {
				first := ""
				if len(w.Messages) > 0 {
					first = truncate(w.Messages[0].Text, 48)
				}
				t.addRow(
					fmt.Sprint(i+1),
					w.Start.Format("Jan 2"),
					w.End.Format("Jan 2"),
					fmt.Sprint(len(w.Messages)),
					first,
				)
			}
			fmt.Fprint(cmd.OutOrStdout(), t)
			return nil
		},
	}
}
