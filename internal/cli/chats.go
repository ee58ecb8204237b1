// chats.go implements "journeyd chats" for filtering the conversation.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nainya/journeylens/pkg/journey"
	"github.com/nainya/journeylens/pkg/query"
)

type chatsFlags struct {
	sender    string
	role      string
	keyword   string
	team      bool
	decisions bool
	from      string
	to        string
	limit     int
}

func newChatsCmd(a *app) *cobra.Command {
	var f chatsFlags

	cmd := &cobra.Command{
		Use:   "chats",
		Short: "Search chat messages",
		Long: `Search the conversation by sender, role, keyword or date. --from and
--to take calendar dates; --to is exclusive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.build()
			if err != nil {
				return err
			}
			data, err := a.loadDataset()
			if err != nil {
				return err
			}

			results := query.Run(data.Chats, q)
			t := newTable(fmt.Sprintf("%d messages", len(results)), "ID", "Time", "Sender", "Role", "Text")
			for _, c := range results {
				t.addRow(c.ID, c.Timestamp, c.Sender, c.Role, truncate(c.Text, 72))
			}
			fmt.Fprint(cmd.OutOrStdout(), t)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.sender, "sender", "", "Only messages from this sender")
	cmd.Flags().StringVar(&f.role, "role", "", "Only messages with this role")
	cmd.Flags().StringVarP(&f.keyword, "query", "q", "", "Case-insensitive text search")
	cmd.Flags().BoolVar(&f.team, "team", false, "Only team messages")
	cmd.Flags().BoolVar(&f.decisions, "decisions", false, "Only messages carrying a decision tag")
	cmd.Flags().StringVar(&f.from, "from", "", "First calendar date (e.g. 2025-01-06)")
	cmd.Flags().StringVar(&f.to, "to", "", "Calendar date after the last one")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Maximum number of messages (0 for all)")
	return cmd
}

func (f chatsFlags) build() (query.Query, error) {
	if f.limit < 0 {
		return query.Query{}, fmt.Errorf("--limit must not be negative")
	}

	b := query.NewBuilder().
		Sender(f.sender).
		Role(f.role).
		Keyword(f.keyword).
		Limit(f.limit)
	if f.team {
		b.TeamOnly()
	}
	if f.decisions {
		b.DecisionsOnly()
	}

	if f.from != "" || f.to != "" {
		start, end := time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		var err error
		if f.from != "" {
			if start, err = journey.ParseTimestamp(f.from); err != nil {
				return query.Query{}, fmt.Errorf("--from: %w", err)
			}
		}
		if f.to != "" {
			if end, err = journey.ParseTimestamp(f.to); err != nil {
				return query.Query{}, fmt.Errorf("--to: %w", err)
			}
		}
		b.Between(journey.Date(start), journey.Date(end))
	}
	return b.Build(), nil
}
