// episodes.go implements "journeyd episodes" for listing episodes and showing one week.
package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nainya/journeylens/pkg/decision"
	"github.com/nainya/journeylens/pkg/journey"
	"github.com/nainya/journeylens/pkg/session"
)

func newEpisodesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "episodes",
		Short: "List journey episodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.loadDataset()
			if err != nil {
				return err
			}
			t := newTable("Episodes", "#", "Title", "Dates")
			for i, ep := range data.Episodes {
				t.addRow(strconv.Itoa(i), ep.Title, ep.DateRange)
			}
			fmt.Fprint(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.AddCommand(newEpisodeShowCmd(a))
	return cmd
}

func newEpisodeShowCmd(a *app) *cobra.Command {
	var openID string

	cmd := &cobra.Command{
		Use:   "show <index>",
		Short: "Show the conversation of one episode",
		Long: `Show the chats exchanged during the 7-day window that starts on the
episode's date. With --decision the rationale of a decision tagged in that
week is printed below the conversation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("episode index must be a number: %q", args[0])
			}
			data, err := a.loadDataset()
			if err != nil {
				return err
			}

			sess := session.New(data, a.decisions(),
				session.WithYear(a.cfg.ReferenceYear),
				session.WithLogger(*a.log.Component("session").GetZerolog()),
			)
			if err := sess.SelectEpisode(index); err != nil {
				return fmt.Errorf("episode %d: %w", index, err)
			}

			if openID != "" {
				text, ok := decisionText(sess.View().Chats, openID)
				if !ok {
					return fmt.Errorf("decision %s is not referenced in episode %d: %w", openID, index, journey.ErrNotFound)
				}
				if out := <-sess.OpenDecision(cmd.Context(), text); out.Err != nil {
					return out.Err
				}
			}

			printEpisode(cmd.OutOrStdout(), sess.View())
			return nil
		},
	}
	cmd.Flags().StringVar(&openID, "decision", "", "Decision id whose rationale to print")
	return cmd
}

func decisionText(chats []journey.ChatMessage, id string) (string, bool) {
	for _, c := range chats {
		if cid, ok := decision.ExtractID(c.Text); ok && cid == id {
			return c.Text, true
		}
	}
	return "", false
}

func printEpisode(w io.Writer, v session.View) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%s)", v.Episode.Title, v.Episode.DateRange)))

	switch {
	case v.DateError != nil:
		fmt.Fprintln(w, warnStyle.Render("The episode dates could not be read: "+v.DateError.Error()))
	case len(v.Chats) == 0:
		fmt.Fprintln(w, mutedStyle.Render("No conversation in this episode's week."))
	}

	for _, c := range v.Chats {
		style := memberStyle
		if !c.IsMember() {
			style = teamStyle
		}
		fmt.Fprintf(w, "%s %s %s\n", mutedStyle.Render(c.Timestamp), style.Render(c.Sender+":"), c.Text)
	}

	if t := v.Trace; t != nil {
		fmt.Fprintln(w)
		printTrace(w, t)
	}
}

func printTrace(w io.Writer, t *journey.DecisionTrace) {
	fmt.Fprintln(w, titleStyle.Render("Decision "+t.DecisionID))
	fmt.Fprintln(w, t.Summary)
	fmt.Fprintf(w, "Trigger: %s\n", t.Trigger)
	fmt.Fprintln(w, "Rationale:")
	for _, r := range t.Rationale {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	fmt.Fprintf(w, "Owner: %s\n", t.Owner)
}
