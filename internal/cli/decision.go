// decision.go implements "journeyd decision" for printing one decision trace.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/nainya/journeylens/pkg/decision"
)

func newDecisionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decision <id | text>",
		Short: "Print the rationale of a decision",
		Long: `Print a decision trace by id. The argument may also be a chat text
carrying a [DECISION:id=...] tag.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := strings.Join(args, " ")
			id := arg
			if tagged, ok := decision.ExtractID(arg); ok {
				id = tagged
			}

			trace, err := a.decisions().Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			printTrace(cmd.OutOrStdout(), trace)
			return nil
		},
	}
}
