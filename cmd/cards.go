// =============================================================================
// Transaction Widget - Cards Command
// =============================================================================
//
// COMMAND USAGE:
//   widget cards --start 1 --stop 5
//
// OUTPUT:
//   0000 0000 0000 0001
//   ...
//   0000 0000 0000 0005
//
// Both bounds are inclusive and clamped to 0..9999999999999999.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/transaction-widget/internal/reporting"
	"github.com/spf13/cobra"
)

var (
	cardsStart int64
	cardsStop  int64
)

// cardsCmd represents the 'cards' command.
var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Generate formatted card numbers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCards(cmd.OutOrStdout(), cardsStart, cardsStop)
	},
}

func init() {
	rootCmd.AddCommand(cardsCmd)

	cardsCmd.Flags().Int64Var(&cardsStart, "start", 1, "First card number")
	cardsCmd.Flags().Int64Var(&cardsStop, "stop", 5, "Last card number (inclusive)")
}

func printCards(out io.Writer, start, stop int64) error {
	for card := range reporting.CardNumbers(start, stop) {
		if _, err := fmt.Fprintln(out, card); err != nil {
			return err
		}
	}
	return nil
}
