// =============================================================================
// Transaction Widget - Descriptions Command
// =============================================================================
//
// COMMAND USAGE:
//   widget descriptions [--file path] [--limit n]
//
// Prints the description of each operation in file order. Records without
// a description are skipped. With --limit only the first n are read.
//
// =============================================================================

package cmd

import (
	"cmp"
	"fmt"
	"io"

	"github.com/ginjaninja78/transaction-widget/internal/reporting"
	"github.com/ginjaninja78/transaction-widget/internal/types"
	"github.com/spf13/cobra"
)

var (
	descriptionsFile  string
	descriptionsLimit int
)

// descriptionsCmd represents the 'descriptions' command.
var descriptionsCmd = &cobra.Command{
	Use:   "descriptions",
	Short: "Print operation descriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.close()

		records := a.loader().Load(cmp.Or(descriptionsFile, a.cfg.InputFile))
		return printDescriptions(cmd.OutOrStdout(), records, descriptionsLimit)
	},
}

func init() {
	rootCmd.AddCommand(descriptionsCmd)

	descriptionsCmd.Flags().StringVar(&descriptionsFile, "file", "", "Transactions file to load (default: input_file from the config)")
	descriptionsCmd.Flags().IntVar(&descriptionsLimit, "limit", 0, "Maximum number of descriptions to print (0 prints all)")
}

// printDescriptions stops pulling from the sequence once limit is reached.
func printDescriptions(out io.Writer, records []types.Record, limit int) error {
	if limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", limit)
	}

	printed := 0
	for description := range reporting.Descriptions(records) {
		if limit > 0 && printed == limit {
			break
		}
		fmt.Fprintln(out, description)
		printed++
	}
	return nil
}
