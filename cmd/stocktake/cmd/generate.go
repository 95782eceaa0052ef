package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/stocktake/internal/datagen"
)

var generateFlags struct {
	rows int
	seed int64
}

var generateCmd = &cobra.Command{
	Use:   "generate [dir]",
	Short: "Generate a pair of messy demo snapshots",
	Long: `Generate writes snapshot_1.csv and snapshot_2.csv into the given
directory (default "data"). The files contain deliberately dirty rows that
exercise every data-quality issue the cleaner reports, so the pair works as
an end-to-end demo for the reconcile command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "data"
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		path1, path2, err := datagen.New(generateFlags.seed).WriteSnapshots(dir, generateFlags.rows)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s\n", path1, path2)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVar(&generateFlags.rows, "rows", 60,
		"Base items per snapshot")
	generateCmd.Flags().Int64Var(&generateFlags.seed, "seed", 1,
		"Random seed for reproducible output")
}
