package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/stocktake/internal/cmd/output"
	loader "github.com/agentstation/stocktake/internal/tabular"
	"github.com/agentstation/stocktake/pkg/cleaner"
	"github.com/agentstation/stocktake/pkg/tabular"
)

var cleanFlags struct {
	label         string
	skuIssueLimit int
}

// cleanResult pairs a cleaned snapshot with its issues for structured output.
type cleanResult struct {
	Records []cleaner.Record `json:"records" yaml:"records"`
	Issues  []cleaner.Issue  `json:"issues" yaml:"issues"`
}

var cleanCmd = &cobra.Command{
	Use:   "clean <snapshot>",
	Short: "Clean a single snapshot and report its data-quality issues",
	Long: `Clean loads one snapshot file (CSV or XLSX), harmonizes column names,
normalizes the records, and prints the data-quality issues found. Useful for
inspecting a feed before reconciling it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loader.Load(args[0])
		if err != nil {
			return err
		}
		table.Harmonize(tabular.DefaultRenames)

		records, issues, err := cleaner.Clean(table, cleanFlags.label,
			cleaner.WithSKUFormatIssueLimit(cleanFlags.skuIssueLimit))
		if err != nil {
			return err
		}

		format := output.DetectFormat(globalFlags.Output)
		if format != output.FormatTable {
			formatter := output.NewFormatter(format)
			return formatter.Format(cmd.OutOrStdout(), cleanResult{Records: records, Issues: issues})
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%d raw rows -> %d cleaned records, %d issues\n\n",
			table.Len(), len(records), len(issues))

		if len(issues) == 0 {
			return nil
		}
		formatter := output.NewFormatter(output.FormatTable)
		return formatter.Format(w, output.IssuesTable(issues))
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVar(&cleanFlags.label, "label", "snapshot",
		"Label recorded on issues for this snapshot")
	cleanCmd.Flags().IntVar(&cleanFlags.skuIssueLimit, "sku-issue-limit",
		cleaner.DefaultSKUFormatIssueLimit,
		"Cap on per-row SKU format issues")
}
