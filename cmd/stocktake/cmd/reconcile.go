package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/stocktake/internal/cmd/output"
	"github.com/agentstation/stocktake/internal/report"
	loader "github.com/agentstation/stocktake/internal/tabular"
	"github.com/agentstation/stocktake/pkg/cleaner"
	"github.com/agentstation/stocktake/pkg/errors"
	"github.com/agentstation/stocktake/pkg/logging"
	"github.com/agentstation/stocktake/pkg/reconciler"
	"github.com/agentstation/stocktake/pkg/tabular"
)

var reconcileFlags struct {
	label1         string
	label2         string
	outDir         string
	reportFormat   string
	aggregateBySKU bool
	skuIssueLimit  int
}

// reconcileResult is the full machine-readable output of a run.
type reconcileResult struct {
	Items  []reconciler.Row `json:"items" yaml:"items"`
	Report *report.Report   `json:"report" yaml:"report"`
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <snapshot1> <snapshot2>",
	Short: "Clean two snapshots and reconcile them into a diff report",
	Long: `Reconcile loads two snapshot files (CSV or XLSX), cleans each one
independently, joins them per SKU, and writes the reconciliation table and
the structured report to the output directory.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateReportFormat(reconcileFlags.reportFormat); err != nil {
			return err
		}

		week1, issues1, err := loadAndClean(args[0], reconcileFlags.label1)
		if err != nil {
			return err
		}
		week2, issues2, err := loadAndClean(args[1], reconcileFlags.label2)
		if err != nil {
			return err
		}

		logging.Debug().
			Int("records_1", len(week1)).
			Int("records_2", len(week2)).
			Msg("snapshots cleaned")

		var opts []reconciler.Option
		if reconcileFlags.aggregateBySKU {
			opts = append(opts, reconciler.WithAggregateBySKU())
		}
		rows := reconciler.Reconcile(week1, week2, opts...)
		summary := reconciler.Summarize(rows)

		rep := report.New(summary, map[string][]cleaner.Issue{
			reconcileFlags.label1: issues1,
			reconcileFlags.label2: issues2,
		})

		if err := render(cmd, rows, rep); err != nil {
			return err
		}

		return persist(rows, rep)
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&reconcileFlags.label1, "label-1", "week1",
		"Label for the first snapshot")
	reconcileCmd.Flags().StringVar(&reconcileFlags.label2, "label-2", "week2",
		"Label for the second snapshot")
	reconcileCmd.Flags().StringVar(&reconcileFlags.outDir, "out-dir", "output",
		"Directory for the report artifacts (empty to skip writing)")
	reconcileCmd.Flags().StringVar(&reconcileFlags.reportFormat, "report-format", "json",
		"Report file format: json or yaml")
	reconcileCmd.Flags().BoolVar(&reconcileFlags.aggregateBySKU, "aggregate-by-sku", false,
		"Collapse each snapshot to one row per SKU before joining")
	reconcileCmd.Flags().IntVar(&reconcileFlags.skuIssueLimit, "sku-issue-limit",
		cleaner.DefaultSKUFormatIssueLimit,
		"Cap on per-row SKU format issues per snapshot")
}

// validateReportFormat rejects report file formats other than json and yaml
// before any snapshot work starts.
func validateReportFormat(format string) error {
	switch format {
	case "json", "yaml":
		return nil
	default:
		return errors.NewValidationError("report-format", format,
			"must be json or yaml")
	}
}

// loadAndClean loads a snapshot file, harmonizes its columns, and cleans it.
func loadAndClean(path, label string) ([]cleaner.Record, []cleaner.Issue, error) {
	table, err := loader.Load(path)
	if err != nil {
		return nil, nil, err
	}
	table.Harmonize(tabular.DefaultRenames)

	records, issues, err := cleaner.Clean(table, label,
		cleaner.WithSKUFormatIssueLimit(reconcileFlags.skuIssueLimit))
	if err != nil {
		return nil, nil, err
	}

	logging.Info().
		Str("snapshot", label).
		Str("path", path).
		Int("rows", table.Len()).
		Int("records", len(records)).
		Int("issues", len(issues)).
		Msg("cleaned snapshot")

	return records, issues, nil
}

// render prints the reconciliation to stdout in the selected format.
func render(cmd *cobra.Command, rows []reconciler.Row, rep *report.Report) error {
	format := output.DetectFormat(globalFlags.Output)

	if format != output.FormatTable {
		formatter := output.NewFormatter(format)
		return formatter.Format(cmd.OutOrStdout(), reconcileResult{Items: rows, Report: rep})
	}

	w := cmd.OutOrStdout()
	formatter := output.NewFormatter(output.FormatTable)
	if err := formatter.Format(w, output.ItemsTable(rows)); err != nil {
		return err
	}

	s := rep.Summary
	fmt.Fprintln(w)
	for _, status := range []reconciler.Status{
		reconciler.StatusUnchanged,
		reconciler.StatusQtyChanged,
		reconciler.StatusRemoved,
		reconciler.StatusAdded,
	} {
		fmt.Fprintf(w, "%-30s %d\n", status, s.CountsByStatus[status])
	}
	fmt.Fprintf(w, "\nName mismatches  : %d\n", s.NameMismatches)
	fmt.Fprintf(w, "Location changes : %d\n\n", s.LocationChanges)

	output.BarChart(w, "Total inventory quantity by snapshot",
		[]string{reconcileFlags.label1, reconcileFlags.label2},
		[]int64{s.TotalQty1, s.TotalQty2})

	return nil
}

// persist writes the items CSV and the structured report.
func persist(rows []reconciler.Row, rep *report.Report) error {
	if reconcileFlags.outDir == "" {
		return nil
	}
	if err := os.MkdirAll(reconcileFlags.outDir, 0o755); err != nil {
		return err
	}

	itemsPath := filepath.Join(reconcileFlags.outDir, "reconciliation_items.csv")
	if err := report.WriteItemsCSV(itemsPath, rows); err != nil {
		return err
	}

	var reportPath string
	var err error
	switch reconcileFlags.reportFormat {
	case "yaml":
		reportPath = filepath.Join(reconcileFlags.outDir, "reconciliation_report.yaml")
		err = rep.WriteYAML(reportPath)
	default:
		reportPath = filepath.Join(reconcileFlags.outDir, "reconciliation_report.json")
		err = rep.WriteJSON(reportPath)
	}
	if err != nil {
		return err
	}

	logging.Info().
		Str("items", itemsPath).
		Str("report", reportPath).
		Msg("saved outputs")

	return nil
}
