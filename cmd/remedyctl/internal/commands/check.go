package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pscheid92/remedyhub/internal/interactions"
	"github.com/spf13/cobra"
)

func newDatasetCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Validate an interaction dataset and print its size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dataset, err := loadDataset(file)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "dataset ok: %d remedies, %d aliases, %d interactions\n",
				len(dataset.Remedies), len(dataset.Aliases), len(dataset.Interactions))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML dataset to validate instead of the built-in one")
	return cmd
}

// newCheckCommand runs the interaction checker against the dataset without a
// database, which is handy when curating new pairs.
func newCheckCommand() *cobra.Command {
	var (
		file        string
		medications []string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "check REMEDY...",
		Short: "Check remedies against each other and against medications",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, err := loadDataset(file)
			if err != nil {
				return err
			}
			report := dataset.Checker().Check(args, medications)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML dataset to check against instead of the built-in one")
	cmd.Flags().StringSliceVarP(&medications, "medication", "m", nil, "medication to include (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(w io.Writer, report interactions.Report) error {
	if report.Safe {
		fmt.Fprintf(w, "no known interactions (%d pairs checked)\n", report.PairsChecked)
	} else {
		fmt.Fprintf(w, "%d interaction(s), highest severity %s (%d pairs checked)\n",
			len(report.Findings), report.HighestSeverity, report.PairsChecked)

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SEVERITY\tREMEDY\tWITH\tRECOMMENDATION")
		for _, f := range report.Findings {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Severity, f.Remedy, f.Other, f.Recommendation)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	for _, u := range report.Unrecognized {
		fmt.Fprintf(w, "warning: %q is not a known remedy or medication\n", u)
	}
	return nil
}
