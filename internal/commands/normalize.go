package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerlift/statex/internal/normalize"
	"github.com/ledgerlift/statex/internal/people"
)

func newNormalizeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Merge extraction CSVs into consolidated files",
	}
	cmd.AddCommand(newNormalizePFCommand(a))
	return cmd
}

func newNormalizePFCommand(a *app) *cobra.Command {
	var inputs []string
	var output string

	cmd := &cobra.Command{
		Use:   "pf",
		Short: "Merge EPF extracts, archiving the previous output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := normalize.PF(normalize.Options{
				Inputs: normalize.ExpandInputs(inputs),
				Output: output,
				People: people.NewDirectory(a.cfg.People),
				Logger: a.log,
			})
			if err != nil {
				return err
			}
			if res.Archived != "" {
				a.log.WithField("archive", res.Archived).Info("archived previous output")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s (%d new)\n", res.Total, output, res.Added)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&inputs, "input-files", nil, "EPF extraction CSVs (repeat or comma-separate)")
	cmd.Flags().StringVar(&output, "output-csv", "", "consolidated CSV (required)")
	_ = cmd.MarkFlagRequired("input-files")
	_ = cmd.MarkFlagRequired("output-csv")

	return cmd
}
