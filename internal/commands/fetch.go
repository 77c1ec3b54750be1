package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerlift/statex/internal/nav"
)

func newFetchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download market data",
	}
	cmd.AddCommand(newFetchNAVCommand(a))
	return cmd
}

func newFetchNAVCommand(a *app) *cobra.Command {
	var opts nav.Options

	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Bring mutual fund NAV histories up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("concurrency") {
				opts.Concurrency = a.cfg.NAV.Concurrency
			}
			opts.Source = nav.NewClient(a.cfg.NAV)
			opts.Logger = a.log

			res, err := nav.Fetch(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d funds: %d updated (%d rows), %d unchanged, %d skipped, %d failed\n",
				res.Funds, res.Updated, res.Rows, res.Unchanged, res.Skipped, res.Failed)
			if res.Failed > 0 {
				return fmt.Errorf("%d funds failed", res.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Workbook, "input-file", "", "master workbook (required)")
	cmd.Flags().StringVar(&opts.OutputFolder, "output-folder", "", "folder of fund history workbooks (required)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "funds fetched at once (default from config)")
	_ = cmd.MarkFlagRequired("input-file")
	_ = cmd.MarkFlagRequired("output-folder")

	return cmd
}
