package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerlift/statex/internal/cube"
	"github.com/ledgerlift/statex/internal/preview"
)

func newCubeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cube",
		Short: "Aggregate the master workbook into report cubes",
	}
	cmd.AddCommand(newCubeIncomeCommand(), newCubeEquityCommand(a))
	return cmd
}

func newCubeIncomeCommand() *cobra.Command {
	var input, output string
	var show bool
	var rows, width int

	cmd := &cobra.Command{
		Use:   "income",
		Short: "Build the income cubes and their summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cubes, err := cube.IncomeCubes(input)
			if err != nil {
				return err
			}
			if err := cube.WriteAll(output, cubes); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Wrote %d cubes to %s\n", len(cubes), output)
			if !show {
				return nil
			}
			return previewCubes(w, cubes, rows, width)
		},
	}

	cmd.Flags().StringVar(&input, "input-file", "", "master workbook (required)")
	cmd.Flags().StringVar(&output, "output-folder", "", "folder for the cube CSVs (required)")
	cmd.Flags().BoolVar(&show, "preview", false, "print the first rows of each cube")
	cmd.Flags().IntVar(&rows, "preview-rows", 10, "rows shown per cube")
	cmd.Flags().IntVar(&width, "width", 120, "preview wrap width")
	_ = cmd.MarkFlagRequired("input-file")
	_ = cmd.MarkFlagRequired("output-folder")

	return cmd
}

// previewCubes renders each cube as a table. Summary income is shown in rupees.
func previewCubes(w io.Writer, cubes []cube.Cube, rows, width int) error {
	var md strings.Builder
	for _, c := range cubes {
		body := c.Rows
		if c.Name == cube.SummaryFile {
			body = make([][]string, len(c.Rows))
			for i, in := range c.Income {
				body[i] = []string{in.Source, in.Type, in.Year, preview.INR(in.Amount)}
			}
		}
		md.WriteString(preview.Table(c.Name, c.Header, body, rows))
		md.WriteString("\n")
	}
	fmt.Fprintf(&md, "**Total income**: %s\n", preview.INR(totalIncome(cubes)))

	out, err := preview.Render(md.String(), width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func totalIncome(cubes []cube.Cube) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cubes {
		if c.Name != cube.SummaryFile {
			continue
		}
		for _, in := range c.Income {
			total = total.Add(in.Amount)
		}
	}
	return total
}

func newCubeEquityCommand(a *app) *cobra.Command {
	var opts cube.EquityOptions

	cmd := &cobra.Command{
		Use:   "equity",
		Short: "Value equity trades monthly and compute CAGR against a 10% benchmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Logger = a.log
			res, err := cube.Equity(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d monthly rows and %d CAGR rows to %s\n",
				res.Valuations, res.CAGRRows, opts.OutputFolder)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Workbook, "input-file", "", "master workbook (required)")
	cmd.Flags().StringVar(&opts.HistoryFolder, "history-folder", "", "folder of price history workbooks (required)")
	cmd.Flags().StringVar(&opts.OutputFolder, "output-folder", "", "folder for the cube workbooks (required)")
	_ = cmd.MarkFlagRequired("input-file")
	_ = cmd.MarkFlagRequired("history-folder")
	_ = cmd.MarkFlagRequired("output-folder")

	return cmd
}
