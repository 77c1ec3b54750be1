package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/providers/lic"
)

func newExtractCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Convert one provider's statements into a CSV",
	}
	for _, format := range a.registry.Formats() {
		cmd.AddCommand(newExtractFormatCommand(a, a.registry.Get(format)))
	}
	return cmd
}

func newExtractFormatCommand(a *app, conv importer.Converter) *cobra.Command {
	var opts importer.Options

	cmd := &cobra.Command{
		Use:   conv.Format(),
		Short: conv.Description(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Password == "" {
				opts.Password = a.cfg.PDFPassword
			}
			opts.Logger = a.log
			return runExtract(cmd.Context(), cmd.OutOrStdout(), conv, opts)
		},
	}

	cmd.Flags().StringVar(&opts.InputFolder, "input-folder", "", "folder of statements")
	cmd.Flags().StringVar(&opts.InputFile, "input-file", "", "a single statement file")
	cmd.Flags().StringVar(&opts.OutputCSV, "output-csv", "", "output CSV path (required)")
	cmd.Flags().StringVar(&opts.OutputJSON, "output-json", "", "also write records as a JSON array")
	cmd.Flags().StringVar(&opts.OutputExcel, "output-excel", "", "also write an XLSX copy")
	cmd.Flags().BoolVar(&opts.Recursive, "recursive", conv.DefaultRecursive(), "scan sub-folders")
	cmd.Flags().StringVar(&opts.Password, "password", "", "PDF password (env STATEX_PDF_PASSWORD)")
	if conv.Format() == lic.ReceiptsFormat {
		cmd.Flags().BoolVar(&opts.Strict, "strict", false, "drop receipts where every field is empty")
	}
	cmd.MarkFlagsOneRequired("input-folder", "input-file")
	cmd.MarkFlagsMutuallyExclusive("input-folder", "input-file")
	_ = cmd.MarkFlagRequired("output-csv")

	return cmd
}

func runExtract(ctx context.Context, w io.Writer, conv importer.Converter, opts importer.Options) error {
	res, err := conv.Convert(ctx, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %d rows to %s (%d files, %d failed)\n", res.Rows, res.Output, res.Files, res.Failed)
	return nil
}
