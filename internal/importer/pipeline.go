package importer

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// Spec describes one statement format: how files are picked, parsed,
// ordered and rendered as CSV rows.
type Spec[T any] struct {
	Format      string
	Description string
	Ext         string
	Recursive   bool
	RequireRows bool
	Header      []string
	Match       func(name string) bool
	Parse       func(path string, opts Options) ([]T, error)
	Marshal     func(T) []string
	Finish      func(records []T, opts Options) []T
	Compare     func(a, b T) int
}

type pipeline[T any] struct {
	spec Spec[T]
}

// New wraps a Spec as a Converter.
func New[T any](spec Spec[T]) Converter {
	if spec.Ext == "" {
		spec.Ext = ".pdf"
	}
	return &pipeline[T]{spec: spec}
}

func (p *pipeline[T]) Format() string         { return p.spec.Format }
func (p *pipeline[T]) Description() string    { return p.spec.Description }
func (p *pipeline[T]) DefaultRecursive() bool { return p.spec.Recursive }

// Convert scans, parses, orders and writes. Files that fail to parse are
// logged and skipped.
func (p *pipeline[T]) Convert(ctx context.Context, opts Options) (Result, error) {
	log := opts.Log().WithField("format", p.spec.Format)
	res := Result{Format: p.spec.Format, Output: opts.OutputCSV}

	records, err := p.extract(ctx, opts, &res)
	if err != nil {
		return res, err
	}
	if records == nil {
		records = []T{}
	}
	res.Rows = len(records)
	if len(records) == 0 && p.spec.RequireRows {
		return res, fmt.Errorf("%s: %w", opts.Input(), ErrNoRows)
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = p.spec.Marshal(r)
	}
	if err := WriteCSV(opts.OutputCSV, p.spec.Header, rows); err != nil {
		return res, err
	}
	if opts.OutputJSON != "" {
		if err := WriteJSON(opts.OutputJSON, records); err != nil {
			return res, err
		}
	}
	if opts.OutputExcel != "" {
		if err := WriteExcel(opts.OutputExcel, sheetName(p.spec.Format), p.spec.Header, rows); err != nil {
			return res, err
		}
	}

	log.WithFields(logrus.Fields{"rows": res.Rows, "output": opts.OutputCSV}).Info("wrote records")
	return res, nil
}

// extract runs the scan and parse stages and returns ordered records.
func (p *pipeline[T]) extract(ctx context.Context, opts Options, res *Result) ([]T, error) {
	log := opts.Log().WithField("format", p.spec.Format)
	if opts.Input() == "" {
		return nil, fmt.Errorf("an input folder or file is required")
	}
	if opts.OutputCSV == "" {
		return nil, fmt.Errorf("an output CSV path is required")
	}

	files, err := Scan(opts.Input(), p.spec.Ext, opts.Recursive)
	if err != nil {
		return nil, err
	}
	if opts.InputFile == "" && p.spec.Match != nil {
		files = slices.DeleteFunc(files, func(f FileInfo) bool { return !p.spec.Match(f.Name) })
	}
	res.Files = len(files)

	if len(files) == 0 {
		log.WithField("input", opts.Input()).Warn("no matching statement files")
		if p.spec.RequireRows {
			return nil, fmt.Errorf("%s: %w", opts.Input(), ErrNoInput)
		}
	}

	var records []T
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		flog := log.WithField("file", f.Name)
		recs, err := p.spec.Parse(f.Path, opts)
		if err != nil {
			res.Failed++
			flog.WithError(err).Error("skipping statement")
			continue
		}
		res.Parsed++
		if len(recs) == 0 {
			flog.Warn("no records found")
			continue
		}
		flog.WithField("rows", len(recs)).Debug("parsed statement")
		records = append(records, recs...)
	}

	if p.spec.Finish != nil {
		records = p.spec.Finish(records, opts)
	}
	if p.spec.Compare != nil {
		slices.SortStableFunc(records, p.spec.Compare)
	}
	return records, nil
}

func sheetName(format string) string {
	if len(format) > 31 {
		return format[:31]
	}
	return format
}
