// Package normalize merges per-statement extracts into long-lived per-domain CSVs.
package normalize

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/model"
	"github.com/ledgerlift/statex/internal/people"
)

// PFColumns is the normalized EPF header.
var PFColumns = []string{
	"Person", "UAN", "Establishment Name", "Member ID", "Year", "Transaction Type", "Date",
	"Particulars", "Wages", "Contribution", "EPF Employee", "EPF Employer", "Pension",
}

// pfAliases lists the accepted source headers for each normalized field, in preference order.
var pfAliases = map[string][]string{
	"Transaction Type": {"Transaction Type", "TransactionType"},
	"EPF Employee":     {"EPF Employee", "EPF (Employee)"},
	"EPF Employer":     {"EPF Employer", "EPS (Employer)"},
}

// Options configures a PF merge.
type Options struct {
	Inputs []string
	Output string
	People *people.Directory
	Now    func() time.Time
	Logger logrus.FieldLogger
}

// Result reports a merge.
type Result struct {
	Total    int
	Added    int
	Archived string
}

// ExpandInputs accepts either separate paths or one comma-separated value.
func ExpandInputs(values []string) []string {
	if len(values) != 1 || !strings.Contains(values[0], ",") {
		return values
	}
	var out []string
	for _, p := range strings.Split(values[0], ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PF merges EPF extracts into opts.Output. The previous output is archived
// first; existing rows win over new rows with the same key.
func PF(opts Options) (Result, error) {
	var res Result
	if len(opts.Inputs) == 0 {
		return res, fmt.Errorf("at least one input file is required")
	}
	if opts.Output == "" {
		return res, fmt.Errorf("an output CSV path is required")
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	dir := opts.People
	if dir == nil {
		dir = people.NewDirectory(nil)
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	var incoming []model.PFRecord
	for _, path := range opts.Inputs {
		recs, err := readPF(path, dir)
		if err != nil {
			return res, err
		}
		log.WithFields(logrus.Fields{"file": filepath.Base(path), "rows": len(recs)}).Debug("read extract")
		incoming = append(incoming, recs...)
	}

	archived, err := Archive(opts.Output, now())
	if err != nil {
		return res, err
	}
	res.Archived = archived

	existing, err := readPF(opts.Output, dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return res, err
	}

	merged, added := Merge(existing, incoming)
	if err := importer.WriteCSV(opts.Output, PFColumns, marshalPF(merged)); err != nil {
		return res, err
	}
	res.Total, res.Added = len(merged), added
	return res, nil
}

// Merge appends incoming rows whose key is not yet present. It returns the
// merged rows and how many keys are new.
func Merge(existing, incoming []model.PFRecord) ([]model.PFRecord, int) {
	seen := make(map[string]bool, len(existing)+len(incoming))
	out := make([]model.PFRecord, 0, len(existing)+len(incoming))
	for _, r := range existing {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
	}
	added := 0
	for _, r := range incoming {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
		added++
	}
	return out, added
}

// Archive copies an existing file at path to <dir>/archive/<YYYY-MM-DD>/<name>.
// It returns the archive path, or "" when there was nothing to archive.
func Archive(path string, now time.Time) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("opening output for archive: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(filepath.Dir(path), "archive", now.Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating archive dir: %w", err)
	}
	target := filepath.Join(dir, filepath.Base(path))
	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("creating archive copy: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("archiving output: %w", err)
	}
	return target, dst.Close()
}

// readPF reads either an extraction CSV or a previous normalized output.
// Person is taken as-is when present, else resolved from Member Name.
func readPF(path string, dir *people.Directory) ([]model.PFRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	col := func(row []string, name string) string {
		candidates := pfAliases[name]
		if candidates == nil {
			candidates = []string{name}
		}
		for _, c := range candidates {
			if i, ok := index[c]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}
	num := func(row []string, name string) string {
		return strings.ReplaceAll(col(row, name), ",", "")
	}

	out := make([]model.PFRecord, 0, len(records)-1)
	for _, row := range records[1:] {
		person := col(row, "Person")
		if person == "" {
			person = dir.Resolve(col(row, "Member Name"))
		}
		out = append(out, model.PFRecord{
			Person:            person,
			UAN:               col(row, "UAN"),
			EstablishmentName: col(row, "Establishment Name"),
			MemberID:          col(row, "Member ID"),
			Year:              col(row, "Year"),
			TransactionType:   col(row, "Transaction Type"),
			Date:              col(row, "Date"),
			Particulars:       col(row, "Particulars"),
			Wages:             num(row, "Wages"),
			Contribution:      num(row, "Contribution"),
			EPFEmployee:       num(row, "EPF Employee"),
			EPFEmployer:       num(row, "EPF Employer"),
			Pension:           num(row, "Pension"),
		})
	}
	return out, nil
}

func marshalPF(recs []model.PFRecord) [][]string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.Person, r.UAN, r.EstablishmentName, r.MemberID, r.Year, r.TransactionType, r.Date,
			r.Particulars, r.Wages, r.Contribution, r.EPFEmployee, r.EPFEmployer, r.Pension,
		}
	}
	return rows
}
