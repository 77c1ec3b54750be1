package nav

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerlift/statex/internal/textnorm"
	"github.com/ledgerlift/statex/internal/workbook"
)

// Columns is the header of a fund history workbook.
var Columns = []string{"ISIN", "AMFI Code", "Fund Name", "Scheme Name", "Folio No", "NAV Date", "NAV"}

const historySheet = "NAV"

// Row is one NAV of one fund holding.
type Row struct {
	Fund
	Date time.Time
	NAV  decimal.Decimal
}

// ReadHistory loads a fund workbook. A missing file is an empty history.
// Rows without a readable NAV Date are dropped.
func ReadHistory(path string) ([]Row, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	t, err := workbook.ReadSheet(path, "")
	if err != nil {
		return nil, fmt.Errorf("reading history %s: %w", path, err)
	}
	var rows []Row
	for _, r := range t.Rows {
		d, ok := workbook.ParseDate(t.Get(r, "NAV Date"))
		if !ok {
			continue
		}
		rows = append(rows, Row{
			Fund: Fund{
				ISIN:       t.Get(r, "ISIN"),
				AMFICode:   t.Get(r, "AMFI Code"),
				FundName:   t.Get(r, "Fund Name"),
				SchemeName: t.Get(r, "Scheme Name"),
				FolioNo:    t.Get(r, "Folio No"),
			},
			Date: d,
			NAV:  textnorm.OptionalAmount(t.Get(r, "NAV")).Decimal,
		})
	}
	return rows, nil
}

// WriteHistory replaces the workbook at path with rows. NAV Date is written as YYYY-MM-DD.
func WriteHistory(path string, rows []Row) error {
	s := workbook.Sheet{Name: historySheet, Header: Columns}
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{
			r.ISIN, r.AMFICode, r.FundName, r.SchemeName, r.FolioNo, r.Date.Format(textnorm.ISODate), r.NAV.InexactFloat64(),
		})
	}
	return workbook.Write(path, s)
}

// Merge appends incoming to existing, drops later duplicates of (ISIN, NAV Date)
// and orders by NAV Date.
func Merge(existing, incoming []Row) []Row {
	type key struct {
		isin string
		date time.Time
	}
	seen := make(map[key]bool, len(existing)+len(incoming))
	out := make([]Row, 0, len(existing)+len(incoming))
	for _, r := range append(slices.Clone(existing), incoming...) {
		k := key{r.ISIN, r.Date}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b Row) int { return a.Date.Compare(b.Date) })
	return out
}

// LastDate returns the latest NAV Date in rows.
func LastDate(rows []Row) (time.Time, bool) {
	var last time.Time
	for _, r := range rows {
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return last, !last.IsZero()
}

// Delta keeps the points a history still needs: those after last when the
// history has rows, else those on or after the first transaction.
func Delta(points []Point, last time.Time, hasHistory bool, firstTxn time.Time) []Point {
	return slices.DeleteFunc(slices.Clone(points), func(p Point) bool {
		if hasHistory {
			return !p.Date.After(last)
		}
		return p.Date.Before(firstTxn)
	})
}
