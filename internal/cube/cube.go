// Package cube aggregates the master workbook into report-ready CSV and XLSX cubes.
package cube

import (
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerlift/statex/internal/textnorm"
	"github.com/ledgerlift/statex/internal/workbook"
)

// Cube is one aggregated table and the file it is written to.
type Cube struct {
	Name   string
	Header []string
	Rows   [][]string

	// Income is the cube restated as (source, type, year, amount) for the summary.
	Income []Income
}

// Income is one amount attributed to an income source and year.
type Income struct {
	Source string
	Type   string
	Year   string
	Amount decimal.Decimal
}

// Income types.
const (
	Spendable = "Spendable"
	Blocked   = "Blocked"
)

// grouper sums amounts by a key tuple, keeping first-seen order.
type grouper struct {
	order  []string
	keys   map[string][]string
	sums   map[string][]decimal.Decimal
	metric int
}

func newGrouper(metrics int) *grouper {
	return &grouper{
		keys:   make(map[string][]string),
		sums:   make(map[string][]decimal.Decimal),
		metric: metrics,
	}
}

func (g *grouper) add(keys []string, amounts ...decimal.Decimal) {
	k := strings.Join(keys, "\x1f")
	sums, ok := g.sums[k]
	if !ok {
		g.order = append(g.order, k)
		g.keys[k] = slices.Clone(keys)
		sums = make([]decimal.Decimal, g.metric)
	}
	for i, a := range amounts {
		sums[i] = sums[i].Add(a)
	}
	g.sums[k] = sums
}

type group struct {
	keys []string
	sums []decimal.Decimal
}

// groups returns the groups ordered by the key positions in by. Blank keys sort last.
func (g *grouper) groups(by ...int) []group {
	out := make([]group, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, group{keys: g.keys[k], sums: g.sums[k]})
	}
	slices.SortStableFunc(out, func(a, b group) int {
		for _, i := range by {
			if c := compareBlankLast(a.keys[i], b.keys[i]); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

func compareBlankLast(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	// Years and other numeric keys compare numerically.
	if x, err := strconv.ParseFloat(a, 64); err == nil {
		if y, err := strconv.ParseFloat(b, 64); err == nil {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(a, b)
}

// year returns the year of the first parseable date among cells, or "".
func year(cells ...string) string {
	for _, c := range cells {
		if t, ok := workbook.ParseDate(c); ok {
			return strconv.Itoa(t.Year())
		}
	}
	return ""
}

// yearValue reads a bare year column such as "2021" or "2021.0".
func yearValue(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsZero() {
		return ""
	}
	return d.Truncate(0).String()
}

// amount parses a numeric cell. Unparseable cells count as zero.
func amount(s string) decimal.Decimal {
	d, err := textnorm.Amount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// table returns the named sheet or an empty one.
func table(sheets map[string]*workbook.Table, name string) *workbook.Table {
	if t, ok := sheets[name]; ok {
		return t
	}
	return workbook.NewTable(name, nil, nil)
}

// firstCol returns the first of names present in t, or "".
func firstCol(t *workbook.Table, names ...string) string {
	for _, n := range names {
		if t.Col(n) >= 0 {
			return n
		}
	}
	return ""
}
