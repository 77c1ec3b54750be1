package cube

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/workbook"
)

// Income cube file names.
const (
	EquityDividendFile = "equity-dividend-income.csv"
	MFDividendFile     = "mf-dividend-income.csv"
	LICFile            = "lic-income.csv"
	PFFile             = "providend-fund-income.csv"
	SSYFile            = "ssy-income.csv"
	BondFile           = "bond-income.csv"
	SummaryFile        = "income-summary.csv"
)

// Master workbook sheets read by the income cubes.
const (
	SheetEquity         = "Equity"
	SheetEquityDividend = "Equity Dividend"
	SheetMFDividend     = "Mutual Fund Dividend"
	SheetLIC            = "LIC"
	SheetPF             = "Providend Fund"
	SheetSSY            = "SSY"
	SheetBond           = "Bond"
)

// IncomeCubes builds every income cube from the master workbook, summary last.
func IncomeCubes(path string) ([]Cube, error) {
	sheets, err := workbook.ReadSheets(path,
		SheetEquity, SheetEquityDividend, SheetMFDividend, SheetLIC, SheetPF, SheetSSY, SheetBond)
	if err != nil {
		return nil, err
	}
	cubes := []Cube{
		EquityDividend(table(sheets, SheetEquity), table(sheets, SheetEquityDividend)),
		MFDividend(table(sheets, SheetMFDividend)),
		LICIncome(table(sheets, SheetLIC)),
		PFInterest(table(sheets, SheetPF)),
		SSYInterest(table(sheets, SheetSSY)),
		BondInterest(table(sheets, SheetBond)),
	}
	return append(cubes, Summary(cubes)), nil
}

// WriteAll writes each cube as <dir>/<cube name>.
func WriteAll(dir string, cubes []Cube) error {
	for _, c := range cubes {
		if err := importer.WriteCSV(filepath.Join(dir, c.Name), c.Header, c.Rows); err != nil {
			return fmt.Errorf("writing %s: %w", c.Name, err)
		}
	}
	return nil
}

// EquityDividend sums Dividend Amount by People, ISIN and Year. Company comes
// from the Equity sheet, else the last Stock name seen for the ISIN.
func EquityDividend(equity, div *workbook.Table) Cube {
	const source = "Equity Dividend"

	companies := make(map[string]string)
	for _, r := range equity.Rows {
		isin := equity.Get(r, "ISIN")
		if isin == "" {
			continue
		}
		if _, ok := companies[isin]; !ok {
			companies[isin] = equity.Get(r, "Company")
		}
	}

	stocks := make(map[string]string)
	g := newGrouper(1)
	for _, r := range div.Rows {
		isin := div.Get(r, "ISIN")
		if s := div.Get(r, "Stock"); s != "" && isin != "" {
			stocks[isin] = s
		}
		y := year(div.Get(r, "Date"), div.Get(r, "Record Date"))
		g.add([]string{div.Get(r, "People"), isin, y}, amount(div.Get(r, "Dividend Amount")))
	}

	type row struct {
		people, isin, company, year string
		amount                      decimal.Decimal
	}
	var rows []row
	for _, gr := range g.groups() {
		isin := gr.keys[1]
		company := companies[isin]
		if company == "" {
			company = stocks[isin]
		}
		rows = append(rows, row{gr.keys[0], isin, company, gr.keys[2], gr.sums[0]})
	}
	sortRows(rows, func(r row) []string { return []string{r.year, r.people, r.company, r.isin} })

	c := Cube{
		Name:   EquityDividendFile,
		Header: []string{"People", "ISIN", "Company", "Year", "Dividend Amount", "Income Source", "Income Type"},
	}
	for _, r := range rows {
		c.Rows = append(c.Rows, []string{r.people, r.isin, r.company, r.year, r.amount.String(), source, Spendable})
		c.Income = append(c.Income, Income{Source: source, Type: Spendable, Year: r.year, Amount: r.amount})
	}
	return c
}

// MFDividend sums Gross Amount by Person, AMC Name, Scheme Name and Year.
func MFDividend(t *workbook.Table) Cube {
	const source = "Mutual Fund Dividend"
	gross := firstCol(t, "Gross Amount", "Gross Amount(rs.)", "Gross Amount (rs.)")

	g := newGrouper(1)
	for _, r := range t.Rows {
		y := year(t.Get(r, "Record Date"), t.Get(r, "Missing Date"))
		g.add([]string{t.Get(r, "Person"), t.Get(r, "AMC Name"), t.Get(r, "Scheme Name"), y}, amount(t.Get(r, gross)))
	}

	c := Cube{
		Name:   MFDividendFile,
		Header: []string{"Person", "AMC Name", "Scheme Name", "Year", "Gross Amount", "Income Source", "Income Type"},
	}
	for _, gr := range g.groups(3, 0, 1, 2) {
		c.Rows = append(c.Rows, append(gr.keys[:4:4], gr.sums[0].String(), source, Spendable))
		c.Income = append(c.Income, Income{Source: source, Type: Spendable, Year: gr.keys[3], Amount: gr.sums[0]})
	}
	return c
}

// LICIncome sums positive Benefit Amount by Person, Policy No and Year.
func LICIncome(t *workbook.Table) Cube {
	const source = "LIC"

	g := newGrouper(1)
	for _, r := range t.Rows {
		benefit := amount(t.Get(r, "Benefit Amount"))
		if !benefit.IsPositive() {
			continue
		}
		y := year(t.Get(r, "Premium Due Date"), t.Get(r, "Paid on"))
		g.add([]string{t.Get(r, "Person"), t.Get(r, "Policy No"), y}, benefit)
	}

	c := Cube{
		Name:   LICFile,
		Header: []string{"Person", "Policy No", "Year", "Benefit Amount", "Source", "Income Type"},
	}
	for _, gr := range g.groups(2, 0, 1) {
		c.Rows = append(c.Rows, append(gr.keys[:3:3], gr.sums[0].String(), source, Blocked))
		c.Income = append(c.Income, Income{Source: source, Type: Blocked, Year: gr.keys[2], Amount: gr.sums[0]})
	}
	return c
}

// PFInterest sums the interest credits of the normalized EPF sheet by Person,
// UAN, Establishment Name and Year. Total Interest is employee plus employer.
func PFInterest(t *workbook.Table) Cube {
	const source = "Providend Fund"

	g := newGrouper(3)
	for _, r := range t.Rows {
		if t.Get(r, "Transaction Type") != "Interest" {
			continue
		}
		y := year(t.Get(r, "Date"))
		if y == "" {
			y = yearValue(t.Get(r, "Year"))
		}
		g.add([]string{t.Get(r, "Person"), t.Get(r, "UAN"), t.Get(r, "Establishment Name"), y},
			amount(t.Get(r, "EPF Employee")), amount(t.Get(r, "EPF Employer")), amount(t.Get(r, "Pension")))
	}

	c := Cube{
		Name:   PFFile,
		Header: []string{"Person", "UAN", "Establishment Name", "Year",
			"EPF Employee", "EPF Employer", "Pension", "Total Interest", "Source", "Income Type"},
	}
	for _, gr := range g.groups(3, 0, 2, 1) {
		total := gr.sums[0].Add(gr.sums[1])
		c.Rows = append(c.Rows, append(gr.keys[:4:4],
			gr.sums[0].String(), gr.sums[1].String(), gr.sums[2].String(), total.String(), source, Blocked))
		c.Income = append(c.Income, Income{Source: source, Type: Blocked, Year: gr.keys[3], Amount: total})
	}
	return c
}

// SSYInterest sums Sukanya Samriddhi interest credits by Person and Year.
func SSYInterest(t *workbook.Table) Cube {
	const source = "SSY"

	g := newGrouper(1)
	for _, r := range t.Rows {
		if t.Get(r, "Type") != "Interest" {
			continue
		}
		g.add([]string{t.Get(r, "Person"), year(t.Get(r, "Date"))}, amount(t.Get(r, "Amount")))
	}

	c := Cube{
		Name:   SSYFile,
		Header: []string{"Person", "Year", "Amount", "Source", "Income Type"},
	}
	for _, gr := range g.groups(1, 0) {
		c.Rows = append(c.Rows, append(gr.keys[:2:2], gr.sums[0].String(), source, Blocked))
		c.Income = append(c.Income, Income{Source: source, Type: Blocked, Year: gr.keys[1], Amount: gr.sums[0]})
	}
	return c
}

// BondInterest sums bond coupons by Person, Account, Scheme and Year.
func BondInterest(t *workbook.Table) Cube {
	const source = "Bond"

	g := newGrouper(1)
	for _, r := range t.Rows {
		if t.Get(r, "Type") != "Interest" {
			continue
		}
		g.add([]string{t.Get(r, "Person"), t.Get(r, "Account"), t.Get(r, "Scheme"), year(t.Get(r, "Date"))},
			amount(t.Get(r, "Amount")))
	}

	c := Cube{
		Name:   BondFile,
		Header: []string{"Person", "Account", "Scheme", "Year", "Amount", "Source", "Income Type"},
	}
	for _, gr := range g.groups(3, 0, 1, 2) {
		c.Rows = append(c.Rows, append(gr.keys[:4:4], gr.sums[0].String(), source, Spendable))
		c.Income = append(c.Income, Income{Source: source, Type: Spendable, Year: gr.keys[3], Amount: gr.sums[0]})
	}
	return c
}

// Summary totals every cube's income by source, type and year, rounded to whole numbers.
func Summary(cubes []Cube) Cube {
	g := newGrouper(1)
	for _, c := range cubes {
		for _, in := range c.Income {
			g.add([]string{in.Source, in.Type, in.Year}, in.Amount)
		}
	}

	c := Cube{
		Name:   SummaryFile,
		Header: []string{"Income Source", "Income Type", "Year", "income"},
	}
	for _, gr := range g.groups(2, 1, 0) {
		rounded := gr.sums[0].RoundBank(0)
		c.Rows = append(c.Rows, append(gr.keys[:3:3], rounded.String()))
		c.Income = append(c.Income, Income{Source: gr.keys[0], Type: gr.keys[1], Year: gr.keys[2], Amount: rounded})
	}
	return c
}

func sortRows[T any](rows []T, key func(T) []string) {
	slices.SortStableFunc(rows, func(a, b T) int {
		ka, kb := key(a), key(b)
		for i := range ka {
			if c := compareBlankLast(ka[i], kb[i]); c != 0 {
				return c
			}
		}
		return 0
	})
}
