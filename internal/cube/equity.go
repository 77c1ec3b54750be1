package cube

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/textnorm"
	"github.com/ledgerlift/statex/internal/workbook"
)

// Equity cube outputs.
const (
	EquityMonthlyFile = "equity_monthly_agg.xlsx"
	EquityCAGRFile    = "equity_investment_cagr.xlsx"
)

// SheetEquityTransaction holds the consolidated equity trades.
const SheetEquityTransaction = "Equity Transaction"

// annualRate is the benchmark return trades are compounded at.
const annualRate = 0.10

var (
	monthlyRate = math.Pow(1+annualRate, 1.0/12) - 1
	spaceRE     = regexp.MustCompile(`\s+`)
)

// MonthlyClose is the average close of one ISIN over a calendar month.
type MonthlyClose struct {
	ISIN     string
	Company  string
	Year     int
	Month    time.Month
	AvgClose decimal.Decimal
}

// Start is the first day of the month.
func (m MonthlyClose) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Security is the static data of one ISIN.
type Security struct {
	Company   string
	NSESymbol string
	BSECode   string
}

// Trade is one row of the Equity Transaction sheet.
type Trade struct {
	Person    string
	Account   string
	ISIN      string
	TradeDate time.Time
	Segment   string
	Action    string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	NetAmount decimal.NullDecimal
}

// Valuation is a trade marked to one month's average close.
type Valuation struct {
	Trade
	Security
	Month         MonthlyClose
	MonthsElapsed int
	Invested      decimal.Decimal
	Current       decimal.Decimal
	Compounded    decimal.Decimal
	CompoundedPnL decimal.Decimal
	CAGRPct       decimal.Decimal
}

// CAGRRow aggregates the valuations of one ISIN and month.
type CAGRRow struct {
	ISIN          string
	Company       string
	Year          int
	Month         time.Month
	Invested      decimal.Decimal
	Current       decimal.Decimal
	Compounded    decimal.Decimal
	CompoundedPnL decimal.Decimal
	MaxYears      float64
	CAGR          float64
	CAGRPct       decimal.Decimal
}

// EquityOptions configures the equity cube.
type EquityOptions struct {
	Workbook      string
	HistoryFolder string
	OutputFolder  string
	Logger        logrus.FieldLogger
}

// EquityResult reports the rows written.
type EquityResult struct {
	Months     int
	Valuations int
	CAGRRows   int
}

// Equity builds and writes the monthly valuation and CAGR workbooks.
func Equity(opts EquityOptions) (EquityResult, error) {
	var res EquityResult
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	months, err := LoadMonthlyCloses(opts.HistoryFolder, log)
	if err != nil {
		return res, err
	}
	res.Months = len(months)

	sheets, err := workbook.ReadSheets(opts.Workbook, SheetEquity, SheetEquityTransaction)
	if err != nil {
		return res, err
	}
	securities := ReadSecurities(lowerHeader(table(sheets, SheetEquity)))
	trades := ReadTrades(lowerHeader(table(sheets, SheetEquityTransaction)))

	vals := Valuations(trades, securities, months)
	growth := CAGR(vals)
	res.Valuations, res.CAGRRows = len(vals), len(growth)

	if err := workbook.Write(filepath.Join(opts.OutputFolder, EquityMonthlyFile), valuationSheet(vals)); err != nil {
		return res, fmt.Errorf("writing %s: %w", EquityMonthlyFile, err)
	}
	if err := workbook.Write(filepath.Join(opts.OutputFolder, EquityCAGRFile), cagrSheet(growth)); err != nil {
		return res, fmt.Errorf("writing %s: %w", EquityCAGRFile, err)
	}
	return res, nil
}

// LoadMonthlyCloses averages every price history workbook in folder.
// Unreadable workbooks are logged and skipped.
func LoadMonthlyCloses(folder string, log logrus.FieldLogger) ([]MonthlyClose, error) {
	files, err := importer.Scan(folder, ".xlsx", false)
	if err != nil {
		return nil, err
	}
	var points []PricePoint
	for _, f := range files {
		t, err := workbook.ReadSheet(f.Path, "")
		if err != nil {
			log.WithError(err).WithField("file", f.Name).Warn("skipping price history")
			continue
		}
		points = append(points, ReadPrices(lowerHeader(t))...)
	}
	return MonthlyAverages(points), nil
}

// PricePoint is one close from a price history workbook.
type PricePoint struct {
	ISIN    string
	Company string
	Date    time.Time
	Close   decimal.Decimal
}

// ReadPrices reads the datetime, close, isin and company columns. Rows
// without a date or close are dropped.
func ReadPrices(t *workbook.Table) []PricePoint {
	var out []PricePoint
	for _, r := range t.Rows {
		d, ok := workbook.ParseDate(t.Get(r, "datetime"))
		if !ok {
			continue
		}
		c, err := textnorm.Amount(t.Get(r, "close"))
		if err != nil {
			continue
		}
		out = append(out, PricePoint{
			ISIN:    CleanISIN(t.Get(r, "isin")),
			Company: t.Get(r, "company"),
			Date:    d,
			Close:   c,
		})
	}
	return out
}

// MonthlyAverages averages closes by ISIN, company and month, rounded to 2
// places, ordered by ISIN then month.
func MonthlyAverages(points []PricePoint) []MonthlyClose {
	g := newGrouper(2)
	one := decimal.NewFromInt(1)
	for _, p := range points {
		g.add([]string{p.ISIN, p.Company, strconv.Itoa(p.Date.Year()), strconv.Itoa(int(p.Date.Month()))}, p.Close, one)
	}
	var out []MonthlyClose
	for _, gr := range g.groups(0, 2, 3) {
		y, _ := strconv.Atoi(gr.keys[2])
		m, _ := strconv.Atoi(gr.keys[3])
		out = append(out, MonthlyClose{
			ISIN:     gr.keys[0],
			Company:  gr.keys[1],
			Year:     y,
			Month:    time.Month(m),
			AvgClose: gr.sums[0].Div(gr.sums[1]).RoundBank(2),
		})
	}
	return out
}

// ReadSecurities maps ISIN to the static columns of the Equity sheet.
func ReadSecurities(t *workbook.Table) map[string]Security {
	out := make(map[string]Security)
	for _, r := range t.Rows {
		isin := CleanISIN(t.Get(r, "isin"))
		if _, ok := out[isin]; ok || isin == "" {
			continue
		}
		out[isin] = Security{
			Company:   t.Get(r, "company"),
			NSESymbol: t.Get(r, "nse symbol"),
			BSECode:   t.Get(r, "bse code"),
		}
	}
	return out
}

// ReadTrades reads the Equity Transaction sheet. Rows without a trade date are dropped.
func ReadTrades(t *workbook.Table) []Trade {
	var out []Trade
	for _, r := range t.Rows {
		d, ok := workbook.ParseDate(t.Get(r, "trade date"))
		if !ok {
			continue
		}
		out = append(out, Trade{
			Person:    t.Get(r, "person"),
			Account:   t.Get(r, "account"),
			ISIN:      CleanISIN(t.Get(r, "isin")),
			TradeDate: d,
			Segment:   t.Get(r, "segment"),
			Action:    t.Get(r, "action"),
			Quantity:  amount(t.Get(r, "quantity")),
			Price:     amount(t.Get(r, "price/share")),
			NetAmount: textnorm.OptionalAmount(t.Get(r, "net amount")),
		})
	}
	return out
}

// CleanISIN trims, removes inner spaces and upper-cases.
func CleanISIN(s string) string {
	return strings.ToUpper(spaceRE.ReplaceAllString(strings.TrimSpace(s), ""))
}

// Valuations marks every trade to each month at or after its trade month.
func Valuations(trades []Trade, securities map[string]Security, months []MonthlyClose) []Valuation {
	byISIN := make(map[string][]MonthlyClose)
	for _, m := range months {
		byISIN[m.ISIN] = append(byISIN[m.ISIN], m)
	}

	var out []Valuation
	for _, t := range trades {
		sec := securities[t.ISIN]
		for _, m := range byISIN[t.ISIN] {
			elapsed := (m.Year-t.TradeDate.Year())*12 + int(m.Month) - int(t.TradeDate.Month())
			if elapsed < 0 {
				continue
			}
			v := Valuation{Trade: t, Security: sec, Month: m, MonthsElapsed: elapsed}
			if v.Company == "" {
				v.Company = m.Company
			}
			v.value()
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, func(a, b Valuation) int {
		if c := strings.Compare(a.ISIN, b.ISIN); c != 0 {
			return c
		}
		return a.Month.Start().Compare(b.Month.Start())
	})
	return out
}

func (v *Valuation) value() {
	invested := v.Quantity.Mul(v.Price)
	if v.NetAmount.Valid && !v.NetAmount.Decimal.IsZero() {
		invested = v.NetAmount.Decimal
	}
	v.Invested = invested.RoundBank(2)
	v.Current = v.Quantity.Mul(v.Month.AvgClose).RoundBank(2)

	growth := decimal.NewFromFloat(math.Pow(1+monthlyRate, float64(v.MonthsElapsed)))
	v.Compounded = v.Invested.Mul(growth).RoundBank(2)
	v.CompoundedPnL = v.Current.Sub(v.Compounded).RoundBank(2)

	switch strings.ToUpper(v.Action) {
	case "SELL":
		v.Compounded = v.Compounded.Neg()
		v.CompoundedPnL = v.CompoundedPnL.Neg()
	case "BONUS", "DIVIDEND":
		v.Compounded = decimal.Zero
		v.CompoundedPnL = decimal.Zero
	}

	v.CAGRPct = pct(cagr(v.Current, v.Invested, float64(v.MonthsElapsed)/12))
}

// cagr is (current/invested)^(1/years) - 1, or 0 when years or invested is
// not positive or the result is not a real number.
func cagr(current, invested decimal.Decimal, years float64) float64 {
	if years <= 0 || !invested.IsPositive() {
		return 0
	}
	ratio := current.Div(invested).InexactFloat64()
	r := math.Pow(ratio, 1/years) - 1
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func pct(r float64) decimal.Decimal {
	return decimal.NewFromFloat(r * 100).RoundBank(2)
}

// CAGR sums valuations by ISIN, company and month.
func CAGR(vals []Valuation) []CAGRRow {
	g := newGrouper(4)
	maxYears := make(map[string]float64)
	for _, v := range vals {
		keys := []string{v.ISIN, v.Company, strconv.Itoa(v.Month.Year), strconv.Itoa(int(v.Month.Month))}
		g.add(keys, v.Invested, v.Current, v.Compounded, v.CompoundedPnL)
		k := strings.Join(keys, "\x1f")
		maxYears[k] = math.Max(maxYears[k], float64(v.MonthsElapsed)/12)
	}

	var out []CAGRRow
	for _, gr := range g.groups(0, 1, 2, 3) {
		y, _ := strconv.Atoi(gr.keys[2])
		m, _ := strconv.Atoi(gr.keys[3])
		years := maxYears[strings.Join(gr.keys, "\x1f")]
		r := cagr(gr.sums[1], gr.sums[0], years)
		out = append(out, CAGRRow{
			ISIN:          gr.keys[0],
			Company:       gr.keys[1],
			Year:          y,
			Month:         time.Month(m),
			Invested:      gr.sums[0],
			Current:       gr.sums[1],
			Compounded:    gr.sums[2],
			CompoundedPnL: gr.sums[3],
			MaxYears:      years,
			CAGR:          r,
			CAGRPct:       pct(r),
		})
	}
	return out
}

func valuationSheet(vals []Valuation) workbook.Sheet {
	s := workbook.Sheet{
		Name: "equity_monthly_agg",
		Header: []string{
			"person", "account", "isin", "company", "nse symbol", "trade date", "segment", "action",
			"quantity", "price/share", "net amount", "year_mth", "month_mth", "avg_close",
			"invested_amt", "current_amt", "months_elapsed", "month_start",
			"compound_value_10pct", "compound_pnl_10pct", "cagr_pct",
		},
	}
	for _, v := range vals {
		var net any
		if v.NetAmount.Valid {
			net = v.NetAmount.Decimal.InexactFloat64()
		}
		s.Rows = append(s.Rows, []any{
			v.Person, v.Account, v.ISIN, v.Company, v.NSESymbol, v.TradeDate.Format(textnorm.ISODate), v.Segment, v.Action,
			v.Quantity.InexactFloat64(), v.Price.InexactFloat64(), net, v.Month.Year, int(v.Month.Month), v.Month.AvgClose.InexactFloat64(),
			v.Invested.InexactFloat64(), v.Current.InexactFloat64(), v.MonthsElapsed, v.Month.Start().Format(textnorm.ISODate),
			v.Compounded.InexactFloat64(), v.CompoundedPnL.InexactFloat64(), v.CAGRPct.InexactFloat64(),
		})
	}
	return s
}

func cagrSheet(rows []CAGRRow) workbook.Sheet {
	s := workbook.Sheet{
		Name: "equity_investment_cagr",
		Header: []string{
			"isin", "company", "year_mth", "month_mth", "total_invested", "current_value",
			"compound_10pct_value", "compound_pnl_10pct_value", "max_years", "cagr", "cagr_pct",
		},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{
			r.ISIN, r.Company, r.Year, int(r.Month), r.Invested.InexactFloat64(), r.Current.InexactFloat64(),
			r.Compounded.InexactFloat64(), r.CompoundedPnL.InexactFloat64(), r.MaxYears, r.CAGR, r.CAGRPct.InexactFloat64(),
		})
	}
	return s
}

// lowerHeader returns t with lower-cased column names.
func lowerHeader(t *workbook.Table) *workbook.Table {
	header := make([]string, len(t.Header))
	for i, h := range t.Header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return workbook.NewTable(t.Name, header, t.Rows)
}
