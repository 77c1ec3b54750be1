// Package icici reads ICICI Securities equity transaction statements and
// the corporate benefits section of ICICI demat statements.
package icici

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/model"
	"github.com/ledgerlift/statex/internal/pdftext"
	"github.com/ledgerlift/statex/internal/textnorm"
)

// TradesFormat is the registry name for equity transaction statements.
const TradesFormat = "icici-equity"

// lookback is how far before a trade tail the contract and order fields are searched.
const lookback = 300

var (
	tradeTailRE = regexp.MustCompile(`([A-Z0-9.&() \-]+?)\s+` +
		`(B|S)\s+` +
		`(\d+)\s+` +
		`([0-9]+\.[0-9]+)\s+` + // total
		`([0-9]+\.[0-9]+)\s+` + // brokerage
		`([0-9]+\.[0-9]+)\s+` + // net
		`([0-9]+\.[0-9]+)\s+` + // gst
		`([0-9]+\.[0-9]+)\s+` + // price
		`(IN[A-Z0-9]+)`)

	contractRefRE  = regexp.MustCompile(`ISEC/\S+`)
	exchContractRE = regexp.MustCompile(`NSE\s*([0-9]{8,20})`)
	dmyRE          = regexp.MustCompile(`\d{2}-\d{2}-\d{4}`)
	hmsRE          = regexp.MustCompile(`\d{2}:\d{2}:\d{2}`)
	hmRE           = regexp.MustCompile(`\b\d{2}:\d{2}\b`)
	tradeNoRE      = regexp.MustCompile(`\b\d{7,10}\b`)
	leadingJunkRE  = regexp.MustCompile(`^[^A-Z]*`)

	clientRE = regexp.MustCompile(`(?s)To,\s*(.+?)\s+UNIQUE CLIENT CODE`)
	panRE    = regexp.MustCompile(`PAN\s*:\s*([A-Z0-9]{10})`)
	periodRE = regexp.MustCompile(`Equity Transaction Statement from (\d{2}-[A-Za-z]{3}-\d{4}) to (\d{2}-[A-Za-z]{3}-\d{4})`)

	settlementRE = regexp.MustCompile(`(\d{2}-\d{2}-\d{4})\s+ISEC/\S+\s+(\d+)\s+(\d{2}-\d{2}-\d{4})\s+` +
		`([0-9]+\.?[0-9]*)\s+([0-9]+\.?[0-9]*)\s+([0-9]+\.?[0-9]*)\s+` +
		`Net amount payable by Client Rs\.\s+([0-9]+\.?[0-9]*)`)
	settlementLooseRE = regexp.MustCompile(`(?i)(\d{2}-\d{2}-\d{4}).*?ISEC/\S+.*?(\d{6,}).*?(\d{2}-\d{2}-\d{4}).*?` +
		`([0-9]+\.?[0-9]*).*?([0-9]+\.?[0-9]*).*?([0-9]+\.?[0-9]*).*?` +
		`Net amount payable by Client Rs\.?\s*([0-9]+\.?[0-9]*)`)
)

// StatementHeader is the client block at the top of a transaction statement.
type StatementHeader struct {
	Client     string
	PAN        string
	PeriodFrom string
	PeriodTo   string
}

// TradesSpec returns the converter definition for equity transaction statements.
func TradesSpec() importer.Spec[model.ICICITrade] {
	return importer.Spec[model.ICICITrade]{
		Format:      TradesFormat,
		Description: "ICICI Securities equity transaction statements",
		Ext:         ".pdf",
		RequireRows: true,
		Header:      TradeColumns,
		Parse: func(path string, opts importer.Options) ([]model.ICICITrade, error) {
			doc, err := pdftext.Open(path, opts.Password)
			if err != nil {
				return nil, err
			}
			text := doc.LineText()
			h := ParseStatementHeader(text)
			settlements := ParseSettlements(text)
			opts.Log().WithFields(logrus.Fields{
				"file":        filepath.Base(path),
				"pan":         h.PAN,
				"period":      h.PeriodFrom + ".." + h.PeriodTo,
				"settlements": len(settlements),
			}).Debug("statement header")
			return ParseTrades(filepath.Base(path), text), nil
		},
		Marshal: MarshalTrade,
		Compare: compareTrades,
	}
}

// ParseStatementHeader reads the client block, PAN and statement period.
func ParseStatementHeader(text string) StatementHeader {
	var h StatementHeader
	if m := clientRE.FindStringSubmatch(text); m != nil {
		h.Client = strings.TrimSpace(m[1])
	}
	if m := panRE.FindStringSubmatch(text); m != nil {
		h.PAN = m[1]
	}
	if m := periodRE.FindStringSubmatch(text); m != nil {
		h.PeriodFrom, h.PeriodTo = m[1], m[2]
	}
	return h
}

// ParseTrades locks onto each row's tail (action, quantity, amounts, ISIN)
// and recovers contract and order fields from the text just before it.
// Rows wrap unpredictably in the PDF grid, so the tail is the stable anchor.
func ParseTrades(sourceFile, text string) []model.ICICITrade {
	var trades []model.ICICITrade
	for _, idx := range tradeTailRE.FindAllStringSubmatchIndex(text, -1) {
		group := func(n int) string { return text[idx[2*n]:idx[2*n+1]] }

		action := "Sell"
		if group(2) == "B" {
			action = "Buy"
		}
		qty, _ := strconv.ParseInt(group(3), 10, 64)

		start := idx[0]
		back := text[max(0, start-lookback):start]

		t := model.ICICITrade{
			SourceFile:  sourceFile,
			Security:    strings.TrimSpace(leadingJunkRE.ReplaceAllString(strings.TrimSpace(group(1)), "")),
			Action:      action,
			Quantity:    qty,
			TotalAmount: decimalOrZero(group(4)),
			Brokerage:   decimalOrZero(group(5)),
			NetAmount:   decimalOrZero(group(6)),
			GST:         decimalOrZero(group(7)),
			Price:       decimalOrZero(group(8)),
			ISIN:        group(9),
		}
		fillFromLookback(&t, back)
		trades = append(trades, t)
	}
	return trades
}

func fillFromLookback(t *model.ICICITrade, back string) {
	if refs := contractRefRE.FindAllString(back, -1); len(refs) > 0 {
		t.ContractRef = refs[len(refs)-1]
	}
	if nums := exchContractRE.FindAllStringSubmatch(back, -1); len(nums) > 0 {
		n := nums[len(nums)-1][1]
		if len(n) > 16 {
			n = n[:16]
		}
		t.ExchangeContractNo = n
	}

	dates := dmyRE.FindAllString(back, -1)
	t.SettlementDate = nthFromEnd(dates, 1)
	t.TradeDate = nthFromEnd(dates, 2)
	t.OrderDate = nthFromEnd(dates, 3)

	t.OrderTime = nthFromEnd(hmsRE.FindAllString(back, -1), 1)
	t.TradeTime = lastShortTime(back)

	if t.OrderTime != "" && t.TradeDate != "" {
		s := strings.LastIndex(back, t.OrderTime) + len(t.OrderTime)
		e := strings.LastIndex(back, t.TradeDate)
		if s <= e {
			t.TradeNo = nthFromEnd(tradeNoRE.FindAllString(back[s:e], -1), 1)
		}
		return
	}
	t.TradeNo = nthFromEnd(tradeNoRE.FindAllString(back, -1), 1)
}

// lastShortTime returns the last HH:MM not preceded by a colon.
func lastShortTime(s string) string {
	found := ""
	for _, loc := range hmRE.FindAllStringIndex(s, -1) {
		if loc[0] > 0 && s[loc[0]-1] == ':' {
			continue
		}
		found = s[loc[0]:loc[1]]
	}
	return found
}

// ParseSettlements reads the per-settlement charge lines. They are logged, not written.
func ParseSettlements(text string) []model.ICICISettlement {
	matches := settlementRE.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		matches = settlementLooseRE.FindAllStringSubmatch(text, -1)
	}
	out := make([]model.ICICISettlement, 0, len(matches))
	for _, m := range matches {
		out = append(out, model.ICICISettlement{
			SettlementNo: m[2],
			STT:          decimalOrZero(m[4]),
			TxnCharges:   decimalOrZero(m[5]),
			StampDuty:    decimalOrZero(m[6]),
			NetPayable:   decimalOrZero(m[7]),
		})
	}
	return out
}

func compareTrades(a, b model.ICICITrade) int {
	if c := compareDMY(a.TradeDate, b.TradeDate); c != 0 {
		return c
	}
	if c := strings.Compare(a.Security, b.Security); c != 0 {
		return c
	}
	return strings.Compare(a.Action, b.Action)
}

// compareDMY orders dd-mm-yyyy dates; unparseable dates sort last.
func compareDMY(a, b string) int {
	ta, errA := textnorm.ParseDate(a, "02-01-2006")
	tb, errB := textnorm.ParseDate(b, "02-01-2006")
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	return ta.Compare(tb)
}

func nthFromEnd(s []string, n int) string {
	if len(s) < n {
		return ""
	}
	return s[len(s)-n]
}

func decimalOrZero(s string) decimal.Decimal {
	d, err := textnorm.Amount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
