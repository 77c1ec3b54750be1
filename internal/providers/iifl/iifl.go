// Package iifl reads IIFL equity contract notes, both the current single-line
// layout and the multi-line layout used around 2014.
package iifl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/model"
	"github.com/ledgerlift/statex/internal/pdftext"
	"github.com/ledgerlift/statex/internal/textnorm"
)

// Format is the registry name.
const Format = "iifl"

const tradeFields = `(?P<Symbol>[A-Z0-9.&_-]+)\s+` +
	`(?P<Exchange>NSE|BSE)\s*[- ]\s*(?P<Side>BUY|SELL)\s+` +
	`(?P<Qty>\d+)\s+` +
	`(?P<Price>[0-9]+(?:\.[0-9]+)?)\s+` +
	`(?P<Brokerage>[0-9]+(?:\.[0-9]+)?)\s+` +
	`(?P<NetRate>[0-9]+(?:\.[0-9]+)?)\s+` +
	`(?P<NetTotal>-?[0-9,]+(?:\.[0-9]+)?)\s+` +
	`(?P<DrCr>Dr|Cr)?$`

var (
	tradeDateRE = regexp.MustCompile(`(?i)Trade\s*Date\s*:?\s*(\d{2}/\d{2}/\d{4}|\d{2}-[A-Za-z]{3}-\d{4}|\d{8})`)

	lineWithIDsRE = regexp.MustCompile(`(?i)^(?P<OrderNo>\d{12,20})\s+` +
		`(?P<OrderTime>\d{2}:\d{2}:\d{2})\s+` +
		`(?P<TradeNo>\d{6,12})\s+` +
		`(?P<TradeTime>\d{2}:\d{2}:\d{2})\s+` + tradeFields)
	lineNoIDsRE = regexp.MustCompile(`(?i)^` + tradeFields)

	legacyOrderNoRE = regexp.MustCompile(`^\d{16}$`)
	legacyTimeRE    = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
	legacyTradeNoRE = regexp.MustCompile(`^\d{8}$`)
	legacySideRE    = regexp.MustCompile(`(?i)^(Buy|Sell)$`)
	legacyIntRE     = regexp.MustCompile(`^\d+$`)
	legacyMoneyRE   = regexp.MustCompile(`^-?[0-9,]+(?:\.[0-9]+)?$`)
)

// Spec returns the converter definition for IIFL contract notes.
func Spec() importer.Spec[model.IIFLTrade] {
	return importer.Spec[model.IIFLTrade]{
		Format:      Format,
		Description: "IIFL equity contract notes",
		Ext:         ".pdf",
		Header:      Columns,
		Parse: func(path string, opts importer.Options) ([]model.IIFLTrade, error) {
			doc, err := pdftext.Open(path, opts.Password)
			if err != nil {
				return nil, err
			}
			return Parse(path, doc.Lines()), nil
		},
		Marshal: MarshalTrade,
		Compare: compareTrades,
	}
}

// TradeDate finds the first "Trade Date" label and normalizes its value.
func TradeDate(lines []pdftext.Line) string {
	for _, l := range lines {
		if m := tradeDateRE.FindStringSubmatch(l.Text); m != nil {
			return textnorm.NormDate(m[1])
		}
	}
	return ""
}

// Parse tries the single-line layout and falls back to the 2014 layout
// when no single-line rows are present.
func Parse(sourceFile string, lines []pdftext.Line) []model.IIFLTrade {
	date := TradeDate(lines)
	if trades := parseSingleLine(sourceFile, date, lines); len(trades) > 0 {
		return trades
	}
	return parseLegacy(sourceFile, date, lines)
}

func parseSingleLine(sourceFile, date string, lines []pdftext.Line) []model.IIFLTrade {
	var trades []model.IIFLTrade
	for _, l := range lines {
		re := lineWithIDsRE
		m := re.FindStringSubmatch(l.Text)
		if m == nil {
			re = lineNoIDsRE
			m = re.FindStringSubmatch(l.Text)
		}
		if m == nil {
			continue
		}
		g := func(name string) string {
			if i := re.SubexpIndex(name); i >= 0 {
				return m[i]
			}
			return ""
		}
		qty, _ := strconv.ParseInt(g("Qty"), 10, 64)
		trades = append(trades, model.IIFLTrade{
			TradeDate:        date,
			Exchange:         strings.ToUpper(g("Exchange")),
			Segment:          "CASH",
			Symbol:           g("Symbol"),
			Side:             strings.ToUpper(g("Side")),
			Qty:              qty,
			Price:            num(g("Price")),
			BrokeragePerUnit: num(g("Brokerage")),
			NetRatePerUnit:   num(g("NetRate")),
			NetTotal:         num(g("NetTotal")),
			DrCr:             textnorm.TitleCase(g("DrCr")),
			OrderNo:          g("OrderNo"),
			OrderTime:        g("OrderTime"),
			TradeNo:          g("TradeNo"),
			TradeTime:        g("TradeTime"),
			SourceFile:       sourceFile,
			Page:             l.Page,
		})
	}
	return trades
}

// parseLegacy rebuilds trades printed one cell per line: order no, order
// time, trade no, trade time, a security name over one or two lines, then
// side, quantity, gross rate, brokerage, net rate and net total.
func parseLegacy(sourceFile, date string, lines []pdftext.Line) []model.IIFLTrade {
	at := func(i int) string {
		if i < len(lines) {
			return lines[i].Text
		}
		return ""
	}

	var trades []model.IIFLTrade
	for i := 0; i < len(lines); {
		l := lines[i].Text
		if strings.HasPrefix(l, "Total ::") || strings.HasPrefix(l, "Total (Before Levies)") || strings.HasPrefix(l, "Page No") ||
			!legacyOrderNoRE.MatchString(l) {
			i++
			continue
		}

		orderTime, tradeNo, tradeTime := at(i+1), at(i+2), at(i+3)
		if !legacyTimeRE.MatchString(orderTime) || !legacyTradeNoRE.MatchString(tradeNo) || !legacyTimeRE.MatchString(tradeTime) {
			i++
			continue
		}

		sec1, sec2 := at(i+4), at(i+5)
		if legacySideRE.MatchString(sec1) {
			i++
			continue
		}
		security, offset := sec1, 5
		if !legacySideRE.MatchString(sec2) {
			security, offset = strings.TrimSpace(sec1+" "+sec2), 6
		}

		side, qty := at(i+offset), at(i+offset+1)
		gross, brk, netRate, netTotal := at(i+offset+2), at(i+offset+3), at(i+offset+4), at(i+offset+5)
		if !legacySideRE.MatchString(side) || !legacyIntRE.MatchString(qty) ||
			!legacyMoneyRE.MatchString(gross) || !legacyMoneyRE.MatchString(brk) ||
			!legacyMoneyRE.MatchString(netRate) || !legacyMoneyRE.MatchString(netTotal) {
			i++
			continue
		}

		q, _ := strconv.ParseInt(qty, 10, 64)
		trades = append(trades, model.IIFLTrade{
			TradeDate:        date,
			Exchange:         "NSE",
			Segment:          "CASH",
			Symbol:           security,
			Side:             strings.ToUpper(side),
			Qty:              q,
			Price:            num(gross),
			BrokeragePerUnit: num(brk),
			NetRatePerUnit:   num(netRate),
			NetTotal:         num(netTotal),
			OrderNo:          l,
			OrderTime:        orderTime,
			TradeNo:          tradeNo,
			TradeTime:        tradeTime,
			SourceFile:       sourceFile,
			Page:             lines[i].Page,
		})
		i += offset + 6
	}
	return trades
}

func compareTrades(a, b model.IIFLTrade) int {
	for _, c := range [][2]string{
		{a.TradeDate, b.TradeDate},
		{a.SourceFile, b.SourceFile},
		{a.Symbol, b.Symbol},
		{a.Side, b.Side},
	} {
		if r := strings.Compare(c[0], c[1]); r != 0 {
			return r
		}
	}
	return 0
}

func num(s string) decimal.Decimal {
	d, err := textnorm.Amount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
