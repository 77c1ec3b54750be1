// Package geojit reads Geojit equity contract notes.
package geojit

import (
	"path/filepath"
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
const Format = "geojit"

const num = `\d+(?:\.\d+)?`

var (
	contractNoteRE = regexp.MustCompile(`(?i)CONTRACT\s+NOTE\s+NO\s*[:\-]?\s*([0-9]+)\b`)
	tradeDateRE    = regexp.MustCompile(`(?i)TRADE\s+DATE\s*[:\-]?\s*([0-9]{2}\.[0-9]{2}\.[0-9]{4}|[0-9]{2}-[A-Za-z]{3}-[0-9]{4})`)
	exchSegLabelRE = regexp.MustCompile(`(?i)Name\s+Of\s+Exchange\s*&\s*Segment\s*[:\-]?\s*([A-Za-z]+)\s+([A-Za-z]+)`)
	exchSegRE      = regexp.MustCompile(`(?i)\b(NSE|BSE)\s+(EQ|FO|CDS|CASH)\b`)
	sttlNoDateRE   = regexp.MustCompile(`\b([0-9]{6,})\b.*?\b([0-9]{2}\.[0-9]{2}\.[0-9]{4})\b`)
	sttlDateNoRE   = regexp.MustCompile(`\b([0-9]{2}\.[0-9]{2}\.[0-9]{4})\b.*?\b([0-9]{6,})\b`)

	isinSameLineRE = regexp.MustCompile(`^([A-Z0-9 .,&\-]+?)\s*-\s*(IN[A-Z0-9]{10})\b`)
	isinRE         = regexp.MustCompile(`\b(IN[A-Z0-9]{10})\b`)
	nameLineRE     = regexp.MustCompile(`^[A-Z0-9 .,&\-]{3,}$`)

	scripHeaderRE = regexp.MustCompile(`(?i)Security\s+Description|Gross Rate|Gross Total|Brokerage|Net Rate|Net Total`)
	scripStrictRE = regexp.MustCompile(`^([A-Z0-9 .,&\-]+)\s+(B|S)\s+(\d+)\s+(` + num + `)\s+(` + num + `)\s+(` + num + `)\s+(` + num + `)\s+(` + num + `)\s+(-?` + num + `)$`)
	scripLooseRE  = regexp.MustCompile(`^([A-Z0-9 .,&\-]+)\s+(B|S)\s+(\d+)\s+(` + num + `)\s+(` + num + `)\s+(` + num + `)\s+(` + num + `)\s+(` + num + `)`)

	sttRE        = regexp.MustCompile(`(?i)Securities\s+Transaction\s+Tax\s+(` + num + `)`)
	sttRoundedRE = regexp.MustCompile(`(?is)Total\s*\(Rounded.*?\)\s*(` + num + `)`)
	exchChargeRE = regexp.MustCompile(`(?i)Exchange\s+Transactn\s+Charges\s+(` + num + `)`)
	sebiFeeRE    = regexp.MustCompile(`(?i)SEBI\s+Turnover\s+Fees\s+(` + num + `)`)
	cessRE       = regexp.MustCompile(`(?i)Additional\s+Cess\s+(` + num + `)`)
	stampDutyRE  = regexp.MustCompile(`(?i)Stamp\s+Duty\s+(` + num + `)`)
	netAmountRE  = regexp.MustCompile(`(?is)Net\s+Amount.*?\b(` + num + `)\b`)
)

// Header is the note-level information shared by every scrip row.
type Header struct {
	ContractNoteNo string
	TradeDate      string
	Exchange       string
	Segment        string
	SettlementNo   string
	SettlementDate string
}

// Charges are the statutory levies printed once per note.
type Charges struct {
	STT            decimal.NullDecimal
	ExchangeTxn    decimal.NullDecimal
	SEBITurnover   decimal.NullDecimal
	AdditionalCess decimal.NullDecimal
	StampDuty      decimal.NullDecimal
}

// Other sums every charge except STT.
func (c Charges) Other() decimal.Decimal {
	total := decimal.Zero
	for _, d := range []decimal.NullDecimal{c.ExchangeTxn, c.SEBITurnover, c.AdditionalCess, c.StampDuty} {
		if d.Valid {
			total = total.Add(d.Decimal)
		}
	}
	return total
}

// ScripRow is one line of the Scrip-Summary block.
type ScripRow struct {
	Security         string
	Side             string
	Quantity         int64
	GrossRate        decimal.Decimal
	GrossTotal       decimal.Decimal
	BrokeragePerUnit decimal.Decimal
	TotalBrokerage   decimal.Decimal
	NetRate          decimal.Decimal
	NetTotal         decimal.NullDecimal
}

// Spec returns the converter definition for Geojit contract notes.
func Spec() importer.Spec[model.GeojitTrade] {
	return importer.Spec[model.GeojitTrade]{
		Format:      Format,
		Description: "Geojit equity contract notes",
		Ext:         ".pdf",
		Recursive:   true,
		RequireRows: true,
		Header:      Columns,
		Parse: func(path string, opts importer.Options) ([]model.GeojitTrade, error) {
			doc, err := pdftext.Open(path, opts.Password)
			if err != nil {
				return nil, err
			}
			return Parse(filepath.Base(path), doc.LineText()), nil
		},
		Marshal: MarshalTrade,
	}
}

// Parse extracts every scrip row of one note, each carrying the header and charges.
func Parse(fileName, text string) []model.GeojitTrade {
	lines := nonEmptyLines(text)
	h := ParseHeader(lines)
	charges := ParseCharges(text)
	isins := BuildISINMap(lines)
	noteNet := netAmount(text)

	rows := ParseScripRows(ScripSummary(text))
	out := make([]model.GeojitTrade, 0, len(rows))
	for _, r := range rows {
		payable := decimal.Zero
		switch {
		case r.NetTotal.Valid && !r.NetTotal.Decimal.IsZero():
			payable = r.NetTotal.Decimal.Abs()
		case noteNet.Valid:
			payable = noteNet.Decimal.Abs()
		}
		out = append(out, model.GeojitTrade{
			FileName:          fileName,
			ContractNoteNo:    h.ContractNoteNo,
			TradeDate:         h.TradeDate,
			SettlementNo:      h.SettlementNo,
			SettlementDate:    h.SettlementDate,
			Exchange:          h.Exchange,
			Segment:           h.Segment,
			SecurityName:      r.Security,
			ISIN:              isins[r.Security],
			Side:              r.Side,
			Quantity:          r.Quantity,
			GrossRate:         r.GrossRate,
			GrossTotal:        r.GrossTotal,
			BrokeragePerUnit:  r.BrokeragePerUnit,
			TotalBrokerage:    r.TotalBrokerage,
			NetRate:           r.NetRate,
			NetTotalAmount:    r.NetTotal,
			STT:               charges.STT,
			ExchangeTxnCharge: charges.ExchangeTxn,
			SEBITurnoverFee:   charges.SEBITurnover,
			AdditionalCess:    charges.AdditionalCess,
			StampDuty:         charges.StampDuty,
			OtherCharges:      charges.Other(),
			NetAmountPayable:  payable,
		})
	}
	return out
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// ParseHeader reads note number, trade date, exchange, segment and settlement.
func ParseHeader(lines []string) Header {
	var h Header
	for _, l := range lines {
		if m := contractNoteRE.FindStringSubmatch(l); m != nil {
			h.ContractNoteNo = m[1]
			break
		}
	}
	for _, l := range lines {
		if m := tradeDateRE.FindStringSubmatch(l); m != nil {
			h.TradeDate = isoDate(m[1])
			break
		}
	}
	for _, re := range []*regexp.Regexp{exchSegLabelRE, exchSegRE} {
		for _, l := range lines {
			if m := re.FindStringSubmatch(l); m != nil {
				h.Exchange, h.Segment = strings.ToUpper(m[1]), strings.ToUpper(m[2])
				break
			}
		}
		if h.Exchange != "" && h.Segment != "" {
			break
		}
	}

	// The settlement values sit on one of the lines after the
	// "... STTLNO STTLDATE ..." label row.
	for i, l := range lines {
		u := strings.ToUpper(l)
		if !strings.Contains(u, "STTLNO") || !strings.Contains(u, "STTLDATE") {
			continue
		}
		for j := i + 1; j < min(i+5, len(lines)); j++ {
			if no, date := settlementFrom(lines[j]); no != "" && date != "" {
				h.SettlementNo, h.SettlementDate = no, date
				break
			}
		}
		break
	}
	if h.SettlementNo == "" || h.SettlementDate == "" {
		for _, l := range lines {
			no, date := settlementFrom(l)
			if no == "" || date == "" {
				continue
			}
			if h.SettlementNo == "" {
				h.SettlementNo = no
			}
			if h.SettlementDate == "" {
				h.SettlementDate = date
			}
			break
		}
	}
	return h
}

func settlementFrom(line string) (no, date string) {
	if m := sttlNoDateRE.FindStringSubmatch(line); m != nil {
		if d := isoDate(m[2]); d != "" {
			return m[1], d
		}
	}
	if m := sttlDateNoRE.FindStringSubmatch(line); m != nil {
		if d := isoDate(m[1]); d != "" {
			return m[2], d
		}
	}
	return "", ""
}

// BuildISINMap maps security names to ISINs, from "NAME - INxxxxxxxxxx" lines
// or a name line followed by a line holding the ISIN.
func BuildISINMap(lines []string) map[string]string {
	out := make(map[string]string)
	for i, l := range lines {
		if m := isinSameLineRE.FindStringSubmatch(l); m != nil {
			out[strings.TrimSpace(m[1])] = m[2]
			continue
		}
		if nameLineRE.MatchString(l) && i+1 < len(lines) {
			if m := isinRE.FindStringSubmatch(lines[i+1]); m != nil {
				out[l] = m[1]
			}
		}
	}
	return out
}

// ScripSummary returns the text from "Scrip-Summary" up to the next section.
func ScripSummary(text string) string {
	start := strings.Index(text, "Scrip-Summary")
	if start < 0 {
		return ""
	}
	end := len(text)
	for _, marker := range []string{"Statement Of Securities", "Daily Margin Statement"} {
		if i := strings.Index(text[start:], marker); i >= 0 && start+i < end {
			end = start + i
		}
	}
	return text[start:end]
}

// ParseScripRows reads the trade lines of a Scrip-Summary block. Lines cut
// short before the net total still yield a row without it.
func ParseScripRows(block string) []ScripRow {
	var rows []ScripRow
	for _, l := range nonEmptyLines(block) {
		if scripHeaderRE.MatchString(l) {
			continue
		}
		m := scripStrictRE.FindStringSubmatch(l)
		if m == nil {
			m = scripLooseRE.FindStringSubmatch(l)
		}
		if m == nil {
			continue
		}
		qty, _ := strconv.ParseInt(m[3], 10, 64)
		r := ScripRow{
			Security:         strings.TrimSpace(m[1]),
			Side:             m[2],
			Quantity:         qty,
			GrossRate:        amount(m[4]),
			GrossTotal:       amount(m[5]),
			BrokeragePerUnit: amount(m[6]),
			TotalBrokerage:   amount(m[7]),
			NetRate:          amount(m[8]),
		}
		if len(m) > 9 {
			r.NetTotal = textnorm.OptionalAmount(m[9])
		}
		rows = append(rows, r)
	}
	return rows
}

// ParseCharges reads the note's levies. STT falls back to the rounded total line.
func ParseCharges(text string) Charges {
	c := Charges{
		STT:            firstAmount(sttRE, text),
		ExchangeTxn:    firstAmount(exchChargeRE, text),
		SEBITurnover:   firstAmount(sebiFeeRE, text),
		AdditionalCess: firstAmount(cessRE, text),
		StampDuty:      firstAmount(stampDutyRE, text),
	}
	if !c.STT.Valid {
		c.STT = firstAmount(sttRoundedRE, text)
	}
	return c
}

func netAmount(text string) decimal.NullDecimal {
	return firstAmount(netAmountRE, text)
}

func firstAmount(re *regexp.Regexp, text string) decimal.NullDecimal {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return decimal.NullDecimal{}
	}
	return textnorm.OptionalAmount(m[1])
}

func amount(s string) decimal.Decimal {
	d, err := textnorm.Amount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// isoDate accepts dd.mm.yyyy or dd-Mon-yyyy and returns YYYY-MM-DD, or "" when invalid.
func isoDate(s string) string {
	t, err := textnorm.ParseDate(s, "02.01.2006", "02-Jan-2006")
	if err != nil {
		return ""
	}
	return t.Format(textnorm.ISODate)
}
