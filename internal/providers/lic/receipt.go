// Package lic reads LIC premium receipts and the LIC policy workbook.
package lic

import (
	"errors"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/model"
	"github.com/ledgerlift/statex/internal/pdftext"
)

// ReceiptsFormat is the registry name for receipt PDFs.
const ReceiptsFormat = "lic-receipts"

// minTextLen is the extracted length below which a receipt is assumed to be a scan.
const minTextLen = 40

var months = map[string]string{
	"jan": "January", "january": "January",
	"feb": "February", "february": "February",
	"mar": "March", "march": "March",
	"apr": "April", "april": "April",
	"may": "May",
	"jun": "June", "june": "June",
	"jul": "July", "july": "July",
	"aug": "August", "august": "August",
	"sep": "September", "sept": "September", "september": "September",
	"oct": "October", "october": "October",
	"nov": "November", "november": "November",
	"dec": "December", "december": "December",
}

var (
	nameTokenRE = regexp.MustCompile(`[/_\-\s]+`)
	yearRE      = regexp.MustCompile(`^(19|20)\d{2}$`)
	spillRE     = regexp.MustCompile(`(?s)\s+(Servicing|Branch|Plan|Term|Next|Due|Reg|No).*$`)
	numJunkRE   = regexp.MustCompile(`[ ,]`)
)

// receiptField pairs a field with its fallback patterns, tried in order.
// A pattern without a capture group yields its whole match.
type receiptField struct {
	set      func(*model.LICReceipt, string)
	patterns []*regexp.Regexp
	numeric  bool
}

func pats(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

var receiptFields = []receiptField{
	{
		set: func(r *model.LICReceipt, v string) { r.TransactionNo = v },
		patterns: pats(
			`(?i)Transaction\s*No\.?\s*:?\s*([A-Z0-9]+)`,
			`(?i)\bPR\d{10,}\b`,
		),
	},
	{
		set: func(r *model.LICReceipt, v string) { r.ReceiptNo = v },
		patterns: pats(
			`(?i)Receipt\s*No\s*:\s*([A-Z0-9]+)`,
			`(?i)Receipt\s*No\s*:?\s*(PR\d+)`,
		),
	},
	{
		set: func(r *model.LICReceipt, v string) { r.DateTime = v },
		patterns: pats(
			`(?i)Date\s*\(\s*Time\s*\)\s*:\s*([0-9/\-]{8,}\s*\(\s*[0-9:]{5,}\s*\))`,
			`(?i)Date\s*\(\s*Time\s*\)\s*:\s*([0-9/\-]{8,}[ \t]*[0-9:]*)`,
			`(?i)Date\s*:\s*([0-9]{1,2}[/\-][0-9]{1,2}[/\-][0-9]{2,4}[^\n]*)`,
		),
	},
	{
		set: func(r *model.LICReceipt, v string) { r.CollectingBr = v },
		patterns: pats(
			`(?i)Collecting\s*Branch\s*:\s*([A-Z0-9]+)`,
			`(?i)Collecting\s*Branch\s*:\s*(\S+)`,
		),
	},
	{
		set:      func(r *model.LICReceipt, v string) { r.ServicingBr = v },
		patterns: pats(`(?i)Servicing\s*Branch\s*:\s*([^\n]+)`),
	},
	{
		set: func(r *model.LICReceipt, v string) { r.Name = v },
		patterns: pats(
			`(?i)Smt\./Ms\./Shri[ \t]*:[ \t]*([A-Za-z.,\- \t]+)`,
			`(?i)Received.*?from[ \t]*:[ \t]*([A-Za-z][A-Za-z \t.&]+)`,
			`(?i)from[ \t]*:[ \t]*([A-Za-z][A-Za-z \t.&]+)`,
		),
	},
	{
		set: func(r *model.LICReceipt, v string) { r.PolicyNo = v },
		patterns: pats(
			`(?i)\bPolicy\s*No\b\s*([0-9]{6,})`,
			`(?i)\b(\d{6,})\b\s+[A-Za-z.\s]+\s+(?:Yes|No)?\s+\d{3}\s*/?\s*\d{1,2}`,
		),
	},
	{
		set:     func(r *model.LICReceipt, v string) { r.InstPremium = v },
		numeric: true,
		patterns: pats(
			`(?i)Inst\.?\s*Prem\(Rs\)\s*([0-9,.]+)`,
			`(?i)Inst\.?\s*Premium\s*([0-9,.]+)`,
		),
	},
	{
		set:      func(r *model.LICReceipt, v string) { r.Mode = v },
		patterns: pats(`\bMode\b\s*([A-Z]+)\b`),
	},
	{
		set:      func(r *model.LICReceipt, v string) { r.SumAssured = v },
		numeric:  true,
		patterns: pats(`(?i)Sum\s*Assured\s*[,(Rs)]*\s*([0-9,.]+)`),
	},
	{
		set:      func(r *model.LICReceipt, v string) { r.TotalPremium = v },
		numeric:  true,
		patterns: pats(`(?i)Total\s*Premium\s*([0-9,.]+)`),
	},
	{
		set:      func(r *model.LICReceipt, v string) { r.LateFee = v },
		numeric:  true,
		patterns: pats(`(?i)Late\s*Fee\s*([0-9,.]+)`),
	},
	{
		set:      func(r *model.LICReceipt, v string) { r.CDCharges = v },
		numeric:  true,
		patterns: pats(`(?i)CD\s*Charges\s*([0-9,.]+)`),
	},
	{
		set:      func(r *model.LICReceipt, v string) { r.GSTTax = v },
		numeric:  true,
		patterns: pats(`(?i)Tax\s*\*?\s*([0-9,.]+)`),
	},
	{
		set:      func(r *model.LICReceipt, v string) { r.CGST = v },
		numeric:  true,
		patterns: pats(`(?i)CGST\s*([0-9,.]+)`),
	},
	{
		set:      func(r *model.LICReceipt, v string) { r.SGST = v },
		numeric:  true,
		patterns: pats(`(?i)SGST/UTGST\s*([0-9,.]+)`),
	},
	{
		set:     func(r *model.LICReceipt, v string) { r.TotalAmount = v },
		numeric: true,
		patterns: pats(
			`(?i)Total\s*Amt\s*[(Rs)]*\s*([0-9,.]+)`,
			`(?i)Total\s*Amount\s*([0-9,.]+)`,
		),
	},
	{
		set:      func(r *model.LICReceipt, v string) { r.NextDue = v },
		patterns: pats(`(?i)Next\s*Due\s*([0-9/]{4,})`),
	},
	{
		set: func(r *model.LICReceipt, v string) { r.RegNo = v },
		patterns: pats(
			`(?i)Reg\.?\s*No\.?\s*([A-Z0-9]+)`,
			`(?i)\b(\d{2}[A-Z]{5}\d{4}[A-Z]\dZ\d)\b`,
		),
	},
	{
		set:      func(r *model.LICReceipt, v string) { r.Revival = v },
		patterns: pats(`(?i)Revival\s*\(Yes/No\)\s*([A-Za-z]+)`),
	},
}

// ReceiptsSpec returns the converter definition for LIC receipt PDFs.
func ReceiptsSpec() importer.Spec[model.LICReceipt] {
	return importer.Spec[model.LICReceipt]{
		Format:      ReceiptsFormat,
		Description: "LIC premium receipt PDFs",
		Ext:         ".pdf",
		Recursive:   true,
		Header:      ReceiptColumns,
		Parse: func(path string, opts importer.Options) ([]model.LICReceipt, error) {
			text := ""
			doc, err := pdftext.Open(path, opts.Password)
			switch {
			case errors.Is(err, pdftext.ErrEncrypted):
				return nil, err
			case err != nil:
				// Unreadable receipts still get a row so they can be sent to OCR.
				opts.Log().WithError(err).WithField("file", filepath.Base(path)).Warn("no text extracted")
			default:
				text = doc.LineText()
			}
			return []model.LICReceipt{ParseReceipt(filepath.Base(path), text)}, nil
		},
		Marshal: MarshalReceipt,
		Finish: func(records []model.LICReceipt, opts importer.Options) []model.LICReceipt {
			if !opts.Strict {
				return records
			}
			return slices.DeleteFunc(records, model.LICReceipt.Empty)
		},
	}
}

// ParseReceipt reads every receipt field from text. Year and month come from the file name.
func ParseReceipt(fileName, text string) model.LICReceipt {
	r := model.LICReceipt{SourceFile: fileName}
	r.Year, r.Month = YearMonth(fileName)
	r.NeedsOCR = utf8.RuneCountInString(text) < minTextLen
	if text == "" {
		return r
	}
	for _, f := range receiptFields {
		v := firstMatch(f.patterns, text)
		if f.numeric {
			v = numJunkRE.ReplaceAllString(v, "")
		}
		f.set(&r, strings.TrimSpace(v))
	}
	return r
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v := m[0]
		if len(m) > 1 {
			v = m[1]
		}
		return spillRE.ReplaceAllString(strings.TrimSpace(v), "")
	}
	return ""
}

// YearMonth picks a 19xx/20xx year and a month name out of a receipt file name
// such as "2017 June premium.pdf".
func YearMonth(fileName string) (year, month string) {
	stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	tokens := nameTokenRE.Split(stem, -1)
	for _, t := range tokens {
		if yearRE.MatchString(t) {
			year = t
			break
		}
	}
	for _, t := range tokens {
		if m, ok := months[strings.ToLower(t)]; ok {
			month = m
			break
		}
	}
	return year, month
}
