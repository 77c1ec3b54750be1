package icici

import (
	"regexp"
	"slices"
	"strings"

	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/model"
	"github.com/ledgerlift/statex/internal/pdftext"
	"github.com/ledgerlift/statex/internal/textnorm"
)

// BenefitsFormat is the registry name for demat corporate benefits.
const BenefitsFormat = "icici-benefits"

// NatureKeywords are the corporate action kinds recognised in the Nature column.
var NatureKeywords = []string{
	"Bonus", "Interim Dividend", "Final Dividend", "Yearly Dividend", "Dividend",
	"Split", "Rights", "Merger", "Demerger", "Redemption", "Interest", "Warrant",
	"Buyback", "Consolidation", "Spin-off", "Preference Dividend",
}

var (
	isinRE         = regexp.MustCompile(`IN[A-Z0-9]{9}\d`)
	dMonYRE        = regexp.MustCompile(`\d{2}-[A-Za-z]{3}-\d{4}`)
	leadNumberRE   = regexp.MustCompile(`^(\d+(?:\.\d+)?)`)
	tailNumberRE   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*$`)
	rupeeParenRE   = regexp.MustCompile(`\(Rs\.\s*[^)]*\)`)
	slashDashRE    = regexp.MustCompile(`/-\s*`)
	glueDateISINRE = regexp.MustCompile(`((?:Aug|Sep|Oct|Nov|Dec)\s*\d{2},\s*\d{4})ISIN`)
)

// BenefitsSpec returns the converter definition for demat statement benefits.
func BenefitsSpec() importer.Spec[model.CorporateBenefit] {
	return importer.Spec[model.CorporateBenefit]{
		Format:      BenefitsFormat,
		Description: "corporate benefits from ICICI demat statements",
		Ext:         ".pdf",
		RequireRows: true,
		Header:      BenefitColumns,
		Parse: func(path string, opts importer.Options) ([]model.CorporateBenefit, error) {
			doc, err := pdftext.Open(path, opts.Password)
			if err != nil {
				return nil, err
			}
			return ParseBenefits(doc.Text()), nil
		},
		Marshal: MarshalBenefit,
		Finish: func(records []model.CorporateBenefit, _ importer.Options) []model.CorporateBenefit {
			return DedupeBenefits(canonicalDates(records))
		},
		Compare: compareBenefits,
	}
}

func normalizeBenefitText(s string) string {
	s = textnorm.Collapse(s)
	return glueDateISINRE.ReplaceAllString(s, "$1 ISIN")
}

// ParseBenefits scans the whole statement for ISINs and parses the text up
// to the next ISIN as one benefit. Chunks without a recognised nature are dropped.
func ParseBenefits(text string) []model.CorporateBenefit {
	text = normalizeBenefitText(text)
	locs := isinRE.FindAllStringIndex(text, -1)

	var out []model.CorporateBenefit
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		isin := text[loc[0]:loc[1]]
		b, ok := parseAfterISIN(text[loc[1]:end])
		if !ok || !hasNatureKeyword(b.Nature) {
			continue
		}
		b.ISIN = isin
		out = append(out, b)
	}
	return out
}

// parseAfterISIN reads record date, units, ratio, payment date and value
// from the flattened text following an ISIN.
func parseAfterISIN(after string) (model.CorporateBenefit, bool) {
	t := textnorm.Collapse(after)
	rd := dMonYRE.FindStringIndex(t)
	if rd == nil {
		return model.CorporateBenefit{}, false
	}

	b := model.CorporateBenefit{RecordDate: t[rd[0]:rd[1]]}
	beforeRD := textnorm.Collapse(t[:rd[0]])
	afterRD := textnorm.Collapse(t[rd[1]:])

	afterUnits := afterRD
	if m := leadNumberRE.FindStringSubmatchIndex(afterRD); m != nil {
		b.Units = afterRD[m[2]:m[3]]
		afterUnits = textnorm.Collapse(afterRD[m[1]:])
	}

	between, afterPay := afterUnits, ""
	if pay := dMonYRE.FindStringIndex(afterUnits); pay != nil {
		b.PaymentDate = afterUnits[pay[0]:pay[1]]
		between = textnorm.Collapse(afterUnits[:pay[0]])
		afterPay = textnorm.Collapse(afterUnits[pay[1]:])
	}

	if m := tailNumberRE.FindStringSubmatch(afterPay); m != nil {
		b.ValueOfBenefit = m[1]
	}

	b.ScripName, b.Nature = SplitScripAndNature(beforeRD)
	b.RatioValue = cleanRatioValue(between)
	return b, true
}

// SplitScripAndNature separates the scrip name from the trailing nature of
// the benefit: the shortest tail (up to three words) holding a keyword wins.
func SplitScripAndNature(s string) (scrip, nature string) {
	words := strings.Fields(s)
	scrip = s
	for _, k := range NatureKeywords {
		lk := strings.ToLower(k)
		for n := 1; n <= 3; n++ {
			if len(words) < n {
				continue
			}
			cand := strings.Join(words[len(words)-n:], " ")
			if strings.Contains(strings.ToLower(cand), lk) {
				nature = cand
				scrip = strings.Join(words[:len(words)-n], " ")
				break
			}
		}
		if nature != "" {
			break
		}
	}
	if nature == "" {
		switch {
		case len(words) >= 2:
			nature = strings.Join(words[len(words)-2:], " ")
			scrip = strings.Join(words[:len(words)-2], " ")
		case len(words) == 1:
			nature, scrip = words[0], ""
		default:
			nature, scrip = "", ""
		}
	}
	scrip = strings.Trim(strings.TrimSpace(rupeeParenRE.ReplaceAllString(scrip, "")), " -/")
	return scrip, nature
}

func cleanRatioValue(s string) string {
	s = textnorm.Collapse(s)
	s = rupeeParenRE.ReplaceAllString(s, "")
	s = slashDashRE.ReplaceAllString(s, "")
	return textnorm.Collapse(s)
}

func hasNatureKeyword(nature string) bool {
	ln := strings.ToLower(nature)
	return slices.ContainsFunc(NatureKeywords, func(k string) bool {
		return strings.Contains(ln, strings.ToLower(k))
	})
}

// DedupeBenefits drops exact duplicates, keeping the first occurrence.
func DedupeBenefits(in []model.CorporateBenefit) []model.CorporateBenefit {
	seen := make(map[model.CorporateBenefit]bool, len(in))
	out := in[:0:0]
	for _, b := range in {
		if seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

// canonicalDates rewrites parseable dates as dd-Mon-yyyy.
func canonicalDates(in []model.CorporateBenefit) []model.CorporateBenefit {
	for i := range in {
		in[i].RecordDate = canonicalDMonY(in[i].RecordDate)
		in[i].PaymentDate = canonicalDMonY(in[i].PaymentDate)
	}
	return in
}

func canonicalDMonY(s string) string {
	t, err := textnorm.ParseDate(s, "02-Jan-2006")
	if err != nil {
		return s
	}
	return t.Format("02-Jan-2006")
}

func compareBenefits(a, b model.CorporateBenefit) int {
	ta, errA := textnorm.ParseDate(a.RecordDate, "02-Jan-2006")
	tb, errB := textnorm.ParseDate(b.RecordDate, "02-Jan-2006")
	switch {
	case errA == nil && errB == nil:
		if c := ta.Compare(tb); c != 0 {
			return c
		}
	case errA != nil && errB == nil:
		return 1
	case errA == nil && errB != nil:
		return -1
	}
	return strings.Compare(a.ISIN, b.ISIN)
}
