package lic

import (
	"strings"

	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/model"
	"github.com/ledgerlift/statex/internal/textnorm"
	"github.com/ledgerlift/statex/internal/workbook"
)

// SheetFormat is the registry name for the policy workbook.
const SheetFormat = "lic-sheet"

// sheetColumn names an output column and the rule that recognizes it in the
// source header. The first rule that matches a header claims it.
type sheetColumn struct {
	name  string
	match func(h string) bool
}

var sheetColumns = []sheetColumn{
	{"Policy No", func(h string) bool { return strings.Contains(h, "policy") && strings.Contains(h, "no") }},
	{"Agency Code", func(h string) bool { return strings.Contains(h, "agency") && strings.Contains(h, "code") }},
	{"Name", func(h string) bool { return h == "name" }},
	{"Premium Due Date", func(h string) bool { return strings.Contains(h, "premium due") }},
	{"Paid on", func(h string) bool { return strings.HasPrefix(h, "paid") }},
	{"Transaction No", func(h string) bool { return strings.Contains(h, "transaction no") }},
	{"Transaction Type", func(h string) bool { return strings.Contains(h, "transaction type") }},
	{"Premium Amount", func(h string) bool { return strings.Contains(h, "premium amount") }},
	{"Late Fee", func(h string) bool { return strings.Contains(h, "late fee") }},
	{"Total Amount", func(h string) bool { return strings.Contains(h, "total amount") }},
	{"Benefit Amount", func(h string) bool { return strings.Contains(h, "benefit amount") }},
}

// SheetSpec returns the converter definition for the LIC policy workbook.
func SheetSpec() importer.Spec[model.LICPremium] {
	return importer.Spec[model.LICPremium]{
		Format:      SheetFormat,
		Description: "LIC policy workbook (first sheet)",
		Ext:         ".xlsx",
		Header:      SheetColumns,
		Match: func(name string) bool {
			return !strings.HasPrefix(name, "~$")
		},
		Parse: func(path string, _ importer.Options) ([]model.LICPremium, error) {
			t, err := workbook.ReadSheet(path, "")
			if err != nil {
				return nil, err
			}
			return ParseSheet(t), nil
		},
		Marshal: MarshalPremium,
		Compare: comparePremiums,
	}
}

// MapColumns maps each output column to its source column index. Later
// headers matching the same output column replace earlier ones.
func MapColumns(header []string) map[string]int {
	out := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, c := range sheetColumns {
			if c.match(h) {
				out[c.name] = i
				break
			}
		}
	}
	return out
}

// ParseSheet converts the policy sheet. Summary rows ("Total", "#") and rows
// with no key field are dropped; dates are normalized to YYYY-MM-DD.
func ParseSheet(t *workbook.Table) []model.LICPremium {
	cols := MapColumns(t.Header)
	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []model.LICPremium
	for _, row := range t.Rows {
		if blank(row) {
			continue
		}
		switch strings.ToLower(get(row, "Policy No")) {
		case "total", "#", "nan":
			continue
		}
		p := model.LICPremium{
			PolicyNo:        get(row, "Policy No"),
			AgencyCode:      get(row, "Agency Code"),
			Name:            get(row, "Name"),
			PremiumDueDate:  normDate(get(row, "Premium Due Date")),
			PaidOn:          normDate(get(row, "Paid on")),
			TransactionNo:   get(row, "Transaction No"),
			TransactionType: get(row, "Transaction Type"),
			PremiumAmount:   get(row, "Premium Amount"),
			LateFee:         get(row, "Late Fee"),
			TotalAmount:     get(row, "Total Amount"),
			BenefitAmount:   get(row, "Benefit Amount"),
		}
		if p.PolicyNo == "" && p.PremiumDueDate == "" && p.TransactionType == "" && p.PremiumAmount == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func normDate(s string) string {
	t, ok := workbook.ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format(textnorm.ISODate)
}

// comparePremiums orders by due date then payment date, blanks last.
func comparePremiums(a, b model.LICPremium) int {
	if c := compareBlankLast(a.PremiumDueDate, b.PremiumDueDate); c != 0 {
		return c
	}
	return compareBlankLast(a.PaidOn, b.PaidOn)
}

func compareBlankLast(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	case a < b:
		return -1
	}
	return 1
}
