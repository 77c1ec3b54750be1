// Package epf reads EPFO member passbook PDFs.
package epf

import (
	"path/filepath"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/model"
	"github.com/ledgerlift/statex/internal/pdftext"
	"github.com/ledgerlift/statex/internal/textnorm"
)

// Format is the registry name.
const Format = "epf"

var (
	fileNameRE = regexp.MustCompile(`(?i)^([A-Z0-9]+)_(\d{4})\.pdf$`)

	rowRE = regexp.MustCompile(`([A-Za-z]{3}-\d{4})\s+` +
		`(\d{2}-\d{2}-\d{4})\s+` +
		`([A-Z]{2})\s+` +
		`(Cont\.\s+For\s+Due-?Month\s+\d{6})\s+` +
		`([0-9,]+)\s+([0-9,]+)\s+([0-9,]+)\s+([0-9,]+)\s+([0-9,]+)`)

	interestRE = regexp.MustCompile(`(?i)Int\.\s+Updated\s+upto\s+(\d{2}/\d{2}/\d{4})\s+([0-9,]+)\s+([0-9,]+)\s+([0-9,]+)`)
	closingRE  = regexp.MustCompile(`(?i)Closing\s+Balance\s+as\s+on\s+(\d{2}/\d{2}/\d{4})\s+([0-9,]+)\s+([0-9,]+)\s+([0-9,]+)`)

	establishmentRE = regexp.MustCompile(`Establishment ID/Name\s+([A-Z0-9]+)\s*/\s*(.*?)\s+Member`)
	memberRE        = regexp.MustCompile(`Member ID/Name\s+([A-Z0-9]+)\s*/\s*(.*?)\s+Date of Birth`)
	dobRE           = regexp.MustCompile(`Date of Birth\s+([0-9]{2}-[0-9]{2}-[0-9]{4})`)
	uanRE           = regexp.MustCompile(`UAN\s+([0-9]{9,})`)

	// Artifacts left by the Hindi half of the bilingual passbook.
	artifactREs = []*regexp.Regexp{
		regexp.MustCompile(`lnL; vkbZMh@uke \|`),
		regexp.MustCompile(`tUe frfFk \|`),
	}
	pipeRE = regexp.MustCompile(`\s*\|\s*`)
)

// Header holds the member details printed at the top of a passbook.
type Header struct {
	EstablishmentID   string
	EstablishmentName string
	MemberID          string
	MemberName        string
	DateOfBirth       string
	UAN               string
}

// Spec returns the converter definition for passbook PDFs.
func Spec() importer.Spec[model.PFEntry] {
	return importer.Spec[model.PFEntry]{
		Format:      Format,
		Description: "EPF member passbooks named <EstablishmentID>_<Year>.pdf",
		Ext:         ".pdf",
		Header:      Columns,
		Match:       func(name string) bool { return fileNameRE.MatchString(name) },
		Parse: func(path string, opts importer.Options) ([]model.PFEntry, error) {
			doc, err := pdftext.Open(path, opts.Password)
			if err != nil {
				return nil, err
			}
			return Parse(filepath.Base(path), doc.Text()), nil
		},
		Marshal: MarshalEntry,
	}
}

// CleanField removes bilingual artifacts and stray pipes, then collapses spaces.
func CleanField(s string) string {
	if s == "" {
		return s
	}
	for _, re := range artifactREs {
		s = re.ReplaceAllString(s, "")
	}
	s = pipeRE.ReplaceAllString(s, " ")
	return textnorm.Collapse(s)
}

// ParseHeader extracts the member block from collapsed passbook text.
func ParseHeader(text string) Header {
	var h Header
	if m := establishmentRE.FindStringSubmatch(text); m != nil {
		h.EstablishmentID = CleanField(m[1])
		h.EstablishmentName = CleanField(m[2])
	}
	if m := memberRE.FindStringSubmatch(text); m != nil {
		h.MemberID = CleanField(m[1])
		h.MemberName = CleanField(m[2])
	}
	if m := dobRE.FindStringSubmatch(text); m != nil {
		h.DateOfBirth = m[1]
	}
	if m := uanRE.FindStringSubmatch(text); m != nil {
		h.UAN = m[1]
	}
	return h
}

// Parse turns the collapsed text of one passbook into entries. Contribution
// rows come first, then the interest row, then the closing balance.
func Parse(fileName, text string) []model.PFEntry {
	var fileEstID, fileYear string
	if m := fileNameRE.FindStringSubmatch(fileName); m != nil {
		fileEstID, fileYear = m[1], m[2]
	}

	h := ParseHeader(text)
	if h.EstablishmentID == "" {
		h.EstablishmentID = fileEstID
	}

	base := model.PFEntry{
		EstablishmentID:   h.EstablishmentID,
		EstablishmentName: h.EstablishmentName,
		MemberID:          h.MemberID,
		MemberName:        h.MemberName,
		DateOfBirth:       h.DateOfBirth,
		UAN:               h.UAN,
		Year:              fileYear,
		SourceFile:        fileName,
	}

	var entries []model.PFEntry
	for _, m := range rowRE.FindAllStringSubmatch(text, -1) {
		e := base
		e.TransactionType = model.PFContribution
		e.WageMonth = m[1]
		e.Date = m[2]
		e.Type = m[3]
		e.Particulars = CleanField(m[4])
		e.Wages = textnorm.OptionalAmount(m[5])
		e.Contribution = textnorm.OptionalAmount(m[6])
		e.EPF = amount(m[7])
		e.EPS = amount(m[8])
		e.Pension = amount(m[9])
		entries = append(entries, e)
	}

	if e, ok := summaryRow(base, interestRE, text, model.PFInterest, "Interest Updated"); ok {
		entries = append(entries, e)
	}
	if e, ok := summaryRow(base, closingRE, text, model.PFClosingBalance, "Closing Balance"); ok {
		entries = append(entries, e)
	}
	return entries
}

func summaryRow(base model.PFEntry, re *regexp.Regexp, text string, typ model.PFTransactionType, particulars string) (model.PFEntry, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return model.PFEntry{}, false
	}
	e := base
	e.TransactionType = typ
	e.Date = m[1]
	e.Type = "CR"
	e.Particulars = particulars
	e.EPF = amount(m[2])
	e.EPS = amount(m[3])
	e.Pension = amount(m[4])
	return e, true
}

// amount parses a digits-and-commas token the row patterns already vetted.
func amount(s string) decimal.Decimal {
	d, err := textnorm.Amount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
