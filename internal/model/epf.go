package model

import "github.com/shopspring/decimal"

// PFTransactionType classifies an EPF passbook row.
type PFTransactionType string

const (
	PFContribution   PFTransactionType = "Contribution"
	PFInterest       PFTransactionType = "Interest"
	PFClosingBalance PFTransactionType = "ClosingBalance"
)

// PFEntry is one row of an EPF member passbook.
type PFEntry struct {
	EstablishmentID   string              `json:"establishment_id"`
	EstablishmentName string              `json:"establishment_name"`
	MemberID          string              `json:"member_id"`
	MemberName        string              `json:"member_name"`
	DateOfBirth       string              `json:"date_of_birth"`
	UAN               string              `json:"uan"`
	Year              string              `json:"year"`
	TransactionType   PFTransactionType   `json:"transaction_type"`
	WageMonth         string              `json:"wage_month"`
	Date              string              `json:"date"` // as printed: dd-mm-yyyy or dd/mm/yyyy
	Type              string              `json:"type"` // CR or DR
	Particulars       string              `json:"particulars"`
	Wages             decimal.NullDecimal `json:"wages"`
	Contribution      decimal.NullDecimal `json:"contribution"`
	EPF               decimal.Decimal     `json:"epf_employee"`
	EPS               decimal.Decimal     `json:"eps_employer"`
	Pension           decimal.Decimal     `json:"pension"`
	SourceFile        string              `json:"source_file"`
}

// PFRecord is a normalized EPF row tagged with the person it belongs to.
type PFRecord struct {
	Person            string `json:"person"`
	UAN               string `json:"uan"`
	EstablishmentName string `json:"establishment_name"`
	MemberID          string `json:"member_id"`
	Year              string `json:"year"`
	TransactionType   string `json:"transaction_type"`
	Date              string `json:"date"`
	Particulars       string `json:"particulars"`
	Wages             string `json:"wages"`
	Contribution      string `json:"contribution"`
	EPFEmployee       string `json:"epf_employee"`
	EPFEmployer       string `json:"epf_employer"`
	Pension           string `json:"pension"`
}

// Key identifies a PFRecord for de-duplication.
func (r PFRecord) Key() string {
	return r.Person + "\x1f" + r.UAN + "\x1f" + r.MemberID + "\x1f" + r.Year + "\x1f" + r.TransactionType + "\x1f" + r.Date
}
