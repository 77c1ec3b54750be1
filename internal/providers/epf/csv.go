package epf

import (
	"github.com/ledgerlift/statex/internal/model"
	"github.com/ledgerlift/statex/internal/textnorm"
)

// Columns is the CSV header for passbook extracts.
var Columns = []string{
	"Establishment ID", "Establishment Name", "Member ID", "Member Name",
	"Date of Birth", "UAN", "Year", "TransactionType", "Wage Month", "Date", "Type", "Particulars",
	"Wages", "Contribution", "EPF (Employee)", "EPS (Employer)", "Pension", "Source File",
}

const (
	numFields       = 18
	colEstID        = 0
	colEstName      = 1
	colMemberID     = 2
	colMemberName   = 3
	colDOB          = 4
	colUAN          = 5
	colYear         = 6
	colTxnType      = 7
	colWageMonth    = 8
	colDate         = 9
	colType         = 10
	colParticulars  = 11
	colWages        = 12
	colContribution = 13
	colEPF          = 14
	colEPS          = 15
	colPension      = 16
	colSourceFile   = 17
)

// MarshalEntry converts a PFEntry to a CSV row. Text fields are cleaned once more on the way out.
func MarshalEntry(e model.PFEntry) []string {
	row := make([]string, numFields)
	row[colEstID] = CleanField(e.EstablishmentID)
	row[colEstName] = CleanField(e.EstablishmentName)
	row[colMemberID] = CleanField(e.MemberID)
	row[colMemberName] = CleanField(e.MemberName)
	row[colDOB] = CleanField(e.DateOfBirth)
	row[colUAN] = CleanField(e.UAN)
	row[colYear] = CleanField(e.Year)
	row[colTxnType] = string(e.TransactionType)
	row[colWageMonth] = CleanField(e.WageMonth)
	row[colDate] = CleanField(e.Date)
	row[colType] = CleanField(e.Type)
	row[colParticulars] = CleanField(e.Particulars)
	row[colWages] = textnorm.FormatOptional(e.Wages)
	row[colContribution] = textnorm.FormatOptional(e.Contribution)
	row[colEPF] = e.EPF.String()
	row[colEPS] = e.EPS.String()
	row[colPension] = e.Pension.String()
	row[colSourceFile] = CleanField(e.SourceFile)
	return row
}
