package epf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlift/statex/internal/model"
)

const passbookText = `Employees' Provident Fund Organisation Member Passbook ` +
	`Establishment ID/Name MHBAN0012345000 / lnL; vkbZMh@uke | ACME SOFTWARE | PVT LTD Member ID/Name MHBAN00123450000012345 / ARUN VENKATESAN tUe frfFk | ` +
	`Date of Birth 01-06-1985 UAN 100200300400 ` +
	`Wage Month Transaction Date Type Particulars Wages Contribution ` +
	`Apr-2020 15-05-2020 CR Cont. For Due-Month 052020 15,000 1,800 1,800 1,250 550 ` +
	`May-2020 15-06-2020 CR Cont. For DueMonth 062020 15,000 1,800 1,800 1,250 550 ` +
	`Int. Updated upto 31/03/2021 12,345 2,100 0 ` +
	`Closing Balance as on 31/03/2021 1,40,000 20,000 15,000`

func TestParse(t *testing.T) {
	entries := Parse("MHBAN0012345000_2020.pdf", passbookText)
	require.Len(t, entries, 4)

	first := entries[0]
	assert.Equal(t, "MHBAN0012345000", first.EstablishmentID)
	assert.Equal(t, "ACME SOFTWARE PVT LTD", first.EstablishmentName)
	assert.Equal(t, "MHBAN00123450000012345", first.MemberID)
	assert.Equal(t, "ARUN VENKATESAN", first.MemberName)
	assert.Equal(t, "01-06-1985", first.DateOfBirth)
	assert.Equal(t, "100200300400", first.UAN)
	assert.Equal(t, "2020", first.Year)
	assert.Equal(t, model.PFContribution, first.TransactionType)
	assert.Equal(t, "Apr-2020", first.WageMonth)
	assert.Equal(t, "15-05-2020", first.Date)
	assert.Equal(t, "Cont. For Due-Month 052020", first.Particulars)
	assert.Equal(t, "15000", first.Wages.Decimal.String())
	assert.Equal(t, "1250", first.EPS.String())
	assert.Equal(t, "MHBAN0012345000_2020.pdf", first.SourceFile)

	assert.Equal(t, "Cont. For DueMonth 062020", entries[1].Particulars)

	interest := entries[2]
	assert.Equal(t, model.PFInterest, interest.TransactionType)
	assert.Equal(t, "31/03/2021", interest.Date)
	assert.Equal(t, "CR", interest.Type)
	assert.Equal(t, "Interest Updated", interest.Particulars)
	assert.False(t, interest.Wages.Valid)
	assert.Equal(t, "12345", interest.EPF.String())

	closing := entries[3]
	assert.Equal(t, model.PFClosingBalance, closing.TransactionType)
	assert.Equal(t, "140000", closing.EPF.String())
	assert.Equal(t, "Closing Balance", closing.Particulars)
}

func TestParse_FallsBackToFileEstablishment(t *testing.T) {
	entries := Parse("TNMAS99887766_2019.pdf", "Apr-2019 15-05-2019 CR Cont. For Due-Month 052019 10,000 1,200 1,200 833 367")
	require.Len(t, entries, 1)
	assert.Equal(t, "TNMAS99887766", entries[0].EstablishmentID)
	assert.Equal(t, "2019", entries[0].Year)
	assert.Empty(t, entries[0].UAN)
}

func TestParse_NoRows(t *testing.T) {
	assert.Empty(t, Parse("X_2020.pdf", "nothing useful here"))
}

func TestCleanField(t *testing.T) {
	assert.Equal(t, "ACME PVT LTD", CleanField("lnL; vkbZMh@uke | ACME  |PVT LTD"))
	assert.Equal(t, "", CleanField(""))
}

func TestSpec_Match(t *testing.T) {
	s := Spec()
	assert.True(t, s.Match("MHBAN16615080000010666_2020.pdf"))
	assert.True(t, s.Match("mhban1_2020.PDF"))
	assert.False(t, s.Match("passbook.pdf"))
	assert.False(t, s.Match("MHBAN_20.pdf"))
}

func TestMarshalEntry(t *testing.T) {
	entries := Parse("MHBAN0012345000_2020.pdf", passbookText)
	require.NotEmpty(t, entries)

	row := MarshalEntry(entries[0])
	require.Len(t, row, len(Columns))
	assert.Equal(t, "Contribution", row[colTxnType])
	assert.Equal(t, "15000", row[colWages])
	assert.Equal(t, "1800", row[colContribution])
	assert.Equal(t, "550", row[colPension])

	row = MarshalEntry(entries[2])
	assert.Equal(t, "", row[colWages])
	assert.Equal(t, "", row[colWageMonth])
}
