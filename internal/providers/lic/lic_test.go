package lic

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/model"
	"github.com/ledgerlift/statex/internal/workbook"
)

const receiptText = `LIFE INSURANCE CORPORATION OF INDIA
Transaction No: PR1234567890123
Receipt No : PR98765
Date (Time) : 12/06/2017 (10:15:20)
Collecting Branch : 81C
Servicing Branch : CHENNAI CITY
Smt./Ms./Shri : ARUN VENKATESAN
Policy No 712345678 Plan/Term 814/20 Mode YLY
Sum Assured 5,00,000
Inst. Prem(Rs) 24,512.00
Total Premium 24,512.00
Late Fee 0.00
CD Charges 0.00
Tax * 551.52
CGST 275.76
SGST/UTGST 275.76
Total Amt (Rs) 25,063.52
Next Due 06/2018
Revival (Yes/No) No`

func TestParseReceipt(t *testing.T) {
	r := ParseReceipt("2017 June LIC receipt.pdf", receiptText)

	assert.Equal(t, "2017", r.Year)
	assert.Equal(t, "June", r.Month)
	assert.Equal(t, "PR1234567890123", r.TransactionNo)
	assert.Equal(t, "PR98765", r.ReceiptNo)
	assert.Equal(t, "12/06/2017 (10:15:20)", r.DateTime)
	assert.Equal(t, "81C", r.CollectingBr)
	assert.Equal(t, "CHENNAI CITY", r.ServicingBr)
	assert.Equal(t, "ARUN VENKATESAN", r.Name)
	assert.Equal(t, "712345678", r.PolicyNo)
	assert.Equal(t, "YLY", r.Mode)
	assert.Equal(t, "500000", r.SumAssured)
	assert.Equal(t, "24512.00", r.InstPremium)
	assert.Equal(t, "24512.00", r.TotalPremium)
	assert.Equal(t, "551.52", r.GSTTax)
	assert.Equal(t, "275.76", r.SGST)
	assert.Equal(t, "25063.52", r.TotalAmount)
	assert.Equal(t, "06/2018", r.NextDue)
	assert.Equal(t, "No", r.Revival)
	assert.False(t, r.NeedsOCR)
	assert.False(t, r.Empty())
}

func TestParseReceiptScanned(t *testing.T) {
	r := ParseReceipt("2010_Dec_receipt.pdf", "")
	assert.Equal(t, "2010", r.Year)
	assert.Equal(t, "December", r.Month)
	assert.True(t, r.NeedsOCR)
	assert.True(t, r.Empty())

	row := MarshalReceipt(r)
	require.Len(t, row, len(ReceiptColumns))
	assert.Equal(t, "yes", row[len(row)-1])
}

func TestYearMonthMissing(t *testing.T) {
	year, month := YearMonth("premium-receipt.pdf")
	assert.Empty(t, year)
	assert.Empty(t, month)
}

func TestReceiptsStrictDropsEmpty(t *testing.T) {
	spec := ReceiptsSpec()
	records := []model.LICReceipt{
		{SourceFile: "a.pdf", NeedsOCR: true},
		{SourceFile: "b.pdf", PolicyNo: "712345678"},
	}

	kept := spec.Finish(append([]model.LICReceipt(nil), records...), importer.Options{})
	assert.Len(t, kept, 2)

	kept = spec.Finish(append([]model.LICReceipt(nil), records...), importer.Options{Strict: true})
	require.Len(t, kept, 1)
	assert.Equal(t, "b.pdf", kept[0].SourceFile)
}

func TestMapColumns(t *testing.T) {
	cols := MapColumns([]string{" Policy No. ", "Agency Code", "NAME", "Premium Due Date", "Paid On", "Transaction Type", "Benefit Amount"})
	assert.Equal(t, 0, cols["Policy No"])
	assert.Equal(t, 2, cols["Name"])
	assert.Equal(t, 4, cols["Paid on"])
	assert.Equal(t, 6, cols["Benefit Amount"])
	_, ok := cols["Late Fee"]
	assert.False(t, ok)
}

func TestParseSheet(t *testing.T) {
	table := workbook.NewTable("Sheet1",
		[]string{"Policy No", "Name", "Premium Due Date", "Paid on", "Transaction Type", "Premium Amount"},
		[][]string{
			{"712345678", "Arun", "2021-06-28", "2021-06-20", "Premium", "24512"},
			{"Total", "", "", "", "", "49024"},
			{"", "", "", "", "", ""},
			{"712345678", "Arun", "2020-06-28", "not a date", "Premium", "24512"},
			{"", "note", "", "", "", ""},
		})

	rows := ParseSheet(table)
	require.Len(t, rows, 2)
	assert.Equal(t, "2021-06-28", rows[0].PremiumDueDate)
	assert.Equal(t, "2021-06-20", rows[0].PaidOn)
	assert.Equal(t, "", rows[1].PaidOn)
}

func TestSheetConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "lic.xlsx")
	require.NoError(t, workbook.Write(in, workbook.Sheet{
		Name:   "Sheet1",
		Header: []string{"Policy No", "Premium Due Date", "Paid on", "Transaction Type", "Premium Amount", "Benefit Amount"},
		Rows: workbook.StringRows([][]string{
			{"712345678", "2022-06-28", "2022-06-25", "Premium", "24512", ""},
			{"712345678", "2021-06-28", "2021-06-20", "Premium", "24512", ""},
			{"712345678", "", "2023-03-01", "Survival Benefit", "", "50000"},
		}),
	}))

	out := filepath.Join(dir, "out", "lic.csv")
	res, err := importer.New(SheetSpec()).Convert(context.Background(), importer.Options{InputFile: in, OutputCSV: out})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Policy No,Agency Code,Name,Premium Due Date,Paid on,Transaction No,Transaction Type,Premium Amount,Late Fee,Total Amount,Benefit Amount\n"+
		"712345678,,,2021-06-28,2021-06-20,,Premium,24512,,,\n"+
		"712345678,,,2022-06-28,2022-06-25,,Premium,24512,,,\n"+
		"712345678,,,,2023-03-01,,Survival Benefit,,,,50000\n", string(data))
}
