package lic

import "github.com/ledgerlift/statex/internal/model"

// ReceiptColumns is the receipt CSV header.
var ReceiptColumns = []string{
	"source_file", "year_from_filename", "month_from_filename", "transaction_no",
	"receipt_no", "date_time", "collecting_branch", "servicing_branch", "name",
	"policy_no", "inst_premium", "mode", "sum_assured", "total_premium", "late_fee",
	"cd_charges", "gst_tax", "cgst", "sgst", "total_amount", "next_due", "reg_no",
	"revival", "needs_ocr",
}

// MarshalReceipt converts a LICReceipt to a CSV row.
func MarshalReceipt(r model.LICReceipt) []string {
	ocr := "no"
	if r.NeedsOCR {
		ocr = "yes"
	}
	return []string{
		r.SourceFile, r.Year, r.Month, r.TransactionNo,
		r.ReceiptNo, r.DateTime, r.CollectingBr, r.ServicingBr, r.Name,
		r.PolicyNo, r.InstPremium, r.Mode, r.SumAssured, r.TotalPremium, r.LateFee,
		r.CDCharges, r.GSTTax, r.CGST, r.SGST, r.TotalAmount, r.NextDue, r.RegNo,
		r.Revival, ocr,
	}
}

// SheetColumns is the policy workbook CSV header.
var SheetColumns = []string{
	"Policy No", "Agency Code", "Name", "Premium Due Date", "Paid on",
	"Transaction No", "Transaction Type", "Premium Amount", "Late Fee",
	"Total Amount", "Benefit Amount",
}

// MarshalPremium converts a LICPremium to a CSV row.
func MarshalPremium(p model.LICPremium) []string {
	return []string{
		p.PolicyNo, p.AgencyCode, p.Name, p.PremiumDueDate, p.PaidOn,
		p.TransactionNo, p.TransactionType, p.PremiumAmount, p.LateFee,
		p.TotalAmount, p.BenefitAmount,
	}
}
