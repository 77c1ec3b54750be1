package model

// LICPremium is one row of the LIC policy workbook.
type LICPremium struct {
	PolicyNo        string `json:"policy_no"`
	AgencyCode      string `json:"agency_code"`
	Name            string `json:"name"`
	PremiumDueDate  string `json:"premium_due_date"` // YYYY-MM-DD
	PaidOn          string `json:"paid_on"`          // YYYY-MM-DD
	TransactionNo   string `json:"transaction_no"`
	TransactionType string `json:"transaction_type"`
	PremiumAmount   string `json:"premium_amount"`
	LateFee         string `json:"late_fee"`
	TotalAmount     string `json:"total_amount"`
	BenefitAmount   string `json:"benefit_amount"`
}

// LICReceipt is the field set read off one LIC premium receipt PDF.
type LICReceipt struct {
	SourceFile    string `json:"source_file"`
	Year          string `json:"year_from_filename"`
	Month         string `json:"month_from_filename"`
	TransactionNo string `json:"transaction_no"`
	ReceiptNo     string `json:"receipt_no"`
	DateTime      string `json:"date_time"`
	CollectingBr  string `json:"collecting_branch"`
	ServicingBr   string `json:"servicing_branch"`
	Name          string `json:"name"`
	PolicyNo      string `json:"policy_no"`
	InstPremium   string `json:"inst_premium"`
	Mode          string `json:"mode"`
	SumAssured    string `json:"sum_assured"`
	TotalPremium  string `json:"total_premium"`
	LateFee       string `json:"late_fee"`
	CDCharges     string `json:"cd_charges"`
	GSTTax        string `json:"gst_tax"`
	CGST          string `json:"cgst"`
	SGST          string `json:"sgst"`
	TotalAmount   string `json:"total_amount"`
	NextDue       string `json:"next_due"`
	RegNo         string `json:"reg_no"`
	Revival       string `json:"revival"`
	NeedsOCR      bool   `json:"needs_ocr"`
}

// Empty reports whether no receipt field was parsed.
func (r LICReceipt) Empty() bool {
	for _, v := range []string{
		r.TransactionNo, r.ReceiptNo, r.DateTime, r.CollectingBr, r.ServicingBr,
		r.Name, r.PolicyNo, r.InstPremium, r.Mode, r.SumAssured, r.TotalPremium,
		r.LateFee, r.CDCharges, r.GSTTax, r.CGST, r.SGST, r.TotalAmount,
		r.NextDue, r.RegNo, r.Revival,
	} {
		if v != "" {
			return false
		}
	}
	return true
}
