package model

import "github.com/shopspring/decimal"

// ICICITrade is one executed trade from an ICICI Securities transaction statement.
type ICICITrade struct {
	SourceFile         string          `json:"source_file"`
	ContractRef        string          `json:"contract_ref"`
	ExchangeContractNo string          `json:"exchange_contract_no"`
	OrderDate          string          `json:"order_date"`
	OrderTime          string          `json:"order_time"`
	TradeNo            string          `json:"trade_no"`
	TradeDate          string          `json:"trade_date"` // dd-mm-yyyy
	TradeTime          string          `json:"trade_time"`
	SettlementDate     string          `json:"settlement_date"`
	Security           string          `json:"security"`
	Action             string          `json:"action"` // Buy or Sell
	Quantity           int64           `json:"quantity"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Brokerage          decimal.Decimal `json:"brokerage"`
	GST                decimal.Decimal `json:"gst"`
	NetAmount          decimal.Decimal `json:"net_amount"`
	Price              decimal.Decimal `json:"price_per_share"`
	ISIN               string          `json:"isin"`
}

// ICICISettlement is the per-settlement charge summary printed below the trades.
type ICICISettlement struct {
	SettlementNo string
	STT          decimal.Decimal
	TxnCharges   decimal.Decimal
	StampDuty    decimal.Decimal
	NetPayable   decimal.Decimal
}

// IIFLTrade is one trade from an IIFL contract note.
type IIFLTrade struct {
	TradeDate        string          `json:"TradeDate"` // YYYY-MM-DD
	Exchange         string          `json:"Exchange"`
	Segment          string          `json:"Segment"`
	Symbol           string          `json:"Symbol"`
	Side             string          `json:"Side"`
	Qty              int64           `json:"Qty"`
	Price            decimal.Decimal `json:"Price"`
	BrokeragePerUnit decimal.Decimal `json:"BrokeragePerUnit"`
	NetRatePerUnit   decimal.Decimal `json:"NetRatePerUnit"`
	NetTotal         decimal.Decimal `json:"NetTotal"`
	DrCr             string          `json:"DrCr"`
	OrderNo          string          `json:"OrderNo"`
	OrderTime        string          `json:"OrderTime"`
	TradeNo          string          `json:"TradeNo"`
	TradeTime        string          `json:"TradeTime"`
	SourceFile       string          `json:"SourceFile"`
	Page             int             `json:"Page"`
}

// GeojitTrade is one scrip-summary row of a Geojit contract note, carrying
// the note-level header and charges. Charges missing from the note stay unset.
type GeojitTrade struct {
	FileName          string              `json:"file_name"`
	ContractNoteNo    string              `json:"contract_note_no"`
	TradeDate         string              `json:"trade_date"` // YYYY-MM-DD
	SettlementNo      string              `json:"settlement_no"`
	SettlementDate    string              `json:"settlement_date"`
	Exchange          string              `json:"exchange"`
	Segment           string              `json:"segment"`
	SecurityName      string              `json:"security_name"`
	ISIN              string              `json:"ISIN"`
	Side              string              `json:"side"`
	Quantity          int64               `json:"quantity"`
	GrossRate         decimal.Decimal     `json:"gross_rate"`
	GrossTotal        decimal.Decimal     `json:"gross_total"`
	BrokeragePerUnit  decimal.Decimal     `json:"brokerage_per_unit"`
	TotalBrokerage    decimal.Decimal     `json:"total_brokerage"`
	NetRate           decimal.Decimal     `json:"net_rate"`
	NetTotalAmount    decimal.NullDecimal `json:"net_total_amount"`
	STT               decimal.NullDecimal `json:"stt"`
	ExchangeTxnCharge decimal.NullDecimal `json:"exchange_txn_charges"`
	SEBITurnoverFee   decimal.NullDecimal `json:"sebi_turnover_fee"`
	AdditionalCess    decimal.NullDecimal `json:"additional_cess"`
	StampDuty         decimal.NullDecimal `json:"stamp_duty"`
	OtherCharges      decimal.Decimal     `json:"other_charges_total"`
	NetAmountPayable  decimal.Decimal     `json:"net_amount_payable"`
}

// CorporateBenefit is one corporate action credited in a demat statement.
type CorporateBenefit struct {
	ISIN           string `json:"isin"`
	ScripName      string `json:"scrip_name"`
	Nature         string `json:"nature"`
	RecordDate     string `json:"record_date"` // dd-Mon-yyyy
	Units          string `json:"units"`
	RatioValue     string `json:"percentage_ratio_value"`
	PaymentDate    string `json:"payment_date"`
	ValueOfBenefit string `json:"value_of_benefit"`
}
