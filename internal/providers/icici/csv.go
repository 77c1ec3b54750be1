package icici

import (
	"strconv"

	"github.com/ledgerlift/statex/internal/model"
)

// TradeColumns is the CSV header for equity transactions.
var TradeColumns = []string{
	"Source File", "Contract Ref", "Exchange Contract No", "Order Date", "Order Time",
	"Trade No", "Trade Date", "Trade Time", "Settlement Date", "Security", "Action",
	"Quantity", "Total Amount (₹)", "Brokerage (₹)", "GST (₹)", "Net Amount (₹)",
	"Price/Share (₹)", "ISIN",
}

const (
	tradeNumFields  = 18
	colSourceFile   = 0
	colContractRef  = 1
	colExchContract = 2
	colOrderDate    = 3
	colOrderTime    = 4
	colTradeNo      = 5
	colTradeDate    = 6
	colTradeTime    = 7
	colSettleDate   = 8
	colSecurity     = 9
	colAction       = 10
	colQuantity     = 11
	colTotal        = 12
	colBrokerage    = 13
	colGST          = 14
	colNet          = 15
	colPrice        = 16
	colISIN         = 17
)

// MarshalTrade converts an ICICITrade to a CSV row.
func MarshalTrade(t model.ICICITrade) []string {
	row := make([]string, tradeNumFields)
	row[colSourceFile] = t.SourceFile
	row[colContractRef] = t.ContractRef
	row[colExchContract] = t.ExchangeContractNo
	row[colOrderDate] = t.OrderDate
	row[colOrderTime] = t.OrderTime
	row[colTradeNo] = t.TradeNo
	row[colTradeDate] = t.TradeDate
	row[colTradeTime] = t.TradeTime
	row[colSettleDate] = t.SettlementDate
	row[colSecurity] = t.Security
	row[colAction] = t.Action
	row[colQuantity] = strconv.FormatInt(t.Quantity, 10)
	row[colTotal] = t.TotalAmount.String()
	row[colBrokerage] = t.Brokerage.String()
	row[colGST] = t.GST.String()
	row[colNet] = t.NetAmount.String()
	row[colPrice] = t.Price.String()
	row[colISIN] = t.ISIN
	return row
}

// BenefitColumns is the CSV header for corporate benefits.
var BenefitColumns = []string{
	"ISIN", "Scrip Name", "Nature", "Record Date", "No. of Units",
	"Percentage/Ratio/Value", "Payment/Allotment Date", "Value of Benefit",
}

// MarshalBenefit converts a CorporateBenefit to a CSV row.
func MarshalBenefit(b model.CorporateBenefit) []string {
	return []string{b.ISIN, b.ScripName, b.Nature, b.RecordDate, b.Units, b.RatioValue, b.PaymentDate, b.ValueOfBenefit}
}
