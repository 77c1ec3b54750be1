package geojit

import (
	"strconv"

	"github.com/ledgerlift/statex/internal/model"
	"github.com/ledgerlift/statex/internal/textnorm"
)

// Columns is the contract note CSV header.
var Columns = []string{
	"file_name", "contract_note_no", "trade_date", "settlement_no", "settlement_date",
	"exchange", "segment", "security_name", "ISIN", "side", "quantity",
	"gross_rate", "gross_total", "brokerage_per_unit", "total_brokerage", "net_rate",
	"net_total_amount", "stt", "exchange_txn_charges", "sebi_turnover_fee",
	"additional_cess", "stamp_duty", "other_charges_total", "net_amount_payable",
}

const (
	numFields           = 24
	colFileName         = 0
	colContractNoteNo   = 1
	colTradeDate        = 2
	colSettlementNo     = 3
	colSettlementDate   = 4
	colExchange         = 5
	colSegment          = 6
	colSecurityName     = 7
	colISIN             = 8
	colSide             = 9
	colQuantity         = 10
	colGrossRate        = 11
	colGrossTotal       = 12
	colBrokeragePerUnit = 13
	colTotalBrokerage   = 14
	colNetRate          = 15
	colNetTotalAmount   = 16
	colSTT              = 17
	colExchangeTxn      = 18
	colSEBITurnover     = 19
	colAdditionalCess   = 20
	colStampDuty        = 21
	colOtherCharges     = 22
	colNetAmountPayable = 23
)

// MarshalTrade converts a GeojitTrade to a CSV row. Charges absent from the note are blank.
func MarshalTrade(t model.GeojitTrade) []string {
	row := make([]string, numFields)
	row[colFileName] = t.FileName
	row[colContractNoteNo] = t.ContractNoteNo
	row[colTradeDate] = t.TradeDate
	row[colSettlementNo] = t.SettlementNo
	row[colSettlementDate] = t.SettlementDate
	row[colExchange] = t.Exchange
	row[colSegment] = t.Segment
	row[colSecurityName] = t.SecurityName
	row[colISIN] = t.ISIN
	row[colSide] = t.Side
	row[colQuantity] = strconv.FormatInt(t.Quantity, 10)
	row[colGrossRate] = t.GrossRate.String()
	row[colGrossTotal] = t.GrossTotal.String()
	row[colBrokeragePerUnit] = t.BrokeragePerUnit.String()
	row[colTotalBrokerage] = t.TotalBrokerage.String()
	row[colNetRate] = t.NetRate.String()
	row[colNetTotalAmount] = textnorm.FormatOptional(t.NetTotalAmount)
	row[colSTT] = textnorm.FormatOptional(t.STT)
	row[colExchangeTxn] = textnorm.FormatOptional(t.ExchangeTxnCharge)
	row[colSEBITurnover] = textnorm.FormatOptional(t.SEBITurnoverFee)
	row[colAdditionalCess] = textnorm.FormatOptional(t.AdditionalCess)
	row[colStampDuty] = textnorm.FormatOptional(t.StampDuty)
	row[colOtherCharges] = t.OtherCharges.String()
	row[colNetAmountPayable] = t.NetAmountPayable.String()
	return row
}
