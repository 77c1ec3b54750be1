package iifl

import (
	"strconv"

	"github.com/ledgerlift/statex/internal/model"
)

// Columns is the standardized trade header.
var Columns = []string{
	"TradeDate", "Exchange", "Segment", "Symbol", "Side", "Qty", "Price",
	"BrokeragePerUnit", "NetRatePerUnit", "NetTotal", "DrCr",
	"OrderNo", "OrderTime", "TradeNo", "TradeTime", "SourceFile", "Page",
}

const (
	numFields     = 17
	colTradeDate  = 0
	colExchange   = 1
	colSegment    = 2
	colSymbol     = 3
	colSide       = 4
	colQty        = 5
	colPrice      = 6
	colBrokerage  = 7
	colNetRate    = 8
	colNetTotal   = 9
	colDrCr       = 10
	colOrderNo    = 11
	colOrderTime  = 12
	colTradeNo    = 13
	colTradeTime  = 14
	colSourceFile = 15
	colPage       = 16
)

// MarshalTrade converts an IIFLTrade to a CSV row.
func MarshalTrade(t model.IIFLTrade) []string {
	row := make([]string, numFields)
	row[colTradeDate] = t.TradeDate
	row[colExchange] = t.Exchange
	row[colSegment] = t.Segment
	row[colSymbol] = t.Symbol
	row[colSide] = t.Side
	row[colQty] = strconv.FormatInt(t.Qty, 10)
	row[colPrice] = t.Price.String()
	row[colBrokerage] = t.BrokeragePerUnit.String()
	row[colNetRate] = t.NetRatePerUnit.String()
	row[colNetTotal] = t.NetTotal.String()
	row[colDrCr] = t.DrCr
	row[colOrderNo] = t.OrderNo
	row[colOrderTime] = t.OrderTime
	row[colTradeNo] = t.TradeNo
	row[colTradeTime] = t.TradeTime
	row[colSourceFile] = t.SourceFile
	row[colPage] = strconv.Itoa(t.Page)
	return row
}
