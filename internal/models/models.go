// Package models provides domain models for the trading client.
package models

// TransactionType represents the side of an order on the wire.
type TransactionType string

const (
	TransactionBuy  TransactionType = "B"
	TransactionSell TransactionType = "S"
)

// ProductType represents the product code of an order.
type ProductType string

const (
	ProductCNC    ProductType = "CNC"  // Delivery
	ProductMIS    ProductType = "MIS"  // Intraday
	ProductNRML   ProductType = "NRML" // F&O Normal
	ProductCO     ProductType = "CO"   // Cover order
	ProductBO     ProductType = "BO"   // Bracket order
)

// PriceType represents the order price type.
type PriceType string

const (
	PriceTypeMarket    PriceType = "MKT"
	PriceTypeLimit     PriceType = "L"
	PriceTypeStopLoss  PriceType = "SL"
	PriceTypeStopLossM PriceType = "SL-M"
)

// Validity represents order retention.
type Validity string

const (
	ValidityDay Validity = "DAY"
	ValidityIOC Validity = "IOC"
)

// OrderParams holds the parameters for placing an order. The json tags are
// the upstream API's short field names and must stay bit-for-bit compatible.
type OrderParams struct {
	ExchangeSegment   string          `json:"es"`
	TradingSymbol     string          `json:"ts"`
	TransactionType   TransactionType `json:"tt"`
	ProductCode       ProductType     `json:"pc"`
	PriceType         PriceType       `json:"pt"`
	Quantity          string          `json:"qt"`
	Price             string          `json:"pr"`
	TriggerPrice      string          `json:"tp"`
	DisclosedQuantity string          `json:"dq"`
	Validity          Validity        `json:"rt"`
	AMO               string          `json:"am"`
	MarketProtection  string          `json:"mp"`
	PortfolioFlag     string          `json:"pf"`
	Tag               string          `json:"ig,omitempty"`
}

// ModifyOrderParams holds the parameters for modifying an order.
type ModifyOrderParams struct {
	OrderNo           string          `json:"no"`
	InstrumentToken   string          `json:"tk"`
	ExchangeSegment   string          `json:"es"`
	TradingSymbol     string          `json:"ts"`
	TransactionType   TransactionType `json:"tt"`
	ProductCode       ProductType     `json:"pc"`
	PriceType         PriceType       `json:"pt"`
	Quantity          string          `json:"qt"`
	Price             string          `json:"pr"`
	TriggerPrice      string          `json:"tp"`
	DisclosedQuantity string          `json:"dq"`
	Validity          Validity        `json:"vd"`
	MarketProtection  string          `json:"mp"`
	DeviceDetail      string          `json:"dd"`
	AMO               string          `json:"am"`
}

// CancelOrderParams holds the parameters for cancelling an order.
type CancelOrderParams struct {
	OrderNo       string `json:"on"`
	AMO           string `json:"am"`
	TradingSymbol string `json:"ts,omitempty"`
}

// LimitsParams holds the parameters for a limits query.
type LimitsParams struct {
	Segment  string `json:"seg"`
	Exchange string `json:"exch"`
	Product  string `json:"prod"`
}

// MarginParams holds the parameters for an order margin query.
type MarginParams struct {
	ExchangeSegment string          `json:"exSeg"`
	TradingSymbol   string          `json:"trdSym"`
	TransactionType TransactionType `json:"transTp"`
	Quantity        string          `json:"qty"`
	Price           string          `json:"price"`
	Product         ProductType     `json:"prod"`
	TriggerPrice    string          `json:"trgPrc,omitempty"`
}

// QuoteInstrument identifies one instrument in a quotes request.
type QuoteInstrument struct {
	ExchangeSegment string
	InstrumentToken string
}

// QuoteType selects which quote fields the quotes endpoint returns.
type QuoteType string

const (
	QuoteTypeAll         QuoteType = "all"
	QuoteTypeLTP         QuoteType = "ltp"
	QuoteTypeOHLC        QuoteType = "ohlc"
	QuoteTypeDepth       QuoteType = "depth"
	QuoteTypeCircuits    QuoteType = "circuit_limits"
	QuoteTypeScripDetail QuoteType = "scrip_details"
)

// Instrument represents one scrip master row. The csv tags are the column
// names of the upstream scrip master files.
type Instrument struct {
	Token           string  `csv:"pSymbol"`
	TradingSymbol   string  `csv:"pTrdSymbol"`
	Name            string  `csv:"pSymbolName"`
	ExchangeSegment string  `csv:"pExchSeg"`
	InstrumentType  string  `csv:"pInstType"`
	OptionType      string  `csv:"pOptionType"`
	ISIN            string  `csv:"pISIN"`
	LotSize         int     `csv:"lLotSize"`
	TickSize        float64 `csv:"dTickSize"`
	StrikePrice     float64 `csv:"dStrikePrice;"`
	ExpiryEpoch     int64   `csv:"lExpiryDate "`
}
