package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetClass categorizes the instrument a trade was executed on.
type AssetClass string

const (
	AssetIndex     AssetClass = "INDEX"
	AssetStocks    AssetClass = "STOCKS"
	AssetOptions   AssetClass = "OPTIONS"
	AssetCommodity AssetClass = "COMMODITY"
	AssetCurrency  AssetClass = "CURRENCY"
	AssetFutures   AssetClass = "FUTURES"
	AssetCrypto    AssetClass = "CRYPTO"
)

// Direction indicates whether a trade was opened long or short.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// TradeRecord is a single executed round-trip trade as stored in the journal.
//
// The analytics and risk engines treat TradeRecord as immutable input: they
// never mutate records, only produce derived output.
//
// Conventions (supplied by the caller, not enforced here):
//   - Quantity is positive and already lot-size-expanded.
//   - NetPnL = GrossPnL - Fees.
//   - StopLoss is nil when the trader defined no stop for the trade.
//
// swagger:model TradeRecord
type TradeRecord struct {
	ID            uuid.UUID        `json:"id"`
	AccountID     uuid.UUID        `json:"account_id"`
	ExecutedAt    time.Time        `json:"executed_at"`
	Symbol        string           `json:"symbol" example:"NIFTY"`
	AssetClass    AssetClass       `json:"asset_class" example:"INDEX"`
	Direction     Direction        `json:"direction" example:"LONG"`
	EntryPrice    decimal.Decimal  `json:"entry_price"`
	ExitPrice     decimal.Decimal  `json:"exit_price"`
	Quantity      int64            `json:"quantity" example:"65"`
	Fees          decimal.Decimal  `json:"fees"`
	StopLoss      *decimal.Decimal `json:"stop_loss,omitempty"`
	Strategy      string           `json:"strategy,omitempty" example:"breakout"`
	Notes         string           `json:"notes,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	GrossPnL      decimal.Decimal  `json:"gross_pnl"`
	NetPnL        decimal.Decimal  `json:"net_pnl"`
	ImportBatchID *uuid.UUID       `json:"import_batch_id,omitempty"`
}

// NormalizedTrade is a broker-sourced projection of TradeRecord that has not
// been persisted yet, so it carries no identity or owner fields. It is produced
// by broker normalization, filtered by deduplication, and handed to the storage
// layer which assigns ID, AccountID and ImportBatchID on insert.
type NormalizedTrade struct {
	ExecutedAt time.Time        `json:"executed_at"`
	Symbol     string           `json:"symbol"`
	AssetClass AssetClass       `json:"asset_class"`
	Direction  Direction        `json:"direction"`
	EntryPrice decimal.Decimal  `json:"entry_price"`
	ExitPrice  decimal.Decimal  `json:"exit_price"`
	Quantity   int64            `json:"quantity"`
	Fees       decimal.Decimal  `json:"fees"`
	StopLoss   *decimal.Decimal `json:"stop_loss,omitempty"`
	GrossPnL   decimal.Decimal  `json:"gross_pnl"`
	NetPnL     decimal.Decimal  `json:"net_pnl"`
}
