package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DerivedStats aggregates performance metrics over a trade collection.
//
// Fields:
//   - WinRate: winning trades over total trades, in percent [0, 100].
//   - TotalLoss: absolute value of the summed losing net PnL (always >= 0).
//   - ProfitFactor: TotalProfit / TotalLoss; when TotalLoss is zero it equals
//     TotalProfit by product policy (not infinity).
//   - AvgRR: mean R-multiple of the trades that qualify (see analytics package).
//   - TotalInvested: baseline capital plus NetPnL. The product deliberately
//     reports live equity under this name; callers should treat it as the
//     account's active balance.
//
// DerivedStats is ephemeral: recomputed fresh on every call, never persisted.
//
// swagger:model DerivedStats
type DerivedStats struct {
	TotalTrades   int             `json:"total_trades" example:"42"`
	WinningTrades int             `json:"winning_trades" example:"25"`
	LosingTrades  int             `json:"losing_trades" example:"17"`
	WinRate       float64         `json:"win_rate" example:"59.52"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	TotalLoss     decimal.Decimal `json:"total_loss"`
	NetPnL        decimal.Decimal `json:"net_pnl"`
	ProfitFactor  decimal.Decimal `json:"profit_factor"`
	AvgWin        decimal.Decimal `json:"avg_win"`
	AvgLoss       decimal.Decimal `json:"avg_loss"`
	BestTrade     decimal.Decimal `json:"best_trade"`
	WorstTrade    decimal.Decimal `json:"worst_trade"`
	AvgRR         float64         `json:"avg_rr" example:"1.8"`
	TotalInvested decimal.Decimal `json:"total_invested"`
}

// EquityPoint is one step of the running-balance series: the account equity
// after a trade settled. Date is the display form of Timestamp (YYYY-MM-DD).
//
// swagger:model EquityPoint
type EquityPoint struct {
	Date      string          `json:"date" example:"2025-09-01"`
	Equity    decimal.Decimal `json:"equity"`
	Timestamp time.Time       `json:"timestamp"`
}
