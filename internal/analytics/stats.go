// Package analytics holds the pure computation core of the journal: performance
// statistics and the equity curve. All functions are deterministic, side-effect
// free, and safe to call concurrently on independent trade snapshots. Nothing
// is cached; every call recomputes from the full collection, which is cheap for
// the bounded workloads (thousands of trades) this product serves.
package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// ComputeStats aggregates performance metrics over a snapshot of trades.
//
// Partitioning:
//   - A trade is a win iff NetPnL > 0. Everything else, including exactly
//     break-even trades, counts toward the loss bucket. This asymmetry is
//     deliberate: a zero-PnL trade still consumed a slot and fees.
//
// Edge-case policies (never errors, always a well-defined result):
//   - Empty input returns all-zero stats with TotalInvested = baselineCapital.
//   - ProfitFactor equals TotalProfit when TotalLoss is zero, by product
//     policy, instead of being undefined or infinite.
//   - AvgWin / AvgLoss are zero when their bucket is empty.
//   - Trades without a usable stop loss are dropped from the R-multiple
//     average entirely (both numerator and denominator), never counted as zero.
//
// TotalInvested is baselineCapital + NetPnL: the product reports live equity
// under the "invested" name. Intentional semantics, not a bug.
//
// Parameters:
//   - trades: immutable snapshot of the account's trades, any order.
//   - baselineCapital: the account's configured starting capital.
//
// Returns:
//   - models.DerivedStats: the computed metrics.
func ComputeStats(trades []models.TradeRecord, baselineCapital decimal.Decimal) models.DerivedStats {
	stats := models.DerivedStats{TotalInvested: baselineCapital}
	if len(trades) == 0 {
		return stats
	}

	stats.TotalTrades = len(trades)
	stats.BestTrade = trades[0].NetPnL
	stats.WorstTrade = trades[0].NetPnL

	var lossSum decimal.Decimal // signed sum over the loss bucket (<= 0)

	for _, t := range trades {
		if t.NetPnL.GreaterThan(decimal.Zero) {
			stats.WinningTrades++
			stats.TotalProfit = stats.TotalProfit.Add(t.NetPnL)
		} else {
			stats.LosingTrades++
			lossSum = lossSum.Add(t.NetPnL)
		}

		if t.NetPnL.GreaterThan(stats.BestTrade) {
			stats.BestTrade = t.NetPnL
		}
		if t.NetPnL.LessThan(stats.WorstTrade) {
			stats.WorstTrade = t.NetPnL
		}
	}

	stats.TotalLoss = lossSum.Abs()
	stats.NetPnL = stats.TotalProfit.Sub(stats.TotalLoss)
	stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100

	if stats.TotalLoss.IsZero() {
		stats.ProfitFactor = stats.TotalProfit
	} else {
		stats.ProfitFactor = stats.TotalProfit.Div(stats.TotalLoss)
	}

	if stats.WinningTrades > 0 {
		stats.AvgWin = stats.TotalProfit.Div(decimal.NewFromInt(int64(stats.WinningTrades)))
	}
	if stats.LosingTrades > 0 {
		stats.AvgLoss = stats.TotalLoss.Div(decimal.NewFromInt(int64(stats.LosingTrades)))
	}

	stats.AvgRR = averageRMultiple(trades)
	stats.TotalInvested = baselineCapital.Add(stats.NetPnL)

	return stats
}

// averageRMultiple returns the mean reward-to-risk ratio across the trades
// that qualify, or 0 when none do.
//
// Per trade: risk is the price distance |entry - stop| (direction-independent
// magnitude); reward is exit-entry for LONG and entry-exit for SHORT. A trade
// is excluded when the stop loss is nil or zero, equals the entry price (zero
// risk), or the ratio comes out non-finite.
func averageRMultiple(trades []models.TradeRecord) float64 {
	var sum float64
	var included int

	for _, t := range trades {
		if t.StopLoss == nil || t.StopLoss.IsZero() {
			continue
		}
		risk := t.EntryPrice.Sub(*t.StopLoss).Abs()
		if risk.IsZero() {
			continue
		}

		var reward decimal.Decimal
		if t.Direction == models.DirectionShort {
			reward = t.EntryPrice.Sub(t.ExitPrice)
		} else {
			reward = t.ExitPrice.Sub(t.EntryPrice)
		}

		rr := reward.InexactFloat64() / risk.InexactFloat64()
		if math.IsNaN(rr) || math.IsInf(rr, 0) {
			continue
		}

		sum += rr
		included++
	}

	if included == 0 {
		return 0
	}
	return sum / float64(included)
}
