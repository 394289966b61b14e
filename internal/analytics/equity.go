package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// displayDateLayout is the date form the charting layer expects per point.
const displayDateLayout = "2006-01-02"

// BuildEquityCurve produces the time-ordered running-balance series for a
// trade snapshot: one point per trade, carrying the account equity after that
// trade settled.
//
// Ordering:
//   - Trades are sorted ascending by execution timestamp with a STABLE sort.
//     Same-timestamp trades keep their original relative order; letting an
//     unstable sort reorder them would change the cumulative path.
//
// Behavior:
//   - cumulative_0 = initialCapital; cumulative_i = cumulative_{i-1} + NetPnL_i.
//   - Empty input returns nil, an explicit no-points signal the rendering
//     layer can distinguish from a single-point curve.
//   - The input slice is never mutated; sorting happens on a copy.
//
// The final point's equity always equals initialCapital + NetPnL as computed
// by ComputeStats over the same snapshot and capital.
//
// Parameters:
//   - trades: immutable snapshot of the account's trades, any order.
//   - initialCapital: equity before the first trade in the snapshot.
//
// Returns:
//   - []models.EquityPoint: ordered curve, or nil for an empty snapshot.
func BuildEquityCurve(trades []models.TradeRecord, initialCapital decimal.Decimal) []models.EquityPoint {
	if len(trades) == 0 {
		return nil
	}

	ordered := make([]models.TradeRecord, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ExecutedAt.Before(ordered[j].ExecutedAt)
	})

	points := make([]models.EquityPoint, 0, len(ordered))
	equity := initialCapital

	for _, t := range ordered {
		equity = equity.Add(t.NetPnL)
		points = append(points, models.EquityPoint{
			Date:      t.ExecutedAt.Format(displayDateLayout),
			Equity:    equity,
			Timestamp: t.ExecutedAt,
		})
	}

	return points
}
