package broker

import (
	"time"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// duplicateWindow is the maximum timestamp distance under which two otherwise
// identical trades are considered the same execution. The comparison is a
// strict less-than: exactly 60s apart is NOT a duplicate.
const duplicateWindow = 60 * time.Second

// IsDuplicate reports whether a normalized candidate matches an existing
// journal record closely enough to be the same execution.
//
// All four conditions are required; a partial match passes through as a new
// trade:
//   - same instrument symbol,
//   - absolute timestamp difference strictly below 60 000 ms,
//   - same quantity,
//   - same direction.
func IsDuplicate(candidate models.NormalizedTrade, existing models.TradeRecord) bool {
	if candidate.Symbol != existing.Symbol {
		return false
	}
	delta := candidate.ExecutedAt.Sub(existing.ExecutedAt)
	if delta < 0 {
		delta = -delta
	}
	if delta >= duplicateWindow {
		return false
	}
	if candidate.Quantity != existing.Quantity {
		return false
	}
	return candidate.Direction == existing.Direction
}

// FilterDuplicates drops every candidate that duplicates an existing record,
// preserving candidate order. Candidates are compared against the persisted
// snapshot only, not against each other; the broker's own batch is assumed
// internally unique.
func FilterDuplicates(candidates []models.NormalizedTrade, existing []models.TradeRecord) []models.NormalizedTrade {
	if len(candidates) == 0 {
		return nil
	}

	fresh := make([]models.NormalizedTrade, 0, len(candidates))
	for _, c := range candidates {
		dup := false
		for _, e := range existing {
			if IsDuplicate(c, e) {
				dup = true
				break
			}
		}
		if !dup {
			fresh = append(fresh, c)
		}
	}
	return fresh
}
