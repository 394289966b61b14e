package broker

import (
	"context"
	"fmt"

	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/logger"
)

// SyncTrades runs the fetch, normalize, deduplicate pipeline for one broker
// and returns the normalized trades that are new to the journal, ready for
// persistence by the caller.
//
// Behavior:
//   - The fetch is awaited before normalization starts; the two phases never
//     interleave.
//   - A fetch failure is fatal to this sync call: nothing is normalized or
//     deduplicated, no partial records surface, and the error is returned
//     wrapped with the broker name but otherwise unchanged. No retry here;
//     retrying is the caller's policy decision.
//   - Deduplication compares candidates against the existing snapshot only.
//
// Parameters:
//   - ctx: controls timeout/abort of the network fetch.
//   - provider: the broker to sync from.
//   - accessToken: pre-decrypted broker token.
//   - existing: the account's persisted trades, for deduplication.
//
// Returns:
//   - []models.NormalizedTrade: new records, in broker order.
//   - error: the fetch error, if any.
func SyncTrades(ctx context.Context, provider Provider, accessToken string, existing []models.TradeRecord) ([]models.NormalizedTrade, error) {
	raw, err := provider.FetchTrades(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch trades from %s: %w", provider.Name(), err)
	}

	normalized := provider.Normalize(raw)
	fresh := FilterDuplicates(normalized, existing)

	logger.L().Info().
		Str("broker", provider.Name()).
		Int("fetched", len(raw)).
		Int("normalized", len(normalized)).
		Int("new", len(fresh)).
		Msg("broker sync computed")

	return fresh, nil
}
