package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/tradepulse/internal/broker"
	"github.com/guttosm/tradepulse/internal/logger"
	"github.com/guttosm/tradepulse/internal/storage"
)

// ErrUnknownBroker marks a sync request naming a broker that is not in the
// registry; handlers translate it to a 400.
var ErrUnknownBroker = errors.New("unknown broker")

// ErrBrokerFetch marks a failed upstream tradebook fetch; handlers translate
// it to a 502. The underlying broker error is wrapped, not replaced.
var ErrBrokerFetch = errors.New("broker fetch failed")

// SyncResult summarizes one completed broker sync. Skipped is set when the
// trading day was already on record in the sync log and nothing was fetched.
type SyncResult struct {
	Broker   string    `json:"broker"`
	BatchID  uuid.UUID `json:"batch_id"`
	Inserted int       `json:"inserted"`
	Skipped  bool      `json:"skipped"`
}

// SyncService orchestrates broker tradebook imports: fetch, normalize,
// deduplicate against the persisted snapshot, persist the remainder, and
// record the sync in the log.
type SyncService interface {
	SyncBroker(ctx context.Context, brokerName, accessToken string, accountID uuid.UUID, force bool) (*SyncResult, error)
}

type syncService struct {
	repo     storage.TradesRepository
	registry *broker.Registry
	now      func() time.Time // injected for tests
}

// NewSyncService constructs the sync orchestrator with its injected broker
// registry.
func NewSyncService(repo storage.TradesRepository, registry *broker.Registry) SyncService {
	return &syncService{repo: repo, registry: registry, now: time.Now}
}

// SyncBroker runs the full pipeline for one broker and account.
//
// Behavior:
//   - Unknown broker names fail fast with ErrUnknownBroker.
//   - The sync is stamped against the last trading day (today, or the most
//     recent market day when run on a weekend or holiday).
//   - Idempotency: a day already in the sync log is skipped unless force is
//     set; a forced re-run first deletes the trades of the prior batch for
//     that day, then re-imports.
//   - A fetch failure aborts the call before any normalization; no partial
//     records are persisted (wrapped in ErrBrokerFetch).
//   - An empty post-dedupe batch is a successful no-op: nothing is inserted,
//     but the sync log is still stamped for the day.
func (s *syncService) SyncBroker(ctx context.Context, brokerName, accessToken string, accountID uuid.UUID, force bool) (*SyncResult, error) {
	provider, err := s.registry.Get(brokerName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownBroker, err)
	}

	day := broker.LastTradingDay(s.now().UTC())

	if force {
		priorBatch, err := s.repo.SyncBatchForDate(provider.Name(), day)
		if err != nil {
			return nil, fmt.Errorf("load prior sync batch: %w", err)
		}
		if priorBatch != uuid.Nil {
			if err := s.repo.DeleteTradesByBatch(priorBatch); err != nil {
				return nil, fmt.Errorf("roll back prior batch: %w", err)
			}
			logger.L().Info().
				Str("broker", provider.Name()).
				Str("batch_id", priorBatch.String()).
				Msg("rolled back prior sync batch for re-import")
		}
	} else {
		synced, err := s.repo.HasSyncForDate(provider.Name(), day)
		if err != nil {
			return nil, fmt.Errorf("check sync log: %w", err)
		}
		if synced {
			logger.L().Info().
				Str("broker", provider.Name()).
				Time("day", day).
				Bool("skipped", true).
				Msg("already synced")
			return &SyncResult{Broker: provider.Name(), Skipped: true}, nil
		}
	}

	existing, err := s.repo.ListTradesByAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("load existing trades: %w", err)
	}

	fresh, err := broker.SyncTrades(ctx, provider, accessToken, existing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrokerFetch, err)
	}

	batchID := uuid.New()
	if len(fresh) > 0 {
		if err := s.repo.InsertTradesBatch(accountID, batchID, fresh); err != nil {
			return nil, fmt.Errorf("persist synced trades: %w", err)
		}
	}

	if err := s.repo.UpsertSyncLog(provider.Name(), day, len(fresh), batchID); err != nil {
		// The trades are already in; a failed log write should not fail the sync.
		logger.L().Error().Str("broker", provider.Name()).Err(err).Msg("sync log write failed")
	}

	return &SyncResult{
		Broker:   provider.Name(),
		BatchID:  batchID,
		Inserted: len(fresh),
	}, nil
}
