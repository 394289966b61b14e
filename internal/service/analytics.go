package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/analytics"
	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/risk"
	"github.com/guttosm/tradepulse/internal/storage"
)

// AnalyticsService defines the business logic for the journal's derived
// views. Each call loads a fresh snapshot of the account's trades and runs
// the pure compute core over it; nothing is cached between calls.
type AnalyticsService interface {
	GetStats(ctx context.Context, accountID uuid.UUID, baselineCapital decimal.Decimal) (models.DerivedStats, error)
	GetEquityCurve(ctx context.Context, accountID uuid.UUID, initialCapital decimal.Decimal) ([]models.EquityPoint, error)
	GetFlags(ctx context.Context, accountID uuid.UUID) ([]models.Flag, error)
}

type analyticsService struct {
	repo    storage.TradesRepository
	riskCfg risk.Config
	now     func() time.Time // injected for tests
}

// NewAnalyticsService constructs the service with the given repository and
// discipline thresholds.
func NewAnalyticsService(repo storage.TradesRepository, riskCfg risk.Config) AnalyticsService {
	return &analyticsService{repo: repo, riskCfg: riskCfg, now: time.Now}
}

func (s *analyticsService) GetStats(_ context.Context, accountID uuid.UUID, baselineCapital decimal.Decimal) (models.DerivedStats, error) {
	trades, err := s.repo.ListTradesByAccount(accountID)
	if err != nil {
		return models.DerivedStats{}, err
	}
	return analytics.ComputeStats(trades, baselineCapital), nil
}

func (s *analyticsService) GetEquityCurve(_ context.Context, accountID uuid.UUID, initialCapital decimal.Decimal) ([]models.EquityPoint, error) {
	trades, err := s.repo.ListTradesByAccount(accountID)
	if err != nil {
		return nil, err
	}
	return analytics.BuildEquityCurve(trades, initialCapital), nil
}

func (s *analyticsService) GetFlags(_ context.Context, accountID uuid.UUID) ([]models.Flag, error) {
	trades, err := s.repo.ListTradesByAccount(accountID)
	if err != nil {
		return nil, err
	}
	return risk.DetectFlags(trades, s.riskCfg, s.now()), nil
}
