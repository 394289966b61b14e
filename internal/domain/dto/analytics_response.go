package dto

import (
	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/service"
)

// StatsResponse is the JSON body of GET /api/v1/stats. Decimals are rendered
// as JSON numbers by shopspring/decimal's marshaller; the API surface stays
// decoupled from the internal model even though the shapes currently match.
//
// swagger:model StatsResponse
type StatsResponse struct {
	AccountID string              `json:"account_id"`
	Stats     models.DerivedStats `json:"stats"`
}

// EquityCurveResponse is the JSON body of GET /api/v1/equity-curve. Points is
// an empty array (never null) when the account has no trades, so chart code
// can distinguish "no data yet" without null checks.
//
// swagger:model EquityCurveResponse
type EquityCurveResponse struct {
	AccountID string               `json:"account_id"`
	Points    []models.EquityPoint `json:"points"`
}

// FlagsResponse is the JSON body of GET /api/v1/flags. An empty Flags array
// is the healthy state.
//
// swagger:model FlagsResponse
type FlagsResponse struct {
	AccountID string        `json:"account_id"`
	Flags     []models.Flag `json:"flags"`
}

// SyncResponse is the JSON body of POST /api/v1/sync.
//
// swagger:model SyncResponse
type SyncResponse struct {
	AccountID string             `json:"account_id"`
	Result    service.SyncResult `json:"result"`
}
