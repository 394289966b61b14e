package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/domain/models"
	"github.com/guttosm/tradepulse/internal/logger"
)

// Dhan fetches and normalizes the Dhan HQ tradebook.
type Dhan struct {
	baseURL string
	client  *http.Client
}

// NewDhan constructs the Dhan provider.
//
// Parameters:
//   - baseURL: Dhan API root (e.g. "https://api.dhan.co").
//   - client: HTTP client to use; pass one with a sane timeout.
func NewDhan(baseURL string, client *http.Client) *Dhan {
	return &Dhan{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Name implements Provider.
func (d *Dhan) Name() string { return "dhan" }

// dhanTrade mirrors one Dhan tradebook entry. Unlike Kite, Dhan returns a
// bare JSON array with camelCase fields.
type dhanTrade struct {
	TradingSymbol   string  `json:"tradingSymbol"`
	ExchangeSegment string  `json:"exchangeSegment"`
	TransactionType string  `json:"transactionType"`
	TradedQuantity  int64   `json:"tradedQuantity"`
	BuyAvg          float64 `json:"buyAvg"`
	SellAvg         float64 `json:"sellAvg"`
	StopLossPrice   float64 `json:"stopLossPrice"`
	BrokerageCharge float64 `json:"brokerageCharges"`
	ExchangeTime    string  `json:"exchangeTime"`
}

// FetchTrades implements Provider. Single GET, no internal retry.
func (d *Dhan) FetchTrades(ctx context.Context, accessToken string) ([]RawTrade, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/trades", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("access-token", accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dhan tradebook request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dhan tradebook request: unexpected status %d", resp.StatusCode)
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode dhan response: %w", err)
	}

	return records, nil
}

// Normalize implements Provider: pure Dhan-to-canonical field mapping with
// per-record skipping of malformed entries.
func (d *Dhan) Normalize(raw []RawTrade) []models.NormalizedTrade {
	out := make([]models.NormalizedTrade, 0, len(raw))

	for i, r := range raw {
		var dt dhanTrade
		if err := json.Unmarshal(r, &dt); err != nil {
			logger.L().Warn().Str("broker", d.Name()).Int("record", i).Err(err).Msg("skipping undecodable trade record")
			continue
		}

		executedAt, err := time.ParseInLocation(brokerTimeLayout, dt.ExchangeTime, ist)
		if err != nil || dt.TradingSymbol == "" || dt.TradedQuantity <= 0 || dt.BuyAvg <= 0 || dt.SellAvg <= 0 {
			logger.L().Warn().Str("broker", d.Name()).Int("record", i).Str("symbol", dt.TradingSymbol).Msg("skipping trade record with missing fields")
			continue
		}

		direction := models.DirectionLong
		if strings.EqualFold(dt.TransactionType, "SELL") {
			direction = models.DirectionShort
		}

		out = append(out, buildNormalized(normalizeInput{
			symbol:     dt.TradingSymbol,
			exchange:   dt.ExchangeSegment,
			direction:  direction,
			executedAt: executedAt,
			rawQty:     dt.TradedQuantity,
			buyPrice:   decimal.NewFromFloat(dt.BuyAvg),
			sellPrice:  decimal.NewFromFloat(dt.SellAvg),
			stopLoss:   dt.StopLossPrice,
			fees:       decimal.NewFromFloat(dt.BrokerageCharge),
		}))
	}

	return out
}
