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

// ist is the exchange timezone Zerodha and Dhan report timestamps in.
var ist = time.FixedZone("IST", 5*3600+30*60)

const brokerTimeLayout = "2006-01-02 15:04:05"

// Zerodha fetches and normalizes the Kite Connect tradebook.
type Zerodha struct {
	baseURL string
	client  *http.Client
}

// NewZerodha constructs the Zerodha provider.
//
// Parameters:
//   - baseURL: Kite API root (e.g. "https://api.kite.trade").
//   - client: HTTP client to use; pass one with a sane timeout.
func NewZerodha(baseURL string, client *http.Client) *Zerodha {
	return &Zerodha{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Name implements Provider.
func (z *Zerodha) Name() string { return "zerodha" }

// zerodhaEnvelope is the Kite response wrapper: {"status": "...", "data": [...]}.
type zerodhaEnvelope struct {
	Status string            `json:"status"`
	Data   []json.RawMessage `json:"data"`
}

// zerodhaTrade mirrors one Kite tradebook entry. Prices arrive as plain JSON
// numbers; they are re-created as decimals during normalization.
type zerodhaTrade struct {
	TradingSymbol   string  `json:"tradingsymbol"`
	Exchange        string  `json:"exchange"`
	TransactionType string  `json:"transaction_type"`
	Quantity        int64   `json:"quantity"`
	BuyPrice        float64 `json:"buy_price"`
	SellPrice       float64 `json:"sell_price"`
	StopLoss        float64 `json:"stoploss"`
	Charges         float64 `json:"charges"`
	OrderTimestamp  string  `json:"order_timestamp"`
}

// FetchTrades implements Provider. It performs a single GET against the Kite
// tradebook endpoint; no internal retry, errors propagate to the caller.
func (z *Zerodha) FetchTrades(ctx context.Context, accessToken string) ([]RawTrade, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, z.baseURL+"/trades", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("X-Kite-Version", "3")

	resp, err := z.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kite tradebook request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kite tradebook request: unexpected status %d", resp.StatusCode)
	}

	var envelope zerodhaEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode kite response: %w", err)
	}

	return envelope.Data, nil
}

// Normalize implements Provider: pure Kite-to-canonical field mapping.
// Records that fail to decode or miss required fields are skipped with a warn
// log; a single bad record never blocks the rest of the batch.
func (z *Zerodha) Normalize(raw []RawTrade) []models.NormalizedTrade {
	out := make([]models.NormalizedTrade, 0, len(raw))

	for i, r := range raw {
		var kt zerodhaTrade
		if err := json.Unmarshal(r, &kt); err != nil {
			logger.L().Warn().Str("broker", z.Name()).Int("record", i).Err(err).Msg("skipping undecodable trade record")
			continue
		}

		executedAt, err := time.ParseInLocation(brokerTimeLayout, kt.OrderTimestamp, ist)
		if err != nil || kt.TradingSymbol == "" || kt.Quantity <= 0 || kt.BuyPrice <= 0 || kt.SellPrice <= 0 {
			logger.L().Warn().Str("broker", z.Name()).Int("record", i).Str("symbol", kt.TradingSymbol).Msg("skipping trade record with missing fields")
			continue
		}

		direction := models.DirectionLong
		if strings.EqualFold(kt.TransactionType, "SELL") {
			direction = models.DirectionShort
		}

		out = append(out, buildNormalized(normalizeInput{
			symbol:     kt.TradingSymbol,
			exchange:   kt.Exchange,
			direction:  direction,
			executedAt: executedAt,
			rawQty:     kt.Quantity,
			buyPrice:   decimal.NewFromFloat(kt.BuyPrice),
			sellPrice:  decimal.NewFromFloat(kt.SellPrice),
			stopLoss:   kt.StopLoss,
			fees:       decimal.NewFromFloat(kt.Charges),
		}))
	}

	return out
}

// normalizeInput carries the broker-agnostic values extracted from a raw
// record into the shared canonical mapping.
type normalizeInput struct {
	symbol     string
	exchange   string
	direction  models.Direction
	executedAt time.Time
	rawQty     int64
	buyPrice   decimal.Decimal
	sellPrice  decimal.Decimal
	stopLoss   float64
	fees       decimal.Decimal
}

// buildNormalized applies the canonical conventions shared by all brokers:
// lot-size expansion, entry/exit orientation by direction, and the
// gross/net PnL arithmetic.
func buildNormalized(in normalizeInput) models.NormalizedTrade {
	qty := RealQuantity(in.symbol, in.rawQty)

	entry, exit := in.buyPrice, in.sellPrice
	if in.direction == models.DirectionShort {
		entry, exit = in.sellPrice, in.buyPrice
	}

	// Either direction closes by selling what was bought, so the round trip
	// nets the sell/buy spread regardless of orientation.
	gross := in.sellPrice.Sub(in.buyPrice).Mul(decimal.NewFromInt(qty))

	var stop *decimal.Decimal
	if in.stopLoss > 0 {
		s := decimal.NewFromFloat(in.stopLoss)
		stop = &s
	}

	return models.NormalizedTrade{
		ExecutedAt: in.executedAt,
		Symbol:     in.symbol,
		AssetClass: classifyInstrument(in.exchange, in.symbol),
		Direction:  in.direction,
		EntryPrice: entry,
		ExitPrice:  exit,
		Quantity:   qty,
		Fees:       in.fees,
		StopLoss:   stop,
		GrossPnL:   gross,
		NetPnL:     gross.Sub(in.fees),
	}
}

// classifyInstrument derives the asset class from the broker's exchange
// segment and the symbol shape.
func classifyInstrument(exchange, symbol string) models.AssetClass {
	ex := strings.ToUpper(exchange)
	switch {
	case strings.Contains(ex, "FO") && (strings.HasSuffix(symbol, "CE") || strings.HasSuffix(symbol, "PE")):
		return models.AssetOptions
	case strings.Contains(ex, "FO"):
		return models.AssetFutures
	case strings.Contains(ex, "CD"):
		return models.AssetCurrency
	case strings.Contains(ex, "MCX"):
		return models.AssetCommodity
	default:
		if _, ok := lotSizes[symbol]; ok {
			return models.AssetIndex
		}
		return models.AssetStocks
	}
}
