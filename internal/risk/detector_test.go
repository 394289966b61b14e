package risk

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

var detectorNow = time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// todayTrade builds a record executed on the detector's evaluation day.
func todayTrade(netPnL string, stop *decimal.Decimal) models.TradeRecord {
	return models.TradeRecord{
		ExecutedAt: detectorNow.Add(-2 * time.Hour),
		Symbol:     "NIFTY",
		Direction:  models.DirectionLong,
		EntryPrice: dec("100"),
		ExitPrice:  dec("105"),
		StopLoss:   stop,
		NetPnL:     dec(netPnL),
	}
}

func findFlag(t *testing.T, flags []models.Flag, ft models.FlagType) models.Flag {
	t.Helper()
	for _, f := range flags {
		if f.Type == ft {
			return f
		}
	}
	t.Fatalf("flag %s not raised, got %+v", ft, flags)
	return models.Flag{}
}

func TestDetectFlags_NoTradesToday(t *testing.T) {
	yesterday := models.TradeRecord{
		ExecutedAt: detectorNow.AddDate(0, 0, -1),
		NetPnL:     dec("-9999"),
	}
	flags := DetectFlags([]models.TradeRecord{yesterday}, DefaultConfig(), detectorNow)
	assert.Empty(t, flags, "past-day trades never raise flags")
}

func TestDetectFlags_CleanDay(t *testing.T) {
	trades := []models.TradeRecord{
		todayTrade("500", decPtr("95")),
		todayTrade("200", decPtr("95")),
	}
	flags := DetectFlags(trades, DefaultConfig(), detectorNow)
	assert.Empty(t, flags)
}

func TestDetectFlags_OvertradingSeverity(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		severity models.FlagSeverity
		raised   bool
	}{
		{name: "at the limit", count: 3, raised: false},
		{name: "one over", count: 4, severity: models.SeverityHigh, raised: true},
		{name: "two over", count: 5, severity: models.SeverityHigh, raised: true},
		{name: "three over", count: 6, severity: models.SeverityCritical, raised: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var trades []models.TradeRecord
			for i := 0; i < tt.count; i++ {
				trades = append(trades, todayTrade("10", decPtr("95")))
			}

			flags := DetectFlags(trades, DefaultConfig(), detectorNow)
			if !tt.raised {
				assert.Empty(t, flags)
				return
			}

			f := findFlag(t, flags, models.FlagOvertrading)
			assert.Equal(t, tt.severity, f.Severity)
		})
	}
}

func TestDetectFlags_RiskViolation(t *testing.T) {
	longStopped := todayTrade("-100", decPtr("100"))
	longStopped.ExitPrice = dec("90") // LONG exited below its stop

	shortStopped := models.TradeRecord{
		ExecutedAt: detectorNow.Add(-time.Hour),
		Symbol:     "BANKNIFTY",
		Direction:  models.DirectionShort,
		EntryPrice: dec("200"),
		ExitPrice:  dec("215"), // SHORT exited above its stop
		StopLoss:   decPtr("210"),
		NetPnL:     dec("-150"),
	}

	noStop := todayTrade("50", nil)

	respected := todayTrade("80", decPtr("100"))
	respected.ExitPrice = dec("110")

	flags := DetectFlags(
		[]models.TradeRecord{longStopped, shortStopped, noStop, respected},
		DefaultConfig(), detectorNow,
	)

	f := findFlag(t, flags, models.FlagRiskViolation)
	assert.Equal(t, models.SeverityCritical, f.Severity)
	assert.Equal(t, "3", f.Value, "exactly the violating trades are counted")

	// Four trades also trips overtrading; risk stays a single flag regardless.
	var riskFlags int
	for _, fl := range flags {
		if fl.Type == models.FlagRiskViolation {
			riskFlags++
		}
	}
	assert.Equal(t, 1, riskFlags)
}

func TestDetectFlags_DisciplineBreach(t *testing.T) {
	cfg := DefaultConfig() // 4000 daily loss limit

	t.Run("aggregate below the limit", func(t *testing.T) {
		trades := []models.TradeRecord{
			todayTrade("-2500", decPtr("95")),
			todayTrade("-2000", decPtr("95")),
		}
		flags := DetectFlags(trades, cfg, detectorNow)
		f := findFlag(t, flags, models.FlagDisciplineBreach)
		assert.Equal(t, models.SeverityCritical, f.Severity)
		assert.Equal(t, "-4500.00", f.Value)
	})

	t.Run("exactly at the limit is not a breach", func(t *testing.T) {
		trades := []models.TradeRecord{
			todayTrade("-4000", decPtr("95")),
		}
		flags := DetectFlags(trades, cfg, detectorNow)
		for _, f := range flags {
			assert.NotEqual(t, models.FlagDisciplineBreach, f.Type)
		}
	})

	t.Run("intraday dip recovered by close does not breach", func(t *testing.T) {
		trades := []models.TradeRecord{
			todayTrade("-4500", decPtr("95")),
			todayTrade("1000", decPtr("95")),
		}
		flags := DetectFlags(trades, cfg, detectorNow)
		for _, f := range flags {
			assert.NotEqual(t, models.FlagDisciplineBreach, f.Type,
				"only the end-of-day aggregate is checked")
		}
	})
}

func TestDetectFlags_RepeatLosses(t *testing.T) {
	loss := func(strategy string) models.TradeRecord {
		tr := todayTrade("-100", decPtr("95"))
		tr.Strategy = strategy
		return tr
	}

	t.Run("three losses on one strategy", func(t *testing.T) {
		trades := []models.TradeRecord{
			loss("breakout"), loss("breakout"), loss("breakout"),
			loss("reversal"), loss("reversal"),
		}
		flags := DetectFlags(trades, Config{MaxTradesPerDay: 100, MaxLossPerDay: dec("100000")}, detectorNow)

		require.Len(t, flags, 1)
		assert.Equal(t, models.FlagRepeatLoss, flags[0].Type)
		assert.Equal(t, models.SeverityHigh, flags[0].Severity)
		assert.Equal(t, "3", flags[0].Value)
		assert.Contains(t, flags[0].Message, "breakout")
	})

	t.Run("untagged trades share the Uncategorized bucket", func(t *testing.T) {
		trades := []models.TradeRecord{loss(""), loss(""), loss("")}
		flags := DetectFlags(trades, Config{MaxTradesPerDay: 100, MaxLossPerDay: dec("100000")}, detectorNow)

		require.Len(t, flags, 1)
		assert.Contains(t, flags[0].Message, "Uncategorized")
	})

	t.Run("wins do not count toward the streak", func(t *testing.T) {
		win := todayTrade("100", decPtr("95"))
		win.Strategy = "breakout"
		trades := []models.TradeRecord{loss("breakout"), loss("breakout"), win}
		flags := DetectFlags(trades, Config{MaxTradesPerDay: 100, MaxLossPerDay: dec("100000")}, detectorNow)
		assert.Empty(t, flags)
	})
}

func TestDetectFlags_FullDayScenario(t *testing.T) {
	// Five trades today against a limit of three, two of them without stops.
	// Losses are spread across strategies so no group reaches the repeat-loss
	// threshold.
	tagged := func(netPnL, strategy string, stop *decimal.Decimal) models.TradeRecord {
		tr := todayTrade(netPnL, stop)
		tr.Strategy = strategy
		return tr
	}
	trades := []models.TradeRecord{
		tagged("100", "breakout", decPtr("95")),
		tagged("-200", "breakout", decPtr("95")),
		tagged("-150", "reversal", nil),
		tagged("300", "reversal", nil),
		tagged("-50", "scalp", decPtr("95")),
	}

	flags := DetectFlags(trades, DefaultConfig(), detectorNow)
	require.Len(t, flags, 2)

	over := findFlag(t, flags, models.FlagOvertrading)
	assert.Equal(t, models.SeverityHigh, over.Severity, "five against a limit of three is HIGH, not CRITICAL")
	assert.Equal(t, "5", over.Value)

	violation := findFlag(t, flags, models.FlagRiskViolation)
	assert.Equal(t, models.SeverityCritical, violation.Severity)
	assert.Equal(t, "2", violation.Value)
}

func TestDetectFlags_ScopesByCallerLocalDay(t *testing.T) {
	// 23:30 in UTC+5:30 on March 2 is 18:00 UTC the same date, but a trade at
	// 20:00 UTC lands on March 3 in that zone and must be out of scope.
	ist := time.FixedZone("IST", 5*3600+30*60)
	now := time.Date(2026, 3, 2, 23, 30, 0, 0, ist)

	inScope := models.TradeRecord{
		ExecutedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		NetPnL:     dec("-5000"),
		StopLoss:   decPtr("95"),
		EntryPrice: dec("100"),
		ExitPrice:  dec("105"),
		Direction:  models.DirectionLong,
	}
	nextLocalDay := inScope
	nextLocalDay.ExecutedAt = time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

	flags := DetectFlags([]models.TradeRecord{inScope, nextLocalDay}, DefaultConfig(), now)

	f := findFlag(t, flags, models.FlagDisciplineBreach)
	assert.Equal(t, "-5000.00", f.Value, "only the trade on now's local day is aggregated")
}
