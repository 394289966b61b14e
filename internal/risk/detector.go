// Package risk evaluates the current day's trades against configurable
// trading-discipline rules and raises flags for violations. Like the analytics
// package it is pure: no I/O, no shared state, total over well-typed input.
package risk

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// uncategorizedStrategy buckets trades that carry no strategy tag for the
// repeat-loss rule.
const uncategorizedStrategy = "Uncategorized"

// repeatLossThreshold is the per-strategy same-day loss count that raises a
// REPEAT_LOSS flag.
const repeatLossThreshold = 3

// Config holds the discipline thresholds a detector run evaluates against.
//
// Reference-product defaults: 3 trades per day and 4000 currency units of
// daily loss (see DefaultConfig).
type Config struct {
	MaxTradesPerDay int
	MaxLossPerDay   decimal.Decimal
}

// DefaultConfig returns the documented reference thresholds.
func DefaultConfig() Config {
	return Config{
		MaxTradesPerDay: 3,
		MaxLossPerDay:   decimal.NewFromInt(4000),
	}
}

// DetectFlags evaluates today's trades against the configured rules and
// returns the raised flags, in rule order. A snapshot may raise zero, one, or
// several flags; the rules are independent of each other.
//
// Scope: only trades whose execution date equals now's calendar day, compared
// in now's location. This is a local-date comparison, not a rolling 24h window.
//
// Rules:
//  1. OVERTRADING: today's trade count exceeds MaxTradesPerDay. CRITICAL when
//     the count exceeds the limit by more than 2, HIGH otherwise.
//  2. RISK_VIOLATION: one CRITICAL flag when any trade today has no stop loss,
//     or exited through its stop (LONG exit below stop, SHORT exit above
//     stop). Value is the qualifying trade count.
//  3. DISCIPLINE_BREACH: one CRITICAL flag when today's summed net PnL is
//     below -MaxLossPerDay. Checks the end-of-day aggregate only, not the
//     moment the threshold was first crossed.
//  4. REPEAT_LOSS: one HIGH flag per strategy group with 3 or more losing
//     trades today. Untagged trades fall into the "Uncategorized" group. The
//     rule counts total same-day losses per group irrespective of order, even
//     though the message speaks of consecutive losses; inherited product
//     behavior.
//
// Parameters:
//   - trades: immutable snapshot of the account's trades, any order.
//   - cfg: discipline thresholds.
//   - now: the caller's notion of the current moment; its calendar day scopes
//     the evaluation and makes the function testable.
//
// Returns:
//   - []models.Flag: the raised flags; empty (nil) is the healthy state.
func DetectFlags(trades []models.TradeRecord, cfg Config, now time.Time) []models.Flag {
	today := filterToday(trades, now)
	if len(today) == 0 {
		return nil
	}

	var flags []models.Flag

	if f := checkOvertrading(today, cfg); f != nil {
		flags = append(flags, *f)
	}
	if f := checkRiskViolations(today); f != nil {
		flags = append(flags, *f)
	}
	if f := checkDisciplineBreach(today, cfg); f != nil {
		flags = append(flags, *f)
	}
	flags = append(flags, checkRepeatLosses(today)...)

	return flags
}

// filterToday keeps the trades executed on now's calendar day, in now's
// location.
func filterToday(trades []models.TradeRecord, now time.Time) []models.TradeRecord {
	ny, nm, nd := now.Date()
	var today []models.TradeRecord
	for _, t := range trades {
		y, m, d := t.ExecutedAt.In(now.Location()).Date()
		if y == ny && m == nm && d == nd {
			today = append(today, t)
		}
	}
	return today
}

func checkOvertrading(today []models.TradeRecord, cfg Config) *models.Flag {
	count := len(today)
	if count <= cfg.MaxTradesPerDay {
		return nil
	}

	severity := models.SeverityHigh
	if count > cfg.MaxTradesPerDay+2 {
		severity = models.SeverityCritical
	}

	return &models.Flag{
		Type:     models.FlagOvertrading,
		Severity: severity,
		Message:  fmt.Sprintf("%d trades today, daily limit is %d", count, cfg.MaxTradesPerDay),
		Value:    strconv.Itoa(count),
	}
}

// checkRiskViolations flags trades that were taken without a stop loss or
// exited through their stop.
func checkRiskViolations(today []models.TradeRecord) *models.Flag {
	var violations int
	for _, t := range today {
		if violatesStop(t) {
			violations++
		}
	}
	if violations == 0 {
		return nil
	}

	return &models.Flag{
		Type:     models.FlagRiskViolation,
		Severity: models.SeverityCritical,
		Message:  fmt.Sprintf("%d trade(s) without a stop loss or exited beyond it", violations),
		Value:    strconv.Itoa(violations),
	}
}

// violatesStop reports whether a trade has no stop defined or its exit price
// crossed the stop in the losing direction.
func violatesStop(t models.TradeRecord) bool {
	if t.StopLoss == nil {
		return true
	}
	switch t.Direction {
	case models.DirectionLong:
		return t.ExitPrice.LessThan(*t.StopLoss)
	case models.DirectionShort:
		return t.ExitPrice.GreaterThan(*t.StopLoss)
	}
	return false
}

func checkDisciplineBreach(today []models.TradeRecord, cfg Config) *models.Flag {
	var total decimal.Decimal
	for _, t := range today {
		total = total.Add(t.NetPnL)
	}

	if !total.LessThan(cfg.MaxLossPerDay.Neg()) {
		return nil
	}

	formatted := total.StringFixed(2)
	return &models.Flag{
		Type:     models.FlagDisciplineBreach,
		Severity: models.SeverityCritical,
		Message:  fmt.Sprintf("daily loss %s exceeds the %s limit", formatted, cfg.MaxLossPerDay.StringFixed(2)),
		Value:    formatted,
	}
}

// checkRepeatLosses groups today's trades by strategy and flags groups with
// three or more losses.
func checkRepeatLosses(today []models.TradeRecord) []models.Flag {
	lossCounts := make(map[string]int)
	order := make([]string, 0)

	for _, t := range today {
		strategy := t.Strategy
		if strategy == "" {
			strategy = uncategorizedStrategy
		}
		if _, seen := lossCounts[strategy]; !seen {
			lossCounts[strategy] = 0
			order = append(order, strategy)
		}
		if t.NetPnL.LessThan(decimal.Zero) {
			lossCounts[strategy]++
		}
	}

	var flags []models.Flag
	for _, strategy := range order {
		count := lossCounts[strategy]
		if count < repeatLossThreshold {
			continue
		}
		flags = append(flags, models.Flag{
			Type:     models.FlagRepeatLoss,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("%d consecutive losses on strategy %q today", count, strategy),
			Value:    strconv.Itoa(count),
		})
	}
	return flags
}
