package models

// FlagType identifies which discipline rule a flag was raised by.
type FlagType string

const (
	FlagOvertrading      FlagType = "OVERTRADING"
	FlagRiskViolation    FlagType = "RISK_VIOLATION"
	FlagRepeatLoss       FlagType = "REPEAT_LOSS"
	FlagDisciplineBreach FlagType = "DISCIPLINE_BREACH"
)

// FlagSeverity grades how serious a rule violation is.
type FlagSeverity string

const (
	SeverityLow      FlagSeverity = "LOW"
	SeverityMedium   FlagSeverity = "MEDIUM"
	SeverityHigh     FlagSeverity = "HIGH"
	SeverityCritical FlagSeverity = "CRITICAL"
)

// Flag is a detected violation of a configured trading-discipline rule for the
// current day. Value carries the rule-specific figure already formatted for
// display (a trade count, a loss total, etc.). No flag is fatal; an empty flag
// list is the normal, healthy state.
//
// swagger:model Flag
type Flag struct {
	Type     FlagType     `json:"type" example:"OVERTRADING"`
	Severity FlagSeverity `json:"severity" example:"HIGH"`
	Message  string       `json:"message"`
	Value    string       `json:"value" example:"5"`
}
