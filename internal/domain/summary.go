package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayRecord accumulates movement for one calendar day. At most one record
// exists per (currency, day, direction); repeated transactions on the same
// day are summed in place.
type DayRecord struct {
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency int             `json:"frequency"`
}

// ProfitAndLoss carries the derived movement metrics for one currency.
// Percentage is nil when Gain is zero: the ratio is undefined there and is
// reported as JSON null rather than coerced to 0 or an infinity.
type ProfitAndLoss struct {
	Gain       decimal.Decimal  `json:"gain"`
	Loss       decimal.Decimal  `json:"loss"`
	Net        decimal.Decimal  `json:"net"`
	Percentage *decimal.Decimal `json:"percentage"`
}

// NewProfitAndLoss derives net and percentage from running gain/loss totals.
func NewProfitAndLoss(gain, loss decimal.Decimal) ProfitAndLoss {
	pnl := ProfitAndLoss{Gain: gain, Loss: loss, Net: gain.Sub(loss)}
	if !gain.IsZero() {
		pct := pnl.Net.Div(gain).Mul(decimal.NewFromInt(100))
		pnl.Percentage = &pct
	}
	return pnl
}

// CurrencySummary is the per-currency aggregation of classified
// transactions: day-bucketed deposits and withdrawals plus derived metrics.
type CurrencySummary struct {
	Currency    string        `json:"currency"`
	Issuer      string        `json:"issuer,omitempty"`
	Deposits    []DayRecord   `json:"deposits"`
	Withdrawals []DayRecord   `json:"withdrawals"`
	PnL         ProfitAndLoss `json:"pnl"`
}
