package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xrplens/xrplens-backend/internal/domain"
)

// Summarize groups classified transactions by currency and calendar day and
// derives per-currency profit/loss metrics.
//
// Grouping is a keyed map over currency plus issuer, so two issuers of the
// same ticker never merge and the one-summary-per-key invariant holds
// structurally. Output order is the order currencies were first seen, which
// keeps results reproducible for a given input. Transactions without a
// close date fall into a single synthetic bucket dated with the processing
// time.
func (s *Service) Summarize(transactions []domain.ClassifiedTransaction) []domain.CurrencySummary {
	index := make(map[string]int)
	summaries := make([]domain.CurrencySummary, 0)
	unknownDay := calendarDay(s.Now())

	for _, tx := range transactions {
		key := tx.Asset.Currency
		if tx.Asset.Issuer != "" {
			key += ":" + tx.Asset.Issuer
		}
		i, ok := index[key]
		if !ok {
			i = len(summaries)
			index[key] = i
			summaries = append(summaries, domain.CurrencySummary{
				Currency: tx.Asset.Currency,
				Issuer:   tx.Asset.Issuer,
			})
		}
		summary := &summaries[i]

		day := unknownDay
		if tx.Date != nil {
			day = calendarDay(*tx.Date)
		}

		if tx.Direction == domain.DirectionDeposit {
			summary.Deposits = upsertDay(summary.Deposits, day, tx.Asset.Value)
			summary.PnL.Gain = summary.PnL.Gain.Add(tx.Asset.Value)
		} else {
			summary.Withdrawals = upsertDay(summary.Withdrawals, day, tx.Asset.Value)
			summary.PnL.Loss = summary.PnL.Loss.Add(tx.Asset.Value)
		}
	}

	for i := range summaries {
		summaries[i].PnL = domain.NewProfitAndLoss(summaries[i].PnL.Gain, summaries[i].PnL.Loss)
	}
	return summaries
}

// calendarDay discards the time of day, in UTC.
func calendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// upsertDay merges an amount into the existing record for the day, or
// appends a new one.
func upsertDay(records []domain.DayRecord, day time.Time, amount decimal.Decimal) []domain.DayRecord {
	for i := range records {
		if records[i].Date.Equal(day) {
			records[i].Amount = records[i].Amount.Add(amount)
			records[i].Frequency++
			return records
		}
	}
	return append(records, domain.DayRecord{Date: day, Amount: amount, Frequency: 1})
}
