package analysis

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrplens/xrplens-backend/internal/domain"
)

const (
	subject      = "rSUBJECTaaaaaaaaaaaaaaaaaaaaaaaa"
	counterparty = "rOTHERbbbbbbbbbbbbbbbbbbbbbbbbbb"
	thirdParty   = "rTHIRDcccccccccccccccccccccccccc"
)

var processingTime = time.Date(2024, 6, 20, 9, 30, 0, 0, time.UTC)

func newTestService() *Service {
	svc := NewService(zerolog.Nop())
	svc.Now = func() time.Time { return processingTime }
	return svc
}

func nativeAmount(drops string) *domain.LedgerAmount {
	d := decimal.RequireFromString(drops)
	return &domain.LedgerAmount{Native: true, Drops: d}
}

func paymentTo(destination, from string, amount *domain.LedgerAmount, when *time.Time) domain.TransactionEnvelope {
	tx := &domain.LedgerTransaction{
		TransactionType: "Payment",
		Account:         from,
		Destination:     destination,
		Amount:          amount,
		Fee:             "12",
	}
	if when != nil {
		rippleTime := when.Unix() - 946684800
		tx.Date = &rippleTime
	}
	return domain.TransactionEnvelope{Tx: tx, Validated: true}
}

func at(day int, hour int) *time.Time {
	t := time.Date(2024, 6, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestClassify_Directions(t *testing.T) {
	service := newTestService()

	envelopes := []domain.TransactionEnvelope{
		paymentTo(subject, counterparty, nativeAmount("2500000"), at(10, 8)),
		paymentTo(counterparty, subject, nativeAmount("1000000"), at(10, 9)),
		// The subject is neither sender nor receiver: no direction, dropped.
		paymentTo(thirdParty, counterparty, nativeAmount("1000000"), at(10, 10)),
		// Malformed entries are skipped, not errors.
		{Validated: true},
	}

	classified := service.Classify(envelopes, subject)
	require.Len(t, classified, 2)

	deposit := classified[0]
	assert.Equal(t, domain.DirectionDeposit, deposit.Direction)
	assert.Equal(t, "XRP", deposit.Asset.Currency)
	assert.Equal(t, "2.5", deposit.Asset.Value.String())
	assert.Equal(t, counterparty, deposit.Source.Address)
	assert.Equal(t, subject, deposit.Destination.Address)
	assert.Equal(t, "0.000012", deposit.Fee.String())
	require.NotNil(t, deposit.Date)
	assert.Equal(t, *at(10, 8), *deposit.Date)

	withdrawal := classified[1]
	assert.Equal(t, domain.DirectionWithdrawal, withdrawal.Direction)
	assert.Equal(t, subject, withdrawal.Source.Address)
}

func TestClassify_IssuedCurrency(t *testing.T) {
	service := newTestService()

	issued := &domain.LedgerAmount{
		Currency: "534F4C4F00000000000000000000000000000000",
		Issuer:   counterparty,
		Value:    decimal.RequireFromString("14.75"),
	}
	classified := service.Classify([]domain.TransactionEnvelope{
		paymentTo(subject, counterparty, issued, at(10, 8)),
	}, subject)

	require.Len(t, classified, 1)
	assert.Equal(t, "SOLO", classified[0].Asset.Currency)
	assert.Equal(t, counterparty, classified[0].Asset.Issuer)
	assert.Equal(t, "14.75", classified[0].Asset.Value.String())
}

func TestClassify_MissingDate(t *testing.T) {
	service := newTestService()

	classified := service.Classify([]domain.TransactionEnvelope{
		paymentTo(subject, counterparty, nativeAmount("1000000"), nil),
	}, subject)

	require.Len(t, classified, 1)
	assert.Nil(t, classified[0].Date)
}

func deposit(currency, issuer, value string, when *time.Time) domain.ClassifiedTransaction {
	return domain.ClassifiedTransaction{
		Direction: domain.DirectionDeposit,
		Asset:     domain.Asset{Currency: currency, Issuer: issuer, Value: decimal.RequireFromString(value)},
		Date:      when,
	}
}

func withdrawal(currency, issuer, value string, when *time.Time) domain.ClassifiedTransaction {
	tx := deposit(currency, issuer, value, when)
	tx.Direction = domain.DirectionWithdrawal
	return tx
}

func TestSummarize_RoundTrip(t *testing.T) {
	service := newTestService()

	summaries := service.Summarize([]domain.ClassifiedTransaction{
		deposit("XRP", "", "100", at(1, 8)),
		deposit("XRP", "", "50", at(1, 17)),
		withdrawal("XRP", "", "30", at(2, 9)),
	})

	require.Len(t, summaries, 1)
	summary := summaries[0]
	assert.Equal(t, "XRP", summary.Currency)

	require.Len(t, summary.Deposits, 1)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), summary.Deposits[0].Date)
	assert.Equal(t, "150", summary.Deposits[0].Amount.String())
	assert.Equal(t, 2, summary.Deposits[0].Frequency)

	require.Len(t, summary.Withdrawals, 1)
	assert.Equal(t, "30", summary.Withdrawals[0].Amount.String())
	assert.Equal(t, 1, summary.Withdrawals[0].Frequency)

	assert.Equal(t, "150", summary.PnL.Gain.String())
	assert.Equal(t, "30", summary.PnL.Loss.String())
	assert.Equal(t, "120", summary.PnL.Net.String())
	require.NotNil(t, summary.PnL.Percentage)
	assert.Equal(t, "80", summary.PnL.Percentage.String())
}

func TestSummarize_ZeroGainPercentageInvalid(t *testing.T) {
	service := newTestService()

	summaries := service.Summarize([]domain.ClassifiedTransaction{
		withdrawal("XRP", "", "30", at(2, 9)),
	})

	require.Len(t, summaries, 1)
	assert.Equal(t, "-30", summaries[0].PnL.Net.String())
	assert.Nil(t, summaries[0].PnL.Percentage)
}

func TestSummarize_MissingDateBucket(t *testing.T) {
	service := newTestService()

	summaries := service.Summarize([]domain.ClassifiedTransaction{
		deposit("XRP", "", "10", nil),
		deposit("XRP", "", "20", nil),
	})

	require.Len(t, summaries, 1)
	require.Len(t, summaries[0].Deposits, 1)
	// Undated transactions share one synthetic bucket dated with the
	// processing time.
	assert.Equal(t, time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), summaries[0].Deposits[0].Date)
	assert.Equal(t, "30", summaries[0].Deposits[0].Amount.String())
	assert.Equal(t, 2, summaries[0].Deposits[0].Frequency)
}

func TestSummarize_SeparatesIssuers(t *testing.T) {
	service := newTestService()

	summaries := service.Summarize([]domain.ClassifiedTransaction{
		deposit("USD", counterparty, "10", at(3, 8)),
		deposit("USD", thirdParty, "5", at(3, 9)),
		deposit("USD", counterparty, "1", at(4, 8)),
	})

	// Same ticker, different issuers: two summaries, in first-seen order.
	require.Len(t, summaries, 2)
	assert.Equal(t, counterparty, summaries[0].Issuer)
	assert.Equal(t, "11", summaries[0].PnL.Gain.String())
	assert.Equal(t, thirdParty, summaries[1].Issuer)
	assert.Equal(t, "5", summaries[1].PnL.Gain.String())
}

func TestAnalyze_EndToEnd(t *testing.T) {
	service := newTestService()

	envelopes := []domain.TransactionEnvelope{
		paymentTo(subject, counterparty, nativeAmount("100000000"), at(1, 8)),
		paymentTo(subject, counterparty, nativeAmount("50000000"), at(1, 12)),
		paymentTo(counterparty, subject, nativeAmount("30000000"), at(2, 9)),
	}

	result := service.Analyze(envelopes, subject)

	require.Len(t, result.Transactions, 3)
	require.Len(t, result.Summaries, 1)
	assert.Equal(t, "120", result.Summaries[0].PnL.Net.String())
}
