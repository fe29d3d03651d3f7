// Package analysis turns raw ledger transactions into classified transfers
// and per-currency, day-bucketed summaries.
package analysis

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/xrplens/xrplens-backend/internal/domain"
)

// Result is the produced analysis for one lookup: the classified transfer
// list plus its aggregation.
type Result struct {
	Transactions []domain.ClassifiedTransaction `json:"transactions"`
	Summaries    []domain.CurrencySummary       `json:"summaries"`
}

// Service classifies and summarizes transactions. It holds no per-request
// state; every call works on its own data.
type Service struct {
	Log zerolog.Logger

	// Now dates the synthetic bucket for transactions without a close
	// date, replaceable in tests.
	Now func() time.Time
}

// NewService creates a new Service instance.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		Log: log.With().Str("component", "analysis").Logger(),
		Now: time.Now,
	}
}

// Analyze runs classification and summarization for one subject address.
func (s *Service) Analyze(envelopes []domain.TransactionEnvelope, subject string) *Result {
	transactions := s.Classify(envelopes, subject)
	return &Result{
		Transactions: transactions,
		Summaries:    s.Summarize(transactions),
	}
}
