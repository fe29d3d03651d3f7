// Package history fetches an account's recent transaction history from the
// ledger, page by page within a trailing time window.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/xrplens/xrplens-backend/internal/domain"
)

const (
	// DefaultTransactionType selects the balance-affecting transfers.
	DefaultTransactionType = "Payment"
	// DefaultWindowDays is the trailing window fetched when the caller
	// does not specify one.
	DefaultWindowDays = 7
)

// FetchInput selects what to fetch.
type FetchInput struct {
	Address         string
	TransactionType string
	WindowDays      int
	// PageLimit optionally caps the ledger page size; zero lets the
	// server choose.
	PageLimit int
}

// Service drives the cursor-paginated history retrieval.
type Service struct {
	Gateway domain.LedgerGateway
	Log     zerolog.Logger

	// WindowDays and PageLimit apply when the input leaves them unset.
	WindowDays int
	PageLimit  int

	// Now is the clock used for the window cutoff, replaceable in tests.
	Now func() time.Time
}

// NewService creates a new Service instance.
func NewService(gateway domain.LedgerGateway, log zerolog.Logger) *Service {
	return &Service{
		Gateway:    gateway,
		Log:        log.With().Str("component", "history").Logger(),
		WindowDays: DefaultWindowDays,
		Now:        time.Now,
	}
}

// FetchRecent accumulates transactions of the requested type within the
// trailing window, in the newest-first order the ledger returns them.
//
// Pages are fetched sequentially: the cursor of each page is confirmed by
// the server before the next request, so the loop must not be parallelized.
// The ledger returns transactions newest-first, so the first transaction
// older than the cutoff ends the whole fetch: nothing after it on that page
// or on later pages can be inside the window. Any gateway failure aborts
// the fetch; pages already accumulated are discarded.
func (s *Service) FetchRecent(ctx context.Context, input FetchInput) ([]domain.TransactionEnvelope, error) {
	txType := input.TransactionType
	if txType == "" {
		txType = DefaultTransactionType
	}
	windowDays := input.WindowDays
	if windowDays <= 0 {
		windowDays = s.WindowDays
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	pageLimit := input.PageLimit
	if pageLimit <= 0 {
		pageLimit = s.PageLimit
	}
	cutoff := s.Now().Add(-time.Duration(windowDays) * 24 * time.Hour)

	var collected []domain.TransactionEnvelope
	query := domain.AccountTxQuery{Account: input.Address, Limit: pageLimit}
	for page := 1; ; page++ {
		result, err := s.Gateway.AccountTransactions(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("fetch history page %d for %s: %w", page, input.Address, err)
		}

		for _, envelope := range result.Transactions {
			tx := envelope.Tx
			if tx == nil || tx.TransactionType != txType {
				continue
			}
			if tx.Date != nil && domain.RippleTimeToTime(*tx.Date).Before(cutoff) {
				s.Log.Debug().
					Str("address", input.Address).
					Int("pages", page).
					Int("transactions", len(collected)).
					Msg("window cutoff reached")
				return collected, nil
			}
			collected = append(collected, envelope)
		}

		if len(result.Marker) == 0 {
			s.Log.Debug().
				Str("address", input.Address).
				Int("pages", page).
				Int("transactions", len(collected)).
				Msg("history exhausted")
			return collected, nil
		}
		query.Marker = result.Marker
	}
}
