// Package wallet orchestrates one account lookup: balance, custodial hint,
// held assets and the recent-movement analysis.
package wallet

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xrplens/xrplens-backend/internal/domain"
	"github.com/xrplens/xrplens-backend/internal/usecase/analysis"
	"github.com/xrplens/xrplens-backend/internal/usecase/assets"
	"github.com/xrplens/xrplens-backend/internal/usecase/history"
)

// Overview is the account's current state.
type Overview struct {
	Address   string                 `json:"address"`
	Balance   domain.Asset           `json:"balance"`
	Custodial domain.CustodialStatus `json:"custodial"`
	Assets    []assets.Holding       `json:"assets"`
}

// SummaryInput selects the movement analysis window.
type SummaryInput struct {
	Address         string
	TransactionType string
	WindowDays      int
	PageLimit       int
}

// Service composes the lookup pipeline. Each call runs fetch, classify and
// summarize strictly in sequence over request-scoped data; independent
// lookups may run concurrently.
type Service struct {
	Gateway   domain.LedgerGateway
	Custodial domain.CustodialChecker
	History   *history.Service
	Analysis  *analysis.Service
	Assets    *assets.Service
	Log       zerolog.Logger
}

// NewService creates a new Service instance.
func NewService(
	gateway domain.LedgerGateway,
	custodial domain.CustodialChecker,
	historyService *history.Service,
	analysisService *analysis.Service,
	assetService *assets.Service,
	log zerolog.Logger,
) *Service {
	return &Service{
		Gateway:   gateway,
		Custodial: custodial,
		History:   historyService,
		Analysis:  analysisService,
		Assets:    assetService,
		Log:       log.With().Str("component", "wallet").Logger(),
	}
}

// Overview fetches the account's balance, custodial hint and asset list.
func (s *Service) Overview(ctx context.Context, address string) (*Overview, error) {
	info, err := s.Gateway.AccountInfo(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("account overview for %s: %w", address, err)
	}

	holdings, err := s.Assets.List(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("account overview for %s: %w", address, err)
	}

	return &Overview{
		Address: info.Address,
		Balance: domain.Asset{
			Currency: domain.NativeCurrency,
			Value:    domain.DropsToXRP(info.BalanceDrops),
		},
		Custodial: s.Custodial.CustodialStatus(ctx, address),
		Assets:    holdings,
	}, nil
}

// Summary fetches the recent history and analyzes it. A gateway failure on
// any page aborts the whole lookup with no partial result.
func (s *Service) Summary(ctx context.Context, input SummaryInput) (*analysis.Result, error) {
	envelopes, err := s.History.FetchRecent(ctx, history.FetchInput{
		Address:         input.Address,
		TransactionType: input.TransactionType,
		WindowDays:      input.WindowDays,
		PageLimit:       input.PageLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("movement summary for %s: %w", input.Address, err)
	}
	return s.Analysis.Analyze(envelopes, input.Address), nil
}
