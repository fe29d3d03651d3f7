// Package assets lists the issued-currency positions an account holds or
// has issued, with display-ready currency codes and issuer names.
package assets

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/xrplens/xrplens-backend/internal/domain"
)

// UnknownCurrency is rendered for codes the decoder cannot make sense of.
const UnknownCurrency = "unknown"

// Holding is one display-ready asset position.
type Holding struct {
	Currency   string          `json:"currency"`
	RawCode    string          `json:"raw_code,omitempty"`
	Issuer     string          `json:"issuer,omitempty"`
	IssuerName string          `json:"issuer_name,omitempty"`
	Value      decimal.Decimal `json:"value"`
	// Issued marks obligations the account itself has issued.
	Issued bool `json:"issued,omitempty"`
}

// Service resolves an account's balance sheet into holdings.
type Service struct {
	Gateway domain.LedgerGateway
	Names   domain.NameDirectory
	Log     zerolog.Logger
}

// NewService creates a new Service instance.
func NewService(gateway domain.LedgerGateway, names domain.NameDirectory, log zerolog.Logger) *Service {
	return &Service{
		Gateway: gateway,
		Names:   names,
		Log:     log.With().Str("component", "assets").Logger(),
	}
}

// List fetches and decorates the account's held and issued positions.
// Name resolution is best-effort; a directory miss leaves the name empty.
func (s *Service) List(ctx context.Context, address string) ([]Holding, error) {
	sheet, err := s.Gateway.GatewayBalances(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("list assets for %s: %w", address, err)
	}

	holdings := make([]Holding, 0, len(sheet.Assets)+len(sheet.Obligations))
	for _, line := range sheet.Assets {
		holdings = append(holdings, s.holding(ctx, line, false))
	}
	for _, line := range sheet.Obligations {
		holdings = append(holdings, s.holding(ctx, line, true))
	}
	return holdings, nil
}

func (s *Service) holding(ctx context.Context, line domain.BalanceLine, issued bool) Holding {
	h := Holding{
		Currency: domain.DecodeCurrencyCode(line.Currency, domain.DefaultCurrencyMaxLength),
		Issuer:   line.Issuer,
		Value:    line.Value,
		Issued:   issued,
	}
	if h.Currency == "" {
		h.Currency = UnknownCurrency
		h.RawCode = line.Currency
	}
	if name, ok := s.Names.IssuerName(ctx, line.Issuer); ok {
		h.IssuerName = name
	}
	return h
}
