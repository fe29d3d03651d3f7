// Package xrpscan resolves account names and custodial hints from the
// XRPScan public API. Everything here is best-effort decoration: a failed
// or slow lookup degrades to "unknown" and never fails an analysis.
package xrpscan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/xrplens/xrplens-backend/internal/domain"
)

const wellKnownCacheKey = "well-known-accounts"

// WellKnownAccount is one entry of the curated account directory. Listed
// accounts are overwhelmingly exchanges and other custodial operators.
type WellKnownAccount struct {
	Account  string `json:"account"`
	Name     string `json:"name"`
	Desc     string `json:"desc,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

// Client implements domain.NameDirectory and domain.CustodialChecker.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	cache   *cache.Cache
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient creates a new Client instance. The well-known list changes
// rarely, so responses are cached for an hour.
func NewClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		cache:      cache.New(time.Hour, 2*time.Hour),
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
		log:        log.With().Str("component", "xrpscan").Logger(),
	}
}

// WellKnownAccounts returns the curated directory, from cache when fresh.
func (c *Client) WellKnownAccounts(ctx context.Context) ([]WellKnownAccount, error) {
	if cached, ok := c.cache.Get(wellKnownCacheKey); ok {
		return cached.([]WellKnownAccount), nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := c.BaseURL + "/names/well-known"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("xrpscan: build request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xrpscan: fetch well-known accounts: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("xrpscan: fetch well-known accounts: unexpected status %d", resp.StatusCode)
	}

	var accounts []WellKnownAccount
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		return nil, fmt.Errorf("xrpscan: decode well-known accounts: %w", err)
	}
	c.cache.Set(wellKnownCacheKey, accounts, cache.DefaultExpiration)
	return accounts, nil
}

// IssuerName resolves an issuer address to its curated display name.
func (c *Client) IssuerName(ctx context.Context, address string) (string, bool) {
	accounts, err := c.WellKnownAccounts(ctx)
	if err != nil {
		c.log.Debug().Err(err).Str("address", address).Msg("issuer name lookup unavailable")
		return "", false
	}
	for _, account := range accounts {
		if account.Account == address {
			return account.Name, true
		}
	}
	return "", false
}

// CustodialStatus reports whether an address looks custodial. Presence in
// the well-known list means an operator with many users behind one address.
func (c *Client) CustodialStatus(ctx context.Context, address string) domain.CustodialStatus {
	accounts, err := c.WellKnownAccounts(ctx)
	if err != nil {
		c.log.Debug().Err(err).Str("address", address).Msg("custodial check unavailable")
		return domain.CustodialUnknown
	}
	for _, account := range accounts {
		if account.Account == address {
			return domain.CustodialLikely
		}
	}
	return domain.CustodialNot
}
