package xrpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xrplens/xrplens-backend/internal/domain"
)

// Caller submits one read-only command and returns its JSON result.
type Caller interface {
	Call(ctx context.Context, command string, params any) (json.RawMessage, error)
}

// Gateway implements domain.LedgerGateway on top of a Caller.
type Gateway struct {
	RPC Caller
}

// NewGateway creates a new Gateway instance.
func NewGateway(rpc Caller) *Gateway {
	return &Gateway{RPC: rpc}
}

type accountTxRequest struct {
	Account        string          `json:"account"`
	LedgerIndex    string          `json:"ledger_index"`
	LedgerIndexMin int             `json:"ledger_index_min"`
	LedgerIndexMax int             `json:"ledger_index_max"`
	Limit          int             `json:"limit,omitempty"`
	Marker         json.RawMessage `json:"marker,omitempty"`
}

type accountTxResult struct {
	Account      string                       `json:"account"`
	Transactions []domain.TransactionEnvelope `json:"transactions"`
	Marker       json.RawMessage              `json:"marker,omitempty"`
}

// AccountTransactions fetches one page of account_tx over the whole
// validated ledger range. The query marker is echoed back verbatim.
func (g *Gateway) AccountTransactions(ctx context.Context, query domain.AccountTxQuery) (*domain.AccountTxPage, error) {
	req := accountTxRequest{
		Account:        query.Account,
		LedgerIndex:    "validated",
		LedgerIndexMin: -1,
		LedgerIndexMax: -1,
		Limit:          query.Limit,
		Marker:         query.Marker,
	}
	raw, err := g.RPC.Call(ctx, "account_tx", req)
	if err != nil {
		return nil, mapCommandError(err)
	}
	var result accountTxResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("xrpl: decode account_tx result: %w", err)
	}
	return &domain.AccountTxPage{
		Transactions: result.Transactions,
		Marker:       result.Marker,
	}, nil
}

type accountInfoRequest struct {
	Account     string `json:"account"`
	LedgerIndex string `json:"ledger_index"`
}

type accountInfoResult struct {
	AccountData struct {
		Account    string `json:"Account"`
		Balance    string `json:"Balance"`
		Sequence   uint32 `json:"Sequence"`
		OwnerCount uint32 `json:"OwnerCount"`
	} `json:"account_data"`
}

// AccountInfo fetches the validated-ledger state of an account.
func (g *Gateway) AccountInfo(ctx context.Context, address string) (*domain.AccountInfo, error) {
	raw, err := g.RPC.Call(ctx, "account_info", accountInfoRequest{Account: address, LedgerIndex: "validated"})
	if err != nil {
		return nil, mapCommandError(err)
	}
	var result accountInfoResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("xrpl: decode account_info result: %w", err)
	}
	balance, err := decimal.NewFromString(result.AccountData.Balance)
	if err != nil {
		return nil, fmt.Errorf("xrpl: invalid account balance %q: %w", result.AccountData.Balance, err)
	}
	return &domain.AccountInfo{
		Address:      result.AccountData.Account,
		BalanceDrops: balance,
		Sequence:     result.AccountData.Sequence,
		OwnerCount:   result.AccountData.OwnerCount,
	}, nil
}

type gatewayBalancesRequest struct {
	Account     string `json:"account"`
	LedgerIndex string `json:"ledger_index"`
}

type gatewayBalancesResult struct {
	Account string `json:"account"`
	Assets  map[string][]struct {
		Currency string `json:"currency"`
		Value    string `json:"value"`
	} `json:"assets"`
	Obligations map[string]string `json:"obligations"`
}

// GatewayBalances fetches the account's held assets and issued obligations.
func (g *Gateway) GatewayBalances(ctx context.Context, address string) (*domain.BalanceSheet, error) {
	raw, err := g.RPC.Call(ctx, "gateway_balances", gatewayBalancesRequest{Account: address, LedgerIndex: "validated"})
	if err != nil {
		return nil, mapCommandError(err)
	}
	var result gatewayBalancesResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("xrpl: decode gateway_balances result: %w", err)
	}

	sheet := &domain.BalanceSheet{}
	for issuer, lines := range result.Assets {
		for _, line := range lines {
			value, err := decimal.NewFromString(line.Value)
			if err != nil {
				return nil, fmt.Errorf("xrpl: invalid asset value %q: %w", line.Value, err)
			}
			sheet.Assets = append(sheet.Assets, domain.BalanceLine{
				Currency: line.Currency,
				Issuer:   issuer,
				Value:    value,
			})
		}
	}
	for currency, rawValue := range result.Obligations {
		value, err := decimal.NewFromString(rawValue)
		if err != nil {
			return nil, fmt.Errorf("xrpl: invalid obligation value %q: %w", rawValue, err)
		}
		sheet.Obligations = append(sheet.Obligations, domain.BalanceLine{
			Currency: currency,
			Issuer:   result.Account,
			Value:    value,
		})
	}
	// The wire format is keyed by maps; sort so repeated lookups render
	// identically.
	sortLines(sheet.Assets)
	sortLines(sheet.Obligations)
	return sheet, nil
}

func sortLines(lines []domain.BalanceLine) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Issuer != lines[j].Issuer {
			return lines[i].Issuer < lines[j].Issuer
		}
		return lines[i].Currency < lines[j].Currency
	})
}

// mapCommandError translates well-known ledger error codes into domain
// sentinels so callers do not depend on this adapter.
func mapCommandError(err error) error {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == "actNotFound" {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, cmdErr.Code)
	}
	return err
}
