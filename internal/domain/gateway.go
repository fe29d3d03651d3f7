package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrAccountNotFound reports that the subject address does not exist on the
// validated ledger.
var ErrAccountNotFound = errors.New("account not found")

// AccountTxQuery selects one page of an account's transaction history.
type AccountTxQuery struct {
	Account string
	// Limit optionally caps the page size; zero lets the server choose.
	Limit int
	// Marker is the opaque pagination cursor from the previous page,
	// echoed back verbatim. Nil requests the first page.
	Marker json.RawMessage
}

// AccountTxPage is one server-confirmed page of history, newest-first.
type AccountTxPage struct {
	Transactions []TransactionEnvelope
	// Marker is present when more pages remain.
	Marker json.RawMessage
}

// AccountInfo is the validated-ledger state of an account.
type AccountInfo struct {
	Address      string
	BalanceDrops decimal.Decimal
	Sequence     uint32
	OwnerCount   uint32
}

// BalanceLine is one held or issued asset position, with the currency code
// still in raw on-ledger form.
type BalanceLine struct {
	Currency string
	Issuer   string
	Value    decimal.Decimal
}

// BalanceSheet is the gateway_balances view of an account.
type BalanceSheet struct {
	// Assets are balances held against other issuers.
	Assets []BalanceLine
	// Obligations are balances the account itself has issued.
	Obligations []BalanceLine
}

// LedgerGateway submits read-only commands to a ledger node and returns
// typed results. Any transport or command failure is terminal for the
// calling lookup; the gateway performs no retries.
type LedgerGateway interface {
	// AccountTransactions fetches one history page over the validated
	// ledger range.
	AccountTransactions(ctx context.Context, query AccountTxQuery) (*AccountTxPage, error)

	// AccountInfo fetches the account's validated-ledger state.
	AccountInfo(ctx context.Context, address string) (*AccountInfo, error)

	// GatewayBalances fetches the account's held and issued assets.
	GatewayBalances(ctx context.Context, address string) (*BalanceSheet, error)
}

// NameDirectory resolves an issuer address to a canonical display name.
// Lookups are best-effort: a miss or an unavailable backend reports false
// and must never fail the surrounding analysis.
type NameDirectory interface {
	IssuerName(ctx context.Context, address string) (string, bool)
}

// CustodialStatus is a best-effort heuristic over a well-known-accounts list.
type CustodialStatus string

const (
	CustodialLikely  CustodialStatus = "likely custodial"
	CustodialNot     CustodialStatus = "not custodial"
	CustodialUnknown CustodialStatus = "unknown"
)

// CustodialChecker classifies an address against known custodial operators.
type CustodialChecker interface {
	CustodialStatus(ctx context.Context, address string) CustodialStatus
}
