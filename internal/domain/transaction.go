package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction classifies a transaction relative to the subject address.
type Direction string

const (
	DirectionDeposit    Direction = "deposit"
	DirectionWithdrawal Direction = "withdrawal"
)

// LedgerAmount is the wire-level amount of a ledger transaction. Exactly one
// representation is active: a native drops quantity (JSON string) or an
// issued-currency triple (JSON object).
type LedgerAmount struct {
	Native bool
	// Drops holds the minor-unit native quantity when Native is set.
	Drops decimal.Decimal
	// Currency is the raw on-ledger identifier, either a 3-character code
	// or a 40-hex-digit encoded code.
	Currency string
	Issuer   string
	Value    decimal.Decimal
}

type issuedAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

func (a *LedgerAmount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var drops string
		if err := json.Unmarshal(data, &drops); err != nil {
			return err
		}
		d, err := decimal.NewFromString(drops)
		if err != nil {
			return fmt.Errorf("invalid native amount %q: %w", drops, err)
		}
		*a = LedgerAmount{Native: true, Drops: d}
		return nil
	}

	var issued issuedAmount
	if err := json.Unmarshal(data, &issued); err != nil {
		return err
	}
	v, err := decimal.NewFromString(issued.Value)
	if err != nil {
		return fmt.Errorf("invalid issued amount %q: %w", issued.Value, err)
	}
	*a = LedgerAmount{Currency: issued.Currency, Issuer: issued.Issuer, Value: v}
	return nil
}

// LedgerTransaction is the inner transaction payload of an account_tx entry.
// Field names follow the ledger's wire casing.
type LedgerTransaction struct {
	Hash            string          `json:"hash,omitempty"`
	TransactionType string          `json:"TransactionType"`
	Account         string          `json:"Account"`
	Destination     string          `json:"Destination,omitempty"`
	DestinationTag  *uint32         `json:"DestinationTag,omitempty"`
	SourceTag       *uint32         `json:"SourceTag,omitempty"`
	Amount          *LedgerAmount   `json:"Amount,omitempty"`
	Fee             string          `json:"Fee,omitempty"`
	Memos           json.RawMessage `json:"Memos,omitempty"`
	// Date is seconds since the ledger epoch, absent on unvalidated entries.
	Date *int64 `json:"date,omitempty"`
}

// TransactionEnvelope is one entry of an account_tx page. Entries lacking
// the inner payload are malformed and skipped by the classifier.
type TransactionEnvelope struct {
	Tx        *LedgerTransaction `json:"tx,omitempty"`
	Meta      json.RawMessage    `json:"meta,omitempty"`
	Validated bool               `json:"validated,omitempty"`
}

// Asset is a normalized amount: a display currency, an optional issuer and
// a major-unit decimal value.
type Asset struct {
	Currency string          `json:"currency"`
	Value    decimal.Decimal `json:"value"`
	Issuer   string          `json:"issuer,omitempty"`
}

// Endpoint is one side of a transfer.
type Endpoint struct {
	Address string  `json:"address"`
	Tag     *uint32 `json:"tag,omitempty"`
}

// ClassifiedTransaction is a transaction normalized relative to a subject
// address. It is created fresh per lookup and never outlives the request.
type ClassifiedTransaction struct {
	Direction   Direction       `json:"direction"`
	Asset       Asset           `json:"asset"`
	Source      Endpoint        `json:"source"`
	Destination Endpoint        `json:"destination"`
	Fee         decimal.Decimal `json:"fee"`
	Memos       json.RawMessage `json:"memos,omitempty"`
	Date        *time.Time      `json:"date"`
	Hash        string          `json:"hash,omitempty"`
}

// RippleTimeToTime converts a ledger-native timestamp to an absolute UTC time.
func RippleTimeToTime(rippleTime int64) time.Time {
	return time.Unix(rippleTime+rippleEpochOffset, 0).UTC()
}
