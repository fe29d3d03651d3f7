package xrpl

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrplens/xrplens-backend/internal/domain"
)

// fakeCaller records the last command and params and replies with a canned
// result or error.
type fakeCaller struct {
	command string
	params  json.RawMessage
	result  json.RawMessage
	err     error
}

func (f *fakeCaller) Call(_ context.Context, command string, params any) (json.RawMessage, error) {
	f.command = command
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	f.params = raw
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestAccountTransactions_RequestShape(t *testing.T) {
	caller := &fakeCaller{result: json.RawMessage(`{"account":"rTest","transactions":[]}`)}
	gateway := NewGateway(caller)

	marker := json.RawMessage(`{"ledger":7,"seq":2}`)
	_, err := gateway.AccountTransactions(context.Background(), domain.AccountTxQuery{
		Account: "rTest",
		Limit:   25,
		Marker:  marker,
	})
	require.NoError(t, err)

	assert.Equal(t, "account_tx", caller.command)

	var sent map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(caller.params, &sent))
	assert.JSONEq(t, `"rTest"`, string(sent["account"]))
	assert.JSONEq(t, `"validated"`, string(sent["ledger_index"]))
	assert.JSONEq(t, `-1`, string(sent["ledger_index_min"]))
	assert.JSONEq(t, `-1`, string(sent["ledger_index_max"]))
	assert.JSONEq(t, `25`, string(sent["limit"]))
	// The cursor is opaque and must be echoed byte-for-byte.
	assert.Equal(t, string(marker), string(sent["marker"]))
}

func TestAccountTransactions_ParsesPage(t *testing.T) {
	caller := &fakeCaller{result: json.RawMessage(`{
		"account": "rTest",
		"transactions": [
			{"tx": {"TransactionType": "Payment", "Account": "rA", "Destination": "rTest", "Amount": "1000000", "date": 771768000}, "validated": true},
			{"meta": {}, "validated": true}
		],
		"marker": {"ledger": 9, "seq": 1}
	}`)}
	gateway := NewGateway(caller)

	page, err := gateway.AccountTransactions(context.Background(), domain.AccountTxQuery{Account: "rTest"})
	require.NoError(t, err)

	require.Len(t, page.Transactions, 2)
	first := page.Transactions[0].Tx
	require.NotNil(t, first)
	assert.Equal(t, "Payment", first.TransactionType)
	require.NotNil(t, first.Amount)
	assert.True(t, first.Amount.Native)
	assert.Equal(t, "1000000", first.Amount.Drops.String())
	assert.Nil(t, page.Transactions[1].Tx)
	assert.JSONEq(t, `{"ledger":9,"seq":1}`, string(page.Marker))
}

func TestAccountTransactions_IssuedAmount(t *testing.T) {
	caller := &fakeCaller{result: json.RawMessage(`{
		"transactions": [
			{"tx": {"TransactionType": "Payment", "Account": "rA", "Destination": "rB",
				"Amount": {"currency": "USD", "issuer": "rIssuer", "value": "12.5"}}}
		]
	}`)}
	gateway := NewGateway(caller)

	page, err := gateway.AccountTransactions(context.Background(), domain.AccountTxQuery{Account: "rB"})
	require.NoError(t, err)

	amount := page.Transactions[0].Tx.Amount
	require.NotNil(t, amount)
	assert.False(t, amount.Native)
	assert.Equal(t, "USD", amount.Currency)
	assert.Equal(t, "rIssuer", amount.Issuer)
	assert.Equal(t, "12.5", amount.Value.String())
}

func TestAccountInfo(t *testing.T) {
	caller := &fakeCaller{result: json.RawMessage(`{
		"account_data": {"Account": "rTest", "Balance": "25000000", "Sequence": 4, "OwnerCount": 1}
	}`)}
	gateway := NewGateway(caller)

	info, err := gateway.AccountInfo(context.Background(), "rTest")
	require.NoError(t, err)
	assert.Equal(t, "rTest", info.Address)
	assert.Equal(t, "25000000", info.BalanceDrops.String())
	assert.Equal(t, uint32(4), info.Sequence)
}

func TestAccountInfo_NotFound(t *testing.T) {
	caller := &fakeCaller{err: &CommandError{Command: "account_info", Code: "actNotFound", Message: "Account not found."}}
	gateway := NewGateway(caller)

	_, err := gateway.AccountInfo(context.Background(), "rMissing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestGatewayBalances(t *testing.T) {
	caller := &fakeCaller{result: json.RawMessage(`{
		"account": "rTest",
		"assets": {
			"rIssuerB": [{"currency": "USD", "value": "31.4"}],
			"rIssuerA": [{"currency": "534F4C4F00000000000000000000000000000000", "value": "10"}]
		},
		"obligations": {"EUR": "250"}
	}`)}
	gateway := NewGateway(caller)

	sheet, err := gateway.GatewayBalances(context.Background(), "rTest")
	require.NoError(t, err)

	require.Len(t, sheet.Assets, 2)
	// Sorted by issuer for reproducible output.
	assert.Equal(t, "rIssuerA", sheet.Assets[0].Issuer)
	assert.Equal(t, "rIssuerB", sheet.Assets[1].Issuer)
	assert.Equal(t, "31.4", sheet.Assets[1].Value.String())

	require.Len(t, sheet.Obligations, 1)
	assert.Equal(t, "EUR", sheet.Obligations[0].Currency)
	assert.Equal(t, "rTest", sheet.Obligations[0].Issuer)
	assert.Equal(t, "250", sheet.Obligations[0].Value.String())
}
