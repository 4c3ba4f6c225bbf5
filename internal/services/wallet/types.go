package wallet

import (
	"errors"

	"github.com/cartloom/wallet-service/internal/repos/ledger"
	"github.com/cartloom/wallet-service/internal/repos/wallets"
)

// DefaultCurrency is assigned to wallets created lazily on first use.
const DefaultCurrency = "INR"

var (
	ErrWalletNotTransactable  = errors.New("wallet does not permit transactions")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrDailyLimitExceeded     = errors.New("daily transaction limit exceeded")
)

// TransactionInput carries everything the engine needs to move money once.
type TransactionInput struct {
	UserID               int64
	Amount               int64 // minor units, > 0
	Type                 ledger.Type
	Description          string
	ReferenceType        ledger.ReferenceType
	ReferenceID          string
	InitiatedBy          ledger.Actor
	PaymentMethod        string
	GatewayTransactionID string
	Metadata             map[string]string
}

// Result is returned by the engine and the domain operations on success.
type Result struct {
	Transaction *ledger.Entry
	Wallet      *wallets.Wallet
	NewBalance  int64
}

// TopupResult reports the outcome of a gateway completion. Success false with
// a nil error means the gateway reported failure and the ledger entry was
// marked FAILED; the wallet was not touched.
type TopupResult struct {
	Success     bool
	Transaction *ledger.Entry
	NewBalance  int64
}
