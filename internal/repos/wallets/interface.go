package wallets

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrInsufficientBalance = errors.New("insufficient balance")
var ErrWalletNotFound = errors.New("wallet not found")

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusBlocked  Status = "BLOCKED"
	StatusInactive Status = "INACTIVE"
)

// Wallet is one user's stored-value account. Balance is in minor units
// (paise, cents) and is never written outside IncreaseBalance/DecreaseBalance.
type Wallet struct {
	ID                int64
	UserID            int64
	Balance           int64
	Currency          string
	Status            Status
	LastTransactionAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanTransact reports whether the wallet accepts new transactions.
func (w *Wallet) CanTransact() bool {
	return w.Status == StatusActive
}

// HasSufficientBalance is the fast-fail pre-check for debits. The
// authoritative check is the conditional predicate inside DecreaseBalance.
func (w *Wallet) HasSufficientBalance(amount int64) bool {
	return w.Balance >= amount
}

type Wallets interface {
	// FindOrCreate resolves the user's wallet inside tx, creating a zero-balance
	// wallet on first use. The returned row is locked FOR UPDATE.
	FindOrCreate(tx *sql.Tx, userID int64, currency string) (*Wallet, error)

	// Get reads the wallet without locking; suitable for read-only endpoints.
	Get(ctx context.Context, userID int64) (*Wallet, error)

	// IncreaseBalance credits the wallet unconditionally and returns the
	// post-update balance.
	IncreaseBalance(tx *sql.Tx, walletID int64, amount int64) (int64, error)

	// DecreaseBalance debits the wallet only if balance >= amount at write
	// time, returning ErrInsufficientBalance when the predicate no longer
	// holds. Returns the post-update balance.
	DecreaseBalance(tx *sql.Tx, walletID int64, amount int64) (int64, error)
}
