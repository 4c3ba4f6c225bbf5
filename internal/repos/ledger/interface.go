package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrDuplicateGatewayTransaction = errors.New("duplicate gateway transaction")
	ErrInvalidTransactionState     = errors.New("transaction not in a state that permits this transition")
	ErrPendingTransactionNotFound  = errors.New("no pending transaction matches")
	ErrTransactionNotFound         = errors.New("transaction not found")
)

type Type string

const (
	TypeCredit Type = "CREDIT"
	TypeDebit  Type = "DEBIT"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

type Actor string

const (
	ActorUser   Actor = "USER"
	ActorAdmin  Actor = "ADMIN"
	ActorSystem Actor = "SYSTEM"
)

type ReferenceType string

const (
	RefOrder           ReferenceType = "ORDER"
	RefRefund          ReferenceType = "REFUND"
	RefAdminAdjustment ReferenceType = "ADMIN_ADJUSTMENT"
	RefPaymentGateway  ReferenceType = "PAYMENT_GATEWAY"
	RefWithdrawal      ReferenceType = "WITHDRAWAL"
)

// Entry is one row of the append-only ledger. Once Status reaches COMPLETED
// or FAILED the row never changes again; corrections are new offsetting
// entries. BalanceAfter is set only at COMPLETED.
type Entry struct {
	ID                   int64
	WalletID             int64
	UserID               int64
	Type                 Type
	Amount               int64
	Currency             string
	Description          string
	ReferenceType        ReferenceType
	ReferenceID          string
	InitiatedBy          Actor
	PaymentMethod        string
	GatewayTransactionID string
	GatewayResponse      json.RawMessage
	Metadata             map[string]string
	BalanceAfter         *int64
	Status               Status
	FailureReason        string
	CompletedAt          *time.Time
	FailedAt             *time.Time
	CreatedAt            time.Time
}

type Ledger interface {
	// InsertPending appends a PENDING entry. A gateway transaction id that is
	// already recorded yields ErrDuplicateGatewayTransaction.
	InsertPending(tx *sql.Tx, e *Entry) (*Entry, error)

	// MarkCompleted moves a PENDING entry to COMPLETED, recording the balance
	// snapshot and optional gateway response. Entries already in a terminal
	// state yield ErrInvalidTransactionState.
	MarkCompleted(tx *sql.Tx, id int64, balanceAfter int64, gatewayResponse json.RawMessage) (*Entry, error)

	// MarkFailed moves a PENDING entry to FAILED with the given reason.
	MarkFailed(tx *sql.Tx, id int64, reason string, gatewayResponse json.RawMessage) (*Entry, error)

	// FindPendingByGatewayID locks and returns the single PENDING CREDIT entry
	// carrying this gateway id, or ErrPendingTransactionNotFound.
	FindPendingByGatewayID(tx *sql.Tx, gatewayTxID string) (*Entry, error)

	// SumCompletedBetween totals COMPLETED amounts of one type for a user in
	// [from, to). Feeds the daily-limit check.
	SumCompletedBetween(ctx context.Context, userID int64, t Type, from, to time.Time) (int64, error)

	// ListByUser returns the user's entries, newest first.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Entry, error)
}
