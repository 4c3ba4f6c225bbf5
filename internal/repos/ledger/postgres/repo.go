package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cartloom/wallet-service/internal/repos/ledger"
)

var _ ledger.Ledger = (*ledgerRepo)(nil)

type ledgerRepo struct{ db *sql.DB }

func New(db *sql.DB) *ledgerRepo {
	return &ledgerRepo{db: db}
}

const entryColumns = `
	id, wallet_id, user_id, transaction_type, amount, currency, description,
	reference_type, reference_id, initiated_by, payment_method,
	gateway_transaction_id, gateway_response, metadata, balance_after,
	status, failure_reason, completed_at, failed_at, created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*ledger.Entry, error) {
	var (
		e            ledger.Entry
		refType      sql.NullString
		refID        sql.NullString
		payMethod    sql.NullString
		gwTxID       sql.NullString
		gwResponse   []byte
		metadata     []byte
		failedReason sql.NullString
	)

	err := row.Scan(
		&e.ID, &e.WalletID, &e.UserID, &e.Type, &e.Amount, &e.Currency,
		&e.Description, &refType, &refID, &e.InitiatedBy, &payMethod,
		&gwTxID, &gwResponse, &metadata, &e.BalanceAfter,
		&e.Status, &failedReason, &e.CompletedAt, &e.FailedAt, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.ReferenceType = ledger.ReferenceType(refType.String)
	e.ReferenceID = refID.String
	e.PaymentMethod = payMethod.String
	e.GatewayTransactionID = gwTxID.String
	e.GatewayResponse = gwResponse
	e.FailureReason = failedReason.String

	if len(metadata) > 0 {
		err = json.Unmarshal(metadata, &e.Metadata)
		if err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	return &e, nil
}
