package ledger

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cartloom/wallet-service/internal/repos/ledger"
)

// Both transitions are guarded by status = 'PENDING' in the UPDATE predicate.
// A terminal row matches zero rows, which keeps the ledger append-only even
// if a caller misuses the API.

func (r *ledgerRepo) MarkCompleted(tx *sql.Tx, id int64, balanceAfter int64, gatewayResponse json.RawMessage) (*ledger.Entry, error) {
	row := tx.QueryRow(`
		UPDATE wallet_transactions
		SET status = 'COMPLETED',
		    balance_after = $2,
		    gateway_response = COALESCE($3, gateway_response),
		    completed_at = now()
		WHERE id = $1
		  AND status = 'PENDING'
		RETURNING `+entryColumns,
		id, balanceAfter, nilIfEmpty(gatewayResponse),
	)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrInvalidTransactionState
		}

		return nil, fmt.Errorf("mark completed: %w", err)
	}

	return e, nil
}

func (r *ledgerRepo) MarkFailed(tx *sql.Tx, id int64, reason string, gatewayResponse json.RawMessage) (*ledger.Entry, error) {
	row := tx.QueryRow(`
		UPDATE wallet_transactions
		SET status = 'FAILED',
		    failure_reason = $2,
		    gateway_response = COALESCE($3, gateway_response),
		    failed_at = now()
		WHERE id = $1
		  AND status = 'PENDING'
		RETURNING `+entryColumns,
		id, reason, nilIfEmpty(gatewayResponse),
	)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrInvalidTransactionState
		}

		return nil, fmt.Errorf("mark failed: %w", err)
	}

	return e, nil
}
