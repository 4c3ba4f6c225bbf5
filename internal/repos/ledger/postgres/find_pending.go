package ledger

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/cartloom/wallet-service/internal/repos/ledger"
)

// FindPendingByGatewayID matches PENDING rows only. A gateway callback that
// arrives twice finds nothing the second time, which is what makes top-up
// completion idempotent.
func (r *ledgerRepo) FindPendingByGatewayID(tx *sql.Tx, gatewayTxID string) (*ledger.Entry, error) {
	row := tx.QueryRow(`
		SELECT `+entryColumns+`
		FROM wallet_transactions
		WHERE gateway_transaction_id = $1
		  AND status = 'PENDING'
		  AND transaction_type = 'CREDIT'
		FOR UPDATE
	`, gatewayTxID)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrPendingTransactionNotFound
		}

		return nil, fmt.Errorf("find pending by gateway id: %w", err)
	}

	return e, nil
}
