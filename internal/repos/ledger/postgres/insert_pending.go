package ledger

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cartloom/wallet-service/internal/repos/ledger"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *ledgerRepo) InsertPending(tx *sql.Tx, e *ledger.Entry) (*ledger.Entry, error) {
	var metadata []byte

	if len(e.Metadata) > 0 {
		var err error

		metadata, err = json.Marshal(e.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal metadata: %w", err)
		}
	}

	row := tx.QueryRow(`
		INSERT INTO wallet_transactions (
			wallet_id, user_id, transaction_type, amount, currency, description,
			reference_type, reference_id, initiated_by, payment_method,
			gateway_transaction_id, gateway_response, metadata
		)
		VALUES (
			$1, $2, $3, $4, $5, $6,
			NULLIF($7, ''), NULLIF($8, ''), $9, NULLIF($10, ''),
			NULLIF($11, ''), $12, $13
		)
		RETURNING `+entryColumns,
		e.WalletID, e.UserID, e.Type, e.Amount, e.Currency, e.Description,
		string(e.ReferenceType), e.ReferenceID, e.InitiatedBy, e.PaymentMethod,
		e.GatewayTransactionID, nilIfEmpty(e.GatewayResponse), metadata,
	)

	inserted, err := scanEntry(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, ledger.ErrDuplicateGatewayTransaction
		}

		return nil, fmt.Errorf("insert pending entry: %w", err)
	}

	return inserted, nil
}

func nilIfEmpty(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}

	return b
}
