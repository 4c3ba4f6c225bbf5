package wallets

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/cartloom/wallet-service/internal/repos/wallets"
)

// DecreaseBalance re-checks the balance inside the UPDATE predicate. A naive
// read-modify-write would let two concurrent debits both pass the earlier
// check and overdraw; here the loser's update matches zero rows.
func (r *walletsRepo) DecreaseBalance(tx *sql.Tx, walletID int64, amount int64) (int64, error) {
	var balance int64

	err := tx.QueryRow(`
		UPDATE wallets
		SET balance = balance - $2,
		    last_transaction_at = now(),
		    updated_at = now()
		WHERE id = $1
		  AND balance >= $2
		RETURNING balance
	`, walletID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, wallets.ErrInsufficientBalance
		}

		return 0, fmt.Errorf("decrease balance: %w", err)
	}

	return balance, nil
}
