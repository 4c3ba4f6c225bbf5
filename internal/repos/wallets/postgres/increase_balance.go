package wallets

import (
	"database/sql"
	"fmt"
)

func (r *walletsRepo) IncreaseBalance(tx *sql.Tx, walletID int64, amount int64) (int64, error) {
	var balance int64

	err := tx.QueryRow(`
		UPDATE wallets
		SET balance = balance + $2,
		    last_transaction_at = now(),
		    updated_at = now()
		WHERE id = $1
		RETURNING balance
	`, walletID, amount).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("increase balance: %w", err)
	}

	return balance, nil
}
