package wallets

import (
	"database/sql"
	"fmt"

	"github.com/cartloom/wallet-service/internal/repos/wallets"
)

// FindOrCreate inserts a zero-balance wallet if the user has none, then
// selects the row FOR UPDATE. The unique index on user_id resolves the
// concurrent-first-use race: the loser's insert is a no-op and both callers
// end up locking the same row.
func (r *walletsRepo) FindOrCreate(tx *sql.Tx, userID int64, currency string) (*wallets.Wallet, error) {
	_, err := tx.Exec(`
		INSERT INTO wallets (user_id, currency)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, currency)
	if err != nil {
		return nil, fmt.Errorf("insert wallet: %w", err)
	}

	row := tx.QueryRow(`
		SELECT `+walletColumns+`
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`, userID)

	w, err := scanWallet(row)
	if err != nil {
		return nil, fmt.Errorf("select wallet for update: %w", err)
	}

	return w, nil
}
