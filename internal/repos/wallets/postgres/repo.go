package wallets

import (
	"database/sql"

	"github.com/cartloom/wallet-service/internal/repos/wallets"
)

var _ wallets.Wallets = (*walletsRepo)(nil)

type walletsRepo struct{ db *sql.DB }

func New(db *sql.DB) *walletsRepo {
	return &walletsRepo{db: db}
}

const walletColumns = `
	id, user_id, balance, currency, status,
	last_transaction_at, created_at, updated_at
`

func scanWallet(row *sql.Row) (*wallets.Wallet, error) {
	var w wallets.Wallet

	err := row.Scan(
		&w.ID, &w.UserID, &w.Balance, &w.Currency, &w.Status,
		&w.LastTransactionAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &w, nil
}
