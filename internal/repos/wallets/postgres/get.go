package wallets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cartloom/wallet-service/internal/repos/wallets"
)

func (r *walletsRepo) Get(ctx context.Context, userID int64) (*wallets.Wallet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE user_id = $1
	`, userID)

	w, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wallets.ErrWalletNotFound
		}

		return nil, fmt.Errorf("get wallet: %w", err)
	}

	return w, nil
}
