package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/cartloom/wallet-service/internal/repos/ledger"
)

func (r *ledgerRepo) SumCompletedBetween(ctx context.Context, userID int64, t ledger.Type, from, to time.Time) (int64, error) {
	var total int64

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM wallet_transactions
		WHERE user_id = $1
		  AND transaction_type = $2
		  AND status = 'COMPLETED'
		  AND created_at >= $3
		  AND created_at < $4
	`, userID, t, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum completed: %w", err)
	}

	return total, nil
}

func (r *ledgerRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]ledger.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		entries = append(entries, *e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}
