package wallet

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cartloom/wallet-service/internal/infra/pgutils"
	"github.com/cartloom/wallet-service/internal/repos/ledger"
	pgledger "github.com/cartloom/wallet-service/internal/repos/ledger/postgres"
	"github.com/cartloom/wallet-service/internal/repos/wallets"
	pgwallets "github.com/cartloom/wallet-service/internal/repos/wallets/postgres"
)

type Service struct {
	db      *sql.DB
	wallets wallets.Wallets
	ledger  ledger.Ledger
}

func New(db *sql.DB) *Service {
	return &Service{
		db:      db,
		wallets: pgwallets.New(db),
		ledger:  pgledger.New(db),
	}
}

// PerformTransaction moves money once, all inside a single DB transaction:
//
// 1) Find or create the wallet (row stays locked until commit).
// 2) Reject BLOCKED/INACTIVE wallets.
// 3) Validate amount against the wallet's currency bounds.
// 4) For DEBIT, fast-fail on the locked balance so obviously-insufficient
//    requests leave no ledger row behind.
// 5) Insert the PENDING ledger entry with full context.
// 6) Apply the balance change; the DEBIT predicate re-checks the balance at
//    write time, which is the authoritative overdraft guard.
// 7) Mark the entry COMPLETED with the post-update balance snapshot.
//
// Any error aborts the whole transaction; no partial writes survive. Nothing
// is retried here.
func (s *Service) PerformTransaction(ctx context.Context, in TransactionInput) (*Result, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	if in.Type != ledger.TypeCredit && in.Type != ledger.TypeDebit {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTransactionType, in.Type)
	}

	check, err := s.CheckDailyLimit(ctx, in.UserID, in.Amount, in.Type)
	if err != nil {
		return nil, fmt.Errorf("check daily limit: %w", err)
	}

	if !check.Allowed {
		return nil, fmt.Errorf("%w: remaining today %s",
			ErrDailyLimitExceeded, FormatMinor(check.Remaining, DefaultCurrency))
	}

	var res Result

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		w, err := s.wallets.FindOrCreate(tx, in.UserID, DefaultCurrency)
		if err != nil {
			return fmt.Errorf("find or create wallet: %w", err)
		}

		if !w.CanTransact() {
			return fmt.Errorf("wallet of user %d is %s: %w", in.UserID, w.Status, ErrWalletNotTransactable)
		}

		err = ValidateAmount(in.Amount, w.Currency)
		if err != nil {
			return err
		}

		if in.Type == ledger.TypeDebit && !w.HasSufficientBalance(in.Amount) {
			return fmt.Errorf("balance %s, requested %s: %w",
				FormatMinor(w.Balance, w.Currency), FormatMinor(in.Amount, w.Currency),
				wallets.ErrInsufficientBalance)
		}

		entry, err := s.ledger.InsertPending(tx, &ledger.Entry{
			WalletID:             w.ID,
			UserID:               in.UserID,
			Type:                 in.Type,
			Amount:               in.Amount,
			Currency:             w.Currency,
			Description:          in.Description,
			ReferenceType:        in.ReferenceType,
			ReferenceID:          in.ReferenceID,
			InitiatedBy:          in.InitiatedBy,
			PaymentMethod:        in.PaymentMethod,
			GatewayTransactionID: in.GatewayTransactionID,
			Metadata:             in.Metadata,
		})
		if err != nil {
			return fmt.Errorf("insert pending entry: %w", err)
		}

		var newBalance int64

		switch in.Type {
		case ledger.TypeCredit:
			newBalance, err = s.wallets.IncreaseBalance(tx, w.ID, in.Amount)
		case ledger.TypeDebit:
			newBalance, err = s.wallets.DecreaseBalance(tx, w.ID, in.Amount)
		}

		if err != nil {
			return fmt.Errorf("apply balance change: %w", err)
		}

		entry, err = s.ledger.MarkCompleted(tx, entry.ID, newBalance, nil)
		if err != nil {
			return fmt.Errorf("complete entry: %w", err)
		}

		w.Balance = newBalance
		res = Result{Transaction: entry, Wallet: w, NewBalance: newBalance}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("wallet transaction completed",
		"user_id", in.UserID,
		"transaction_id", res.Transaction.ID,
		"type", in.Type,
		"amount", in.Amount,
		"new_balance", res.NewBalance,
	)

	return &res, nil
}

// GetWallet returns the user's wallet without locking it.
func (s *Service) GetWallet(ctx context.Context, userID int64) (*wallets.Wallet, error) {
	w, err := s.wallets.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	return w, nil
}

// ListTransactions returns the user's ledger history, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]ledger.Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if offset < 0 {
		offset = 0
	}

	entries, err := s.ledger.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return entries, nil
}
