package wallet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cartloom/wallet-service/internal/infra/pgutils"
	"github.com/cartloom/wallet-service/internal/repos/ledger"
	"github.com/google/uuid"
)

// InitiateTopup records the PENDING CREDIT side of a gateway top-up before
// the user is sent to the payment gateway. The wallet balance is not touched;
// ProcessTopupCompletion settles the entry when the gateway calls back.
func (s *Service) InitiateTopup(ctx context.Context, userID int64, amount int64, paymentMethod string) (*ledger.Entry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	check, err := s.CheckDailyLimit(ctx, userID, amount, ledger.TypeCredit)
	if err != nil {
		return nil, fmt.Errorf("check daily limit: %w", err)
	}

	if !check.Allowed {
		return nil, fmt.Errorf("%w: remaining today %s",
			ErrDailyLimitExceeded, FormatMinor(check.Remaining, DefaultCurrency))
	}

	var entry *ledger.Entry

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		w, err := s.wallets.FindOrCreate(tx, userID, DefaultCurrency)
		if err != nil {
			return fmt.Errorf("find or create wallet: %w", err)
		}

		if !w.CanTransact() {
			return fmt.Errorf("wallet of user %d is %s: %w", userID, w.Status, ErrWalletNotTransactable)
		}

		err = ValidateAmount(amount, w.Currency)
		if err != nil {
			return err
		}

		entry, err = s.ledger.InsertPending(tx, &ledger.Entry{
			WalletID:             w.ID,
			UserID:               userID,
			Type:                 ledger.TypeCredit,
			Amount:               amount,
			Currency:             w.Currency,
			Description:          fmt.Sprintf("Wallet top-up via %s", paymentMethod),
			ReferenceType:        ledger.RefPaymentGateway,
			InitiatedBy:          ledger.ActorUser,
			PaymentMethod:        paymentMethod,
			GatewayTransactionID: uuid.NewString(),
		})
		if err != nil {
			return fmt.Errorf("insert pending top-up: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("top-up initiated",
		"user_id", userID,
		"transaction_id", entry.ID,
		"gateway_transaction_id", entry.GatewayTransactionID,
		"amount", amount,
	)

	return entry, nil
}

// ProcessTopupCompletion reconciles an asynchronous gateway callback against
// the PENDING CREDIT entry created at initiation. The PENDING-only match is
// what makes duplicate callbacks safe: a second callback for a settled entry
// finds no row and surfaces ErrPendingTransactionNotFound instead of crediting
// twice. A missing match is an error, never silently accepted — it means a
// duplicate or malformed webhook.
func (s *Service) ProcessTopupCompletion(ctx context.Context, gatewayTxID string, gatewayResponse json.RawMessage, isSuccess bool) (*TopupResult, error) {
	var res TopupResult

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		entry, err := s.ledger.FindPendingByGatewayID(tx, gatewayTxID)
		if err != nil {
			return err
		}

		if !isSuccess {
			failed, err := s.ledger.MarkFailed(tx, entry.ID, failureReasonFrom(gatewayResponse), gatewayResponse)
			if err != nil {
				return fmt.Errorf("fail entry: %w", err)
			}

			res = TopupResult{Success: false, Transaction: failed}

			return nil
		}

		newBalance, err := s.wallets.IncreaseBalance(tx, entry.WalletID, entry.Amount)
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}

		completed, err := s.ledger.MarkCompleted(tx, entry.ID, newBalance, gatewayResponse)
		if err != nil {
			return fmt.Errorf("complete entry: %w", err)
		}

		res = TopupResult{Success: true, Transaction: completed, NewBalance: newBalance}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("top-up callback processed",
		"gateway_transaction_id", gatewayTxID,
		"success", res.Success,
		"transaction_id", res.Transaction.ID,
	)

	return &res, nil
}

// failureReasonFrom pulls a human-readable reason out of the raw gateway
// payload, falling back to a generic message.
func failureReasonFrom(gatewayResponse json.RawMessage) string {
	var payload map[string]any

	if json.Unmarshal(gatewayResponse, &payload) == nil {
		for _, key := range []string{"failure_reason", "error", "message"} {
			if v, ok := payload[key].(string); ok && v != "" {
				return v
			}
		}
	}

	return "payment failed at gateway"
}
