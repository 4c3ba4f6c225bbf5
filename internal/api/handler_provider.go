package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cartloom/wallet-service/internal/repos/ledger"
	"github.com/cartloom/wallet-service/internal/repos/wallets"
	"github.com/cartloom/wallet-service/internal/services/wallet"
)

// WalletService is the call contract the handlers need from the wallet core.
type WalletService interface {
	GetWallet(ctx context.Context, userID int64) (*wallets.Wallet, error)
	ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]ledger.Entry, error)
	ProcessOrderPayment(ctx context.Context, userID int64, amount int64, orderID string) (*wallet.Result, error)
	ProcessOrderRefund(ctx context.Context, userID int64, amount int64, orderID, refundID string) (*wallet.Result, error)
	ProcessAdminAdjustment(ctx context.Context, userID int64, amount int64, t ledger.Type, description, adminID string) (*wallet.Result, error)
	InitiateTopup(ctx context.Context, userID int64, amount int64, paymentMethod string) (*ledger.Entry, error)
	ProcessTopupCompletion(ctx context.Context, gatewayTxID string, gatewayResponse json.RawMessage, isSuccess bool) (*wallet.TopupResult, error)
}

// HandlerProvider wraps a WalletService and exposes HTTP handlers.
type HandlerProvider struct {
	svc WalletService
}

// NewHandler returns a new Handler provider.
func NewHandler(svc WalletService) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP statuses. Unknown errors
// become a generic 500; the detail is logged, not leaked.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInvalidTransactionType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wallets.ErrWalletNotFound):
		writeError(w, http.StatusNotFound, "wallet not found")
	case errors.Is(err, ledger.ErrPendingTransactionNotFound):
		writeError(w, http.StatusNotFound, "no pending transaction matches the gateway transaction id")
	case errors.Is(err, wallet.ErrWalletNotTransactable):
		writeError(w, http.StatusForbidden, "wallet does not permit transactions")
	case errors.Is(err, wallets.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, "insufficient balance")
	case errors.Is(err, wallet.ErrDailyLimitExceeded):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrDuplicateGatewayTransaction):
		writeError(w, http.StatusConflict, "duplicate gateway transaction")
	case errors.Is(err, ledger.ErrInvalidTransactionState):
		writeError(w, http.StatusConflict, "transaction already settled")
	default:
		slog.Error("wallet operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseUserIDFromPath reads `{userId}` from the wallet routes.
func parseUserIDFromPath(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "userId")
	if idStr == "" {
		return 0, fmt.Errorf("missing userId")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid userId: %w", err)
	}

	if id <= 0 {
		return 0, fmt.Errorf("invalid userId: must be positive")
	}

	return id, nil
}

// parseAmountMinor converts a decimal string with up to 2 fractional digits
// into minor units.
func parseAmountMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount required")
	}

	neg := false
	if s[0] == '+' {
		s = s[1:]
	}

	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("invalid amount")
	}

	intPart := parts[0]
	frac := "00"

	if len(parts) == 2 {
		if len(parts[1]) > 2 {
			return 0, fmt.Errorf("amount supports up to 2 decimals")
		}

		frac = parts[1] + strings.Repeat("0", 2-len(parts[1]))
	}

	ip, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount integer")
	}

	fp, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount fractional")
	}

	total := ip*100 + fp
	if neg {
		total = -total
	}

	if total <= 0 {
		return 0, fmt.Errorf("amount must be > 0")
	}

	return total, nil
}

func formatMinor(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(dst)
}
