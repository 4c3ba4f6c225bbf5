package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cartloom/wallet-service/internal/repos/ledger"
	"github.com/cartloom/wallet-service/internal/services/wallet"
)

type walletResponse struct {
	UserID            int64      `json:"userId"`
	Balance           string     `json:"balance"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	LastTransactionAt *time.Time `json:"lastTransactionAt,omitempty"`
}

type transactionResponse struct {
	ID                   int64             `json:"id"`
	Type                 string            `json:"type"`
	Amount               string            `json:"amount"`
	Currency             string            `json:"currency"`
	Description          string            `json:"description"`
	ReferenceType        string            `json:"referenceType,omitempty"`
	ReferenceID          string            `json:"referenceId,omitempty"`
	InitiatedBy          string            `json:"initiatedBy"`
	PaymentMethod        string            `json:"paymentMethod,omitempty"`
	GatewayTransactionID string            `json:"gatewayTransactionId,omitempty"`
	Metadata             map[string]string `json:"metadata,omitempty"`
	Status               string            `json:"status"`
	BalanceAfter         *string           `json:"balanceAfter,omitempty"`
	FailureReason        string            `json:"failureReason,omitempty"`
	CompletedAt          *time.Time        `json:"completedAt,omitempty"`
	FailedAt             *time.Time        `json:"failedAt,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
}

type operationResponse struct {
	Success     bool                `json:"success"`
	Transaction transactionResponse `json:"transaction"`
	Wallet      walletResponse      `json:"wallet"`
	NewBalance  string              `json:"newBalance"`
}

func toTransactionResponse(e *ledger.Entry) transactionResponse {
	resp := transactionResponse{
		ID:                   e.ID,
		Type:                 string(e.Type),
		Amount:               formatMinor(e.Amount),
		Currency:             e.Currency,
		Description:          e.Description,
		ReferenceType:        string(e.ReferenceType),
		ReferenceID:          e.ReferenceID,
		InitiatedBy:          string(e.InitiatedBy),
		PaymentMethod:        e.PaymentMethod,
		GatewayTransactionID: e.GatewayTransactionID,
		Metadata:             e.Metadata,
		Status:               string(e.Status),
		FailureReason:        e.FailureReason,
		CompletedAt:          e.CompletedAt,
		FailedAt:             e.FailedAt,
		CreatedAt:            e.CreatedAt,
	}

	if e.BalanceAfter != nil {
		after := formatMinor(*e.BalanceAfter)
		resp.BalanceAfter = &after
	}

	return resp
}

func toOperationResponse(res *wallet.Result) operationResponse {
	return operationResponse{
		Success:     true,
		Transaction: toTransactionResponse(res.Transaction),
		Wallet: walletResponse{
			UserID:            res.Wallet.UserID,
			Balance:           formatMinor(res.Wallet.Balance),
			Currency:          res.Wallet.Currency,
			Status:            string(res.Wallet.Status),
			LastTransactionAt: res.Wallet.LastTransactionAt,
		},
		NewBalance: formatMinor(res.NewBalance),
	}
}

// GetWalletHandler handles GET /user/{userId}/wallet
func (h *HandlerProvider) GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	wlt, err := h.svc.GetWallet(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, walletResponse{
		UserID:            wlt.UserID,
		Balance:           formatMinor(wlt.Balance),
		Currency:          wlt.Currency,
		Status:            string(wlt.Status),
		LastTransactionAt: wlt.LastTransactionAt,
	})
}

// ListTransactionsHandler handles GET /user/{userId}/wallet/transactions
func (h *HandlerProvider) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.svc.ListTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]transactionResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, toTransactionResponse(&entries[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": resp})
}

type orderPaymentRequest struct {
	Amount  string `json:"amount"`
	OrderID string `json:"orderId"`
}

// OrderPaymentHandler handles POST /user/{userId}/wallet/order-payment
func (h *HandlerProvider) OrderPaymentHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req orderPaymentRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	amount, err := parseAmountMinor(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "orderId required")
		return
	}

	res, err := h.svc.ProcessOrderPayment(r.Context(), userID, amount, req.OrderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOperationResponse(res))
}

type orderRefundRequest struct {
	Amount   string `json:"amount"`
	OrderID  string `json:"orderId"`
	RefundID string `json:"refundId"`
}

// OrderRefundHandler handles POST /user/{userId}/wallet/refund
func (h *HandlerProvider) OrderRefundHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req orderRefundRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	amount, err := parseAmountMinor(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.OrderID == "" || req.RefundID == "" {
		writeError(w, http.StatusBadRequest, "orderId and refundId required")
		return
	}

	res, err := h.svc.ProcessOrderRefund(r.Context(), userID, amount, req.OrderID, req.RefundID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOperationResponse(res))
}

type adjustmentRequest struct {
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description"`
	AdminID     string `json:"adminId"`
}

// AdminAdjustmentHandler handles POST /user/{userId}/wallet/adjustment
func (h *HandlerProvider) AdminAdjustmentHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req adjustmentRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	amount, err := parseAmountMinor(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var txType ledger.Type

	switch strings.ToUpper(strings.TrimSpace(req.Type)) {
	case "CREDIT":
		txType = ledger.TypeCredit
	case "DEBIT":
		txType = ledger.TypeDebit
	default:
		writeError(w, http.StatusBadRequest, "type must be CREDIT or DEBIT")
		return
	}

	if req.AdminID == "" {
		writeError(w, http.StatusBadRequest, "adminId required")
		return
	}

	res, err := h.svc.ProcessAdminAdjustment(r.Context(), userID, amount, txType, req.Description, req.AdminID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOperationResponse(res))
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "empty body")
		return
	}

	writeError(w, http.StatusBadRequest, "invalid JSON")
}
