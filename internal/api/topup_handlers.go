package api

import (
	"encoding/json"
	"io"
	"net/http"
)

type topupRequest struct {
	Amount        string `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
}

// InitiateTopupHandler handles POST /user/{userId}/wallet/topup. It records
// the PENDING side of the top-up and returns the gateway transaction id the
// webhook will later settle against.
func (h *HandlerProvider) InitiateTopupHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req topupRequest

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

	if req.PaymentMethod == "" {
		writeError(w, http.StatusBadRequest, "paymentMethod required")
		return
	}

	entry, err := h.svc.InitiateTopup(r.Context(), userID, amount, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"success":     true,
		"transaction": toTransactionResponse(entry),
	})
}

type gatewayWebhookRequest struct {
	GatewayTransactionID string `json:"gatewayTransactionId"`
	Success              bool   `json:"success"`
}

// GatewayWebhookHandler handles POST /webhooks/payment-gateway. The raw
// payload is stored on the ledger entry as the gateway response; a callback
// with no matching PENDING entry is rejected loudly rather than acknowledged.
func (h *HandlerProvider) GatewayWebhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	var req gatewayWebhookRequest

	err = json.Unmarshal(body, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.GatewayTransactionID == "" {
		writeError(w, http.StatusBadRequest, "gatewayTransactionId required")
		return
	}

	res, err := h.svc.ProcessTopupCompletion(r.Context(), req.GatewayTransactionID, json.RawMessage(body), req.Success)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"success":     res.Success,
		"transaction": toTransactionResponse(res.Transaction),
	}

	if res.Success {
		resp["newBalance"] = formatMinor(res.NewBalance)
	}

	writeJSON(w, http.StatusOK, resp)
}
