package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the API routes. Wallet endpoints operate on the user
// id from the path; the gateway webhook is correlated by gateway transaction
// id alone.
func NewRouter(svc WalletService) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/user/{userId}/wallet", func(r chi.Router) {
		r.Get("/", h.GetWalletHandler)
		r.Get("/transactions", h.ListTransactionsHandler)
		r.Post("/order-payment", h.OrderPaymentHandler)
		r.Post("/refund", h.OrderRefundHandler)
		r.Post("/adjustment", h.AdminAdjustmentHandler)
		r.Post("/topup", h.InitiateTopupHandler)
	})

	r.Post("/webhooks/payment-gateway", h.GatewayWebhookHandler)

	return r
}
