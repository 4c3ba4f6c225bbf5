package e2etests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"
)

// Black-box tests against a running instance (API + migrated DB with the DEV
// seed applied: users 1 and 2 at zero balance, user 4 BLOCKED).

const (
	baseURL   = "http://localhost:8080"
	timeout   = 5 * time.Second
	waitReady = 20 * time.Second
)

var httpClient = &http.Client{Timeout: timeout}

func TestE2E_WalletFlow(t *testing.T) {
	waitUntilReady(t)

	t.Run("user1_initial_balance_zero", func(t *testing.T) {
		got := getBalanceString(t, 1)
		if got != "0.00" {
			t.Fatalf("initial balance: want 0.00, got %s", got)
		}
	})

	t.Run("admin_credit_increases_balance", func(t *testing.T) {
		code, body := postJSON(t, "/user/1/wallet/adjustment", map[string]string{
			"amount": "100.00", "type": "CREDIT", "description": "e2e seed credit", "adminId": "e2e-admin",
		})
		if code != http.StatusOK {
			t.Fatalf("credit: want 200, got %d (%s)", code, body)
		}

		got := getBalanceString(t, 1)
		if got != "100.00" {
			t.Fatalf("after credit: want 100.00, got %s", got)
		}
	})

	t.Run("order_payment_debits_balance", func(t *testing.T) {
		code, body := postJSON(t, "/user/1/wallet/order-payment", map[string]string{
			"amount": "30.00", "orderId": "e2e-ord-1",
		})
		if code != http.StatusOK {
			t.Fatalf("payment: want 200, got %d (%s)", code, body)
		}

		got := getBalanceString(t, 1)
		if got != "70.00" {
			t.Fatalf("after payment: want 70.00, got %s", got)
		}
	})

	t.Run("refund_credits_balance_back", func(t *testing.T) {
		code, body := postJSON(t, "/user/1/wallet/refund", map[string]string{
			"amount": "30.00", "orderId": "e2e-ord-1", "refundId": "e2e-rf-1",
		})
		if code != http.StatusOK {
			t.Fatalf("refund: want 200, got %d (%s)", code, body)
		}

		got := getBalanceString(t, 1)
		if got != "100.00" {
			t.Fatalf("after refund: want 100.00, got %s", got)
		}
	})

	t.Run("transaction_history_lists_entries", func(t *testing.T) {
		code, body := getJSON(t, "/user/1/wallet/transactions")
		if code != http.StatusOK {
			t.Fatalf("history: want 200, got %d", code)
		}

		var payload struct {
			Transactions []map[string]any `json:"transactions"`
		}
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			t.Fatalf("decode history: %v", err)
		}
		if len(payload.Transactions) < 3 {
			t.Fatalf("want at least 3 entries, got %d", len(payload.Transactions))
		}
	})
}

func TestE2E_InsufficientFundsAndBlockedWallet(t *testing.T) {
	waitUntilReady(t)

	t.Run("user2_insufficient_funds", func(t *testing.T) {
		got := getBalanceString(t, 2)
		if got != "0.00" {
			t.Fatalf("user2 initial: want 0.00, got %s", got)
		}

		code, body := postJSON(t, "/user/2/wallet/order-payment", map[string]string{
			"amount": "1.00", "orderId": "e2e-ord-2",
		})
		if code != http.StatusConflict {
			t.Fatalf("insufficient funds: want 409, got %d (%s)", code, body)
		}

		got = getBalanceString(t, 2)
		if got != "0.00" {
			t.Fatalf("after insufficient: want 0.00, got %s", got)
		}
	})

	t.Run("blocked_wallet_forbidden", func(t *testing.T) {
		code, body := postJSON(t, "/user/4/wallet/adjustment", map[string]string{
			"amount": "10.00", "type": "CREDIT", "adminId": "e2e-admin",
		})
		if code != http.StatusForbidden {
			t.Fatalf("blocked wallet: want 403, got %d (%s)", code, body)
		}
	})

	t.Run("invalid_amount_precision", func(t *testing.T) {
		code, _ := postJSON(t, "/user/2/wallet/order-payment", map[string]string{
			"amount": "1.234", "orderId": "e2e-ord-3",
		})
		if code != http.StatusBadRequest {
			t.Fatalf("bad precision: want 400, got %d", code)
		}
	})
}

func TestE2E_TopupWebhookFlow(t *testing.T) {
	waitUntilReady(t)

	startBalance := getBalanceString(t, 1)

	code, body := postJSON(t, "/user/1/wallet/topup", map[string]string{
		"amount": "250.00", "paymentMethod": "UPI",
	})
	if code != http.StatusAccepted {
		t.Fatalf("topup initiate: want 202, got %d (%s)", code, body)
	}

	var initResp struct {
		Transaction struct {
			GatewayTransactionID string `json:"gatewayTransactionId"`
			Status               string `json:"status"`
		} `json:"transaction"`
	}
	if err := json.Unmarshal([]byte(body), &initResp); err != nil {
		t.Fatalf("decode initiate response: %v", err)
	}
	if initResp.Transaction.Status != "PENDING" {
		t.Fatalf("initiated status: want PENDING, got %s", initResp.Transaction.Status)
	}

	gwID := initResp.Transaction.GatewayTransactionID
	if gwID == "" {
		t.Fatal("no gateway transaction id returned")
	}

	// balance unchanged until the gateway confirms
	if got := getBalanceString(t, 1); got != startBalance {
		t.Fatalf("balance moved at initiation: %s -> %s", startBalance, got)
	}

	t.Run("successful_callback_credits_once", func(t *testing.T) {
		code, body := postJSON(t, "/webhooks/payment-gateway", map[string]any{
			"gatewayTransactionId": gwID, "success": true,
		})
		if code != http.StatusOK {
			t.Fatalf("webhook: want 200, got %d (%s)", code, body)
		}

		// duplicate callback must not double-credit
		code, body = postJSON(t, "/webhooks/payment-gateway", map[string]any{
			"gatewayTransactionId": gwID, "success": true,
		})
		if code != http.StatusNotFound {
			t.Fatalf("duplicate webhook: want 404, got %d (%s)", code, body)
		}
	})
}

/* -------------------- helpers -------------------- */

func getBalanceString(t *testing.T, userID int64) string {
	t.Helper()

	code, body := getJSON(t, fmt.Sprintf("/user/%d/wallet", userID))
	if code != http.StatusOK {
		t.Fatalf("GET wallet: want 200, got %d (%s)", code, body)
	}

	var payload struct {
		UserID  int64  `json:"userId"`
		Balance string `json:"balance"`
	}

	err := json.Unmarshal([]byte(body), &payload)
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}

	if payload.UserID != userID {
		t.Fatalf("userId mismatch: want %d, got %d", userID, payload.UserID)
	}

	return payload.Balance
}

func getJSON(t *testing.T, path string) (int, string) {
	t.Helper()

	resp, err := httpClient.Get(baseURL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func postJSON(t *testing.T, path string, body any) (int, string) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	resp, err := httpClient.Post(baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

// waitUntilReady polls /healthz until the service responds or times out.
func waitUntilReady(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), waitReady)
	defer cancel()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("service not ready at %s within %s", baseURL, waitReady)
		case <-tick.C:
			resp, err := httpClient.Get(baseURL + "/healthz")
			if err != nil {
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
	}
}
