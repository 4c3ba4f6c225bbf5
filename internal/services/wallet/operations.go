package wallet

import (
	"context"
	"fmt"

	"github.com/cartloom/wallet-service/internal/repos/ledger"
)

// The domain operations pin down description/reference/actor semantics per
// business case and delegate everything else to PerformTransaction.

// ProcessOrderPayment debits the wallet for an order at checkout.
func (s *Service) ProcessOrderPayment(ctx context.Context, userID int64, amount int64, orderID string) (*Result, error) {
	return s.PerformTransaction(ctx, TransactionInput{
		UserID:        userID,
		Amount:        amount,
		Type:          ledger.TypeDebit,
		Description:   describe(ledger.RefOrder, orderID),
		ReferenceType: ledger.RefOrder,
		ReferenceID:   orderID,
		InitiatedBy:   ledger.ActorUser,
		PaymentMethod: "WALLET",
	})
}

// ProcessOrderRefund credits the wallet back for a refunded order.
func (s *Service) ProcessOrderRefund(ctx context.Context, userID int64, amount int64, orderID, refundID string) (*Result, error) {
	return s.PerformTransaction(ctx, TransactionInput{
		UserID:        userID,
		Amount:        amount,
		Type:          ledger.TypeCredit,
		Description:   describe(ledger.RefRefund, orderID),
		ReferenceType: ledger.RefRefund,
		ReferenceID:   refundID,
		InitiatedBy:   ledger.ActorSystem,
		Metadata:      map[string]string{"order_id": orderID},
	})
}

// ProcessAdminAdjustment credits or debits the wallet on an admin's behalf.
func (s *Service) ProcessAdminAdjustment(ctx context.Context, userID int64, amount int64, t ledger.Type, description, adminID string) (*Result, error) {
	if description == "" {
		description = describe(ledger.RefAdminAdjustment, "")
	}

	return s.PerformTransaction(ctx, TransactionInput{
		UserID:        userID,
		Amount:        amount,
		Type:          t,
		Description:   description,
		ReferenceType: ledger.RefAdminAdjustment,
		ReferenceID:   adminID,
		InitiatedBy:   ledger.ActorAdmin,
		Metadata:      map[string]string{"admin_id": adminID},
	})
}

func describe(ref ledger.ReferenceType, id string) string {
	switch ref {
	case ledger.RefOrder:
		return fmt.Sprintf("Payment for order %s", id)
	case ledger.RefRefund:
		return fmt.Sprintf("Refund for order %s", id)
	case ledger.RefAdminAdjustment:
		return "Wallet adjustment by admin"
	case ledger.RefPaymentGateway:
		return "Wallet top-up"
	case ledger.RefWithdrawal:
		return "Wallet withdrawal"
	default:
		return "Wallet transaction"
	}
}
