package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/cartloom/wallet-service/internal/repos/ledger"
)

// Daily caps are independent per transaction type, in minor units.
const (
	dailyCreditCap int64 = 10_000_000 // 100,000.00
	dailyDebitCap  int64 = 5_000_000  // 50,000.00
)

type amountBounds struct {
	min, max int64
}

// boundsFor is a switch rather than a lookup table so a new currency in the
// wallets enum cannot silently go unbounded.
func boundsFor(currency string) (amountBounds, error) {
	switch currency {
	case "INR":
		return amountBounds{min: 100, max: 10_000_000}, nil
	case "USD", "EUR", "GBP", "AUD", "CAD":
		return amountBounds{min: 100, max: 1_000_000}, nil
	default:
		return amountBounds{}, fmt.Errorf("%w: unsupported currency %q", ErrInvalidAmount, currency)
	}
}

// ValidateAmount rejects non-positive amounts and amounts outside the
// per-currency bounds. Pure, no I/O.
func ValidateAmount(amount int64, currency string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	b, err := boundsFor(currency)
	if err != nil {
		return err
	}

	if amount < b.min {
		return fmt.Errorf("%w: minimum transaction amount is %s", ErrInvalidAmount, FormatMinor(b.min, currency))
	}

	if amount > b.max {
		return fmt.Errorf("%w: maximum transaction amount is %s", ErrInvalidAmount, FormatMinor(b.max, currency))
	}

	return nil
}

// LimitCheck is the outcome of a daily-limit query.
type LimitCheck struct {
	Allowed    bool
	DailyLimit int64
	TodayTotal int64
	Remaining  int64
}

// CheckDailyLimit sums the user's COMPLETED transactions of the given type
// for the current server-local day and decides whether amount still fits.
// This is advisory read-then-decide spend limiting; balance integrity does
// not depend on it.
func (s *Service) CheckDailyLimit(ctx context.Context, userID int64, amount int64, t ledger.Type) (*LimitCheck, error) {
	var limit int64

	switch t {
	case ledger.TypeCredit:
		limit = dailyCreditCap
	case ledger.TypeDebit:
		limit = dailyDebitCap
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTransactionType, t)
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	total, err := s.ledger.SumCompletedBetween(ctx, userID, t, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("sum today's transactions: %w", err)
	}

	remaining := limit - total
	if remaining < 0 {
		remaining = 0
	}

	return &LimitCheck{
		Allowed:    amount <= remaining,
		DailyLimit: limit,
		TodayTotal: total,
		Remaining:  remaining,
	}, nil
}

// FormatMinor renders a minor-unit amount for user-facing messages,
// e.g. "INR 1500.00".
func FormatMinor(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	return fmt.Sprintf("%s %s%d.%02d", currency, sign, amount/100, amount%100)
}
