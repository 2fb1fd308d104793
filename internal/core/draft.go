package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftExpense is an in-progress expense being assembled interactively.
// It lives only in process memory and is lost on restart.
type DraftExpense struct {
	Amount     decimal.Decimal
	TelegramID int64

	// Unset references mean "not yet chosen".
	CategoryID *int64
	AccountID  *int64
	Notes      *string

	CreatedAt time.Time

	// MessageID is the Telegram message being edited in place during the
	// negotiation. Zero means no message has been sent yet.
	MessageID int
}

// IsComplete reports whether the draft has everything required to be
// saved. It is recomputed on every call, never cached.
func (d DraftExpense) IsComplete() bool {
	return d.Amount.IsPositive() && d.CategoryID != nil && d.AccountID != nil
}
