// Package core holds the domain types shared by the bot, the draft
// registry and the storage layer.
package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty name")
)

type (
	// User is a registered bot user, keyed externally by Telegram ID.
	User struct {
		ID         int64
		Name       string
		TelegramID int64
	}

	Currency struct {
		ID   int64
		Code string
	}

	Account struct {
		ID         int64
		CurrencyID int64
		Name       string
		IBAN       *string
	}

	// AccountWithCurrency is an account joined with its currency code.
	AccountWithCurrency struct {
		Account
		CurrencyCode string
	}

	Category struct {
		ID        int64
		Name      string
		SortOrder int64
	}

	// Expense is a persisted spending record.
	Expense struct {
		ID         int64
		AccountID  int64
		Amount     decimal.Decimal
		CategoryID int64
		ReporterID int64
		Notes      *string
		CreatedAt  time.Time
	}

	// ExpenseDetails is an expense joined with display fields from its
	// account, category, reporter and currency rows.
	ExpenseDetails struct {
		Expense
		AccountName  string
		CategoryName string
		ReporterName string
		CurrencyCode string
	}

	// CategoryTotal, AccountTotal and ReporterTotal are aggregate rows
	// used by spending summaries.
	CategoryTotal struct {
		CategoryName string
		Total        decimal.Decimal
	}

	AccountTotal struct {
		AccountName string
		Total       decimal.Decimal
	}

	ReporterTotal struct {
		ReporterName string
		Total        decimal.Decimal
	}
)

func (e Expense) Validate() error {
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if e.AccountID == 0 {
		return errors.New("missing account reference")
	}
	if e.CategoryID == 0 {
		return errors.New("missing category reference")
	}
	if e.ReporterID == 0 {
		return errors.New("missing reporter reference")
	}
	return nil
}
