// Package storage provides the persistent store for users, reference
// data and expenses.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AlekseiCherkes/spending-tracker/internal/core"
)

// Store is the storage surface the bot and the CLIs depend on. The
// SQLite implementation enforces user and category uniqueness and
// referential integrity from expenses to accounts, categories and users.
type Store interface {
	// EnsureUser resolves a user by Telegram ID, creating one with the
	// given display name on first contact.
	EnsureUser(ctx context.Context, telegramID int64, name string) (core.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (core.User, error)
	ListUsers(ctx context.Context) ([]core.User, error)
	UserCount(ctx context.Context) (int64, error)

	CreateCurrency(ctx context.Context, code string) (int64, error)
	GetCurrencyByCode(ctx context.Context, code string) (core.Currency, error)
	ListCurrencies(ctx context.Context) ([]core.Currency, error)

	CreateAccount(ctx context.Context, currencyID int64, name string, iban *string) (int64, error)
	GetAccount(ctx context.Context, id int64) (core.Account, error)
	GetAccountWithCurrency(ctx context.Context, id int64) (core.AccountWithCurrency, error)
	// ListAccounts returns all accounts ordered by name.
	ListAccounts(ctx context.Context) ([]core.Account, error)
	AccountCount(ctx context.Context) (int64, error)

	CreateCategory(ctx context.Context, name string, sortOrder int64) (int64, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	GetCategoryByName(ctx context.Context, name string) (core.Category, error)
	// ListCategories returns all categories ordered by sort order, then name.
	ListCategories(ctx context.Context) ([]core.Category, error)
	CategoryCount(ctx context.Context) (int64, error)

	// CreateExpense persists a finished expense and returns its ID.
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	GetExpenseDetails(ctx context.Context, id int64) (core.ExpenseDetails, error)
	ListRecentExpenses(ctx context.Context, limit int) ([]core.ExpenseDetails, error)
	ExpenseCount(ctx context.Context) (int64, error)
	TotalByDateRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CategoryTotals(ctx context.Context, from, to time.Time) ([]core.CategoryTotal, error)
	AccountTotals(ctx context.Context, from, to time.Time) ([]core.AccountTotal, error)
	ReporterTotals(ctx context.Context, from, to time.Time) ([]core.ReporterTotal, error)

	Close() error
}
