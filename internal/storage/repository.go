package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/AlekseiCherkes/spending-tracker/internal/core"
)

// Ensure SQLiteRepository implements Store.
var _ Store = (*SQLiteRepository)(nil)

// SQLiteRepository is the SQLite-backed Store implementation.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath and
// runs migrations. Foreign key enforcement is switched on for the
// connection, so inserts referencing missing rows are rejected by the
// store itself.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// EnsureUser implements Store.
func (r *SQLiteRepository) EnsureUser(ctx context.Context, telegramID int64, name string) (core.User, error) {
	user, err := r.GetUserByTelegramID(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.User{}, err
	}

	if strings.TrimSpace(name) == "" {
		return core.User{}, core.ErrEmptyName
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, telegram_id) VALUES (?, ?)",
		name, telegramID,
	)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("created user id: %w", err)
	}
	return core.User{ID: id, Name: name, TelegramID: telegramID}, nil
}

func (r *SQLiteRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, telegram_id FROM users WHERE telegram_id = ?",
		telegramID,
	).Scan(&u.ID, &u.Name, &u.TelegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user telegram_id=%d: %w", telegramID, core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, telegram_id FROM users ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Name, &u.TelegramID); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *SQLiteRepository) UserCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// CreateCurrency implements Store. Codes are stored upper-cased.
func (r *SQLiteRepository) CreateCurrency(ctx context.Context, code string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO currencies (code) VALUES (?)",
		strings.ToUpper(code),
	)
	if err != nil {
		return 0, fmt.Errorf("create currency: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetCurrencyByCode(ctx context.Context, code string) (core.Currency, error) {
	var c core.Currency
	err := r.db.QueryRowContext(ctx,
		"SELECT id, code FROM currencies WHERE code = ?",
		strings.ToUpper(code),
	).Scan(&c.ID, &c.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Currency{}, fmt.Errorf("currency %q: %w", code, core.ErrNotFound)
	}
	if err != nil {
		return core.Currency{}, fmt.Errorf("get currency: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCurrencies(ctx context.Context) ([]core.Currency, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, code FROM currencies ORDER BY code",
	)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []core.Currency
	for rows.Next() {
		var c core.Currency
		if err := rows.Scan(&c.ID, &c.Code); err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, currencyID int64, name string, iban *string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO accounts (currency_id, name, iban) VALUES (?, ?, ?)",
		currencyID, name, iban,
	)
	if err != nil {
		return 0, fmt.Errorf("create account: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	var a core.Account
	err := r.db.QueryRowContext(ctx,
		"SELECT id, currency_id, name, iban FROM accounts WHERE id = ?",
		id,
	).Scan(&a.ID, &a.CurrencyID, &a.Name, &a.IBAN)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account id=%d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) GetAccountWithCurrency(ctx context.Context, id int64) (core.AccountWithCurrency, error) {
	var a core.AccountWithCurrency
	err := r.db.QueryRowContext(ctx, `
		SELECT a.id, a.currency_id, a.name, a.iban, c.code
		FROM accounts a
		JOIN currencies c ON a.currency_id = c.id
		WHERE a.id = ?`,
		id,
	).Scan(&a.ID, &a.CurrencyID, &a.Name, &a.IBAN, &a.CurrencyCode)
	if errors.Is(err, sql.ErrNoRows) {
		return core.AccountWithCurrency{}, fmt.Errorf("account id=%d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.AccountWithCurrency{}, fmt.Errorf("get account with currency: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, currency_id, name, iban FROM accounts ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.CurrencyID, &a.Name, &a.IBAN); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *SQLiteRepository) AccountCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, name string, sortOrder int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (name, sort_order) VALUES (?, ?)",
		name, sortOrder,
	)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, sort_order FROM categories WHERE id = ?",
		id,
	).Scan(&c.ID, &c.Name, &c.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category id=%d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetCategoryByName(ctx context.Context, name string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, sort_order FROM categories WHERE name = ?",
		name,
	).Scan(&c.ID, &c.Name, &c.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %q: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, sort_order FROM categories ORDER BY sort_order, name",
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) CategoryCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// CreateExpense implements Store. A zero CreatedAt defaults to now.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, fmt.Errorf("validate expense: %w", err)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (account_id, amount, category_id, reporter_id, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.AccountID, e.Amount.String(), e.CategoryID, e.ReporterID, e.Notes, e.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetExpenseDetails(ctx context.Context, id int64) (core.ExpenseDetails, error) {
	var d core.ExpenseDetails
	err := r.db.QueryRowContext(ctx, expenseDetailsQuery+" WHERE e.id = ?", id).Scan(
		&d.ID, &d.AccountID, &d.Amount, &d.CategoryID, &d.ReporterID, &d.Notes, &d.CreatedAt,
		&d.AccountName, &d.CategoryName, &d.ReporterName, &d.CurrencyCode,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExpenseDetails{}, fmt.Errorf("expense id=%d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.ExpenseDetails{}, fmt.Errorf("get expense details: %w", err)
	}
	return d, nil
}

const expenseDetailsQuery = `
	SELECT
		e.id, e.account_id, e.amount, e.category_id, e.reporter_id, e.notes, e.created_at,
		a.name, c.name, u.name, cur.code
	FROM expenses e
	JOIN accounts a ON e.account_id = a.id
	JOIN categories c ON e.category_id = c.id
	JOIN users u ON e.reporter_id = u.id
	JOIN currencies cur ON a.currency_id = cur.id`

func (r *SQLiteRepository) ListRecentExpenses(ctx context.Context, limit int) ([]core.ExpenseDetails, error) {
	rows, err := r.db.QueryContext(ctx,
		expenseDetailsQuery+" ORDER BY e.created_at DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.ExpenseDetails
	for rows.Next() {
		var d core.ExpenseDetails
		if err := rows.Scan(
			&d.ID, &d.AccountID, &d.Amount, &d.CategoryID, &d.ReporterID, &d.Notes, &d.CreatedAt,
			&d.AccountName, &d.CategoryName, &d.ReporterName, &d.CurrencyCode,
		); err != nil {
			return nil, fmt.Errorf("scan expense details: %w", err)
		}
		expenses = append(expenses, d)
	}
	return expenses, rows.Err()
}

func (r *SQLiteRepository) ExpenseCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return count, nil
}

// TotalByDateRange sums expenses with created_at in [from, to].
func (r *SQLiteRepository) TotalByDateRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE created_at >= ? AND created_at <= ?",
		from, to,
	).Scan(&total)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("total by date range: %w", err)
	}
	return total, nil
}

// CategoryTotals returns per-category sums over [from, to], largest first.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, from, to time.Time) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name, COALESCE(SUM(e.amount), 0)
		FROM expenses e
		JOIN categories c ON e.category_id = c.id
		WHERE e.created_at >= ? AND e.created_at <= ?
		GROUP BY c.id
		ORDER BY SUM(e.amount) DESC, c.name`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	var totals []core.CategoryTotal
	for rows.Next() {
		var t core.CategoryTotal
		if err := rows.Scan(&t.CategoryName, &t.Total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// AccountTotals returns per-account sums over [from, to], largest first.
func (r *SQLiteRepository) AccountTotals(ctx context.Context, from, to time.Time) ([]core.AccountTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.name, COALESCE(SUM(e.amount), 0)
		FROM expenses e
		JOIN accounts a ON e.account_id = a.id
		WHERE e.created_at >= ? AND e.created_at <= ?
		GROUP BY a.id
		ORDER BY SUM(e.amount) DESC, a.name`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("account totals: %w", err)
	}
	defer rows.Close()

	var totals []core.AccountTotal
	for rows.Next() {
		var t core.AccountTotal
		if err := rows.Scan(&t.AccountName, &t.Total); err != nil {
			return nil, fmt.Errorf("scan account total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// ReporterTotals returns per-reporter sums over [from, to], largest first.
func (r *SQLiteRepository) ReporterTotals(ctx context.Context, from, to time.Time) ([]core.ReporterTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.name, COALESCE(SUM(e.amount), 0)
		FROM expenses e
		JOIN users u ON e.reporter_id = u.id
		WHERE e.created_at >= ? AND e.created_at <= ?
		GROUP BY u.id
		ORDER BY SUM(e.amount) DESC, u.name`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("reporter totals: %w", err)
	}
	defer rows.Close()

	var totals []core.ReporterTotal
	for rows.Next() {
		var t core.ReporterTotal
		if err := rows.Scan(&t.ReporterName, &t.Total); err != nil {
			return nil, fmt.Errorf("scan reporter total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
