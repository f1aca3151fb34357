// Package storage implements the SQLite-backed expense record store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists expenses in a single local SQLite database.
// Timestamps are stored as epoch milliseconds; amounts as integer cents.
type SQLiteRepository struct {
	db  *sql.DB
	hub *store.Hub
}

var _ store.ExpenseStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:  db,
		hub: store.NewHub(),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (title, amount_cents, category, notes, receipt_image_path, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Title, e.Amount.Cents, string(e.Category), e.Notes, e.ReceiptImagePath,
		e.Date.UnixMilli(), e.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		log.FieldComponent, log.ComponentStorage,
		log.FieldExpenseID, id,
		log.FieldExpenseTitle, e.Title,
		log.FieldAmountCents, e.Amount.Cents,
		log.FieldCategory, string(e.Category))

	r.hub.Broadcast(ctx)
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET title = ?, amount_cents = ?, category = ?, notes = ?, receipt_image_path = ?, date = ?
		WHERE id = ?`,
		e.Title, e.Amount.Cents, string(e.Category), e.Notes, e.ReceiptImagePath,
		e.Date.UnixMilli(), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update expense %d: %w", e.ID, store.ErrNotFound)
	}

	r.hub.Broadcast(ctx)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, e.ID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete expense %d: %w", e.ID, store.ErrNotFound)
	}

	slog.InfoContext(ctx, "Expense deleted",
		log.FieldComponent, log.ComponentStorage, log.FieldExpenseID, e.ID)

	r.hub.Broadcast(ctx)
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("delete all expenses: %w", err)
	}

	r.hub.Broadcast(ctx)
	return nil
}

const selectExpense = `
	SELECT id, title, amount_cents, category, notes, receipt_image_path, date, created_at
	FROM expenses`

func (r *SQLiteRepository) QueryAll(ctx context.Context) (*store.Subscription, error) {
	return r.hub.Subscribe(ctx, func(ctx context.Context) ([]core.Expense, error) {
		return r.queryExpenses(ctx, selectExpense+` ORDER BY date DESC, id DESC`)
	})
}

func (r *SQLiteRepository) QueryToday(ctx context.Context, start, end time.Time) (*store.Subscription, error) {
	return r.hub.Subscribe(ctx, func(ctx context.Context) ([]core.Expense, error) {
		return r.queryExpenses(ctx,
			selectExpense+` WHERE date >= ? AND date < ? ORDER BY date DESC, id DESC`,
			start.UnixMilli(), end.UnixMilli())
	})
}

func (r *SQLiteRepository) QueryByCategory(ctx context.Context, c core.Category) (*store.Subscription, error) {
	return r.hub.Subscribe(ctx, func(ctx context.Context) ([]core.Expense, error) {
		return r.queryExpenses(ctx,
			selectExpense+` WHERE category = ? ORDER BY date DESC, id DESC`,
			string(c))
	})
}

func (r *SQLiteRepository) QueryByDateRange(ctx context.Context, start, end time.Time) (*store.Subscription, error) {
	return r.hub.Subscribe(ctx, func(ctx context.Context) ([]core.Expense, error) {
		return r.queryExpenses(ctx,
			selectExpense+` WHERE date >= ? AND date <= ? ORDER BY date DESC, id DESC`,
			start.UnixMilli(), end.UnixMilli())
	})
}

func (r *SQLiteRepository) TodayTotal(ctx context.Context, start, end time.Time) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE date >= ? AND date < ?`,
		start.UnixMilli(), end.UnixMilli()).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum today total: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

func (r *SQLiteRepository) DailySummary(ctx context.Context, start, end time.Time) ([]core.DailyExpenseSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DATE(date/1000, 'unixepoch', 'localtime') AS day,
		       SUM(amount_cents) AS total_cents,
		       COUNT(*) AS expense_count
		FROM expenses
		WHERE date >= ? AND date <= ?
		GROUP BY day
		ORDER BY day DESC`,
		start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query daily summary: %w", err)
	}
	defer rows.Close()

	var out []core.DailyExpenseSummary
	for rows.Next() {
		var s core.DailyExpenseSummary
		if err := rows.Scan(&s.Date, &s.TotalAmount.Cents, &s.ExpenseCount); err != nil {
			return nil, fmt.Errorf("scan daily summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily summary: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e           core.Expense
			category    string
			dateMs      int64
			createdAtMs int64
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount.Cents, &category,
			&e.Notes, &e.ReceiptImagePath, &dateMs, &createdAtMs); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Category = core.Category(category)
		e.Date = time.UnixMilli(dateMs)
		e.CreatedAt = time.UnixMilli(createdAtMs)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}
