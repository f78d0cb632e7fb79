// Package cache is the SQLite-backed local history: receipts of submitted
// transfers and the last budget snapshot, so the dashboard can render
// without a backend round-trip.
package cache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"

	"github.com/finvault/dashboard-core/internal/budget"
	"github.com/finvault/dashboard-core/internal/transfer"

	_ "modernc.org/sqlite" // register sqlite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Cache provides the local SQLite store.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path and brings the
// schema up to date.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("cache: creating dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("cache: opening db: %w", err)
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("cache: loading migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("cache: migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("cache: migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("cache: migrating schema: %w", err)
	}
	return nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// StoredReceipt is a receipt plus the request ID it was submitted under.
type StoredReceipt struct {
	RequestID string
	Receipt   transfer.Receipt
}

// SaveReceipt stores a terminal receipt under its request ID. Replaying the
// same request ID overwrites the earlier row.
func (c *Cache) SaveReceipt(requestID string, r transfer.Receipt) error {
	_, err := c.db.Exec(`INSERT OR REPLACE INTO receipts
		(request_id, to_label, amount, mode, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		requestID, r.To, r.Amount.String(), string(r.Mode), r.Reason,
		r.Time.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("cache: saving receipt: %w", err)
	}
	return nil
}

// ListReceipts returns the most recent receipts, newest first.
func (c *Cache) ListReceipts(limit int) ([]StoredReceipt, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.db.Query(`SELECT request_id, to_label, amount, mode, reason, created_at
		FROM receipts ORDER BY created_at DESC, request_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("cache: listing receipts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []StoredReceipt
	for rows.Next() {
		var stored StoredReceipt
		var amount, mode, createdAt string
		if err := rows.Scan(&stored.RequestID, &stored.Receipt.To, &amount, &mode, &stored.Receipt.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("cache: scanning receipt: %w", err)
		}

		stored.Receipt.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("cache: parsing receipt amount: %w", err)
		}
		stored.Receipt.Mode = transfer.Type(mode)
		stored.Receipt.Time, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("cache: parsing receipt time: %w", err)
		}

		result = append(result, stored)
	}
	return result, rows.Err()
}

// SaveBudgets replaces the cached budget snapshot.
func (c *Cache) SaveBudgets(budgets []budget.Budget) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM budgets"); err != nil {
		return fmt.Errorf("cache: clearing budgets: %w", err)
	}

	for _, b := range budgets {
		_, err := tx.Exec(`INSERT INTO budgets (id, category, limit_amount, spent_amount, month, year)
			VALUES (?, ?, ?, ?, ?, ?)`,
			b.ID.String(), b.Category, b.LimitAmount.String(), b.SpentAmount.String(), b.Month, b.Year)
		if err != nil {
			return fmt.Errorf("cache: saving budget: %w", err)
		}
	}

	return tx.Commit()
}

// LoadBudgets returns the cached budget snapshot.
func (c *Cache) LoadBudgets() ([]budget.Budget, error) {
	rows, err := c.db.Query("SELECT id, category, limit_amount, spent_amount, month, year FROM budgets ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("cache: loading budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []budget.Budget
	for rows.Next() {
		var b budget.Budget
		var id, limitAmount, spentAmount string
		if err := rows.Scan(&id, &b.Category, &limitAmount, &spentAmount, &b.Month, &b.Year); err != nil {
			return nil, fmt.Errorf("cache: scanning budget: %w", err)
		}

		b.ID, err = uuid.FromString(id)
		if err != nil {
			return nil, fmt.Errorf("cache: parsing budget id: %w", err)
		}
		b.LimitAmount, err = decimal.NewFromString(limitAmount)
		if err != nil {
			return nil, fmt.Errorf("cache: parsing budget limit: %w", err)
		}
		b.SpentAmount, err = decimal.NewFromString(spentAmount)
		if err != nil {
			return nil, fmt.Errorf("cache: parsing budget spent: %w", err)
		}

		result = append(result, b)
	}
	return result, rows.Err()
}
