package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/console/internal/menu"
	"github.com/shopspring/decimal"
)

// DB is the subset of *pgxpool.Pool the menu store needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// MenuStore keeps the menu in the menu_items table. It satisfies menu.Store.
type MenuStore struct {
	db DB
}

// NewMenuStore creates a MenuStore over db.
func NewMenuStore(db DB) *MenuStore {
	return &MenuStore{db: db}
}

const listMenuItems = `SELECT id, name, description, price, category, image
FROM menu_items
ORDER BY position`

// FetchMenu returns every menu item in display order.
func (s *MenuStore) FetchMenu(ctx context.Context) ([]menu.Item, error) {
	rows, err := s.db.Query(ctx, listMenuItems)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	items := []menu.Item{}
	for rows.Next() {
		var (
			it    menu.Item
			price pgtype.Numeric
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &price, &it.Category, &it.Image); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		if it.Price, err = numericToDecimal(price); err != nil {
			return nil, fmt.Errorf("menu item %d price: %w", it.ID, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}
	return items, nil
}

const (
	deleteMenuItems = `DELETE FROM menu_items`
	insertMenuItem  = `INSERT INTO menu_items (id, position, name, description, price, category, image)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
)

// SaveMenu replaces the stored menu with items in a single transaction.
func (s *MenuStore) SaveMenu(ctx context.Context, items []menu.Item) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, deleteMenuItems); err != nil {
		return fmt.Errorf("clear menu items: %w", err)
	}

	batch := &pgx.Batch{}
	for pos, it := range items {
		price, err := decimalToNumeric(it.Price)
		if err != nil {
			return fmt.Errorf("menu item %d price: %w", it.ID, err)
		}
		batch.Queue(insertMenuItem, it.ID, pos, it.Name, it.Description, price, it.Category, it.Image)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert menu items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(val.(string))
}

func decimalToNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(d.StringFixed(2)); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}
