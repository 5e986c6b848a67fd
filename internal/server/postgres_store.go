package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/example/shopfront/internal/catalog"
)

// PostgresStore implements ItemStore on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the items table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS items (
			id       BIGSERIAL PRIMARY KEY,
			name     TEXT NOT NULL,
			price    NUMERIC(12,2) NOT NULL,
			category TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure items schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]catalog.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, category FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var item catalog.Item
		var price string
		if err := rows.Scan(&item.ID, &item.Name, &price, &item.Category); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse price for item %d: %w", item.ID, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) Create(ctx context.Context, in ItemInput) (catalog.Item, error) {
	item := catalog.Item{Name: in.Name, Price: in.Price, Category: in.Category}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO items (name, price, category) VALUES ($1, $2, $3) RETURNING id`,
		in.Name, in.Price.String(), in.Category).Scan(&item.ID)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, in ItemInput) (catalog.Item, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET name = $1, price = $2, category = $3 WHERE id = $4`,
		in.Name, in.Price.String(), in.Category, id)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("update item %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return catalog.Item{}, err
	}
	if n == 0 {
		return catalog.Item{}, ErrNotFound
	}
	return catalog.Item{ID: id, Name: in.Name, Price: in.Price, Category: in.Category}, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
