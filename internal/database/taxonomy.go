package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cdmasterk/orcafx/internal/pkg/cuid2"
	"github.com/cdmasterk/orcafx/internal/pricing"
)

// Collection returns a collection by id.
func (s *Store) Collection(ctx context.Context, id string) (*pricing.Collection, error) {
	var c pricing.Collection
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, category_id, created_at FROM collections WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.CategoryID, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "collection %s", id)
	}
	return &c, nil
}

// ListCollections returns every collection ordered by name.
func (s *Store) ListCollections(ctx context.Context) ([]pricing.Collection, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, category_id, created_at FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (pricing.Collection, error) {
		var c pricing.Collection
		err := row.Scan(&c.ID, &c.Name, &c.CategoryID, &c.CreatedAt)
		return c, err
	})
}

// CreateCollection inserts a collection.
func (s *Store) CreateCollection(ctx context.Context, c *pricing.Collection) error {
	if c.ID == "" {
		c.ID = cuid2.NewID("col")
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO collections (id, name, category_id) VALUES ($1, $2, $3) RETURNING created_at
	`, c.ID, c.Name, c.CategoryID).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	return nil
}

// DeleteCollection removes a collection.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	return s.delete(ctx, "collections", "collection", id)
}

// ListCategories returns every category ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]pricing.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (pricing.Category, error) {
		var c pricing.Category
		err := row.Scan(&c.ID, &c.Name, &c.CreatedAt)
		return c, err
	})
}

// CreateCategory inserts a category.
func (s *Store) CreateCategory(ctx context.Context, c *pricing.Category) error {
	if c.ID == "" {
		c.ID = cuid2.NewID("cat")
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (id, name) VALUES ($1, $2) RETURNING created_at
	`, c.ID, c.Name).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category. Its collections keep existing without one.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.delete(ctx, "categories", "category", id)
}

func (s *Store) delete(ctx context.Context, table, what, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", what, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", what, id, pricing.ErrNotFound)
	}
	return nil
}
