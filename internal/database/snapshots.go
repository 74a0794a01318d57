package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cdmasterk/orcafx/internal/pricing"
)

// MaxSearchResults caps SearchCurrent.
const MaxSearchResults = 200

const snapshotColumns = `id, product_key, product_id, product_code, category_id, collection_id, brand,
	purity, metal, grams, metal_price_per_gram, purity_factor,
	metal_cost, stone_cost, pearl_cost, coral_cost, other_cost, labor_cost,
	rule_id, rule_name, margin_wholesale, margin_retail,
	net_cost, wholesale_net, retail_net, retail_gross,
	tax_country, tax_rate, notes, input, is_active, created_at, superseded_at`

func scanSnapshot(row pgx.Row) (pricing.Snapshot, error) {
	var (
		s     pricing.Snapshot
		input []byte
	)
	err := row.Scan(
		&s.ID, &s.ProductKey, &s.ProductID, &s.ProductCode, &s.CategoryID, &s.CollectionID, &s.Brand,
		&s.Purity, &s.Metal, dec{&s.Grams}, dec{&s.MetalPricePerGram}, dec{&s.PurityFactor},
		dec{&s.MetalCost}, dec{&s.StoneCost}, dec{&s.PearlCost}, dec{&s.CoralCost}, dec{&s.OtherCost}, dec{&s.LaborCost},
		&s.RuleID, &s.RuleName, dec{&s.MarginWholesale}, dec{&s.MarginRetail},
		dec{&s.NetCost}, dec{&s.WholesaleNet}, dec{&s.RetailNet}, dec{&s.RetailGross},
		&s.TaxCountry, dec{&s.TaxRate}, &s.Notes, &input, &s.IsActive, &s.CreatedAt, &s.SupersededAt,
	)
	if err != nil {
		return s, err
	}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &s.Input); err != nil {
			return s, fmt.Errorf("decode stored input of %s: %w", s.ID, err)
		}
	}
	return s, nil
}

func collectSnapshots(rows pgx.Rows) ([]pricing.Snapshot, error) {
	defer rows.Close()
	var out []pricing.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price sheet: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Supersede stores snap as the product's active price sheet. The previous
// active sheet is deactivated in the same transaction, serialized per
// product by an advisory lock. On any error nothing is changed.
//
// Stamps are monotonic per product: a sheet computed before the latest stored
// one is stamped just after it, so superseded_at never precedes created_at
// and the history order matches the commit order.
func (s *Store) Supersede(ctx context.Context, snap *pricing.Snapshot) error {
	input, err := json.Marshal(snap.Input)
	if err != nil {
		return fmt.Errorf("failed to encode calculation input: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, snap.ProductKey); err != nil {
		return fmt.Errorf("failed to lock product %s: %w", snap.ProductKey, err)
	}

	createdAt := snap.CreatedAt.Truncate(time.Microsecond)
	var latest *time.Time
	if err := tx.QueryRow(ctx,
		`SELECT max(created_at) FROM price_sheets WHERE product_key = $1`, snap.ProductKey,
	).Scan(&latest); err != nil {
		return fmt.Errorf("failed to read latest price sheet of %s: %w", snap.ProductKey, err)
	}
	if latest != nil && !createdAt.After(*latest) {
		createdAt = latest.Add(time.Microsecond)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE price_sheets
		SET is_active = FALSE, superseded_at = $2
		WHERE product_key = $1 AND is_active
	`, snap.ProductKey, createdAt); err != nil {
		return fmt.Errorf("failed to deactivate current price sheet: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO price_sheets (
			id, product_key, product_id, product_code, category_id, collection_id, brand,
			purity, metal, grams, metal_price_per_gram, purity_factor,
			metal_cost, stone_cost, pearl_cost, coral_cost, other_cost, labor_cost,
			rule_id, rule_name, margin_wholesale, margin_retail,
			net_cost, wholesale_net, retail_net, retail_gross,
			tax_country, tax_rate, notes, input, is_active, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22,
			$23, $24, $25, $26,
			$27, $28, $29, $30, TRUE, $31
		)
	`,
		snap.ID, snap.ProductKey, snap.ProductID, snap.ProductCode, snap.CategoryID, snap.CollectionID, snap.Brand,
		snap.Purity, snap.Metal, numeric(snap.Grams), numeric(snap.MetalPricePerGram), numeric(snap.PurityFactor),
		numeric(snap.MetalCost), numeric(snap.StoneCost), numeric(snap.PearlCost), numeric(snap.CoralCost), numeric(snap.OtherCost), numeric(snap.LaborCost),
		snap.RuleID, snap.RuleName, numeric(snap.MarginWholesale), numeric(snap.MarginRetail),
		numeric(snap.NetCost), numeric(snap.WholesaleNet), numeric(snap.RetailNet), numeric(snap.RetailGross),
		snap.TaxCountry, numeric(snap.TaxRate), snap.Notes, input, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price sheet: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit price sheet: %w", err)
	}
	snap.CreatedAt = createdAt
	snap.IsActive = true
	return nil
}

// CurrentSnapshot returns the active price sheet of a product.
func (s *Store) CurrentSnapshot(ctx context.Context, productKey string) (*pricing.Snapshot, error) {
	snap, err := scanSnapshot(s.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM v_product_current_prices WHERE product_key = $1`, productKey))
	if err != nil {
		return nil, notFound(err, "current price sheet for %s", productKey)
	}
	return &snap, nil
}

// ActiveSnapshots returns every active price sheet.
func (s *Store) ActiveSnapshots(ctx context.Context) ([]pricing.Snapshot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+snapshotColumns+` FROM v_product_current_prices ORDER BY product_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query current price sheets: %w", err)
	}
	return collectSnapshots(rows)
}

// SnapshotHistory returns every price sheet of a product, newest first.
func (s *Store) SnapshotHistory(ctx context.Context, productKey string) ([]pricing.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+snapshotColumns+`
		FROM price_sheets
		WHERE product_key = $1
		ORDER BY created_at DESC, id DESC
	`, productKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history for %s: %w", productKey, err)
	}
	return collectSnapshots(rows)
}

// SnapshotAt returns the price sheet that was active for the product at t.
func (s *Store) SnapshotAt(ctx context.Context, productKey string, t time.Time) (*pricing.Snapshot, error) {
	snap, err := scanSnapshot(s.pool.QueryRow(ctx, `
		SELECT `+snapshotColumns+`
		FROM price_sheets
		WHERE product_key = $1
		  AND created_at <= $2
		  AND (superseded_at IS NULL OR superseded_at > $2)
		ORDER BY created_at DESC
		LIMIT 1
	`, productKey, t))
	if err != nil {
		return nil, notFound(err, "price sheet for %s at %s", productKey, t.Format(time.RFC3339))
	}
	return &snap, nil
}

// SearchCurrent searches active price sheets by product code or key.
func (s *Store) SearchCurrent(ctx context.Context, query string, limit int) ([]pricing.Snapshot, error) {
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+snapshotColumns+`
		FROM v_product_current_prices
		WHERE $1 = '' OR product_code ILIKE '%' || $1 || '%' OR product_key ILIKE '%' || $1 || '%'
		ORDER BY product_key
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search current prices: %w", err)
	}
	return collectSnapshots(rows)
}
