package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cdmasterk/orcafx/internal/pkg/cuid2"
	"github.com/cdmasterk/orcafx/internal/pricing"
)

// Store is the Postgres implementation of pricing.Store plus the
// administration queries used by the HTTP API and the CLI.
type Store struct {
	pool *pgxpool.Pool
}

var _ pricing.Store = (*Store)(nil)

// NewStore returns a store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf(format+": %w", append(args, pricing.ErrNotFound)...)
	}
	return fmt.Errorf("failed to load "+format+": %w", append(args, err)...)
}

// ---------------------------------------------------------------------------
// Rules
// ---------------------------------------------------------------------------

const ruleColumns = `id, name, category_id, collection_id, collection_name, brand, purity,
	margin_wholesale, margin_retail, stone_markup, labor_markup, priority,
	is_active, valid_from, valid_to, created_at`

func scanRule(row pgx.Row) (pricing.Rule, error) {
	var r pricing.Rule
	err := row.Scan(
		&r.ID, &r.Name, &r.Scope.CategoryID, &r.Scope.CollectionID, &r.Scope.CollectionName,
		&r.Scope.Brand, &r.Scope.Purity,
		dec{&r.MarginWholesale}, dec{&r.MarginRetail}, dec{&r.StoneMarkup}, dec{&r.LaborMarkup},
		&r.Priority, &r.IsActive, &r.ValidFrom, &r.ValidTo, &r.CreatedAt,
	)
	return r, err
}

func collectRules(rows pgx.Rows) ([]pricing.Rule, error) {
	defer rows.Close()
	var out []pricing.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pricing rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ActiveRules returns the rules in effect at the given time.
func (s *Store) ActiveRules(ctx context.Context, at time.Time) ([]pricing.Rule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+ruleColumns+`
		FROM pricing_rules
		WHERE is_active AND valid_from <= $1 AND (valid_to IS NULL OR valid_to > $1)
		ORDER BY priority, valid_from, id
	`, at)
	if err != nil {
		return nil, fmt.Errorf("failed to query active pricing rules: %w", err)
	}
	return collectRules(rows)
}

// Rule returns a rule by id.
func (s *Store) Rule(ctx context.Context, id string) (*pricing.Rule, error) {
	r, err := scanRule(s.pool.QueryRow(ctx, `SELECT `+ruleColumns+` FROM pricing_rules WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "pricing rule %s", id)
	}
	return &r, nil
}

// ListRules returns active rules, or every rule when includeInactive is set.
func (s *Store) ListRules(ctx context.Context, includeInactive bool) ([]pricing.Rule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+ruleColumns+`
		FROM pricing_rules
		WHERE is_active OR $1
		ORDER BY priority, valid_from, id
	`, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing rules: %w", err)
	}
	return collectRules(rows)
}

// CreateRule inserts a new rule, filling its id and timestamps.
func (s *Store) CreateRule(ctx context.Context, r *pricing.Rule) error {
	if r.ID == "" {
		r.ID = cuid2.NewID("rul")
	}
	if r.ValidFrom.IsZero() {
		r.ValidFrom = time.Now()
	}
	r.Scope = r.Scope.Normalized()
	r.IsActive = true

	err := s.pool.QueryRow(ctx, `
		INSERT INTO pricing_rules (
			id, name, category_id, collection_id, collection_name, brand, purity,
			margin_wholesale, margin_retail, stone_markup, labor_markup, priority,
			is_active, valid_from, valid_to
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE, $13, $14)
		RETURNING created_at
	`, r.ID, r.Name, r.Scope.CategoryID, r.Scope.CollectionID, r.Scope.CollectionName, r.Scope.Brand, r.Scope.Purity,
		numeric(r.MarginWholesale), numeric(r.MarginRetail), numeric(r.StoneMarkup), numeric(r.LaborMarkup), r.Priority,
		r.ValidFrom, r.ValidTo,
	).Scan(&r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pricing rule: %w", err)
	}
	return nil
}

// DeactivateRule ends a rule's validity. Rules are never deleted.
func (s *Store) DeactivateRule(ctx context.Context, id string) error {
	return s.deactivate(ctx, "pricing_rules", "pricing rule", id)
}

func (s *Store) deactivate(ctx context.Context, table, what, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE `+table+` SET is_active = FALSE, valid_to = now() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate %s %s: %w", what, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("active %s %s: %w", what, id, pricing.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Component price lists
// ---------------------------------------------------------------------------

const componentColumns = `id, component_type, quality, unit, price_per_unit, is_active, valid_from, valid_to, created_at`

func scanComponentPrice(row pgx.Row) (pricing.ComponentPrice, error) {
	var p pricing.ComponentPrice
	err := row.Scan(&p.ID, &p.ComponentType, &p.Quality, &p.Unit, dec{&p.PricePerUnit},
		&p.IsActive, &p.ValidFrom, &p.ValidTo, &p.CreatedAt)
	return p, err
}

// LatestComponentPrice returns the most recently valid active entry for the
// type and quality. A nil quality matches entries without a quality grade.
func (s *Store) LatestComponentPrice(ctx context.Context, componentType pricing.ComponentType, quality *string, at time.Time) (*pricing.ComponentPrice, error) {
	p, err := scanComponentPrice(s.pool.QueryRow(ctx, `
		SELECT `+componentColumns+`
		FROM component_price_lists
		WHERE component_type = $1
		  AND quality IS NOT DISTINCT FROM $2
		  AND is_active AND valid_from <= $3 AND (valid_to IS NULL OR valid_to > $3)
		ORDER BY valid_from DESC, created_at DESC
		LIMIT 1
	`, componentType, pricing.NormalizeLabel(quality), at))
	if err != nil {
		return nil, notFound(err, "%s price", componentType)
	}
	return &p, nil
}

// ListComponentPrices returns price list entries, optionally of one type.
func (s *Store) ListComponentPrices(ctx context.Context, componentType *pricing.ComponentType, includeInactive bool) ([]pricing.ComponentPrice, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+componentColumns+`
		FROM component_price_lists
		WHERE ($1::text IS NULL OR component_type = $1)
		  AND (is_active OR $2)
		ORDER BY component_type, quality NULLS FIRST, valid_from DESC
	`, componentType, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list component prices: %w", err)
	}
	defer rows.Close()

	var out []pricing.ComponentPrice
	for rows.Next() {
		p, err := scanComponentPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan component price: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateComponentPrice inserts a price list entry.
func (s *Store) CreateComponentPrice(ctx context.Context, p *pricing.ComponentPrice) error {
	if p.ID == "" {
		p.ID = cuid2.NewID("cmp")
	}
	if p.ValidFrom.IsZero() {
		p.ValidFrom = time.Now()
	}
	if p.Unit == "" {
		p.Unit = pricing.UnitPieces
	}
	p.Quality = pricing.NormalizeLabel(p.Quality)
	p.IsActive = true

	err := s.pool.QueryRow(ctx, `
		INSERT INTO component_price_lists (id, component_type, quality, unit, price_per_unit, is_active, valid_from, valid_to)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7)
		RETURNING created_at
	`, p.ID, p.ComponentType, p.Quality, p.Unit, numeric(p.PricePerUnit), p.ValidFrom, p.ValidTo).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert component price: %w", err)
	}
	return nil
}

// DeactivateComponentPrice ends a price list entry's validity.
func (s *Store) DeactivateComponentPrice(ctx context.Context, id string) error {
	return s.deactivate(ctx, "component_price_lists", "component price", id)
}

// ComponentQualities returns the distinct quality grades with an active price.
func (s *Store) ComponentQualities(ctx context.Context, componentType pricing.ComponentType) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT quality
		FROM component_price_lists
		WHERE component_type = $1 AND is_active AND quality IS NOT NULL
		ORDER BY quality
	`, componentType)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s qualities: %w", componentType, err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ---------------------------------------------------------------------------
// Tax rates
// ---------------------------------------------------------------------------

const taxColumns = `id, country_code, name, rate, is_active, valid_from, valid_to`

func scanTaxRate(row pgx.Row) (pricing.TaxRate, error) {
	var t pricing.TaxRate
	err := row.Scan(&t.ID, &t.CountryCode, &t.Name, dec{&t.Rate}, &t.IsActive, &t.ValidFrom, &t.ValidTo)
	return t, err
}

// ActiveTaxRate returns the rate in effect for the country at the given time.
func (s *Store) ActiveTaxRate(ctx context.Context, country string, at time.Time) (*pricing.TaxRate, error) {
	t, err := scanTaxRate(s.pool.QueryRow(ctx, `
		SELECT `+taxColumns+`
		FROM tax_rates
		WHERE country_code = $1 AND is_active AND valid_from <= $2 AND (valid_to IS NULL OR valid_to > $2)
		ORDER BY valid_from DESC
		LIMIT 1
	`, country, at))
	if err != nil {
		return nil, notFound(err, "tax rate for %s", country)
	}
	return &t, nil
}

// ListTaxRates returns tax rates ordered by country.
func (s *Store) ListTaxRates(ctx context.Context, includeInactive bool) ([]pricing.TaxRate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+taxColumns+` FROM tax_rates WHERE is_active OR $1 ORDER BY country_code, valid_from DESC
	`, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax rates: %w", err)
	}
	defer rows.Close()

	var out []pricing.TaxRate
	for rows.Next() {
		t, err := scanTaxRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax rate: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTaxRate inserts a tax rate.
func (s *Store) CreateTaxRate(ctx context.Context, t *pricing.TaxRate) error {
	if t.ID == "" {
		t.ID = cuid2.NewID("tax")
	}
	if t.ValidFrom.IsZero() {
		t.ValidFrom = time.Now()
	}
	t.IsActive = true

	_, err := s.pool.Exec(ctx, `
		INSERT INTO tax_rates (id, country_code, name, rate, is_active, valid_from, valid_to)
		VALUES ($1, $2, $3, $4, TRUE, $5, $6)
	`, t.ID, t.CountryCode, t.Name, numeric(t.Rate), t.ValidFrom, t.ValidTo)
	if err != nil {
		return fmt.Errorf("failed to insert tax rate: %w", err)
	}
	return nil
}

// DeactivateTaxRate ends a tax rate's validity.
func (s *Store) DeactivateTaxRate(ctx context.Context, id string) error {
	return s.deactivate(ctx, "tax_rates", "tax rate", id)
}

// ---------------------------------------------------------------------------
// Metal prices and bills of material
// ---------------------------------------------------------------------------

// LatestMetalPrice returns the most recent metal price fetch.
func (s *Store) LatestMetalPrice(ctx context.Context) (*pricing.MetalPrice, error) {
	var m pricing.MetalPrice
	err := s.pool.QueryRow(ctx, `
		SELECT id, gold_oz, silver_oz, gold_g, silver_g, fetched_at
		FROM metal_prices
		ORDER BY fetched_at DESC
		LIMIT 1
	`).Scan(&m.ID, dec{&m.GoldPerOz}, dec{&m.SilverPerOz}, dec{&m.GoldPerGram}, dec{&m.SilverPerGram}, &m.FetchedAt)
	if err != nil {
		return nil, notFound(err, "metal price")
	}
	return &m, nil
}

// InsertMetalPrice stores one metal price fetch.
func (s *Store) InsertMetalPrice(ctx context.Context, m *pricing.MetalPrice) error {
	if m.ID == "" {
		m.ID = cuid2.NewID("mtl")
	}
	if m.FetchedAt.IsZero() {
		m.FetchedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO metal_prices (id, gold_oz, silver_oz, gold_g, silver_g, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, numeric(m.GoldPerOz), numeric(m.SilverPerOz), numeric(m.GoldPerGram), numeric(m.SilverPerGram), m.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to insert metal price: %w", err)
	}
	return nil
}

// ProductComponents returns the bill-of-material lines of a product.
func (s *Store) ProductComponents(ctx context.Context, productID string) ([]pricing.ProductComponent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, component_type, quality, qty, unit, is_active, valid_from
		FROM product_components
		WHERE product_id = $1
		ORDER BY valid_from
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bill of material: %w", err)
	}
	defer rows.Close()

	var out []pricing.ProductComponent
	for rows.Next() {
		var c pricing.ProductComponent
		if err := rows.Scan(&c.ID, &c.ProductID, &c.ComponentType, &c.Quality, nullDec{&c.Qty}, &c.Unit, &c.IsActive, &c.ValidFrom); err != nil {
			return nil, fmt.Errorf("failed to scan bill of material line: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddProductComponent inserts a bill-of-material line.
func (s *Store) AddProductComponent(ctx context.Context, c *pricing.ProductComponent) error {
	if c.ID == "" {
		c.ID = cuid2.NewID("bom")
	}
	if c.ValidFrom.IsZero() {
		c.ValidFrom = time.Now()
	}
	if c.Unit == "" {
		c.Unit = pricing.UnitPieces
	}
	c.Quality = pricing.NormalizeLabel(c.Quality)
	c.IsActive = true

	_, err := s.pool.Exec(ctx, `
		INSERT INTO product_components (id, product_id, component_type, quality, qty, unit, is_active, valid_from)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
	`, c.ID, c.ProductID, c.ComponentType, c.Quality, nullNumeric(c.Qty), c.Unit, c.ValidFrom)
	if err != nil {
		return fmt.Errorf("failed to insert bill of material line: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Recalculation log
// ---------------------------------------------------------------------------

// InsertRecalcLog writes the audit row of a mass recalculation.
func (s *Store) InsertRecalcLog(ctx context.Context, l *pricing.RecalcLog) error {
	if l.ID == "" {
		l.ID = cuid2.NewID("rcl")
	}
	failures := l.Failures
	if failures == nil {
		failures = []pricing.RecalcFailure{}
	}
	details, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("failed to encode recalc failures: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO price_recalc_log (
			id, run_id, triggered_at, finished_at, triggered_by, success,
			recalculated_count, failed_count, details
		) VALUES ($1, $2::text::uuid, $3, $4, $5, $6, $7, $8, $9)
	`, l.ID, l.RunID, l.TriggeredAt, l.FinishedAt, l.TriggeredBy, l.Success,
		l.RecalculatedCount, l.FailedCount, details)
	if err != nil {
		return fmt.Errorf("failed to insert recalc log: %w", err)
	}
	return nil
}

// LatestRecalcLog returns the most recent recalculation run.
func (s *Store) LatestRecalcLog(ctx context.Context) (*pricing.RecalcLog, error) {
	var (
		l       pricing.RecalcLog
		details []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, run_id::text, triggered_at, finished_at, triggered_by, success,
		       recalculated_count, failed_count, details
		FROM price_recalc_log
		ORDER BY triggered_at DESC
		LIMIT 1
	`).Scan(&l.ID, &l.RunID, &l.TriggeredAt, &l.FinishedAt, &l.TriggeredBy, &l.Success,
		&l.RecalculatedCount, &l.FailedCount, &details)
	if err != nil {
		return nil, notFound(err, "recalc log")
	}
	if err := json.Unmarshal(details, &l.Failures); err != nil {
		return nil, fmt.Errorf("failed to decode recalc failures: %w", err)
	}
	return &l, nil
}
