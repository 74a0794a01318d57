// Package pricingtest provides an in-memory pricing store for tests.
package pricingtest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cdmasterk/orcafx/internal/pkg/cuid2"
	"github.com/cdmasterk/orcafx/internal/pricing"
)

// MemStore is a goroutine-safe in-memory implementation of every store
// interface in the service. Reads counts calls to the read methods used by
// the calculator.
type MemStore struct {
	mu sync.Mutex

	rules       []pricing.Rule
	components  []pricing.ComponentPrice
	taxRates    []pricing.TaxRate
	metals      []pricing.MetalPrice
	categories  []pricing.Category
	collections []pricing.Collection
	bom         []pricing.ProductComponent
	snapshots   []pricing.Snapshot
	recalcLogs  []pricing.RecalcLog

	// SupersedeErr, when set, is returned by Supersede without writing.
	SupersedeErr error
	// SupersedeErrFor fails Supersede only for the given product keys.
	SupersedeErrFor map[string]error

	Reads int
}

// New returns an empty store.
func New() *MemStore {
	return &MemStore{}
}

// Seeded returns a store holding a DEFAULT rule (0.30/1.80) and the HR 25% tax rate.
func Seeded() *MemStore {
	s := New()
	s.AddRule(pricing.Rule{ID: "rul_default", Name: pricing.DefaultRuleName,
		MarginWholesale: Dec("0.30"), MarginRetail: Dec("1.80"), Priority: 100})
	s.AddTaxRate(pricing.TaxRate{ID: "tax_hr", CountryCode: "HR", Name: "PDV 25%", Rate: Dec("0.25")})
	return s
}

// Dec parses a decimal literal and panics on error.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DecPtr returns a pointer to a parsed decimal.
func DecPtr(s string) *decimal.Decimal {
	d := Dec(s)
	return &d
}

// Str returns a pointer to s.
func Str(s string) *string {
	return &s
}

var epoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// AddRule stores an active rule. ValidFrom defaults to 2020-01-01.
func (s *MemStore) AddRule(r pricing.Rule) pricing.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = cuid2.NewID("rul")
	}
	if r.ValidFrom.IsZero() {
		r.ValidFrom = epoch
	}
	r.IsActive = true
	r.Scope = r.Scope.Normalized()
	s.rules = append(s.rules, r)
	return r
}

// AddComponentPrice stores a price list entry, active from ValidFrom (default 2020-01-01).
func (s *MemStore) AddComponentPrice(p pricing.ComponentPrice) pricing.ComponentPrice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = cuid2.NewID("cmp")
	}
	if p.ValidFrom.IsZero() {
		p.ValidFrom = epoch
	}
	if p.Unit == "" {
		p.Unit = pricing.UnitPieces
	}
	p.IsActive = true
	p.Quality = pricing.NormalizeLabel(p.Quality)
	s.components = append(s.components, p)
	return p
}

// AddTaxRate stores an active tax rate.
func (s *MemStore) AddTaxRate(t pricing.TaxRate) pricing.TaxRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = cuid2.NewID("tax")
	}
	if t.ValidFrom.IsZero() {
		t.ValidFrom = epoch
	}
	t.IsActive = true
	s.taxRates = append(s.taxRates, t)
	return t
}

// AddCollection stores a collection.
func (s *MemStore) AddCollection(c pricing.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = append(s.collections, c)
}

// Snapshots returns every stored snapshot for the product, oldest first.
func (s *MemStore) Snapshots(productKey string) []pricing.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pricing.Snapshot
	for _, snap := range s.snapshots {
		if snap.ProductKey == productKey {
			out = append(out, snap)
		}
	}
	return out
}

// SnapshotCount returns the number of stored snapshots.
func (s *MemStore) SnapshotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

// RecalcLogs returns every written recalc log.
func (s *MemStore) RecalcLogs() []pricing.RecalcLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pricing.RecalcLog(nil), s.recalcLogs...)
}

// ---------------------------------------------------------------------------
// pricing.Store
// ---------------------------------------------------------------------------

func (s *MemStore) ActiveRules(ctx context.Context, at time.Time) ([]pricing.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	var out []pricing.Rule
	for _, r := range s.rules {
		if r.ActiveAt(at) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemStore) Rule(ctx context.Context, id string) (*pricing.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	for _, r := range s.rules {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, fmt.Errorf("rule %s: %w", id, pricing.ErrNotFound)
}

func (s *MemStore) LatestComponentPrice(ctx context.Context, componentType pricing.ComponentType, quality *string, at time.Time) (*pricing.ComponentPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	var best *pricing.ComponentPrice
	for i := range s.components {
		p := &s.components[i]
		if p.ComponentType != componentType || !p.ActiveAt(at) || !sameLabel(p.Quality, quality) {
			continue
		}
		if best == nil || p.ValidFrom.After(best.ValidFrom) {
			best = p
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s price: %w", componentType, pricing.ErrNotFound)
	}
	out := *best
	return &out, nil
}

func (s *MemStore) ActiveTaxRate(ctx context.Context, country string, at time.Time) (*pricing.TaxRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	var best *pricing.TaxRate
	for i := range s.taxRates {
		t := &s.taxRates[i]
		if t.CountryCode != country || !t.ActiveAt(at) {
			continue
		}
		if best == nil || t.ValidFrom.After(best.ValidFrom) {
			best = t
		}
	}
	if best == nil {
		return nil, fmt.Errorf("tax rate %s: %w", country, pricing.ErrNotFound)
	}
	out := *best
	return &out, nil
}

func (s *MemStore) LatestMetalPrice(ctx context.Context) (*pricing.MetalPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	if len(s.metals) == 0 {
		return nil, fmt.Errorf("metal price: %w", pricing.ErrNotFound)
	}
	latest := s.metals[0]
	for _, m := range s.metals[1:] {
		if m.FetchedAt.After(latest.FetchedAt) {
			latest = m
		}
	}
	return &latest, nil
}

func (s *MemStore) Collection(ctx context.Context, id string) (*pricing.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	for _, c := range s.collections {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("collection %s: %w", id, pricing.ErrNotFound)
}

func (s *MemStore) ProductComponents(ctx context.Context, productID string) ([]pricing.ProductComponent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	var out []pricing.ProductComponent
	for _, l := range s.bom {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *MemStore) Supersede(ctx context.Context, snap *pricing.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SupersedeErr != nil {
		return s.SupersedeErr
	}
	if err := s.SupersedeErrFor[snap.ProductKey]; err != nil {
		return err
	}
	now := snap.CreatedAt
	for _, existing := range s.snapshots {
		if existing.ProductKey == snap.ProductKey && !now.After(existing.CreatedAt) {
			now = existing.CreatedAt.Add(time.Microsecond)
		}
	}
	snap.CreatedAt = now
	for i := range s.snapshots {
		if s.snapshots[i].ProductKey == snap.ProductKey && s.snapshots[i].IsActive {
			s.snapshots[i].IsActive = false
			s.snapshots[i].SupersededAt = &now
		}
	}
	stored := *snap
	stored.IsActive = true
	s.snapshots = append(s.snapshots, stored)
	return nil
}

func (s *MemStore) CurrentSnapshot(ctx context.Context, productKey string) (*pricing.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.snapshots {
		if snap.ProductKey == productKey && snap.IsActive {
			snap := snap
			return &snap, nil
		}
	}
	return nil, fmt.Errorf("current price for %s: %w", productKey, pricing.ErrNotFound)
}

func (s *MemStore) ActiveSnapshots(ctx context.Context) ([]pricing.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pricing.Snapshot
	for _, snap := range s.snapshots {
		if snap.IsActive {
			out = append(out, snap)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Administration
// ---------------------------------------------------------------------------

func (s *MemStore) ListRules(ctx context.Context, includeInactive bool) ([]pricing.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pricing.Rule
	for _, r := range s.rules {
		if r.IsActive || includeInactive {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (s *MemStore) CreateRule(ctx context.Context, r *pricing.Rule) error {
	if r.ValidFrom.IsZero() {
		r.ValidFrom = time.Now()
	}
	r.CreatedAt = time.Now()
	*r = s.AddRule(*r)
	return nil
}

func (s *MemStore) DeactivateRule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == id && s.rules[i].IsActive {
			now := time.Now()
			s.rules[i].IsActive = false
			s.rules[i].ValidTo = &now
			return nil
		}
	}
	return fmt.Errorf("rule %s: %w", id, pricing.ErrNotFound)
}

func (s *MemStore) ListComponentPrices(ctx context.Context, componentType *pricing.ComponentType, includeInactive bool) ([]pricing.ComponentPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pricing.ComponentPrice
	for _, p := range s.components {
		if componentType != nil && p.ComponentType != *componentType {
			continue
		}
		if p.IsActive || includeInactive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemStore) CreateComponentPrice(ctx context.Context, p *pricing.ComponentPrice) error {
	if p.ValidFrom.IsZero() {
		p.ValidFrom = time.Now()
	}
	p.CreatedAt = time.Now()
	*p = s.AddComponentPrice(*p)
	return nil
}

func (s *MemStore) DeactivateComponentPrice(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.components {
		if s.components[i].ID == id && s.components[i].IsActive {
			now := time.Now()
			s.components[i].IsActive = false
			s.components[i].ValidTo = &now
			return nil
		}
	}
	return fmt.Errorf("component price %s: %w", id, pricing.ErrNotFound)
}

func (s *MemStore) ComponentQualities(ctx context.Context, componentType pricing.ComponentType) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.components {
		if p.ComponentType == componentType && p.IsActive && p.Quality != nil && !seen[*p.Quality] {
			seen[*p.Quality] = true
			out = append(out, *p.Quality)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemStore) ListTaxRates(ctx context.Context, includeInactive bool) ([]pricing.TaxRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pricing.TaxRate
	for _, t := range s.taxRates {
		if t.IsActive || includeInactive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemStore) CreateTaxRate(ctx context.Context, t *pricing.TaxRate) error {
	if t.ValidFrom.IsZero() {
		t.ValidFrom = time.Now()
	}
	*t = s.AddTaxRate(*t)
	return nil
}

func (s *MemStore) DeactivateTaxRate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.taxRates {
		if s.taxRates[i].ID == id && s.taxRates[i].IsActive {
			now := time.Now()
			s.taxRates[i].IsActive = false
			s.taxRates[i].ValidTo = &now
			return nil
		}
	}
	return fmt.Errorf("tax rate %s: %w", id, pricing.ErrNotFound)
}

func (s *MemStore) ListCategories(ctx context.Context) ([]pricing.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pricing.Category(nil), s.categories...), nil
}

func (s *MemStore) CreateCategory(ctx context.Context, c *pricing.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = cuid2.NewID("cat")
	}
	c.CreatedAt = time.Now()
	s.categories = append(s.categories, *c)
	return nil
}

func (s *MemStore) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("category %s: %w", id, pricing.ErrNotFound)
}

func (s *MemStore) ListCollections(ctx context.Context) ([]pricing.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pricing.Collection(nil), s.collections...), nil
}

func (s *MemStore) CreateCollection(ctx context.Context, c *pricing.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = cuid2.NewID("col")
	}
	c.CreatedAt = time.Now()
	s.collections = append(s.collections, *c)
	return nil
}

func (s *MemStore) DeleteCollection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.collections {
		if c.ID == id {
			s.collections = append(s.collections[:i], s.collections[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("collection %s: %w", id, pricing.ErrNotFound)
}

func (s *MemStore) InsertMetalPrice(ctx context.Context, m *pricing.MetalPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = cuid2.NewID("mtl")
	}
	if m.FetchedAt.IsZero() {
		m.FetchedAt = time.Now()
	}
	s.metals = append(s.metals, *m)
	return nil
}

func (s *MemStore) AddProductComponent(ctx context.Context, c *pricing.ProductComponent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = cuid2.NewID("bom")
	}
	if c.ValidFrom.IsZero() {
		c.ValidFrom = time.Now()
	}
	c.IsActive = true
	s.bom = append(s.bom, *c)
	return nil
}

func (s *MemStore) SnapshotHistory(ctx context.Context, productKey string) ([]pricing.Snapshot, error) {
	out := s.Snapshots(productKey)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) SnapshotAt(ctx context.Context, productKey string, at time.Time) (*pricing.Snapshot, error) {
	for _, snap := range s.Snapshots(productKey) {
		if snap.CreatedAt.After(at) {
			continue
		}
		if snap.SupersededAt == nil || snap.SupersededAt.After(at) {
			snap := snap
			return &snap, nil
		}
	}
	return nil, fmt.Errorf("price for %s at %s: %w", productKey, at.Format(time.RFC3339), pricing.ErrNotFound)
}

func (s *MemStore) SearchCurrent(ctx context.Context, query string, limit int) ([]pricing.Snapshot, error) {
	active, _ := s.ActiveSnapshots(ctx)
	q := strings.ToLower(query)
	var out []pricing.Snapshot
	for _, snap := range active {
		if q == "" || strings.Contains(strings.ToLower(snap.ProductKey), q) ||
			(snap.ProductCode != nil && strings.Contains(strings.ToLower(*snap.ProductCode), q)) {
			out = append(out, snap)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemStore) InsertRecalcLog(ctx context.Context, l *pricing.RecalcLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = cuid2.NewID("rcl")
	}
	s.recalcLogs = append(s.recalcLogs, *l)
	return nil
}

func (s *MemStore) LatestRecalcLog(ctx context.Context) (*pricing.RecalcLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.recalcLogs) == 0 {
		return nil, fmt.Errorf("recalc log: %w", pricing.ErrNotFound)
	}
	l := s.recalcLogs[len(s.recalcLogs)-1]
	return &l, nil
}

func sameLabel(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
