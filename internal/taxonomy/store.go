// Package taxonomy maintains the category/subcategory hierarchy and the
// per-expense classification records, with pluggable persistence.
//
// The hierarchy is two levels deep: every expense belongs to exactly one
// subcategory, and every subcategory belongs to exactly one category. Category
// and subcategory names live in disjoint namespaces.
package taxonomy

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/amesfield/bean-counter/internal/common"
	"github.com/amesfield/bean-counter/internal/model"
)

// Backend persists the flat per-expense record map.
type Backend interface {
	// Load returns the persisted records, or an empty map when nothing has
	// been persisted yet. Absence of prior data is not an error.
	Load(ctx context.Context) (map[string]model.ExpenseRecord, error)
	// Save writes the full record map.
	Save(ctx context.Context, records map[string]model.ExpenseRecord) error
	// Close releases any resources held by the backend.
	Close() error
}

// Store holds the expense records and the taxonomy derived from them. It is
// exclusively owned by one classification engine for the process lifetime;
// no concurrent access is supported.
type Store struct {
	backend  Backend
	records  map[string]model.ExpenseRecord
	parentOf map[string]string // subcategory -> category
	closed   bool
}

// Open loads persisted records through the backend and builds the in-memory
// taxonomy indexes.
func Open(ctx context.Context, backend Backend) (*Store, error) {
	records, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense records: %w", err)
	}

	s := &Store{
		backend:  backend,
		records:  records,
		parentOf: make(map[string]string),
	}

	for name, rec := range records {
		if existing, ok := s.parentOf[rec.Subcategory]; ok && existing != rec.Category {
			return nil, fmt.Errorf("record %q places subcategory %q under both %q and %q: %w",
				name, rec.Subcategory, existing, rec.Category, common.ErrTaxonomyConflict)
		}
		s.parentOf[rec.Subcategory] = rec.Category
	}

	slog.Debug("opened taxonomy store",
		"records", len(s.records),
		"subcategories", len(s.parentOf))

	return s, nil
}

// Close flushes the records through the backend and releases it. Writing is
// skipped entirely when the store is empty, so a run that classified nothing
// leaves no spurious file behind. Close is safe to call exactly once.
func (s *Store) Close(ctx context.Context) error {
	if s.closed {
		return common.ErrStoreClosed
	}
	s.closed = true

	defer func() {
		if err := s.backend.Close(); err != nil {
			slog.Error("failed to close taxonomy backend", "error", err)
		}
	}()

	if len(s.records) == 0 {
		slog.Debug("taxonomy store empty, skipping save")
		return nil
	}

	if err := s.backend.Save(ctx, s.records); err != nil {
		return fmt.Errorf("failed to save expense records: %w", err)
	}

	slog.Info("saved expense records", "count", len(s.records))
	return nil
}

// Normalize canonicalizes an expense, category, or subcategory name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup returns the record stored under the given normalized name.
func (s *Store) Lookup(name string) (model.ExpenseRecord, bool) {
	rec, ok := s.records[name]
	return rec, ok
}

// Names returns all known expense names in unspecified order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	return names
}

// Len returns the number of stored expense records.
func (s *Store) Len() int {
	return len(s.records)
}

// Categories returns all category names, lexicographically sorted so that
// interactive prompts are deterministic.
func (s *Store) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, cat := range s.parentOf {
		if !seen[cat] {
			seen[cat] = true
			cats = append(cats, cat)
		}
	}
	sort.Strings(cats)
	return cats
}

// Subcategories returns the sorted subcategory names registered under the
// given category.
func (s *Store) Subcategories(category string) []string {
	var subs []string
	for sub, cat := range s.parentOf {
		if cat == category {
			subs = append(subs, sub)
		}
	}
	sort.Strings(subs)
	return subs
}

// NameTaken reports whether the given name is already in use as a category or
// subcategory. The interactive protocol uses it to reject colliding free-text
// entries.
func (s *Store) NameTaken(name string) bool {
	if _, ok := s.parentOf[name]; ok {
		return true
	}
	for _, cat := range s.parentOf {
		if cat == name {
			return true
		}
	}
	return false
}

// Register creates a new expense record with a purchase count of one. It
// enforces the taxonomy invariants: a subcategory belongs to exactly one
// category, and no name may appear in both the category and subcategory
// namespaces.
func (s *Store) Register(name, category, subcategory string, price float64) (model.ExpenseRecord, error) {
	if name == "" || category == "" || subcategory == "" {
		return model.ExpenseRecord{}, fmt.Errorf("expense, category and subcategory names must be non-empty: %w", common.ErrInvalidConfig)
	}
	if _, ok := s.records[name]; ok {
		return model.ExpenseRecord{}, fmt.Errorf("expense %q already registered: %w", name, common.ErrDuplicateEntry)
	}
	if existing, ok := s.parentOf[category]; ok {
		return model.ExpenseRecord{}, fmt.Errorf("%q is already a subcategory of %q: %w", category, existing, common.ErrDuplicateName)
	}
	if s.isCategory(subcategory) {
		return model.ExpenseRecord{}, fmt.Errorf("%q is already a category: %w", subcategory, common.ErrDuplicateName)
	}
	if category == subcategory {
		return model.ExpenseRecord{}, fmt.Errorf("category and subcategory %q must differ: %w", category, common.ErrDuplicateName)
	}
	if existing, ok := s.parentOf[subcategory]; ok && existing != category {
		return model.ExpenseRecord{}, fmt.Errorf("subcategory %q belongs to %q: %w", subcategory, existing, common.ErrTaxonomyConflict)
	}

	rec := model.ExpenseRecord{
		Name:          name,
		Category:      category,
		Subcategory:   subcategory,
		Mean:          price,
		PurchaseCount: 1,
	}
	s.records[name] = rec
	s.parentOf[subcategory] = category

	slog.Debug("registered expense",
		"expense", name,
		"category", category,
		"subcategory", subcategory)

	return rec, nil
}

// Observe records one more sighting of a known expense, updating its running
// mean price and purchase count.
func (s *Store) Observe(name string, price float64) (model.ExpenseRecord, error) {
	rec, ok := s.records[name]
	if !ok {
		return model.ExpenseRecord{}, fmt.Errorf("expense %q: %w", name, common.ErrNotFound)
	}

	rec.Observe(price)
	s.records[name] = rec
	return rec, nil
}

func (s *Store) isCategory(name string) bool {
	for _, cat := range s.parentOf {
		if cat == name {
			return true
		}
	}
	return false
}
