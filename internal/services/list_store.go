package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foxxcyber/voicelist/internal/database"
	"github.com/foxxcyber/voicelist/internal/logging"
	"github.com/foxxcyber/voicelist/internal/models"
)

// Logical keys stored per owner
const (
	ItemsKey   = "voice_shopping_items_v1"
	HistoryKey = "voice_shopping_history_v1"
	ThemeKey   = "voice_theme_v1"
)

// DefaultRecommendations is the number of recommendations returned when no limit is given
const DefaultRecommendations = 5

// Archiver keeps a copy of a list before it is cleared
type Archiver interface {
	Archive(ctx context.Context, owner string, items []models.ListItem) (*models.Snapshot, error)
}

// ListStore reads and writes shopping lists, purchase history and the theme
// preference through a KeyValueStore. Every mutation reads the whole list and
// writes it back.
type ListStore struct {
	kv       database.KeyValueStore
	catalog  *Catalog
	archiver Archiver
	logger   *zap.Logger
	now      func() time.Time
}

// NewListStore creates a store. A nil catalog uses DefaultCatalog.
func NewListStore(kv database.KeyValueStore, catalog *Catalog, logger *zap.Logger) *ListStore {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &ListStore{
		kv:      kv,
		catalog: catalog,
		logger:  logging.OrNop(logger),
		now:     time.Now,
	}
}

// SetArchiver enables snapshots of cleared lists
func (s *ListStore) SetArchiver(a Archiver) {
	s.archiver = a
}

// Catalog returns the classifier tables used by the store
func (s *ListStore) Catalog() *Catalog {
	return s.catalog
}

func storageKey(owner, key string) string {
	return owner + "/" + key
}

// load reads a JSON blob into dst. It reports false when the key is missing or the
// blob is corrupt; only store failures are errors.
func (s *ListStore) load(ctx context.Context, owner, key string, dst interface{}) (bool, error) {
	raw, err := s.kv.Get(ctx, storageKey(owner, key))
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("discarding corrupt stored value",
			zap.String("owner", owner),
			zap.String("key", key),
			zap.Error(err),
		)
		return false, nil
	}
	return true, nil
}

func (s *ListStore) save(ctx context.Context, owner, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, storageKey(owner, key), raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Items returns the owner's list in insertion order
func (s *ListStore) Items(ctx context.Context, owner string) ([]models.ListItem, error) {
	var items []models.ListItem
	ok, err := s.load(ctx, owner, ItemsKey, &items)
	if err != nil {
		return nil, err
	}
	if !ok || items == nil {
		return []models.ListItem{}, nil
	}
	return items, nil
}

// ReplaceItems overwrites the owner's list
func (s *ListStore) ReplaceItems(ctx context.Context, owner string, items []models.ListItem) error {
	if items == nil {
		items = []models.ListItem{}
	}
	return s.save(ctx, owner, ItemsKey, items)
}

// History returns the owner's purchase history
func (s *ListStore) History(ctx context.Context, owner string) (*models.PurchaseHistory, error) {
	h := models.NewPurchaseHistory()
	ok, err := s.load(ctx, owner, HistoryKey, h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return models.NewPurchaseHistory(), nil
	}
	return h, nil
}

// RecordPurchase adds qty purchases of name to the history
func (s *ListStore) RecordPurchase(ctx context.Context, owner, name string, qty int) error {
	h, err := s.History(ctx, owner)
	if err != nil {
		return err
	}
	h.Record(name, qty, s.now())
	return s.save(ctx, owner, HistoryKey, h)
}

// Theme returns the stored theme, light when unset
func (s *ListStore) Theme(ctx context.Context, owner string) (models.Theme, error) {
	var t models.Theme
	ok, err := s.load(ctx, owner, ThemeKey, &t)
	if err != nil {
		return "", err
	}
	if !ok || !t.Valid() {
		return models.ThemeLight, nil
	}
	return t, nil
}

// SetTheme stores the theme preference
func (s *ListStore) SetTheme(ctx context.Context, owner string, t models.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("invalid theme %q", t)
	}
	return s.save(ctx, owner, ThemeKey, t)
}

func indexOf(items []models.ListItem, name string) int {
	key := models.NameKey(name)
	for i, it := range items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

// AddItem adds qty of name, incrementing an existing entry with the same
// lowercased name. A quantity below 1 adds one and totals stop at
// models.MaxQty. Blank names are ignored.
func (s *ListStore) AddItem(ctx context.Context, owner, name string, qty int) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	if qty <= 0 {
		qty = 1
	}
	qty = models.ClampQty(qty)

	items, err := s.Items(ctx, owner)
	if err != nil {
		return false, err
	}

	if idx := indexOf(items, name); idx >= 0 {
		items[idx].Qty = models.AddQty(items[idx].Qty, qty)
	} else {
		items = append(items, models.ListItem{
			Name:     name,
			Qty:      qty,
			Category: s.catalog.Categorize(name),
			AddedAt:  s.now().UTC(),
		})
	}

	if err := s.ReplaceItems(ctx, owner, items); err != nil {
		return false, err
	}
	if err := s.RecordPurchase(ctx, owner, name, qty); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveItem deletes the entry whose name equals name, ignoring case
func (s *ListStore) RemoveItem(ctx context.Context, owner, name string) (bool, error) {
	items, err := s.Items(ctx, owner)
	if err != nil {
		return false, err
	}
	idx := indexOf(items, name)
	if idx < 0 {
		return false, nil
	}
	items = append(items[:idx], items[idx+1:]...)
	return true, s.ReplaceItems(ctx, owner, items)
}

// RemoveMatching deletes the exact match for name or, failing that, the first
// entry whose name contains name or is contained in it. It returns the name of
// the removed entry.
func (s *ListStore) RemoveMatching(ctx context.Context, owner, name string) (string, bool, error) {
	items, err := s.Items(ctx, owner)
	if err != nil {
		return "", false, err
	}

	key := models.NameKey(name)
	idx := indexOf(items, key)
	if idx < 0 && key != "" {
		for i, it := range items {
			k := it.Key()
			if strings.Contains(key, k) || strings.Contains(k, key) {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return "", false, nil
	}

	removed := items[idx].Name
	items = append(items[:idx], items[idx+1:]...)
	return removed, true, s.ReplaceItems(ctx, owner, items)
}

// DecrementItem lowers the quantity of name by qty and removes the entry when it
// reaches zero. A negative qty never raises the quantity. It returns the
// remaining quantity.
func (s *ListStore) DecrementItem(ctx context.Context, owner, name string, qty int) (int, bool, error) {
	items, err := s.Items(ctx, owner)
	if err != nil {
		return 0, false, err
	}
	idx := indexOf(items, name)
	if idx < 0 {
		return 0, false, nil
	}

	if qty < 0 {
		qty = 0
	}
	after := models.AddQty(items[idx].Qty, -qty)
	if after <= 0 {
		items = append(items[:idx], items[idx+1:]...)
		after = 0
	} else {
		items[idx].Qty = after
	}
	return after, true, s.ReplaceItems(ctx, owner, items)
}

// SetQty sets the quantity of an existing entry. A missing entry is left absent;
// zero keeps the entry on the list.
func (s *ListStore) SetQty(ctx context.Context, owner, name string, qty int) (bool, error) {
	items, err := s.Items(ctx, owner)
	if err != nil {
		return false, err
	}
	idx := indexOf(items, name)
	if idx < 0 {
		return false, nil
	}
	if qty < 0 {
		qty = 0
	}
	items[idx].Qty = models.ClampQty(qty)
	return true, s.ReplaceItems(ctx, owner, items)
}

// AdjustQty adds delta to the quantity of name, stopping at zero without removing
// the entry. It returns the new quantity.
func (s *ListStore) AdjustQty(ctx context.Context, owner, name string, delta int) (int, bool, error) {
	items, err := s.Items(ctx, owner)
	if err != nil {
		return 0, false, err
	}
	idx := indexOf(items, name)
	if idx < 0 {
		return 0, false, nil
	}
	v := models.AddQty(items[idx].Qty, delta)
	items[idx].Qty = v
	return v, true, s.ReplaceItems(ctx, owner, items)
}

// RenameItem renames from to to and recategorizes it. When to is already on the
// list the two entries are merged.
func (s *ListStore) RenameItem(ctx context.Context, owner, from, to string) (bool, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return false, nil
	}

	items, err := s.Items(ctx, owner)
	if err != nil {
		return false, err
	}
	idx := indexOf(items, from)
	if idx < 0 {
		return false, nil
	}

	if target := indexOf(items, to); target >= 0 && target != idx {
		items[target].Qty = models.AddQty(items[target].Qty, items[idx].Qty)
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Name = to
		items[idx].Category = s.catalog.Categorize(to)
	}
	return true, s.ReplaceItems(ctx, owner, items)
}

// Clear erases the owner's list. A configured archiver receives a copy of a
// non-empty list first; archive failures are logged and do not block the clear.
func (s *ListStore) Clear(ctx context.Context, owner string) error {
	if s.archiver != nil {
		items, err := s.Items(ctx, owner)
		if err != nil {
			return err
		}
		if len(items) > 0 {
			snap, err := s.archiver.Archive(ctx, owner, items)
			if err != nil {
				s.logger.Warn("failed to archive list before clearing",
					zap.String("owner", owner),
					zap.Error(err),
				)
			} else {
				s.logger.Debug("archived list", zap.String("owner", owner), zap.String("key", snap.Key))
			}
		}
	}

	if err := s.kv.Delete(ctx, storageKey(owner, ItemsKey)); err != nil {
		return fmt.Errorf("failed to clear list: %w", err)
	}
	return nil
}

// Render groups items by category, categories sorted by name, each item with its
// quantity label and substitutes.
func (s *ListStore) Render(items []models.ListItem) *models.GroupedList {
	groups := make(map[string]*models.CategoryGroup)
	for _, it := range items {
		cat := it.Category
		if cat == "" {
			cat = s.catalog.Categorize(it.Name)
		}
		g, ok := groups[cat]
		if !ok {
			g = &models.CategoryGroup{Category: cat, Items: []models.GroupedItem{}}
			groups[cat] = g
		}
		g.Items = append(g.Items, models.GroupedItem{
			ListItem:    it,
			Label:       QtyLabel(it.Qty),
			Substitutes: s.catalog.Substitutes(it.Name),
		})
		g.Count++
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := &models.GroupedList{
		Count:      len(items),
		CountLabel: CountLabel(len(items)),
		Categories: make([]models.CategoryGroup, 0, len(names)),
	}
	for _, name := range names {
		out.Categories = append(out.Categories, *groups[name])
	}
	return out
}

// RenderOwner loads and renders the owner's list
func (s *ListStore) RenderOwner(ctx context.Context, owner string) (*models.GroupedList, error) {
	items, err := s.Items(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.Render(items), nil
}

// Recommendations returns the most purchased items not currently on the list,
// most purchased first and then most recent.
func (s *ListStore) Recommendations(ctx context.Context, owner string, limit int) ([]models.Recommendation, error) {
	if limit <= 0 {
		limit = DefaultRecommendations
	}

	items, err := s.Items(ctx, owner)
	if err != nil {
		return nil, err
	}
	h, err := s.History(ctx, owner)
	if err != nil {
		return nil, err
	}

	onList := make(map[string]bool, len(items))
	for _, it := range items {
		onList[it.Key()] = true
	}

	recs := make([]models.Recommendation, 0, len(h.Counts))
	for name, count := range h.Counts {
		if onList[name] || count <= 0 {
			continue
		}
		r := models.Recommendation{Name: name, Count: count, Category: s.catalog.Categorize(name)}
		if ts, ok := h.LastPurchased[name]; ok {
			ts := ts
			r.LastPurchased = &ts
		}
		recs = append(recs, r)
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		at, bt := lastOf(a), lastOf(b)
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return a.Name < b.Name
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func lastOf(r models.Recommendation) time.Time {
	if r.LastPurchased == nil {
		return time.Time{}
	}
	return *r.LastPurchased
}

// QtyLabel formats a quantity for display: "3 pcs", "1 pc", or empty for zero.
func QtyLabel(qty int) string {
	switch {
	case qty <= 0:
		return ""
	case qty == 1:
		return "1 pc"
	default:
		return fmt.Sprintf("%d pcs", qty)
	}
}

// CountLabel formats the number of entries on a list
func CountLabel(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
