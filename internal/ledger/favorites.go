package ledger

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// FavoriteFood 是不绑定日期的可复用食物模板
type FavoriteFood struct {
	ID       uint
	Name     string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Quantity float64
	Unit     string
	MealType MealType
	SourceID string
	Preset   bool
}

// templateDate stands in for the date while a template is validated.
const templateDate = "2000-01-01"

// NameKey is the deduplication key of a favorite.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeFavorite fills defaults and validates a favorite.
func NormalizeFavorite(food FavoriteFood) (FavoriteFood, error) {
	entry, err := Normalize(food.Entry(templateDate))
	if err != nil {
		return food, err
	}
	normalized := FavoriteFromEntry(entry)
	normalized.ID = food.ID
	normalized.Preset = food.Preset
	return normalized, nil
}

// FavoriteFromEntry turns a logged entry into a template.
func FavoriteFromEntry(entry FoodEntry) FavoriteFood {
	return FavoriteFood{
		Name:     entry.Name,
		Calories: entry.Calories,
		Protein:  entry.Protein,
		Carbs:    entry.Carbs,
		Fat:      entry.Fat,
		Quantity: entry.Quantity,
		Unit:     entry.Unit,
		MealType: entry.MealType,
		SourceID: entry.SourceID,
	}
}

// Entry instantiates the template for date.
func (f FavoriteFood) Entry(date string) FoodEntry {
	return FoodEntry{
		Name:       f.Name,
		Calories:   f.Calories,
		Protein:    f.Protein,
		Carbs:      f.Carbs,
		Fat:        f.Fat,
		Quantity:   f.Quantity,
		Unit:       f.Unit,
		Date:       date,
		MealType:   f.MealType,
		IsFavorite: true,
		SourceID:   f.SourceID,
	}
}

// Favorites is the deduplicated registry of user favorites, listed together
// with built-in presets. Presets are read-only.
type Favorites struct {
	sync    FavoriteSyncer
	presets []FavoriteFood

	mu       sync.Mutex
	items    []FavoriteFood
	inflight map[string]struct{}
}

// NewFavorites builds a registry persisting through s.
func NewFavorites(s FavoriteSyncer, presets []FavoriteFood) *Favorites {
	marked := make([]FavoriteFood, 0, len(presets))
	for _, preset := range presets {
		preset.ID = 0
		preset.Preset = true
		marked = append(marked, preset)
	}
	return &Favorites{sync: s, presets: marked, inflight: make(map[string]struct{})}
}

// Load replaces the user favorites with the store's listing.
func (f *Favorites) Load(ctx context.Context) error {
	items, err := f.sync.ListFavorites(ctx)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}

	fresh := make([]FavoriteFood, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := NameKey(item.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		item.Preset = false
		fresh = append(fresh, item)
	}

	f.mu.Lock()
	f.items = fresh
	f.mu.Unlock()
	return nil
}

// Add stores food unless a favorite (user or preset) already carries the same
// case-insensitive name. The bool reports whether anything was added; on a
// duplicate the existing favorite is returned.
func (f *Favorites) Add(ctx context.Context, food FavoriteFood) (FavoriteFood, bool, error) {
	food, err := NormalizeFavorite(food)
	if err != nil {
		return FavoriteFood{}, false, err
	}
	food.ID = 0
	food.Preset = false
	key := NameKey(food.Name)

	f.mu.Lock()
	if existing, ok := f.findLocked(key); ok {
		f.mu.Unlock()
		return existing, false, nil
	}
	if _, busy := f.inflight[key]; busy {
		f.mu.Unlock()
		return FavoriteFood{}, false, fmt.Errorf("%w: favorite %q", ErrBusy, food.Name)
	}
	f.inflight[key] = struct{}{}
	f.mu.Unlock()

	created, err := f.sync.CreateFavorite(ctx, food)

	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.inflight, key)
	if err != nil {
		return FavoriteFood{}, false, err
	}
	created.Preset = false
	if existing, ok := f.findLocked(NameKey(created.Name)); ok {
		return existing, false, nil
	}
	f.items = append(f.items, created)
	return created, true, nil
}

// Remove deletes the user favorite with id. Unknown ids are a no-op.
func (f *Favorites) Remove(ctx context.Context, id uint) error {
	if id == 0 {
		return nil
	}

	f.mu.Lock()
	found := slices.ContainsFunc(f.items, func(item FavoriteFood) bool { return item.ID == id })
	f.mu.Unlock()
	if !found {
		return nil
	}

	if err := f.sync.DeleteFavorite(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	f.mu.Lock()
	f.items = slices.DeleteFunc(f.items, func(item FavoriteFood) bool { return item.ID == id })
	f.mu.Unlock()
	return nil
}

// Find looks a favorite up by case-insensitive name.
func (f *Favorites) Find(name string) (FavoriteFood, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findLocked(NameKey(name))
}

func (f *Favorites) findLocked(key string) (FavoriteFood, bool) {
	for _, item := range f.items {
		if NameKey(item.Name) == key {
			return item, true
		}
	}
	for _, preset := range f.presets {
		if NameKey(preset.Name) == key {
			return preset, true
		}
	}
	return FavoriteFood{}, false
}

// List returns user favorites and presets sorted by name.
func (f *Favorites) List() []FavoriteFood {
	f.mu.Lock()
	merged := make([]FavoriteFood, 0, len(f.items)+len(f.presets))
	merged = append(merged, f.items...)
	merged = append(merged, f.presets...)
	f.mu.Unlock()

	slices.SortStableFunc(merged, func(a, b FavoriteFood) int {
		if diff := cmp.Compare(NameKey(a.Name), NameKey(b.Name)); diff != 0 {
			return diff
		}
		if a.Preset != b.Preset {
			if a.Preset {
				return 1
			}
			return -1
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return merged
}
