package ledger

import "context"

// EntryFilter narrows ListEntries beyond the date.
type EntryFilter struct {
	MealType   MealType
	IsFavorite *bool
}

// EntrySyncer persists food entries. Implementations must report a definite
// outcome for every call (success or one of the Err* sentinels) so the ledger
// can settle optimistic state. CreateEntry and UpdateEntry return the entry
// as stored.
type EntrySyncer interface {
	CreateEntry(ctx context.Context, entry FoodEntry) (FoodEntry, error)
	UpdateEntry(ctx context.Context, id uint, patch EntryPatch) (FoodEntry, error)
	DeleteEntry(ctx context.Context, id uint) error
	DeleteDay(ctx context.Context, date string) error
	ListEntries(ctx context.Context, date string, filter EntryFilter) ([]FoodEntry, error)
}

// GoalSyncer persists per-date goals.
type GoalSyncer interface {
	GetGoal(ctx context.Context, date string) (Goal, error)
	SetGoal(ctx context.Context, goal Goal) (Goal, error)
}

// FavoriteSyncer persists user favorites.
type FavoriteSyncer interface {
	ListFavorites(ctx context.Context) ([]FavoriteFood, error)
	CreateFavorite(ctx context.Context, food FavoriteFood) (FavoriteFood, error)
	DeleteFavorite(ctx context.Context, id uint) error
}

// Syncer is the full Sync Adapter contract.
type Syncer interface {
	EntrySyncer
	GoalSyncer
	FavoriteSyncer
}
