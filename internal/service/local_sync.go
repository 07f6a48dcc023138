package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"gorm.io/gorm"
)

// LocalSync 在进程内把账本的同步请求落到数据库服务上
type LocalSync struct {
	foods     *FoodService
	goals     *GoalService
	favorites *FavoriteService
}

// NewLocalSync 基于同一个数据库连接构造同步适配器
func NewLocalSync(gdb *gorm.DB) *LocalSync {
	return &LocalSync{
		foods:     NewFoodService(gdb),
		goals:     NewGoalService(gdb),
		favorites: NewFavoriteService(gdb),
	}
}

var _ ledger.Syncer = (*LocalSync)(nil)

func (l *LocalSync) CreateEntry(ctx context.Context, entry ledger.FoodEntry) (ledger.FoodEntry, error) {
	food, err := l.foods.WithContext(ctx).Create(entry)
	if err != nil {
		return ledger.FoodEntry{}, mapStoreError(err)
	}
	return FoodToEntry(*food), nil
}

func (l *LocalSync) UpdateEntry(ctx context.Context, id uint, patch ledger.EntryPatch) (ledger.FoodEntry, error) {
	food, err := l.foods.WithContext(ctx).Update(id, patch)
	if err != nil {
		return ledger.FoodEntry{}, mapStoreError(err)
	}
	return FoodToEntry(*food), nil
}

func (l *LocalSync) DeleteEntry(ctx context.Context, id uint) error {
	return mapStoreError(l.foods.WithContext(ctx).Delete(id))
}

func (l *LocalSync) DeleteDay(ctx context.Context, date string) error {
	_, err := l.foods.WithContext(ctx).DeleteDay(date)
	return mapStoreError(err)
}

func (l *LocalSync) ListEntries(ctx context.Context, date string, filter ledger.EntryFilter) ([]ledger.FoodEntry, error) {
	foods, err := l.foods.WithContext(ctx).List(FoodFilter{
		Date:       date,
		MealType:   string(filter.MealType),
		IsFavorite: filter.IsFavorite,
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	entries := make([]ledger.FoodEntry, 0, len(foods))
	for _, food := range foods {
		entries = append(entries, FoodToEntry(food))
	}
	return entries, nil
}

func (l *LocalSync) GetGoal(ctx context.Context, date string) (ledger.Goal, error) {
	goal, _, err := l.goals.WithContext(ctx).Get(date)
	if err != nil {
		return ledger.Goal{}, mapStoreError(err)
	}
	return goal, nil
}

func (l *LocalSync) SetGoal(ctx context.Context, goal ledger.Goal) (ledger.Goal, error) {
	stored, err := l.goals.WithContext(ctx).Set(goal)
	if err != nil {
		return ledger.Goal{}, mapStoreError(err)
	}
	return stored, nil
}

func (l *LocalSync) ListFavorites(ctx context.Context) ([]ledger.FavoriteFood, error) {
	records, err := l.favorites.WithContext(ctx).List()
	if err != nil {
		return nil, mapStoreError(err)
	}

	favorites := make([]ledger.FavoriteFood, 0, len(records))
	for _, record := range records {
		favorites = append(favorites, FavoriteToLedger(record))
	}
	return favorites, nil
}

func (l *LocalSync) CreateFavorite(ctx context.Context, food ledger.FavoriteFood) (ledger.FavoriteFood, error) {
	record, _, err := l.favorites.WithContext(ctx).Create(food)
	if err != nil {
		return ledger.FavoriteFood{}, mapStoreError(err)
	}
	return FavoriteToLedger(*record), nil
}

func (l *LocalSync) DeleteFavorite(ctx context.Context, id uint) error {
	return mapStoreError(l.favorites.WithContext(ctx).Delete(id))
}

// mapStoreError 将服务层错误映射到同步适配器的错误分类
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrFoodNotFound), errors.Is(err, ErrFavoriteNotFound):
		return fmt.Errorf("%w: %v", ledger.ErrNotFound, err)
	case errors.Is(err, ErrFoodInvalid), errors.Is(err, ErrGoalInvalid), errors.Is(err, ErrFavoriteInvalid):
		return fmt.Errorf("%w: %v", ledger.ErrValidation, err)
	default:
		return fmt.Errorf("%w: %v", ledger.ErrServer, err)
	}
}
