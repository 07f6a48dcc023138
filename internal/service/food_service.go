package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chadbowen248/burnit/internal/db"
	"github.com/Chadbowen248/burnit/internal/ledger"
	"gorm.io/gorm"
)

var (
	// ErrFoodNotFound 在指定条目不存在时返回
	ErrFoodNotFound = errors.New("food not found")
	// ErrFoodInvalid 在条目字段缺失或非法时返回
	ErrFoodInvalid = errors.New("invalid food")
)

// FoodService 负责食物条目的增删改查与按天汇总
type FoodService struct {
	db *gorm.DB
}

// FoodFilter 描述列表过滤条件，空值表示不过滤
type FoodFilter struct {
	Date       string
	MealType   string
	IsFavorite *bool
}

// DailySummary 是某一天的条目数与营养总和
type DailySummary struct {
	Date         string
	EntriesCount int
	Totals       ledger.Totals
}

// NewFoodService 构造 FoodService
func NewFoodService(gdb *gorm.DB) *FoodService {
	return &FoodService{db: gdb}
}

// WithContext 返回绑定到 ctx 的副本
func (s *FoodService) WithContext(ctx context.Context) *FoodService {
	return &FoodService{db: s.db.WithContext(ctx)}
}

// List 返回满足过滤条件的条目，按插入顺序排列
func (s *FoodService) List(filter FoodFilter) ([]db.Food, error) {
	query := s.db.Model(&db.Food{})

	if filter.Date != "" {
		date, err := ledger.NormalizeDate(filter.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFoodInvalid, err)
		}
		query = query.Where("date = ?", date)
	}
	if filter.MealType != "" {
		meal, err := ledger.ParseMealType(filter.MealType)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFoodInvalid, err)
		}
		query = query.Where("meal_type = ?", string(meal))
	}
	if filter.IsFavorite != nil {
		query = query.Where("is_favorite = ?", *filter.IsFavorite)
	}

	var foods []db.Food
	if err := query.Order("id ASC").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	return foods, nil
}

// Get 根据 ID 获取条目
func (s *FoodService) Get(id uint) (*db.Food, error) {
	var food db.Food
	if err := s.db.First(&food, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("get food: %w", err)
	}
	return &food, nil
}

// Create 校验并保存新条目，缺省字段按账本规则补齐
func (s *FoodService) Create(entry ledger.FoodEntry) (*db.Food, error) {
	normalized, err := normalizeFoodEntry(entry)
	if err != nil {
		return nil, err
	}

	food := entryToFood(normalized)
	food.ID = 0
	if err := s.db.Create(&food).Error; err != nil {
		return nil, fmt.Errorf("create food: %w", err)
	}
	return &food, nil
}

// Update 合并部分更新，未提供的字段保留原值
func (s *FoodService) Update(id uint, patch ledger.EntryPatch) (*db.Food, error) {
	var existing db.Food
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("find food: %w", err)
	}

	merged, err := normalizeFoodEntry(patch.Apply(FoodToEntry(existing)))
	if err != nil {
		return nil, err
	}

	updated := entryToFood(merged)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.db.Save(&updated).Error; err != nil {
		return nil, fmt.Errorf("update food: %w", err)
	}
	return &updated, nil
}

// Delete 删除条目
func (s *FoodService) Delete(id uint) error {
	result := s.db.Delete(&db.Food{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete food: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFoodNotFound
	}
	return nil
}

// DeleteDay 删除某一天的全部条目并返回删除数量
func (s *FoodService) DeleteDay(date string) (int64, error) {
	date, err := ledger.NormalizeDate(date)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFoodInvalid, err)
	}

	result := s.db.Where("date = ?", date).Delete(&db.Food{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete day: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Summary 汇总某一天的条目，没有记录时返回全零
func (s *FoodService) Summary(date string) (DailySummary, error) {
	date, err := ledger.NormalizeDate(date)
	if err != nil {
		return DailySummary{}, fmt.Errorf("%w: %w", ErrFoodInvalid, err)
	}

	foods, err := s.List(FoodFilter{Date: date})
	if err != nil {
		return DailySummary{}, err
	}

	entries := make([]ledger.FoodEntry, 0, len(foods))
	for _, food := range foods {
		entries = append(entries, FoodToEntry(food))
	}

	return DailySummary{
		Date:         date,
		EntriesCount: len(entries),
		Totals:       ledger.Sum(entries),
	}, nil
}

func normalizeFoodEntry(entry ledger.FoodEntry) (ledger.FoodEntry, error) {
	entry.Name = cleanText(entry.Name)
	entry.Unit = cleanText(entry.Unit)

	normalized, err := ledger.Normalize(entry)
	if err != nil {
		return entry, fmt.Errorf("%w: %w", ErrFoodInvalid, err)
	}
	return normalized, nil
}
