package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chadbowen248/burnit/internal/db"
	"github.com/Chadbowen248/burnit/internal/ledger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrFavoriteNotFound 在收藏不存在时返回
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrFavoriteInvalid 在收藏字段非法时返回
	ErrFavoriteInvalid = errors.New("invalid favorite")
)

// FavoriteService 管理用户收藏的食物模板，名称大小写不敏感去重
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService 构造 FavoriteService
func NewFavoriteService(gdb *gorm.DB) *FavoriteService {
	return &FavoriteService{db: gdb}
}

// WithContext 返回绑定到 ctx 的副本
func (s *FavoriteService) WithContext(ctx context.Context) *FavoriteService {
	return &FavoriteService{db: s.db.WithContext(ctx)}
}

// List 按名称返回全部收藏
func (s *FavoriteService) List() ([]db.FavoriteFood, error) {
	var favorites []db.FavoriteFood
	if err := s.db.Order("name_key ASC").Order("id ASC").Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// Create 保存收藏；同名收藏已存在时返回已有记录且 created 为 false
func (s *FavoriteService) Create(food ledger.FavoriteFood) (*db.FavoriteFood, bool, error) {
	food.Name = cleanText(food.Name)
	food.Unit = cleanText(food.Unit)
	normalized, err := ledger.NormalizeFavorite(food)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrFavoriteInvalid, err)
	}

	record := db.FavoriteFood{
		Name:     normalized.Name,
		NameKey:  ledger.NameKey(normalized.Name),
		Calories: normalized.Calories,
		Protein:  normalized.Protein,
		Carbs:    normalized.Carbs,
		Fat:      normalized.Fat,
		Quantity: normalized.Quantity,
		Unit:     normalized.Unit,
		MealType: string(normalized.MealType),
		USDAID:   normalized.SourceID,
	}

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name_key"}},
		DoNothing: true,
	}).Create(&record)
	if result.Error != nil {
		return nil, false, fmt.Errorf("create favorite: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return &record, true, nil
	}

	var existing db.FavoriteFood
	if err := s.db.Where("name_key = ?", record.NameKey).First(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("find favorite: %w", err)
	}
	return &existing, false, nil
}

// Delete 删除收藏
func (s *FavoriteService) Delete(id uint) error {
	result := s.db.Delete(&db.FavoriteFood{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}
