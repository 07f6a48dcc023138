package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Chadbowen248/burnit/internal/db"
	"github.com/Chadbowen248/burnit/internal/ledger"
	"gorm.io/gorm"
)

// BackupVersion 是当前导出文件的格式版本
const BackupVersion = 1

// ErrBackupInvalid 在导入文件格式或内容非法时返回
var ErrBackupInvalid = errors.New("invalid backup")

// Backup 是完整的数据快照，导入时整体替换现有数据
type Backup struct {
	Version    int              `json:"version"`
	ExportDate string           `json:"exportDate"`
	Foods      []BackupFood     `json:"foods"`
	Goals      []BackupGoal     `json:"goals"`
	Favorites  []BackupFavorite `json:"favorites"`
}

// BackupFood 是导出文件中的一条食物记录
type BackupFood struct {
	Name       string  `json:"name"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Date       string  `json:"date"`
	MealType   string  `json:"meal_type"`
	IsFavorite bool    `json:"is_favorite"`
	USDAID     string  `json:"usda_id,omitempty"`
}

// BackupGoal 是导出文件中的一条每日目标
type BackupGoal struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// BackupFavorite 是导出文件中的一条收藏
type BackupFavorite struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	MealType string  `json:"meal_type"`
	USDAID   string  `json:"usda_id,omitempty"`
}

// ImportStats 统计一次导入写入的记录数
type ImportStats struct {
	Foods     int `json:"foods"`
	Goals     int `json:"goals"`
	Favorites int `json:"favorites"`
}

// BackupService 负责全量导出与导入
type BackupService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBackupService 构造 BackupService
func NewBackupService(gdb *gorm.DB) *BackupService {
	return &BackupService{db: gdb, now: time.Now}
}

// Export 读取全部条目、目标与收藏
func (s *BackupService) Export(ctx context.Context) (Backup, error) {
	gdb := s.db.WithContext(ctx)

	var foods []db.Food
	if err := gdb.Order("date ASC").Order("id ASC").Find(&foods).Error; err != nil {
		return Backup{}, fmt.Errorf("export foods: %w", err)
	}
	var goals []db.DailyGoal
	if err := gdb.Order("date ASC").Find(&goals).Error; err != nil {
		return Backup{}, fmt.Errorf("export goals: %w", err)
	}
	var favorites []db.FavoriteFood
	if err := gdb.Order("name_key ASC").Find(&favorites).Error; err != nil {
		return Backup{}, fmt.Errorf("export favorites: %w", err)
	}

	backup := Backup{
		Version:    BackupVersion,
		ExportDate: s.now().UTC().Format(time.RFC3339),
		Foods:      make([]BackupFood, 0, len(foods)),
		Goals:      make([]BackupGoal, 0, len(goals)),
		Favorites:  make([]BackupFavorite, 0, len(favorites)),
	}
	for _, food := range foods {
		backup.Foods = append(backup.Foods, BackupFood{
			Name:       food.Name,
			Calories:   food.Calories,
			Protein:    food.Protein,
			Carbs:      food.Carbs,
			Fat:        food.Fat,
			Quantity:   food.Quantity,
			Unit:       food.Unit,
			Date:       food.Date,
			MealType:   food.MealType,
			IsFavorite: food.IsFavorite,
			USDAID:     food.USDAID,
		})
	}
	for _, goal := range goals {
		backup.Goals = append(backup.Goals, BackupGoal{
			Date:     goal.Date,
			Calories: goal.Calories,
			Protein:  goal.Protein,
			Carbs:    goal.Carbs,
			Fat:      goal.Fat,
		})
	}
	for _, fav := range favorites {
		backup.Favorites = append(backup.Favorites, BackupFavorite{
			Name:     fav.Name,
			Calories: fav.Calories,
			Protein:  fav.Protein,
			Carbs:    fav.Carbs,
			Fat:      fav.Fat,
			Quantity: fav.Quantity,
			Unit:     fav.Unit,
			MealType: fav.MealType,
			USDAID:   fav.USDAID,
		})
	}
	return backup, nil
}

// Import 校验整份备份后在单个事务中替换全部数据，任何一条非法都不会写入
func (s *BackupService) Import(ctx context.Context, backup Backup) (ImportStats, error) {
	if backup.Version > BackupVersion {
		return ImportStats{}, fmt.Errorf("%w: unsupported version %d", ErrBackupInvalid, backup.Version)
	}

	foods := make([]db.Food, 0, len(backup.Foods))
	for i, item := range backup.Foods {
		entry, err := normalizeFoodEntry(ledger.FoodEntry{
			Name:       item.Name,
			Calories:   item.Calories,
			Protein:    item.Protein,
			Carbs:      item.Carbs,
			Fat:        item.Fat,
			Quantity:   item.Quantity,
			Unit:       item.Unit,
			Date:       item.Date,
			MealType:   ledger.MealType(item.MealType),
			IsFavorite: item.IsFavorite,
			SourceID:   item.USDAID,
		})
		if err != nil {
			return ImportStats{}, fmt.Errorf("%w: food #%d: %v", ErrBackupInvalid, i+1, err)
		}
		foods = append(foods, entryToFood(entry))
	}

	goals := make([]db.DailyGoal, 0, len(backup.Goals))
	seenDates := make(map[string]int, len(backup.Goals))
	for i, item := range backup.Goals {
		goal, err := ledger.ValidateGoal(ledger.Goal(item))
		if err != nil {
			return ImportStats{}, fmt.Errorf("%w: goal #%d: %v", ErrBackupInvalid, i+1, err)
		}
		record := db.DailyGoal{Date: goal.Date, Calories: goal.Calories, Protein: goal.Protein, Carbs: goal.Carbs, Fat: goal.Fat}
		// 同一日期出现多次时以最后一条为准
		if idx, ok := seenDates[goal.Date]; ok {
			goals[idx] = record
			continue
		}
		seenDates[goal.Date] = len(goals)
		goals = append(goals, record)
	}

	favorites := make([]db.FavoriteFood, 0, len(backup.Favorites))
	seenNames := make(map[string]struct{}, len(backup.Favorites))
	for i, item := range backup.Favorites {
		fav, err := ledger.NormalizeFavorite(ledger.FavoriteFood{
			Name:     cleanText(item.Name),
			Calories: item.Calories,
			Protein:  item.Protein,
			Carbs:    item.Carbs,
			Fat:      item.Fat,
			Quantity: item.Quantity,
			Unit:     cleanText(item.Unit),
			MealType: ledger.MealType(item.MealType),
			SourceID: item.USDAID,
		})
		if err != nil {
			return ImportStats{}, fmt.Errorf("%w: favorite #%d: %v", ErrBackupInvalid, i+1, err)
		}
		key := ledger.NameKey(fav.Name)
		if _, dup := seenNames[key]; dup {
			continue
		}
		seenNames[key] = struct{}{}
		favorites = append(favorites, db.FavoriteFood{
			Name:     fav.Name,
			NameKey:  key,
			Calories: fav.Calories,
			Protein:  fav.Protein,
			Carbs:    fav.Carbs,
			Fat:      fav.Fat,
			Quantity: fav.Quantity,
			Unit:     fav.Unit,
			MealType: string(fav.MealType),
			USDAID:   fav.SourceID,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&db.Food{}, &db.DailyGoal{}, &db.FavoriteFood{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		if len(foods) > 0 {
			if err := tx.CreateInBatches(&foods, 200).Error; err != nil {
				return fmt.Errorf("import foods: %w", err)
			}
		}
		if len(goals) > 0 {
			if err := tx.CreateInBatches(&goals, 200).Error; err != nil {
				return fmt.Errorf("import goals: %w", err)
			}
		}
		if len(favorites) > 0 {
			if err := tx.CreateInBatches(&favorites, 200).Error; err != nil {
				return fmt.Errorf("import favorites: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}

	return ImportStats{Foods: len(foods), Goals: len(goals), Favorites: len(favorites)}, nil
}
