package service

import (
	"github.com/Chadbowen248/burnit/internal/db"
	"github.com/Chadbowen248/burnit/internal/ledger"
)

// FoodToEntry 将数据库记录转换为账本条目
func FoodToEntry(food db.Food) ledger.FoodEntry {
	return ledger.FoodEntry{
		Ref:        ledger.Persisted(food.ID),
		Name:       food.Name,
		Calories:   food.Calories,
		Protein:    food.Protein,
		Carbs:      food.Carbs,
		Fat:        food.Fat,
		Quantity:   food.Quantity,
		Unit:       food.Unit,
		Date:       food.Date,
		MealType:   ledger.MealType(food.MealType),
		IsFavorite: food.IsFavorite,
		SourceID:   food.USDAID,
	}
}

func entryToFood(entry ledger.FoodEntry) db.Food {
	food := db.Food{
		Name:       entry.Name,
		Calories:   entry.Calories,
		Protein:    entry.Protein,
		Carbs:      entry.Carbs,
		Fat:        entry.Fat,
		Quantity:   entry.Quantity,
		Unit:       entry.Unit,
		Date:       entry.Date,
		MealType:   string(entry.MealType),
		IsFavorite: entry.IsFavorite,
		USDAID:     entry.SourceID,
	}
	if id, ok := entry.Ref.ID(); ok {
		food.ID = id
	}
	return food
}

// FavoriteToLedger 将收藏记录转换为账本中的模板
func FavoriteToLedger(fav db.FavoriteFood) ledger.FavoriteFood {
	return ledger.FavoriteFood{
		ID:       fav.ID,
		Name:     fav.Name,
		Calories: fav.Calories,
		Protein:  fav.Protein,
		Carbs:    fav.Carbs,
		Fat:      fav.Fat,
		Quantity: fav.Quantity,
		Unit:     fav.Unit,
		MealType: ledger.MealType(fav.MealType),
		SourceID: fav.USDAID,
	}
}

func goalFromRecord(record db.DailyGoal) ledger.Goal {
	return ledger.Goal{
		Date:     record.Date,
		Calories: record.Calories,
		Protein:  record.Protein,
		Carbs:    record.Carbs,
		Fat:      record.Fat,
	}
}
