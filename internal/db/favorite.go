package db

import "time"

// FavoriteFood 是用户收藏的食物模板，NameKey 为小写名称用于去重
type FavoriteFood struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	NameKey   string `gorm:"size:200;uniqueIndex;not null"`
	Calories  float64
	Protein   float64
	Carbs     float64
	Fat       float64
	Quantity  float64
	Unit      string `gorm:"size:50"`
	MealType  string `gorm:"size:20"`
	USDAID    string `gorm:"column:usda_id;size:50"`
	CreatedAt time.Time
}

// TableName 自定义表名以保持命名一致。
func (FavoriteFood) TableName() string {
	return "favorite_foods"
}
