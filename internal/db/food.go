package db

import "time"

// Food 是某一天记录的一条食物摄入
// 采用硬删除：重置某天或删除条目后记录不再保留
type Food struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"size:200;not null"`
	Calories   float64 `gorm:"not null"`
	Protein    float64
	Carbs      float64
	Fat        float64
	Quantity   float64
	Unit       string `gorm:"size:50"`
	Date       string `gorm:"size:10;index;not null"`
	MealType   string `gorm:"size:20;index"`
	IsFavorite bool   `gorm:"index"`
	USDAID     string `gorm:"column:usda_id;size:50"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName 与原有部署保持一致。
func (Food) TableName() string {
	return "foods"
}
