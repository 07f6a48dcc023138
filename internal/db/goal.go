package db

import "time"

// DailyGoal 保存某一天的营养目标，每个日期最多一条
type DailyGoal struct {
	ID        uint    `gorm:"primaryKey"`
	Date      string  `gorm:"size:10;uniqueIndex;not null"`
	Calories  float64 `gorm:"not null"`
	Protein   float64
	Carbs     float64
	Fat       float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 自定义表名以保持命名一致。
func (DailyGoal) TableName() string {
	return "daily_goals"
}
