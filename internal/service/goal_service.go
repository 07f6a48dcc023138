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

// ErrGoalInvalid 在目标字段缺失或非法时返回
var ErrGoalInvalid = errors.New("invalid goal")

// GoalService 负责每日营养目标的读取与覆盖写入
type GoalService struct {
	db *gorm.DB
}

// NewGoalService 构造 GoalService
func NewGoalService(gdb *gorm.DB) *GoalService {
	return &GoalService{db: gdb}
}

// WithContext 返回绑定到 ctx 的副本
func (s *GoalService) WithContext(ctx context.Context) *GoalService {
	return &GoalService{db: s.db.WithContext(ctx)}
}

// List 按日期倒序返回所有已设置的目标
func (s *GoalService) List() ([]ledger.Goal, error) {
	var records []db.DailyGoal
	if err := s.db.Order("date DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	goals := make([]ledger.Goal, 0, len(records))
	for _, record := range records {
		goals = append(goals, goalFromRecord(record))
	}
	return goals, nil
}

// Get 返回某天的目标；未设置时返回默认目标，第二个返回值标记是否为默认
func (s *GoalService) Get(date string) (ledger.Goal, bool, error) {
	date, err := ledger.NormalizeDate(date)
	if err != nil {
		return ledger.Goal{}, false, fmt.Errorf("%w: %w", ErrGoalInvalid, err)
	}

	var record db.DailyGoal
	if err := s.db.Where("date = ?", date).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ledger.DefaultGoalFor(date), true, nil
		}
		return ledger.Goal{}, false, fmt.Errorf("get goal: %w", err)
	}
	return goalFromRecord(record), false, nil
}

// Set 校验目标并按日期覆盖写入
func (s *GoalService) Set(goal ledger.Goal) (ledger.Goal, error) {
	goal, err := ledger.ValidateGoal(goal)
	if err != nil {
		return ledger.Goal{}, fmt.Errorf("%w: %w", ErrGoalInvalid, err)
	}

	record := db.DailyGoal{
		Date:     goal.Date,
		Calories: goal.Calories,
		Protein:  goal.Protein,
		Carbs:    goal.Carbs,
		Fat:      goal.Fat,
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"calories", "protein", "carbs", "fat", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return ledger.Goal{}, fmt.Errorf("set goal: %w", err)
	}
	return goal, nil
}
