package ledger

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
)

// Goal 是某一天的热量与宏量营养目标
type Goal struct {
	Date     string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// DefaultGoal applies to every date without a stored goal.
var DefaultGoal = Goal{Calories: 2000, Protein: 50, Carbs: 250, Fat: 65}

// DefaultGoalFor returns the default goal stamped with date.
func DefaultGoalFor(date string) Goal {
	goal := DefaultGoal
	goal.Date = date
	return goal
}

// ValidateGoal checks a goal before it is stored.
func ValidateGoal(goal Goal) (Goal, error) {
	date, err := NormalizeDate(goal.Date)
	if err != nil {
		return goal, err
	}
	goal.Date = date

	if math.IsNaN(goal.Calories) || math.IsInf(goal.Calories, 0) || goal.Calories <= 0 {
		return goal, fmt.Errorf("%w: calories must be a positive number", ErrValidation)
	}
	if err := checkAmount("protein", goal.Protein); err != nil {
		return goal, err
	}
	if err := checkAmount("carbs", goal.Carbs); err != nil {
		return goal, err
	}
	if err := checkAmount("fat", goal.Fat); err != nil {
		return goal, err
	}
	return goal, nil
}

// GoalTracker caches per-date goals in front of a GoalSyncer.
type GoalTracker struct {
	sync GoalSyncer
	log  *zap.Logger

	mu    sync.Mutex
	goals map[string]Goal
}

// NewGoalTracker builds a tracker persisting through s.
func NewGoalTracker(s GoalSyncer, log *zap.Logger) *GoalTracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &GoalTracker{sync: s, log: log, goals: make(map[string]Goal)}
}

// Get returns the goal for date. It never fails: an unset goal, an invalid
// date or a store failure all yield the default goal.
func (t *GoalTracker) Get(ctx context.Context, date string) Goal {
	date, err := NormalizeDate(date)
	if err != nil {
		return DefaultGoal
	}

	t.mu.Lock()
	if goal, ok := t.goals[date]; ok {
		t.mu.Unlock()
		return goal
	}
	t.mu.Unlock()

	goal, err := t.sync.GetGoal(ctx, date)
	if err != nil {
		t.log.Warn("falling back to default goal", zap.String("date", date), zap.Error(err))
		return DefaultGoalFor(date)
	}
	goal.Date = date
	if goal.Calories <= 0 {
		goal = DefaultGoalFor(date)
	}

	t.mu.Lock()
	t.goals[date] = goal
	t.mu.Unlock()
	return goal
}

// Set validates and stores goal, replacing any goal already set for its date.
func (t *GoalTracker) Set(ctx context.Context, goal Goal) (Goal, error) {
	goal, err := ValidateGoal(goal)
	if err != nil {
		return Goal{}, err
	}

	stored, err := t.sync.SetGoal(ctx, goal)
	if err != nil {
		return Goal{}, err
	}
	stored.Date = goal.Date

	t.mu.Lock()
	t.goals[goal.Date] = stored
	t.mu.Unlock()
	return stored, nil
}

// Forget drops the cached goal for date so the next Get refetches it.
func (t *GoalTracker) Forget(date string) {
	t.mu.Lock()
	delete(t.goals, date)
	t.mu.Unlock()
}

// Status 描述实际摄入相对目标的状态
type Status string

const (
	StatusUnder Status = "under"
	StatusMet   Status = "met"
	StatusOver  Status = "over"
)

// MacroProgress compares one macro against its goal. Percent is capped at 100.
type MacroProgress struct {
	Actual  float64
	Goal    float64
	Percent float64
	Status  Status
}

// Comparison holds per-macro progress for a day.
type Comparison struct {
	Calories MacroProgress
	Protein  MacroProgress
	Carbs    MacroProgress
	Fat      MacroProgress
}

// Compare reports totals against goal. Calories, carbs and fat are ceilings:
// over only when strictly above the goal. Protein is a floor: met at or above.
func Compare(totals Totals, goal Goal) Comparison {
	return Comparison{
		Calories: ceiling(totals.Calories, goal.Calories),
		Protein:  floor(totals.Protein, goal.Protein),
		Carbs:    ceiling(totals.Carbs, goal.Carbs),
		Fat:      ceiling(totals.Fat, goal.Fat),
	}
}

func ceiling(actual, goal float64) MacroProgress {
	status := StatusUnder
	switch {
	case actual > goal:
		status = StatusOver
	case actual == goal:
		status = StatusMet
	}
	return MacroProgress{Actual: actual, Goal: goal, Percent: percent(actual, goal), Status: status}
}

func floor(actual, goal float64) MacroProgress {
	status := StatusUnder
	if actual >= goal {
		status = StatusMet
	}
	return MacroProgress{Actual: actual, Goal: goal, Percent: percent(actual, goal), Status: status}
}

func percent(actual, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(actual/goal*100, 100)
}
