package service

import (
	"errors"
	"testing"

	"github.com/Chadbowen248/burnit/internal/db"
	"github.com/Chadbowen248/burnit/internal/ledger"
)

func TestGoalServiceDefaultsWhenUnset(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGoalService(gdb)
	goal, isDefault, err := svc.Get("2024-01-01")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !isDefault {
		t.Fatal("expected default goal")
	}
	if goal != ledger.DefaultGoalFor("2024-01-01") {
		t.Fatalf("unexpected default goal: %+v", goal)
	}
}

func TestGoalServiceSetUpsertsByDate(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGoalService(gdb)
	if _, err := svc.Set(ledger.Goal{Date: "2024-01-01", Calories: 1800, Protein: 150}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if _, err := svc.Set(ledger.Goal{Date: "2024-01-01", Calories: 2200, Protein: 160, Carbs: 220, Fat: 70}); err != nil {
		t.Fatalf("second Set returned error: %v", err)
	}
	if _, err := svc.Set(ledger.Goal{Date: "2024-01-03", Calories: 2500}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	var count int64
	if err := gdb.Model(&db.DailyGoal{}).Where("date = ?", "2024-01-01").Count(&count).Error; err != nil {
		t.Fatalf("count goals: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one goal per date, got %d", count)
	}

	goal, isDefault, err := svc.Get("2024-01-01")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if isDefault || goal.Calories != 2200 || goal.Protein != 160 || goal.Carbs != 220 || goal.Fat != 70 {
		t.Fatalf("unexpected goal after upsert: %+v default=%v", goal, isDefault)
	}

	goals, err := svc.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(goals) != 2 || goals[0].Date != "2024-01-03" {
		t.Fatalf("expected goals ordered by date desc, got %+v", goals)
	}
}

func TestGoalServiceSetValidation(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGoalService(gdb)
	for _, goal := range []ledger.Goal{
		{Date: "2024-01-01"},
		{Date: "2024-01-01", Calories: 2000, Fat: -1},
		{Date: "01-01-2024", Calories: 2000},
	} {
		if _, err := svc.Set(goal); !errors.Is(err, ErrGoalInvalid) {
			t.Fatalf("expected ErrGoalInvalid for %+v, got %v", goal, err)
		}
	}
	if _, _, err := svc.Get("soon"); !errors.Is(err, ErrGoalInvalid) {
		t.Fatalf("expected ErrGoalInvalid for bad date, got %v", err)
	}
}
