package service

import (
	"errors"
	"testing"

	"github.com/Chadbowen248/burnit/internal/db"
	"github.com/Chadbowen248/burnit/internal/ledger"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	gdb, err := db.Open(db.Options{Driver: db.DriverMemory, Name: t.Name(), Silent: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	return gdb, func() {
		db.Close(gdb)
	}
}

func ptr[T any](v T) *T { return &v }

func TestFoodServiceCreateAppliesDefaults(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewFoodService(gdb)
	food, err := svc.Create(ledger.FoodEntry{Name: " <b>Egg</b> ", Calories: 70, Protein: 6, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if food.ID == 0 {
		t.Fatal("expected food to have ID")
	}
	if food.Name != "Egg" {
		t.Fatalf("expected markup to be stripped, got %q", food.Name)
	}
	if food.Quantity != 1 || food.Unit != "serving" || food.MealType != "snack" || food.IsFavorite {
		t.Fatalf("defaults not applied: %+v", food)
	}
}

func TestFoodServiceCreateValidation(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewFoodService(gdb)
	invalid := []ledger.FoodEntry{
		{Name: "", Calories: 10, Date: "2024-01-01"},
		{Name: "<script>alert(1)</script>", Calories: 10, Date: "2024-01-01"},
		{Name: "x", Calories: -5, Date: "2024-01-01"},
		{Name: "x", Calories: 5},
		{Name: "x", Calories: 5, Date: "2024-01-01", MealType: "brunch"},
	}
	for _, entry := range invalid {
		_, err := svc.Create(entry)
		if !errors.Is(err, ErrFoodInvalid) || !errors.Is(err, ledger.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", entry, err)
		}
	}

	foods, err := svc.List(FoodFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(foods) != 0 {
		t.Fatalf("invalid foods must not be stored, got %d", len(foods))
	}
}

func TestFoodServiceListFilters(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewFoodService(gdb)
	seed := []ledger.FoodEntry{
		{Name: "Oats", Calories: 150, Date: "2024-01-01", MealType: ledger.MealBreakfast},
		{Name: "Salad", Calories: 200, Date: "2024-01-01", MealType: ledger.MealLunch, IsFavorite: true},
		{Name: "Steak", Calories: 600, Date: "2024-01-02", MealType: ledger.MealDinner},
	}
	for _, entry := range seed {
		if _, err := svc.Create(entry); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	byDate, err := svc.List(FoodFilter{Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(byDate) != 2 || byDate[0].Name != "Oats" || byDate[1].Name != "Salad" {
		t.Fatalf("unexpected foods for date: %+v", byDate)
	}

	favorites, err := svc.List(FoodFilter{IsFavorite: ptr(true)})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(favorites) != 1 || favorites[0].Name != "Salad" {
		t.Fatalf("unexpected favorite filter result: %+v", favorites)
	}

	dinners, err := svc.List(FoodFilter{MealType: "Dinner"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(dinners) != 1 || dinners[0].Name != "Steak" {
		t.Fatalf("unexpected meal filter result: %+v", dinners)
	}

	if _, err := svc.List(FoodFilter{Date: "yesterday"}); !errors.Is(err, ErrFoodInvalid) {
		t.Fatalf("expected ErrFoodInvalid for bad date, got %v", err)
	}
}

func TestFoodServiceUpdateMergesPatch(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewFoodService(gdb)
	food, err := svc.Create(ledger.FoodEntry{Name: "Chicken", Calories: 300, Protein: 40, Fat: 9, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update(food.ID, ledger.EntryPatch{Name: ptr("Grilled chicken")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Grilled chicken" || updated.Calories != 300 || updated.Protein != 40 || updated.Fat != 9 {
		t.Fatalf("unexpected merge result: %+v", updated)
	}

	stored, err := svc.Get(food.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.Name != "Grilled chicken" || stored.Protein != 40 {
		t.Fatalf("update not persisted: %+v", stored)
	}

	if _, err := svc.Update(food.ID, ledger.EntryPatch{Calories: ptr(-1.0)}); !errors.Is(err, ErrFoodInvalid) {
		t.Fatalf("expected ErrFoodInvalid, got %v", err)
	}
	if _, err := svc.Update(9999, ledger.EntryPatch{Name: ptr("x")}); !errors.Is(err, ErrFoodNotFound) {
		t.Fatalf("expected ErrFoodNotFound, got %v", err)
	}
}

func TestFoodServiceDelete(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewFoodService(gdb)
	food, err := svc.Create(ledger.FoodEntry{Name: "Toast", Calories: 120, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(food.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(food.ID); !errors.Is(err, ErrFoodNotFound) {
		t.Fatalf("expected ErrFoodNotFound on second delete, got %v", err)
	}
	if _, err := svc.Get(food.ID); !errors.Is(err, ErrFoodNotFound) {
		t.Fatalf("expected ErrFoodNotFound, got %v", err)
	}
}

func TestFoodServiceDeleteDayAndSummary(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewFoodService(gdb)
	for _, entry := range []ledger.FoodEntry{
		{Name: "Egg", Calories: 70, Protein: 6, Date: "2024-01-01"},
		{Name: "Toast", Calories: 120, Carbs: 20, Date: "2024-01-01"},
		{Name: "Rice", Calories: 200, Date: "2024-01-02"},
	} {
		if _, err := svc.Create(entry); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	summary, err := svc.Summary("2024-01-01")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.EntriesCount != 2 || summary.Totals != (ledger.Totals{Calories: 190, Protein: 6, Carbs: 20}) {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	deleted, err := svc.DeleteDay("2024-01-01")
	if err != nil {
		t.Fatalf("DeleteDay returned error: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	summary, err = svc.Summary("2024-01-01")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.EntriesCount != 0 || summary.Totals != (ledger.Totals{}) {
		t.Fatalf("expected zero summary after reset, got %+v", summary)
	}

	other, err := svc.Summary("2024-01-02")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if other.EntriesCount != 1 {
		t.Fatalf("other dates must be untouched, got %+v", other)
	}

	if _, err := svc.Summary(""); !errors.Is(err, ErrFoodInvalid) {
		t.Fatalf("expected ErrFoodInvalid for empty date, got %v", err)
	}
}
