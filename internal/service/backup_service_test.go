package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Chadbowen248/burnit/internal/ledger"
)

func TestBackupExportThenImportReplacesData(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	foods := NewFoodService(gdb)
	goals := NewGoalService(gdb)
	favorites := NewFavoriteService(gdb)

	if _, err := foods.Create(ledger.FoodEntry{Name: "Egg", Calories: 70, Protein: 6, Date: "2024-01-01", MealType: ledger.MealBreakfast}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := goals.Set(ledger.Goal{Date: "2024-01-01", Calories: 1800, Protein: 140}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if _, _, err := favorites.Create(ledger.FavoriteFood{Name: "Skyr", Calories: 90, Protein: 15}); err != nil {
		t.Fatalf("Create favorite returned error: %v", err)
	}

	svc := NewBackupService(gdb)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC) }

	backup, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if backup.Version != BackupVersion || backup.ExportDate != "2024-01-02T08:00:00Z" {
		t.Fatalf("unexpected backup header: %+v", backup)
	}
	if len(backup.Foods) != 1 || len(backup.Goals) != 1 || len(backup.Favorites) != 1 {
		t.Fatalf("unexpected backup content: %+v", backup)
	}

	// 导出后继续写入的数据在导入时应被覆盖
	if _, err := foods.Create(ledger.FoodEntry{Name: "Pizza", Calories: 800, Date: "2024-01-01"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stats, err := svc.Import(ctx, backup)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if stats != (ImportStats{Foods: 1, Goals: 1, Favorites: 1}) {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	list, err := foods.List(FoodFilter{Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Egg" || list[0].MealType != "breakfast" {
		t.Fatalf("unexpected foods after import: %+v", list)
	}
	goal, isDefault, err := goals.Get("2024-01-01")
	if err != nil || isDefault || goal.Calories != 1800 {
		t.Fatalf("unexpected goal after import: %+v default=%v err=%v", goal, isDefault, err)
	}
}

func TestBackupImportRejectsInvalidWithoutWriting(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	foods := NewFoodService(gdb)
	if _, err := foods.Create(ledger.FoodEntry{Name: "Keep me", Calories: 10, Date: "2024-01-01"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	svc := NewBackupService(gdb)
	_, err := svc.Import(ctx, Backup{
		Version: BackupVersion,
		Foods: []BackupFood{
			{Name: "Fine", Calories: 10, Date: "2024-01-01"},
			{Name: "", Calories: 10, Date: "2024-01-01"},
		},
	})
	if !errors.Is(err, ErrBackupInvalid) {
		t.Fatalf("expected ErrBackupInvalid, got %v", err)
	}

	if _, err := svc.Import(ctx, Backup{Version: BackupVersion + 1}); !errors.Is(err, ErrBackupInvalid) {
		t.Fatalf("expected ErrBackupInvalid for future version, got %v", err)
	}

	list, err := foods.List(FoodFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Keep me" {
		t.Fatalf("existing data must survive a rejected import, got %+v", list)
	}
}

func TestBackupImportDedupesFavoritesAndGoals(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewBackupService(gdb)
	stats, err := svc.Import(context.Background(), Backup{
		Goals: []BackupGoal{
			{Date: "2024-01-01", Calories: 1800},
			{Date: "2024-01-01", Calories: 2100},
		},
		Favorites: []BackupFavorite{
			{Name: "Tuna", Calories: 120},
			{Name: "tuna ", Calories: 130},
		},
	})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if stats.Goals != 1 || stats.Favorites != 1 {
		t.Fatalf("expected duplicates collapsed, got %+v", stats)
	}

	goal, _, err := NewGoalService(gdb).Get("2024-01-01")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if goal.Calories != 2100 {
		t.Fatalf("expected last goal to win, got %+v", goal)
	}
}
