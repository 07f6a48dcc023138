package service

import (
	"errors"
	"testing"

	"github.com/Chadbowen248/burnit/internal/ledger"
)

func TestFavoriteServiceDedupesByName(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewFavoriteService(gdb)
	first, created, err := svc.Create(ledger.FavoriteFood{Name: "Greek Yogurt", Calories: 100, Protein: 17})
	if err != nil || !created {
		t.Fatalf("first Create: created=%v err=%v", created, err)
	}

	dup, created, err := svc.Create(ledger.FavoriteFood{Name: "GREEK yogurt", Calories: 300})
	if err != nil {
		t.Fatalf("duplicate Create returned error: %v", err)
	}
	if created {
		t.Fatal("duplicate should not be created")
	}
	if dup.ID != first.ID || dup.Calories != 100 {
		t.Fatalf("expected existing favorite, got %+v", dup)
	}

	favorites, err := svc.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(favorites) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(favorites))
	}
	if favorites[0].Unit != "serving" || favorites[0].Quantity != 1 || favorites[0].MealType != "snack" {
		t.Fatalf("defaults not applied: %+v", favorites[0])
	}
}

func TestFavoriteServiceDeleteAndValidation(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewFavoriteService(gdb)
	fav, _, err := svc.Create(ledger.FavoriteFood{Name: "Rice", Calories: 205})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(fav.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(fav.ID); !errors.Is(err, ErrFavoriteNotFound) {
		t.Fatalf("expected ErrFavoriteNotFound, got %v", err)
	}

	if _, _, err := svc.Create(ledger.FavoriteFood{Name: "  ", Calories: 5}); !errors.Is(err, ErrFavoriteInvalid) {
		t.Fatalf("expected ErrFavoriteInvalid, got %v", err)
	}
}
