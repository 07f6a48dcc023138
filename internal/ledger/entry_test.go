package ledger

import (
	"errors"
	"math"
	"testing"
)

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("42")
	if err != nil {
		t.Fatalf("ParseRef returned error: %v", err)
	}
	if id, ok := ref.ID(); !ok || id != 42 {
		t.Fatalf("expected persisted 42, got %q", ref)
	}

	pending, err := ParseRef("tmp:abc")
	if err != nil {
		t.Fatalf("ParseRef returned error: %v", err)
	}
	if temp, ok := pending.TempID(); !ok || temp != "abc" {
		t.Fatalf("expected pending abc, got %q", pending)
	}
	if pending.String() != "tmp:abc" {
		t.Fatalf("unexpected String(): %s", pending.String())
	}

	for _, raw := range []string{"", "0", "-1", "abc", "tmp:"} {
		if _, err := ParseRef(raw); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", raw, err)
		}
	}
}

func TestPendingAndPersistedNeverEqual(t *testing.T) {
	if Pending("1") == Persisted(1) {
		t.Fatal("pending and persisted refs must not compare equal")
	}
	if _, ok := Pending("1").ID(); ok {
		t.Fatal("pending ref must not expose a store id")
	}
}

func TestNormalizeRejectsNonFinite(t *testing.T) {
	_, err := Normalize(FoodEntry{Name: "x", Calories: math.Inf(1), Date: "2024-01-01"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, err = Normalize(FoodEntry{Name: "x", Calories: 1, Protein: math.NaN(), Date: "2024-01-01"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPatchApplyOnlyTouchesSetFields(t *testing.T) {
	name := "renamed"
	entry := FoodEntry{Name: "orig", Calories: 10, Protein: 2, Unit: "cup"}

	got := EntryPatch{Name: &name}.Apply(entry)
	if got.Name != "renamed" || got.Calories != 10 || got.Protein != 2 || got.Unit != "cup" {
		t.Fatalf("unexpected merge: %+v", got)
	}
	if !(EntryPatch{}).IsEmpty() {
		t.Fatal("zero patch should be empty")
	}
}

func TestShiftDate(t *testing.T) {
	next, err := ShiftDate("2024-02-28", 2)
	if err != nil || next != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %s (%v)", next, err)
	}
	if _, err := ShiftDate("bogus", 1); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
