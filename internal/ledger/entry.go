package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MealType 表示食物条目所属的餐次
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

const (
	// DefaultUnit 是未指定单位时使用的份量单位
	DefaultUnit = "serving"
	// DefaultQuantity 是未指定数量时使用的份数
	DefaultQuantity = 1.0
)

// ParseMealType 校验并规范化餐次，空值回退为 snack
func ParseMealType(raw string) (MealType, error) {
	switch meal := MealType(strings.ToLower(strings.TrimSpace(raw))); meal {
	case "":
		return MealSnack, nil
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return meal, nil
	default:
		return "", fmt.Errorf("%w: unsupported meal type %q", ErrValidation, raw)
	}
}

type refKind uint8

const (
	refNone refKind = iota
	refPending
	refPersisted
)

const pendingRefPrefix = "tmp:"

// EntryRef identifies an entry inside the ledger. An entry is either Pending
// (created locally, store confirmation outstanding) or Persisted (carries the
// store id). The two never compare equal.
type EntryRef struct {
	kind   refKind
	tempID string
	id     uint
}

// Pending returns a ref for an entry whose create call has not been confirmed.
func Pending(tempID string) EntryRef {
	return EntryRef{kind: refPending, tempID: tempID}
}

// Persisted returns a ref for an entry stored under id.
func Persisted(id uint) EntryRef {
	return EntryRef{kind: refPersisted, id: id}
}

// ParseRef accepts either a numeric store id or a "tmp:<id>" pending ref.
func ParseRef(raw string) (EntryRef, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, pendingRefPrefix) {
		temp := strings.TrimPrefix(raw, pendingRefPrefix)
		if temp == "" {
			return EntryRef{}, fmt.Errorf("%w: empty pending ref", ErrValidation)
		}
		return Pending(temp), nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return EntryRef{}, fmt.Errorf("%w: invalid entry ref %q", ErrValidation, raw)
	}
	return Persisted(uint(id)), nil
}

// IsZero reports whether the ref was never assigned.
func (r EntryRef) IsZero() bool { return r.kind == refNone }

// IsPending reports whether the entry still waits for store confirmation.
func (r EntryRef) IsPending() bool { return r.kind == refPending }

// ID returns the store id of a persisted entry.
func (r EntryRef) ID() (uint, bool) {
	if r.kind != refPersisted {
		return 0, false
	}
	return r.id, true
}

// TempID returns the local id of a pending entry.
func (r EntryRef) TempID() (string, bool) {
	if r.kind != refPending {
		return "", false
	}
	return r.tempID, true
}

func (r EntryRef) String() string {
	switch r.kind {
	case refPending:
		return pendingRefPrefix + r.tempID
	case refPersisted:
		return strconv.FormatUint(uint64(r.id), 10)
	default:
		return ""
	}
}

// FoodEntry 是某一天记录的一条食物摄入
type FoodEntry struct {
	Ref        EntryRef
	Name       string
	Calories   float64
	Protein    float64
	Carbs      float64
	Fat        float64
	Quantity   float64
	Unit       string
	Date       string
	MealType   MealType
	IsFavorite bool
	SourceID   string
}

// EntryPatch carries a partial update; nil fields keep their current value.
type EntryPatch struct {
	Name       *string
	Calories   *float64
	Protein    *float64
	Carbs      *float64
	Fat        *float64
	Quantity   *float64
	Unit       *string
	Date       *string
	MealType   *MealType
	IsFavorite *bool
	SourceID   *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EntryPatch) IsEmpty() bool {
	return p.Name == nil && p.Calories == nil && p.Protein == nil && p.Carbs == nil &&
		p.Fat == nil && p.Quantity == nil && p.Unit == nil && p.Date == nil &&
		p.MealType == nil && p.IsFavorite == nil && p.SourceID == nil
}

// Apply merges the patch into a copy of entry.
func (p EntryPatch) Apply(entry FoodEntry) FoodEntry {
	if p.Name != nil {
		entry.Name = *p.Name
	}
	if p.Calories != nil {
		entry.Calories = *p.Calories
	}
	if p.Protein != nil {
		entry.Protein = *p.Protein
	}
	if p.Carbs != nil {
		entry.Carbs = *p.Carbs
	}
	if p.Fat != nil {
		entry.Fat = *p.Fat
	}
	if p.Quantity != nil {
		entry.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		entry.Unit = *p.Unit
	}
	if p.Date != nil {
		entry.Date = *p.Date
	}
	if p.MealType != nil {
		entry.MealType = *p.MealType
	}
	if p.IsFavorite != nil {
		entry.IsFavorite = *p.IsFavorite
	}
	if p.SourceID != nil {
		entry.SourceID = *p.SourceID
	}
	return entry
}

// Normalize fills defaults and validates the entry. Date is checked for
// YYYY-MM-DD shape.
func Normalize(entry FoodEntry) (FoodEntry, error) {
	entry.Name = strings.TrimSpace(entry.Name)
	if entry.Name == "" {
		return entry, fmt.Errorf("%w: name is required", ErrValidation)
	}

	if err := checkAmount("calories", entry.Calories); err != nil {
		return entry, err
	}
	if err := checkAmount("protein", entry.Protein); err != nil {
		return entry, err
	}
	if err := checkAmount("carbs", entry.Carbs); err != nil {
		return entry, err
	}
	if err := checkAmount("fat", entry.Fat); err != nil {
		return entry, err
	}

	if entry.Quantity == 0 {
		entry.Quantity = DefaultQuantity
	}
	if math.IsNaN(entry.Quantity) || math.IsInf(entry.Quantity, 0) || entry.Quantity < 0 {
		return entry, fmt.Errorf("%w: quantity must be a positive number", ErrValidation)
	}

	entry.Unit = strings.TrimSpace(entry.Unit)
	if entry.Unit == "" {
		entry.Unit = DefaultUnit
	}

	meal, err := ParseMealType(string(entry.MealType))
	if err != nil {
		return entry, err
	}
	entry.MealType = meal

	date, err := NormalizeDate(entry.Date)
	if err != nil {
		return entry, err
	}
	entry.Date = date
	entry.SourceID = strings.TrimSpace(entry.SourceID)

	return entry, nil
}

func checkAmount(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrValidation, field)
	}
	if value < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrValidation, field)
	}
	return nil
}

// Totals 是某一天所有条目的营养总和
type Totals struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// Sum folds the numeric fields of entries into Totals.
func Sum(entries []FoodEntry) Totals {
	var totals Totals
	for _, entry := range entries {
		totals.Calories += entry.Calories
		totals.Protein += entry.Protein
		totals.Carbs += entry.Carbs
		totals.Fat += entry.Fat
	}
	return totals
}
