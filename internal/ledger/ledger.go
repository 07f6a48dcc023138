// Package ledger holds the daily food ledger: per-date entries with totals
// kept equal to the fold of those entries, per-date goals and the favorites
// registry. Persistence goes through the Syncer interfaces; the package never
// talks to a network or database itself.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DayView is a snapshot of one date in the ledger.
type DayView struct {
	Date    string
	Entries []FoodEntry
	Totals  Totals
}

type day struct {
	entries []FoodEntry
	totals  Totals
}

func (d *day) recompute() {
	d.totals = Sum(d.entries)
}

func (d *day) indexOf(ref EntryRef) int {
	return slices.IndexFunc(d.entries, func(e FoodEntry) bool { return e.Ref == ref })
}

func (d *day) remove(idx int) {
	d.entries = slices.Delete(d.entries, idx, idx+1)
}

// Ledger maps calendar dates to their entries and totals.
//
// The mutex is never held across a store call. Each entry has at most one
// write in flight; concurrent writes against other entries or dates proceed
// independently and always settle against the date they were issued for.
type Ledger struct {
	sync    EntrySyncer
	log     *zap.Logger
	newTemp func() string

	mu        sync.Mutex
	days      map[string]*day
	inflight  map[EntryRef]struct{}
	resetting map[string]struct{}
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for rollback and reconciliation events.
func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

// WithTempIDs overrides the pending id generator.
func WithTempIDs(fn func() string) Option {
	return func(l *Ledger) {
		if fn != nil {
			l.newTemp = fn
		}
	}
}

// New builds an empty ledger persisting through s.
func New(s EntrySyncer, opts ...Option) *Ledger {
	l := &Ledger{
		sync:      s,
		log:       zap.NewNop(),
		newTemp:   uuid.NewString,
		days:      make(map[string]*day),
		inflight:  make(map[EntryRef]struct{}),
		resetting: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) dayLocked(date string) *day {
	d, ok := l.days[date]
	if !ok {
		d = &day{}
		l.days[date] = d
	}
	return d
}

// Load replaces the persisted entries of date with the store's listing.
// Pending entries are kept after the loaded ones. A date with a reset in
// flight yields ErrBusy.
func (l *Ledger) Load(ctx context.Context, date string) error {
	date, err := NormalizeDate(date)
	if err != nil {
		return err
	}
	if err := l.checkNotResetting(date); err != nil {
		return err
	}

	entries, err := l.sync.ListEntries(ctx, date, EntryFilter{})
	if err != nil {
		return fmt.Errorf("load %s: %w", date, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// 列表请求期间可能开始了重置，此时的列表已经过期
	if _, busy := l.resetting[date]; busy {
		return fmt.Errorf("%w: %s is being reset", ErrBusy, date)
	}
	d := l.dayLocked(date)
	fresh := make([]FoodEntry, 0, len(entries)+len(d.entries))
	for _, entry := range entries {
		if entry.Date != "" && entry.Date != date {
			continue
		}
		entry.Date = date
		fresh = append(fresh, entry)
	}
	for _, entry := range d.entries {
		if entry.Ref.IsPending() {
			fresh = append(fresh, entry)
		}
	}
	d.entries = fresh
	d.recompute()
	return nil
}

// Add validates entry, shows it immediately under a pending ref and persists
// it. On success the pending ref is swapped for the stored id; on failure the
// optimistic insert is rolled back and the store error returned.
func (l *Ledger) Add(ctx context.Context, date string, entry FoodEntry) (FoodEntry, error) {
	date, err := NormalizeDate(date)
	if err != nil {
		return FoodEntry{}, err
	}
	entry.Date = date
	entry, err = Normalize(entry)
	if err != nil {
		return FoodEntry{}, err
	}

	ref := Pending(l.newTemp())
	entry.Ref = ref

	l.mu.Lock()
	if _, busy := l.resetting[date]; busy {
		l.mu.Unlock()
		return FoodEntry{}, fmt.Errorf("%w: %s is being reset", ErrBusy, date)
	}
	d := l.dayLocked(date)
	d.entries = append(d.entries, entry)
	d.recompute()
	l.inflight[ref] = struct{}{}
	l.mu.Unlock()

	stored, err := l.sync.CreateEntry(ctx, entry)
	if err == nil {
		if _, ok := stored.Ref.ID(); !ok {
			err = fmt.Errorf("%w: store returned entry without id", ErrServer)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.inflight, ref)
	d = l.dayLocked(date)
	idx := d.indexOf(ref)

	if err != nil {
		if idx >= 0 {
			d.remove(idx)
			d.recompute()
		}
		l.log.Warn("rolled back pending entry",
			zap.String("date", date),
			zap.String("ref", ref.String()),
			zap.Error(err))
		return FoodEntry{}, err
	}

	stored.Date = date
	switch {
	case d.indexOf(stored.Ref) >= 0:
		// a Load raced the create and already brought in the stored copy
		if idx >= 0 {
			d.remove(idx)
		}
	case idx >= 0:
		d.entries[idx] = stored
	default:
		d.entries = append(d.entries, stored)
	}
	d.recompute()
	return stored, nil
}

// Edit merges patch into the entry identified by ref on date and persists
// the change. Unset patch fields keep their value. A patch moving the entry to
// another date relocates it to that date's ledger once the store confirms.
func (l *Ledger) Edit(ctx context.Context, date string, ref EntryRef, patch EntryPatch) (FoodEntry, error) {
	date, err := NormalizeDate(date)
	if err != nil {
		return FoodEntry{}, err
	}

	l.mu.Lock()
	d := l.dayLocked(date)
	idx := d.indexOf(ref)
	if idx < 0 {
		l.mu.Unlock()
		return FoodEntry{}, fmt.Errorf("%w: entry %s on %s", ErrNotFound, ref, date)
	}
	if err := l.checkWritableLocked(ref, date); err != nil {
		l.mu.Unlock()
		return FoodEntry{}, err
	}

	current := d.entries[idx]
	if patch.IsEmpty() {
		l.mu.Unlock()
		return current, nil
	}

	merged, err := Normalize(patch.Apply(current))
	if err != nil {
		l.mu.Unlock()
		return FoodEntry{}, err
	}
	merged.Ref = ref
	if _, busy := l.resetting[merged.Date]; busy {
		l.mu.Unlock()
		return FoodEntry{}, fmt.Errorf("%w: %s is being reset", ErrBusy, merged.Date)
	}

	id, _ := ref.ID()
	l.inflight[ref] = struct{}{}
	l.mu.Unlock()

	stored, err := l.sync.UpdateEntry(ctx, id, normalizedPatch(patch, merged))

	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.inflight, ref)
	d = l.dayLocked(date)
	idx = d.indexOf(ref)

	if err != nil {
		if errors.Is(err, ErrNotFound) && idx >= 0 {
			d.remove(idx)
			d.recompute()
			l.log.Info("dropped entry missing from store",
				zap.String("date", date),
				zap.String("ref", ref.String()))
		}
		return FoodEntry{}, err
	}
	if idx < 0 {
		return FoodEntry{}, fmt.Errorf("%w: entry %s on %s", ErrNotFound, ref, date)
	}

	// 存储可能会清洗文本字段，本地副本以确认后的值为准
	if storedID, ok := stored.Ref.ID(); ok && storedID == id {
		if stored.Date == "" {
			stored.Date = merged.Date
		}
		merged = stored
		merged.Ref = ref
	}

	if merged.Date == date {
		d.entries[idx] = merged
		d.recompute()
		return merged, nil
	}

	d.remove(idx)
	d.recompute()
	target := l.dayLocked(merged.Date)
	target.entries = append(target.entries, merged)
	target.recompute()
	return merged, nil
}

// Delete removes the entry identified by ref from date. Removal is by exact
// identity: an unknown ref yields ErrNotFound and leaves the date untouched.
// A store NotFound means the entry is already gone and counts as success.
func (l *Ledger) Delete(ctx context.Context, date string, ref EntryRef) error {
	date, err := NormalizeDate(date)
	if err != nil {
		return err
	}

	l.mu.Lock()
	d := l.dayLocked(date)
	if d.indexOf(ref) < 0 {
		l.mu.Unlock()
		return fmt.Errorf("%w: entry %s on %s", ErrNotFound, ref, date)
	}
	if err := l.checkWritableLocked(ref, date); err != nil {
		l.mu.Unlock()
		return err
	}
	id, _ := ref.ID()
	l.inflight[ref] = struct{}{}
	l.mu.Unlock()

	err = l.sync.DeleteEntry(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.inflight, ref)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	d = l.dayLocked(date)
	if idx := d.indexOf(ref); idx >= 0 {
		d.remove(idx)
		d.recompute()
	}
	return nil
}

// ResetDay clears every entry of date, locally and in the store. The store
// is always asked to delete the day, so rows the ledger never loaded are
// removed as well. When the store rejects the reset the previous entries are
// restored and the error returned.
func (l *Ledger) ResetDay(ctx context.Context, date string) error {
	date, err := NormalizeDate(date)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if _, busy := l.resetting[date]; busy {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s is being reset", ErrBusy, date)
	}
	d := l.dayLocked(date)
	for _, entry := range d.entries {
		if _, busy := l.inflight[entry.Ref]; busy {
			l.mu.Unlock()
			return fmt.Errorf("%w: entry %s on %s", ErrBusy, entry.Ref, date)
		}
	}

	snapshot := d.entries
	d.entries = nil
	d.recompute()
	l.resetting[date] = struct{}{}
	l.mu.Unlock()

	err = l.sync.DeleteDay(ctx, date)

	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.resetting, date)
	if err != nil {
		d = l.dayLocked(date)
		restored := slices.Clone(snapshot)
		for _, entry := range d.entries {
			if slices.IndexFunc(snapshot, func(e FoodEntry) bool { return e.Ref == entry.Ref }) < 0 {
				restored = append(restored, entry)
			}
		}
		d.entries = restored
		d.recompute()
		l.log.Warn("restored entries after failed reset", zap.String("date", date), zap.Error(err))
		return err
	}
	return nil
}

func (l *Ledger) checkNotResetting(date string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.resetting[date]; busy {
		return fmt.Errorf("%w: %s is being reset", ErrBusy, date)
	}
	return nil
}

func (l *Ledger) checkWritableLocked(ref EntryRef, date string) error {
	if _, busy := l.inflight[ref]; busy || ref.IsPending() {
		return fmt.Errorf("%w: entry %s on %s", ErrBusy, ref, date)
	}
	if _, busy := l.resetting[date]; busy {
		return fmt.Errorf("%w: %s is being reset", ErrBusy, date)
	}
	return nil
}

// RefAt resolves the display position of an entry on date.
func (l *Ledger) RefAt(date string, index int) (EntryRef, error) {
	date, err := NormalizeDate(date)
	if err != nil {
		return EntryRef{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	d := l.dayLocked(date)
	if index < 0 || index >= len(d.entries) {
		return EntryRef{}, fmt.Errorf("%w: no entry at position %d on %s", ErrNotFound, index, date)
	}
	return d.entries[index].Ref, nil
}

// Totals returns the totals of date; zero for a date never touched.
func (l *Ledger) Totals(date string) Totals {
	return l.Day(date).Totals
}

// Entries returns a copy of date's entries in insertion order.
func (l *Ledger) Entries(date string) []FoodEntry {
	return l.Day(date).Entries
}

// Day returns a snapshot of date.
func (l *Ledger) Day(date string) DayView {
	date, err := NormalizeDate(date)
	if err != nil {
		return DayView{Entries: []FoodEntry{}}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	d := l.dayLocked(date)
	entries := make([]FoodEntry, len(d.entries))
	copy(entries, d.entries)
	return DayView{Date: date, Entries: entries, Totals: d.totals}
}

// Dates lists every date the ledger has touched, oldest first.
func (l *Ledger) Dates() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	dates := make([]string, 0, len(l.days))
	for date := range l.days {
		dates = append(dates, date)
	}
	slices.Sort(dates)
	return dates
}

func normalizedPatch(patch EntryPatch, merged FoodEntry) EntryPatch {
	out := EntryPatch{}
	if patch.Name != nil {
		out.Name = &merged.Name
	}
	if patch.Calories != nil {
		out.Calories = &merged.Calories
	}
	if patch.Protein != nil {
		out.Protein = &merged.Protein
	}
	if patch.Carbs != nil {
		out.Carbs = &merged.Carbs
	}
	if patch.Fat != nil {
		out.Fat = &merged.Fat
	}
	if patch.Quantity != nil {
		out.Quantity = &merged.Quantity
	}
	if patch.Unit != nil {
		out.Unit = &merged.Unit
	}
	if patch.Date != nil {
		out.Date = &merged.Date
	}
	if patch.MealType != nil {
		out.MealType = &merged.MealType
	}
	if patch.IsFavorite != nil {
		out.IsFavorite = &merged.IsFavorite
	}
	if patch.SourceID != nil {
		out.SourceID = &merged.SourceID
	}
	return out
}
