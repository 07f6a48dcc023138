package ledger

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// memSyncer is an in-memory Syncer with failure injection for tests.
type memSyncer struct {
	mu        sync.Mutex
	nextID    uint
	entries   map[uint]FoodEntry
	goals     map[string]Goal
	favorites []FavoriteFood

	failCreate error
	failUpdate error
	failDelete error
	failReset  error
	failGoal   error

	// gate, when set, blocks CreateEntry until a value is received.
	gate chan struct{}
	// started receives a signal once CreateEntry is entered.
	started chan struct{}

	// resetGate, when set, blocks DeleteDay until a value is received.
	resetGate chan struct{}
	// resetStarted receives a signal once DeleteDay is entered.
	resetStarted chan struct{}

	// clean rewrites stored names the way a sanitizing store would.
	clean func(string) string

	calls []string
}

func newMemSyncer() *memSyncer {
	return &memSyncer{entries: make(map[uint]FoodEntry), goals: make(map[string]Goal)}
}

func (m *memSyncer) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *memSyncer) CreateEntry(ctx context.Context, entry FoodEntry) (FoodEntry, error) {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.gate != nil {
		<-m.gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("create")
	if m.failCreate != nil {
		return FoodEntry{}, m.failCreate
	}
	m.nextID++
	entry.Ref = Persisted(m.nextID)
	m.entries[m.nextID] = entry
	return entry, nil
}

func (m *memSyncer) UpdateEntry(ctx context.Context, id uint, patch EntryPatch) (FoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("update %d", id))
	if m.failUpdate != nil {
		return FoodEntry{}, m.failUpdate
	}
	entry, ok := m.entries[id]
	if !ok {
		return FoodEntry{}, ErrNotFound
	}
	entry = patch.Apply(entry)
	if m.clean != nil {
		entry.Name = m.clean(entry.Name)
	}
	m.entries[id] = entry
	return entry, nil
}

func (m *memSyncer) DeleteEntry(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("delete %d", id))
	if m.failDelete != nil {
		return m.failDelete
	}
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memSyncer) DeleteDay(ctx context.Context, date string) error {
	if m.resetStarted != nil {
		m.resetStarted <- struct{}{}
	}
	if m.resetGate != nil {
		<-m.resetGate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("reset " + date)
	if m.failReset != nil {
		return m.failReset
	}
	for id, entry := range m.entries {
		if entry.Date == date {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *memSyncer) ListEntries(ctx context.Context, date string, filter EntryFilter) ([]FoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uint, 0, len(m.entries))
	for id, entry := range m.entries {
		if entry.Date == date {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	out := make([]FoodEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.entries[id])
	}
	return out, nil
}

func (m *memSyncer) GetGoal(ctx context.Context, date string) (Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGoal != nil {
		return Goal{}, m.failGoal
	}
	if goal, ok := m.goals[date]; ok {
		return goal, nil
	}
	return DefaultGoalFor(date), nil
}

func (m *memSyncer) SetGoal(ctx context.Context, goal Goal) (Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGoal != nil {
		return Goal{}, m.failGoal
	}
	m.goals[goal.Date] = goal
	return goal, nil
}

func (m *memSyncer) ListFavorites(ctx context.Context) ([]FavoriteFood, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.favorites), nil
}

func (m *memSyncer) CreateFavorite(ctx context.Context, food FavoriteFood) (FavoriteFood, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("favorite " + food.Name)
	m.nextID++
	food.ID = m.nextID
	m.favorites = append(m.favorites, food)
	return food, nil
}

func (m *memSyncer) DeleteFavorite(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.favorites)
	m.favorites = slices.DeleteFunc(m.favorites, func(f FavoriteFood) bool { return f.ID == id })
	if len(m.favorites) == before {
		return ErrNotFound
	}
	return nil
}

var _ Syncer = (*memSyncer)(nil)
