package menu

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kiwari-pos/console/internal/apperr"
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/kiwari-pos/console/internal/imageenc"
)

// Store persists the menu. Optional: without one the catalog lives only in
// memory for the session. Satisfied by *database.MenuStore.
type Store interface {
	FetchMenu(ctx context.Context) ([]Item, error)
	SaveMenu(ctx context.Context, items []Item) error
}

// Options configures a Manager.
type Options struct {
	Store   Store             // nil keeps the menu local
	Timeout time.Duration     // per store call; zero disables
	Images  *imageenc.Encoder // used by drafts; nil rejects uploads
}

// Manager owns the in-memory menu collection.
type Manager struct {
	opts Options

	// writeMu serializes mutations, including their store round trip,
	// so readers are never blocked on the store.
	writeMu sync.Mutex

	mu        sync.RWMutex
	items     []Item
	nextID    int
	listeners []func([]Item)
}

// NewManager creates a Manager holding initial, in order.
func NewManager(initial []Item, opts Options) *Manager {
	m := &Manager{opts: opts, nextID: 1}
	m.items = cloneItems(initial)
	m.bumpNextID(m.items)
	return m
}

// OnChange registers fn to be called with the new collection after every
// committed mutation or load.
func (m *Manager) OnChange(fn func([]Item)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Load replaces the collection with the store's copy. No-op without a store.
func (m *Manager) Load(ctx context.Context) error {
	if m.opts.Store == nil {
		return nil
	}
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	items, err := m.opts.Store.FetchMenu(ctx)
	if err != nil {
		return apperr.Transient("fetch menu", err)
	}
	m.commit(items)
	return nil
}

// ListByCategory returns items whose category equals category, or every item
// for enum.FilterAll, in insertion order.
func (m *Manager) ListByCategory(category string) []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Item, 0, len(m.items))
	for _, it := range m.items {
		if category == enum.FilterAll || it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// Get returns the item with the given id.
func (m *Manager) Get(id int) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := indexOf(m.items, id)
	if i < 0 {
		return Item{}, fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}
	return m.items[i], nil
}

// CreateItem validates f, assigns the next id, and appends the item.
func (m *Manager) CreateItem(ctx context.Context, f Fields) (Item, error) {
	item, err := f.build()
	if err != nil {
		return Item{}, err
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	item.ID = m.nextID
	next := append(cloneItems(m.items), item)
	m.mu.RUnlock()

	if err := m.save(ctx, next); err != nil {
		return Item{}, err
	}
	m.commit(next)
	return item, nil
}

// UpdateItem replaces every field of item id with f. The id is preserved.
func (m *Manager) UpdateItem(ctx context.Context, id int, f Fields) (Item, error) {
	item, err := f.build()
	if err != nil {
		return Item{}, err
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	i := indexOf(m.items, id)
	if i < 0 {
		m.mu.RUnlock()
		return Item{}, fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}
	item.ID = id
	next := cloneItems(m.items)
	next[i] = item
	m.mu.RUnlock()

	if err := m.save(ctx, next); err != nil {
		return Item{}, err
	}
	m.commit(next)
	return item, nil
}

// DeleteItem removes item id. Deleting an absent id is a no-op.
func (m *Manager) DeleteItem(ctx context.Context, id int) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	i := indexOf(m.items, id)
	if i < 0 {
		m.mu.RUnlock()
		return nil
	}
	next := make([]Item, 0, len(m.items)-1)
	next = append(next, m.items[:i]...)
	next = append(next, m.items[i+1:]...)
	m.mu.RUnlock()

	if err := m.save(ctx, next); err != nil {
		return err
	}
	m.commit(next)
	return nil
}

// NewDraft starts a draft for a new item with the form's defaults.
func (m *Manager) NewDraft() *Draft {
	return newDraft(Fields{Price: "0", Category: enum.CategoryMain}, m.opts.Images)
}

// EditDraft starts a draft holding a copy of item id.
func (m *Manager) EditDraft(id int) (*Draft, error) {
	it, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return newDraft(FieldsOf(it), m.opts.Images), nil
}

func (m *Manager) save(ctx context.Context, items []Item) error {
	if m.opts.Store == nil {
		return nil
	}
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	if err := m.opts.Store.SaveMenu(ctx, items); err != nil {
		return apperr.Transient("save menu", err)
	}
	return nil
}

// commit swaps in items and notifies listeners. Caller holds writeMu.
func (m *Manager) commit(items []Item) {
	m.mu.Lock()
	m.items = items
	m.bumpNextID(items)
	listeners := make([]func([]Item), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(cloneItems(items))
	}
}

// bumpNextID keeps nextID above every id ever seen. Ids are never reused,
// even after the highest item is deleted.
func (m *Manager) bumpNextID(items []Item) {
	for _, it := range items {
		if it.ID >= m.nextID {
			m.nextID = it.ID + 1
		}
	}
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.opts.Timeout)
}

func indexOf(items []Item, id int) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
