// Package profile edits the restaurant's public profile through the backend.
package profile

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kiwari-pos/console/internal/apperr"
	"github.com/kiwari-pos/console/internal/validate"
)

// Profile is the restaurant's public profile.
type Profile struct {
	Name         string `json:"name" validate:"required,max=120"`
	Description  string `json:"description" validate:"max=1000"`
	Address      string `json:"address" validate:"required,max=255"`
	Phone        string `json:"phone" validate:"required,max=20,e164|numeric"`
	Email        string `json:"email" validate:"required,email"`
	OpeningHours string `json:"opening_hours" validate:"max=100"`
	Image        string `json:"image,omitempty" validate:"omitempty,datauri"`
}

// Store is the backend collaborator holding the profile.
// Satisfied by *backend.Client and *backend.MemoryStore.
type Store interface {
	FetchProfile(ctx context.Context) (Profile, error)
	SaveProfile(ctx context.Context, p Profile) error
}

// Manager caches the last profile read from or saved to the store.
type Manager struct {
	store   Store
	timeout time.Duration

	mu        sync.RWMutex
	current   Profile
	loaded    bool
	listeners []func(Profile)
}

// NewManager creates a Manager. A zero timeout disables the per-call deadline.
func NewManager(store Store, timeout time.Duration) *Manager {
	return &Manager{store: store, timeout: timeout}
}

// OnChange registers fn to be called after every successful Save.
func (m *Manager) OnChange(fn func(Profile)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Load reads the profile from the store.
func (m *Manager) Load(ctx context.Context) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	p, err := m.store.FetchProfile(ctx)
	if err != nil {
		return apperr.Transient("fetch profile", err)
	}
	m.mu.Lock()
	m.current, m.loaded = p, true
	m.mu.Unlock()
	return nil
}

// Current returns the cached profile and whether one has been loaded.
func (m *Manager) Current() (Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.loaded
}

// Save validates p and writes it to the store. On any failure the cached
// profile is left as it was.
func (m *Manager) Save(ctx context.Context, p Profile) (Profile, error) {
	p = normalize(p)
	if err := validate.Struct(p); err != nil {
		return Profile{}, err
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	if err := m.store.SaveProfile(ctx, p); err != nil {
		return Profile{}, apperr.Transient("save profile", err)
	}

	m.mu.Lock()
	m.current, m.loaded = p, true
	listeners := append(([]func(Profile))(nil), m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
	return p, nil
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

// normalize trims surrounding whitespace and strips the separators operators
// commonly type into phone numbers ("+62 812-3456-7890").
func normalize(p Profile) Profile {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	p.Email = strings.TrimSpace(p.Email)
	p.OpeningHours = strings.TrimSpace(p.OpeningHours)
	p.Phone = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(p.Phone))
	return p
}
