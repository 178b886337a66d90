package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/strata/internal/logging"
	"github.com/aretw0/strata/pkg/domain"
	"github.com/aretw0/strata/pkg/ports"
)

// Factory builds the store for a new session.
type Factory func(ctx context.Context, sessionID string) (ports.StateStore, error)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager keeps independent, named stores (one per session) and creates them
// on first use. Each store has its own state and listeners; nothing is shared
// between sessions.
// It uses Reference Counting to garbage collect unused per-session locks.
type Manager struct {
	factory Factory

	mu    sync.Mutex            // Global lock for the locks map
	locks map[string]*lockEntry // Map of active locks

	storesMu sync.RWMutex
	stores   map[string]ports.StateStore

	onCreate func(ctx context.Context, sessionID string, store ports.StateStore)
	onDelete func(ctx context.Context, sessionID string)
	logger   *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithOnCreate registers a callback run once for every newly created store,
// before it is visible to other callers (e.g. to attach a notifier).
func WithOnCreate(fn func(ctx context.Context, sessionID string, store ports.StateStore)) Option {
	return func(m *Manager) {
		m.onCreate = fn
	}
}

// WithOnDelete registers a callback run after a session is deleted, e.g. to
// drop per-session metric series.
func WithOnDelete(fn func(ctx context.Context, sessionID string)) Option {
	return func(m *Manager) {
		m.onDelete = fn
	}
}

// NewManager creates a new Session Manager building stores with factory.
func NewManager(factory Factory, opts ...Option) *Manager {
	m := &Manager{
		factory: factory,
		locks:   make(map[string]*lockEntry),
		stores:  make(map[string]ports.StateStore),
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load returns the store of an existing session.
// Returns domain.ErrStoreNotFound if the session does not exist.
func (m *Manager) Load(ctx context.Context, sessionID string) (ports.StateStore, error) {
	m.storesMu.RLock()
	defer m.storesMu.RUnlock()

	store, ok := m.stores[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrStoreNotFound, sessionID)
	}
	return store, nil
}

// LoadOrStart returns the store of a session, creating it if needed.
// Concurrent calls for the same session create exactly one store.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (ports.StateStore, error) {
	var store ports.StateStore
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		store, err = m.Load(ctx, sessionID)
		if err == nil {
			return nil
		}

		store, err = m.factory(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to create store for session %q: %w", sessionID, err)
		}
		if m.onCreate != nil {
			m.onCreate(ctx, sessionID, store)
		}

		m.storesMu.Lock()
		m.stores[sessionID] = store
		m.storesMu.Unlock()

		m.logger.Debug("Session started", "session_id", sessionID)
		return nil
	})
	return store, err
}

// Delete forgets a session. Deleting an unknown session is not an error.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.storesMu.Lock()
		_, existed := m.stores[sessionID]
		delete(m.stores, sessionID)
		m.storesMu.Unlock()

		if existed && m.onDelete != nil {
			m.onDelete(ctx, sessionID)
		}
		return nil
	})
}

// List returns the active session IDs, sorted.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	m.storesMu.RLock()
	defer m.storesMu.RUnlock()

	sessions := make([]string, 0, len(m.stores))
	for id := range m.stores {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
