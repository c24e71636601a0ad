package adapter

import (
	"fmt"
	"sync"

	"github.com/dshills/lintbridge/internal/diag"
	"github.com/dshills/lintbridge/internal/logging"
	"github.com/dshills/lintbridge/internal/runner"
)

// PublisherFactory returns the publisher a newly registered adapter
// should deliver to, keyed by adapter name.
type PublisherFactory func(name string) diag.Publisher

// Manager owns a set of adapters and fans triggers out to the ones
// whose filetype scope matches the target.
type Manager struct {
	logger *logging.Logger
	run    *runner.Runner
	newPub PublisherFactory
	store  *diag.Store
	mu     sync.RWMutex
	order  []string
	byName map[string]*Adapter
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStore publishes each adapter's records into its own scope of
// store, so one adapter's findings never clobber another's.
func WithStore(store *diag.Store) ManagerOption {
	return func(m *Manager) {
		if store != nil {
			m.store = store
			m.newPub = func(name string) diag.Publisher {
				return store.Scoped(name)
			}
		}
	}
}

// WithPublisherFactory routes each adapter's records through fn.
func WithPublisherFactory(fn PublisherFactory) ManagerOption {
	return func(m *Manager) {
		if fn != nil {
			m.newPub = fn
		}
	}
}

// WithManagerLogger sets the logger handed to registered adapters.
func WithManagerLogger(logger *logging.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerRunner shares one process runner across all adapters.
func WithManagerRunner(run *runner.Runner) ManagerOption {
	return func(m *Manager) {
		if run != nil {
			m.run = run
		}
	}
}

// NewManager creates an empty manager. Without WithStore or
// WithPublisherFactory, registered adapters publish into a private
// store reachable via Store.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		logger: logging.Default(),
		run:    runner.New(),
		byName: make(map[string]*Adapter),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.newPub == nil {
		m.store = diag.NewStore()
		store := m.store
		m.newPub = func(name string) diag.Publisher {
			return store.Scoped(name)
		}
	}
	return m
}

// Store returns the store adapters publish into, or nil when records
// are routed through a custom publisher factory.
func (m *Manager) Store() *diag.Store {
	return m.store
}

// Register creates an adapter for spec, applies overrides, and adds it
// to the set. Names must be unique.
func (m *Manager) Register(spec Spec, overrides map[string]any) (*Adapter, error) {
	if spec == nil {
		return nil, ErrInvalidSpec
	}
	name := spec.Name()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byName[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateAdapter, name)
	}

	a, err := New(spec, m.newPub(name), WithLogger(m.logger), WithRunner(m.run))
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		if err := a.Setup(overrides); err != nil {
			return nil, fmt.Errorf("configuring %s: %w", name, err)
		}
	}

	m.order = append(m.order, name)
	m.byName[name] = a
	m.logger.Debug("registered adapter %s", name)
	return a, nil
}

// Get returns the adapter registered under name.
func (m *Manager) Get(name string) (*Adapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAdapter, name)
	}
	return a, nil
}

// Names returns adapter names in registration order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Adapters returns the adapters in registration order.
func (m *Manager) Adapters() []*Adapter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Adapter, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.byName[name])
	}
	return out
}

// Attach registers target with every adapter whose scope matches it.
func (m *Manager) Attach(target string) {
	ft := Filetype(target)
	for _, a := range m.Adapters() {
		if a.Matches(ft) {
			a.Attach(target)
		}
	}
}

// HandleSave fans a save trigger out to matching adapters.
func (m *Manager) HandleSave(target string) {
	ft := Filetype(target)
	for _, a := range m.Adapters() {
		if a.Matches(ft) {
			a.HandleSave(target)
		}
	}
}

// HandleChange fans a change trigger out to matching adapters.
func (m *Manager) HandleChange(target string) {
	ft := Filetype(target)
	for _, a := range m.Adapters() {
		if a.Matches(ft) {
			a.HandleChange(target)
		}
	}
}

// Toggle flips one adapter by name and returns its new state.
func (m *Manager) Toggle(name string) (bool, error) {
	a, err := m.Get(name)
	if err != nil {
		return false, err
	}
	return a.Toggle(), nil
}

// ToggleAll flips every adapter and returns the new state by name.
func (m *Manager) ToggleAll() map[string]bool {
	states := make(map[string]bool)
	for _, a := range m.Adapters() {
		states[a.Name()] = a.Toggle()
	}
	return states
}

// Shutdown closes every adapter, cancelling timers and killing
// in-flight processes.
func (m *Manager) Shutdown() {
	for _, a := range m.Adapters() {
		a.Close()
	}
}
