package diag

import (
	"sort"
	"sync"
	"time"
)

// Store aggregates published records per target, keyed by the scope
// (adapter name) that produced them. It is the in-process consumer used
// by the CLI; editor hosts supply their own Publisher instead.
type Store struct {
	mu      sync.RWMutex
	targets map[string]*targetRecords

	onChange func(target string, records []Record)
}

// targetRecords holds the per-scope deliveries for one target.
type targetRecords struct {
	scopes    map[string][]Record
	updatedAt time.Time
}

// StoreOption configures the store.
type StoreOption func(*Store)

// WithChangeHandler sets a callback invoked after every delivery that
// changes a target, with the target's merged records.
func WithChangeHandler(handler func(target string, records []Record)) StoreOption {
	return func(s *Store) {
		s.onChange = handler
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		targets: make(map[string]*targetRecords),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scoped returns a Publisher that delivers into the store under the
// given scope. Each adapter gets its own scope so one tool's delivery
// never clobbers another's.
func (s *Store) Scoped(scope string) Publisher {
	return PublisherFunc(func(target string, records []Record) {
		s.Publish(scope, target, records)
	})
}

// Publish replaces the records held for (scope, target). An empty or
// nil list clears the scope's records for that target. Records are
// copied in, so callers may reuse their slice.
func (s *Store) Publish(scope, target string, records []Record) {
	s.mu.Lock()

	tr, ok := s.targets[target]
	if !ok {
		if len(records) == 0 {
			// Clearing a target we never held; idempotent no-op.
			s.mu.Unlock()
			return
		}
		tr = &targetRecords{scopes: make(map[string][]Record)}
		s.targets[target] = tr
	}

	if len(records) == 0 {
		delete(tr.scopes, scope)
		if len(tr.scopes) == 0 {
			delete(s.targets, target)
		}
	} else {
		stored := make([]Record, len(records))
		copy(stored, records)
		tr.scopes[scope] = stored
	}
	tr.updatedAt = time.Now()

	handler := s.onChange
	var merged []Record
	if handler != nil {
		merged = s.mergeLocked(target)
	}
	s.mu.Unlock()

	if handler != nil {
		handler(target, merged)
	}
}

// Get returns every record held for a target, all scopes merged.
// Scopes are concatenated in sorted name order; within a scope the
// delivery order is preserved. The returned slice is a copy.
func (s *Store) Get(target string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mergeLocked(target)
}

// GetScope returns the records one scope holds for a target.
func (s *Store) GetScope(scope, target string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tr, ok := s.targets[target]
	if !ok {
		return nil
	}
	records, ok := tr.scopes[scope]
	if !ok {
		return nil
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Targets returns the targets that currently hold records, sorted.
func (s *Store) Targets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.targets))
	for target := range s.targets {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of records held for a target.
func (s *Store) Len(target string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tr, ok := s.targets[target]
	if !ok {
		return 0
	}
	n := 0
	for _, records := range tr.scopes {
		n += len(records)
	}
	return n
}

// Counts returns the number of records per severity for a target.
// Records with unset severity are not counted.
func (s *Store) Counts(target string) (errors, warnings, infos, hints int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tr, ok := s.targets[target]
	if !ok {
		return 0, 0, 0, 0
	}
	for _, records := range tr.scopes {
		for _, r := range records {
			switch r.Severity {
			case SeverityError:
				errors++
			case SeverityWarning:
				warnings++
			case SeverityInformation:
				infos++
			case SeverityHint:
				hints++
			}
		}
	}
	return errors, warnings, infos, hints
}

// ClearScope removes one scope's records from every target.
func (s *Store) ClearScope(scope string) {
	s.mu.Lock()
	for target, tr := range s.targets {
		delete(tr.scopes, scope)
		if len(tr.scopes) == 0 {
			delete(s.targets, target)
		}
	}
	s.mu.Unlock()
}

// Clear removes every record for every target.
func (s *Store) Clear() {
	s.mu.Lock()
	s.targets = make(map[string]*targetRecords)
	s.mu.Unlock()
}

// mergeLocked concatenates a target's scopes in sorted name order.
// Callers must hold the lock.
func (s *Store) mergeLocked(target string) []Record {
	tr, ok := s.targets[target]
	if !ok {
		return nil
	}

	scopes := make([]string, 0, len(tr.scopes))
	for scope := range tr.scopes {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)

	var merged []Record
	for _, scope := range scopes {
		merged = append(merged, tr.scopes[scope]...)
	}
	return merged
}
