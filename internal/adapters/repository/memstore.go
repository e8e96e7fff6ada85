package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/podsmith/internal/domain/model"
	"github.com/okian/podsmith/pkg/metrics"
)

const defaultMaxParticipants = 256

// roster is the mutable state guarded by MemoryStore.mu.
type roster struct {
	order []string
	byID  map[string]model.Participant
	names map[string]string // folded name -> id
}

func newRoster() roster {
	return roster{
		byID:  make(map[string]model.Participant),
		names: make(map[string]string),
	}
}

// MemoryStore is an in-memory Store with a single-slot undo snapshot.
type MemoryStore struct {
	mu       sync.RWMutex
	current  roster
	snapshot *roster
	maxSize  int
	newID    func() string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty roster.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		current: newRoster(),
		maxSize: defaultMaxParticipants,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add implements Store.
func (s *MemoryStore) Add(_ context.Context, p model.Participant) (model.Participant, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return model.Participant{}, ErrEmptyName
	}
	if len(p.Tiers) == 0 {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrEmptyTierSet, p.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.current.order) >= s.maxSize {
		return model.Participant{}, fmt.Errorf("%w: limit %d", ErrCapacity, s.maxSize)
	}
	if _, taken := s.current.names[foldName(p.Name)]; taken {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
	}
	if p.ID == "" {
		p.ID = s.newID()
	}
	if _, exists := s.current.byID[p.ID]; exists {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}

	p = cloneParticipant(p)
	s.current.order = append(s.current.order, p.ID)
	s.current.byID[p.ID] = p
	s.current.names[foldName(p.Name)] = p.ID
	metrics.UpdateRosterSize(len(s.current.order))
	return cloneParticipant(p), nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.current.byID[id]
	if !ok {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneParticipant(p), nil
}

// Remove implements Store.
func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.current.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.current.byID, id)
	delete(s.current.names, foldName(p.Name))
	for i, oid := range s.current.order {
		if oid == id {
			s.current.order = append(s.current.order[:i], s.current.order[i+1:]...)
			break
		}
	}
	metrics.UpdateRosterSize(len(s.current.order))
	return nil
}

// SetGroup implements Store.
func (s *MemoryStore) SetGroup(_ context.Context, id, groupID string) (model.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.current.byID[id]
	if !ok {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p.GroupID = strings.TrimSpace(groupID)
	s.current.byID[id] = p
	return cloneParticipant(p), nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) []model.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Participant, 0, len(s.current.order))
	for _, id := range s.current.order {
		out = append(out, cloneParticipant(s.current.byID[id]))
	}
	return out
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.current.order)
}

// Reset implements Store.
func (s *MemoryStore) Reset(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.current.order)
	prev := s.current
	s.snapshot = &prev
	s.current = newRoster()
	metrics.UpdateRosterSize(0)
	return removed
}

// Undo implements Store.
func (s *MemoryStore) Undo(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return 0, ErrNothingToUndo
	}
	s.current = *s.snapshot
	s.snapshot = nil
	metrics.UpdateRosterSize(len(s.current.order))
	return len(s.current.order), nil
}

func cloneParticipant(p model.Participant) model.Participant {
	p.Tiers = append([]float64(nil), p.Tiers...)
	p.Labels = append([]string(nil), p.Labels...)
	return p
}
