package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/tripplanner/internal/preferences"
	"github.com/dharmasatrya/tripplanner/internal/questionnaire"
	"github.com/dharmasatrya/tripplanner/internal/trip"
)

const DefaultTTL = 2 * time.Hour

// Manager serializes load-modify-save cycles per session so two requests
// for the same visitor cannot interleave.
type Manager struct {
	store    Store
	flow     *questionnaire.Flow
	ttl      time.Duration
	onDelete []func(id string)

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(store Store, flow *questionnaire.Flow, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store: store,
		flow:  flow,
		ttl:   ttl,
		locks: make(map[string]*sessionLock),
	}
}

func (m *Manager) Flow() *questionnaire.Flow {
	return m.flow
}

// OnDelete registers fn to run after a session is deleted.
func (m *Manager) OnDelete(fn func(id string)) {
	m.onDelete = append(m.onDelete, fn)
}

func (m *Manager) Create(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	s := &Session{
		ID:            uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     now,
		Memory:        preferences.NewMemory(),
		Questionnaire: questionnaire.NewState(m.flow),
		Trip:          trip.NewPlan(),
	}
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.fill(s)
	return s, nil
}

// Update loads the session, applies fn and saves the result while holding
// the session's lock. If fn fails nothing is saved.
func (m *Manager) Update(ctx context.Context, id string, fn func(s *Session) error) (*Session, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.fill(s)

	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now().UTC()
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	err := m.store.Delete(ctx, id)
	unlock()
	if err != nil {
		return err
	}
	for _, fn := range m.onDelete {
		fn(id)
	}
	return nil
}

// fill repairs sessions written before a component existed.
func (m *Manager) fill(s *Session) {
	if s.Memory == nil {
		s.Memory = preferences.NewMemory()
	}
	if s.Questionnaire == nil {
		s.Questionnaire = questionnaire.NewState(m.flow)
	}
	if s.Questionnaire.Answers == nil {
		s.Questionnaire.Answers = make(map[string][]string)
	}
	if s.Trip == nil {
		s.Trip = trip.NewPlan()
	}
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}
