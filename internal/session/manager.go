// Package session hosts one calculation surface per session: an engine plus
// its history log, registered under a uuid and bounded by LRU eviction. All
// engine access goes through the per-session lock, which enforces the
// one-caller-at-a-time contract the engine requires.
package session

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"

	"exactcalc/internal/engine"
	"exactcalc/internal/history"
	"exactcalc/internal/rational"
)

// DefaultCapacity bounds the number of live sessions when no capacity is
// configured.
const DefaultCapacity = 1024

// Session is one active calculation surface.
type Session struct {
	ID string

	mu  sync.Mutex
	eng *engine.Engine
	log *history.Log
}

// Do runs fn with exclusive access to the session's engine and history log.
func (s *Session) Do(fn func(e *engine.Engine, h *history.Log)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.eng, s.log)
}

// Manager is the session registry. Lookups refresh recency; creating a
// session past capacity evicts the least recently used one.
type Manager struct {
	mu              sync.Mutex
	capacity        int
	historyCapacity int
	defaultMode     engine.Mode
	order           *list.List // front = most recently used
	byID            map[string]*list.Element
}

// NewManager returns a registry holding at most capacity sessions, each with
// a history log of historyCapacity entries.
func NewManager(capacity, historyCapacity int, defaultMode engine.Mode) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if defaultMode == "" {
		defaultMode = engine.ModeStandard
	}
	return &Manager{
		capacity:        capacity,
		historyCapacity: historyCapacity,
		defaultMode:     defaultMode,
		order:           list.New(),
		byID:            make(map[string]*list.Element, capacity),
	}
}

// Create registers a new session in the given mode (empty means the
// configured default). It returns the session and how many sessions were
// evicted to make room.
func (m *Manager) Create(mode engine.Mode) (*Session, int) {
	if mode == "" {
		mode = m.defaultMode
	}

	eng := engine.New(mode)
	log := history.New(m.historyCapacity)
	eng.NotifyResult(func(expression string, result rational.Number) {
		log.Append(history.Entry{
			Expression: expression,
			Result:     result,
			At:         time.Now(),
		})
	})

	s := &Session{
		ID:  uuid.New().String(),
		eng: eng,
		log: log,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID[s.ID] = m.order.PushFront(s)

	evicted := 0
	for m.order.Len() > m.capacity {
		oldest := m.order.Back()
		m.order.Remove(oldest)
		delete(m.byID, oldest.Value.(*Session).ID)
		evicted++
	}
	return s, evicted
}

// Get looks up a session by ID and marks it most recently used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	m.order.MoveToFront(elem)
	return elem.Value.(*Session), true
}

// Delete removes a session, reporting whether it existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.byID[id]
	if !ok {
		return false
	}
	m.order.Remove(elem)
	delete(m.byID, id)
	return true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
