package xiangqi

import (
	"sort"
	"strings"
	"sync"
	"time"

	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
)

// session is one live game. mu serialises every use of manager.
type session struct {
	mu        sync.Mutex
	id        string
	manager   *core.Manager
	createdAt time.Time
	updatedAt time.Time
	ended     bool
}

func (s *session) touch(now time.Time) {
	s.updatedAt = now
}

// sessionStore is the in-memory session table.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (m *sessionStore) key(id string) string {
	return strings.TrimSpace(id)
}

func (m *sessionStore) get(id string) (*session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[m.key(id)]
	return s, ok
}

func (m *sessionStore) put(s *session) {
	m.mu.Lock()
	m.sessions[m.key(s.id)] = s
	m.mu.Unlock()
}

func (m *sessionStore) remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.key(id)
	if _, ok := m.sessions[k]; !ok {
		return false
	}
	delete(m.sessions, k)
	return true
}

func (m *sessionStore) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// idle lists sessions untouched since cutoff, oldest first.
func (m *sessionStore) idle(cutoff time.Time) []*session {
	m.mu.RLock()
	items := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		items = append(items, s)
	}
	m.mu.RUnlock()

	type stamped struct {
		s  *session
		at time.Time
	}
	stale := make([]stamped, 0, len(items))
	for _, s := range items {
		s.mu.Lock()
		at := s.updatedAt
		s.mu.Unlock()
		if !at.After(cutoff) {
			stale = append(stale, stamped{s: s, at: at})
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		if !stale[i].at.Equal(stale[j].at) {
			return stale[i].at.Before(stale[j].at)
		}
		return stale[i].s.id < stale[j].s.id
	})
	out := make([]*session, len(stale))
	for i, st := range stale {
		out[i] = st.s
	}
	return out
}

func (m *sessionStore) ids() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
