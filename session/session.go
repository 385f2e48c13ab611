package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/a-bouts/river-twin/fleet"
	"github.com/a-bouts/river-twin/scenario"
)

var ErrNotFound = errors.New("session not found")

type session struct {
	mu       sync.Mutex
	state    *fleet.State
	lastSeen time.Time
}

// Store keeps one simulation per session. Steps of different sessions run
// independently; steps of the same session are serialized.
type Store struct {
	scenario scenario.Scenario
	now      func() time.Time

	lock     sync.RWMutex
	sessions map[string]*session
}

func NewStore(s scenario.Scenario) *Store {
	return &Store{
		scenario: s,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (st *Store) Scenario() scenario.Scenario {
	return st.scenario
}

// Create seeds a new session with the scenario fleet.
func (st *Store) Create() (string, fleet.State) {
	id := uuid.NewString()
	s := &session{
		state:    fleet.NewState(st.scenario.Ships()),
		lastSeen: st.now(),
	}

	st.lock.Lock()
	st.sessions[id] = s
	st.lock.Unlock()

	return id, s.state.Snapshot()
}

func (st *Store) get(id string) (*session, error) {
	st.lock.RLock()
	s, found := st.sessions[id]
	st.lock.RUnlock()
	if !found {
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *Store) Get(id string) (fleet.State, error) {
	s, err := st.get(id)
	if err != nil {
		return fleet.State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = st.now()
	return s.state.Snapshot(), nil
}

// Step advances a session by one hour and returns the new state and the
// ships halted on this step.
func (st *Store) Step(id string, windSpeed float64) (fleet.State, []fleet.Ship, error) {
	s, err := st.get(id)
	if err != nil {
		return fleet.State{}, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	halted := s.state.Step(st.scenario.Path.Len(), windSpeed)
	s.lastSeen = st.now()
	return s.state.Snapshot(), halted, nil
}

func (st *Store) Delete(id string) error {
	st.lock.Lock()
	defer st.lock.Unlock()
	if _, found := st.sessions[id]; !found {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

func (st *Store) Len() int {
	st.lock.RLock()
	defer st.lock.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions not used for longer than maxIdle and returns how
// many were removed.
func (st *Store) Sweep(maxIdle time.Duration) int {
	limit := st.now().Add(-maxIdle)

	st.lock.Lock()
	defer st.lock.Unlock()

	removed := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(limit)
		s.mu.Unlock()
		if idle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
