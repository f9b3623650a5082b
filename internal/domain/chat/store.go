package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// session holds one conversation transcript. Its mutex serializes the whole
// append-converse-append sequence so concurrent turns on the same session
// cannot interleave and corrupt the alternating-role transcript.
type session struct {
	mu       sync.Mutex
	turns    []Turn
	lastSeen time.Time
	// inUse counts outstanding checkouts, guarded by the store mutex. A
	// pinned session is never expired or evicted: removing it mid-turn would
	// let a later checkout of the same id allocate a second session object,
	// and the two would no longer serialize on one lock.
	inUse int
}

// Store owns conversation identity and history for the process lifetime.
// Sessions expire after a TTL of inactivity and the least recently used
// sessions are evicted once the configured cap is reached.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*session
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

// NewStore constructs a session store with the given eviction policy.
func NewStore(ttl time.Duration, maxSessions int) *Store {
	return &Store{
		sessions:    make(map[string]*session),
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Create allocates a fresh session. When id is empty a new identifier is
// generated; a client-supplied identifier is always honored as-is.
func (s *Store) Create(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(id)
}

func (s *Store) createLocked(id string) string {
	now := s.now()
	s.expireLocked(now)
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := s.sessions[id]; !exists {
		s.evictLocked()
		s.sessions[id] = &session{lastSeen: now}
	}
	return id
}

// checkout returns the session for id with its mutex held, creating it first
// when the identifier is unknown or absent. Callers must release the session
// once the turn exchange completes.
func (s *Store) checkout(id string) (string, *session) {
	s.mu.Lock()
	id = s.createLocked(id)
	sess := s.sessions[id]
	sess.lastSeen = s.now()
	sess.inUse++
	s.mu.Unlock()

	sess.mu.Lock()
	return id, sess
}

// release ends a checkout, making the session eligible for expiry and
// eviction again.
func (s *Store) release(sess *session) {
	sess.mu.Unlock()
	s.mu.Lock()
	sess.inUse--
	s.mu.Unlock()
}

// History returns a snapshot of the transcript for id.
func (s *Store) History(id string) ([]Turn, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append([]Turn(nil), sess.turns...), true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// expireLocked drops sessions idle for longer than the TTL. Runs
// opportunistically on store writes.
func (s *Store) expireLocked(now time.Time) {
	for id, sess := range s.sessions {
		if sess.inUse == 0 && now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// evictLocked makes room for one new session by removing the least recently
// used ones once the cap is reached. Pinned sessions are passed over, so the
// store may briefly exceed the cap while every session has a turn in flight.
func (s *Store) evictLocked() {
	for len(s.sessions) >= s.maxSessions {
		oldestID := ""
		var oldest time.Time
		for id, sess := range s.sessions {
			if sess.inUse > 0 {
				continue
			}
			if oldestID == "" || sess.lastSeen.Before(oldest) {
				oldestID = id
				oldest = sess.lastSeen
			}
		}
		if oldestID == "" {
			return
		}
		delete(s.sessions, oldestID)
	}
}
