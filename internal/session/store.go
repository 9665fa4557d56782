// Package session holds the per-browser screening state. Nothing here is
// persisted; sessions live in memory and expire after a TTL.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hrsuite/ats-scanner/internal/ai"
)

const defaultTTL = 2 * time.Hour

// Submission is the candidate data collected on the upload form, with the
// resume already reduced to plain text.
type Submission struct {
	ResumeText     string
	JobDescription string
	CandidateName  string
	CandidateEmail string
	JobTitle       string
}

// Session is the state of one screening flow. Later stages are nil until the
// corresponding stage has completed successfully; a failed stage stores
// nothing.
type Session struct {
	ID         string
	CreatedAt  time.Time
	Submission *Submission
	Match      *ai.MatchResult
	Assessment *ai.Assessment
	EmailSent  bool
}

// Store is an in-memory session registry keyed by session id. Expired
// sessions are swept lazily on creation. Create and Get hand out detached
// snapshots; the canonical struct lives in the store and changes only
// through Update, so readers never touch memory a concurrent Update writes.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new empty session and sweeps expired ones.
func (s *Store) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.CreatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}

	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	s.sessions[sess.ID] = sess

	snapshot := *sess
	return &snapshot
}

// Get returns a snapshot of the session with the given id, or false when it
// is unknown or expired.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	var snapshot Session
	if ok {
		snapshot = *sess
	}
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if s.now().Sub(snapshot.CreatedAt) > s.ttl {
		s.Delete(id)
		return nil, false
	}

	return &snapshot, true
}

// Update applies fn to the session with the given id under the store lock.
// It reports false when the session is unknown or has expired.
func (s *Store) Update(id string, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}

	if s.now().Sub(sess.CreatedAt) > s.ttl {
		delete(s.sessions, id)
		return false
	}

	fn(sess)
	return true
}

// Delete removes the session with the given id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
