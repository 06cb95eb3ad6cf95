package queue

import (
	"sync"

	"github.com/rurigk/potv2/pkg/track"
)

// session holds one guild's queued tracks and playing flag.
type session struct {
	items   []track.Record
	playing bool
}

// Store maps guild IDs to their session queues. Entries are created
// lazily on first use and never removed; Clear empties a queue but
// keeps the entry. All methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

// NewStore creates an empty queue store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*session),
	}
}

func (s *Store) sessionLocked(guildID string) *session {
	ses, ok := s.sessions[guildID]
	if !ok {
		ses = &session{}
		s.sessions[guildID] = ses
	}
	return ses
}

// Add appends resolved items to the guild's queue and returns the
// count appended. For URL input every resolved item is appended in
// order; for search input at most the first item is appended, so the
// returned count is 0 or 1.
func (s *Store) Add(guildID string, items []track.Record, fromSearch bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ses := s.sessionLocked(guildID)

	if fromSearch {
		if len(items) == 0 {
			return 0
		}
		ses.items = append(ses.items, items[0])
		return 1
	}

	ses.items = append(ses.items, items...)
	return len(items)
}

// Consume removes and returns the head of the guild's queue. The
// second return is false when the guild has no queue or the queue is
// empty. This is the only operation that removes individual items.
func (s *Store) Consume(guildID string) (track.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ses, ok := s.sessions[guildID]
	if !ok || len(ses.items) == 0 {
		return track.Record{}, false
	}

	item := ses.items[0]
	ses.items = ses.items[1:]
	return item, true
}

// Clear empties the guild's queue and reports whether a queue existed.
func (s *Store) Clear(guildID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ses, ok := s.sessions[guildID]
	if !ok {
		return false
	}
	ses.items = nil
	return true
}

// SetPlaying sets the guild's playing flag.
func (s *Store) SetPlaying(guildID string, playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionLocked(guildID).playing = playing
}

// IsPlaying reports the guild's playing flag. Unknown guilds are not
// playing.
func (s *Store) IsPlaying(guildID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ses, ok := s.sessions[guildID]
	if !ok {
		return false
	}
	return ses.playing
}

// Pending returns a copy of the guild's remaining items in queue
// order.
func (s *Store) Pending(guildID string) []track.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ses, ok := s.sessions[guildID]
	if !ok {
		return nil
	}
	items := make([]track.Record, len(ses.items))
	copy(items, ses.items)
	return items
}

// Len returns the number of items waiting in the guild's queue.
func (s *Store) Len(guildID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ses, ok := s.sessions[guildID]
	if !ok {
		return 0
	}
	return len(ses.items)
}
