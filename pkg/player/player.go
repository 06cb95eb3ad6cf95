package player

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/rurigk/potv2/pkg/queue"
	"github.com/rurigk/potv2/pkg/track"
)

// State is the engine's per-session playback state.
type State int

const (
	StateIdle State = iota
	StateAcquiring
	StatePlaying
)

var (
	ErrAlreadyConnected = errors.New("already joined a voice channel")
	ErrNotConnected     = errors.New("not in a voice channel")
	ErrNotPlaying       = errors.New("nothing is playing")
)

// Acquirer produces a live decoded audio stream for a track.
type Acquirer interface {
	Acquire(t track.Record) (io.ReadCloser, error)
}

// Sink is the voice output for one session. Only the holder of the
// session's exclusive section may call into it. Play starts the
// stream and arranges for onEnd to run exactly once when the stream
// is exhausted naturally; an explicit Stop suppresses onEnd for the
// stopped stream. Stop must not wait for the stream goroutine to
// observe it.
type Sink interface {
	Play(stream io.ReadCloser, onEnd func())
	Stop()
	Disconnect()
}

// Notifier relays user-facing status lines for a session.
type Notifier interface {
	Notify(guildID, message string)
}

// History records playback outcomes. Optional.
type History interface {
	RecordPlayed(guildID string, t track.Record)
	RecordFailed(guildID string, t track.Record)
}

// session serializes all playback transitions for one guild. The
// generation counter dedupes a manual skip against the stopped
// stream's eventual natural end notification: every start bumps it,
// and end notifications carrying a stale generation are ignored.
type session struct {
	mu         sync.Mutex
	sink       Sink
	state      State
	generation uint64
}

// Engine drives continuous playback per session: pop next item,
// acquire its stream, start output, retrying on acquisition failure
// and tearing the session down when the queue runs out.
type Engine struct {
	queue    *queue.Store
	acquirer Acquirer
	notifier Notifier
	history  History

	mu       sync.Mutex
	sessions map[string]*session
}

// NewEngine creates a continuation engine. history may be nil.
func NewEngine(store *queue.Store, acquirer Acquirer, notifier Notifier, history History) *Engine {
	return &Engine{
		queue:    store,
		acquirer: acquirer,
		notifier: notifier,
		history:  history,
		sessions: make(map[string]*session),
	}
}

func (e *Engine) session(guildID string) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[guildID]
	if !ok {
		s = &session{}
		e.sessions[guildID] = s
	}
	return s
}

// Attach binds a freshly joined voice sink to the session.
func (e *Engine) Attach(guildID string, sink Sink) error {
	s := e.session(guildID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sink != nil {
		return ErrAlreadyConnected
	}
	s.sink = sink
	s.state = StateIdle
	return nil
}

// Connected reports whether the session has a voice sink attached.
func (e *Engine) Connected(guildID string) bool {
	s := e.session(guildID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink != nil
}

// State returns the session's playback state.
func (e *Engine) State(guildID string) State {
	s := e.session(guildID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartIfIdle begins playback when the session is idle. A session
// that is already acquiring or playing is left alone, so a play
// command racing a track-end notification cannot start two streams.
func (e *Engine) StartIfIdle(guildID string) {
	s := e.session(guildID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return
	}
	e.advanceLocked(guildID, s)
}

// Skip stops the current track and advances. The generation bump
// before Stop makes the stopped stream's end notification stale, so
// exactly one advance happens per skip.
func (e *Engine) Skip(guildID string) (State, error) {
	s := e.session(guildID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sink == nil {
		return s.state, ErrNotConnected
	}
	if !e.queue.IsPlaying(guildID) {
		return s.state, ErrNotPlaying
	}

	s.generation++
	s.sink.Stop()
	e.advanceLocked(guildID, s)
	return s.state, nil
}

// Detach is the explicit-leave teardown: clear the queue, stop
// whatever is playing and disconnect. Safe to call while a track is
// mid-stream; the stopped stream's processes are reaped through its
// Close.
func (e *Engine) Detach(guildID string) error {
	s := e.session(guildID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sink == nil {
		return ErrNotConnected
	}

	s.generation++
	e.queue.Clear(guildID)
	e.queue.SetPlaying(guildID, false)
	s.sink.Stop()
	s.sink.Disconnect()
	s.sink = nil
	s.state = StateIdle
	return nil
}

// onTrackEnd is the asynchronous completion callback handed to the
// sink. Stale generations were superseded by a skip or teardown.
func (e *Engine) onTrackEnd(guildID string, generation uint64) {
	s := e.session(guildID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return
	}
	e.advanceLocked(guildID, s)
}

// advanceLocked is the continuation loop: consume-next, acquire,
// play-or-retry-or-terminate. Failed tracks are discarded, not
// requeued, so the loop is bounded by the remaining queue length. It
// is deliberately iterative; a long run of unplayable tracks must not
// grow the call stack. Callers hold s.mu end to end, which makes
// consume-through-acquire atomic with respect to every other
// operation on the session.
func (e *Engine) advanceLocked(guildID string, s *session) {
	for {
		t, ok := e.queue.Consume(guildID)
		if !ok {
			e.terminateLocked(guildID, s)
			return
		}

		if s.sink == nil {
			// Torn down with items still queued; nothing to feed.
			e.queue.SetPlaying(guildID, false)
			s.state = StateIdle
			return
		}

		e.queue.SetPlaying(guildID, true)
		s.state = StateAcquiring

		stream, err := e.acquirer.Acquire(t)
		if err != nil {
			log.Printf("acquisition failed for %s (%s): %v", t.Title, t.ID, err)
			e.notifier.Notify(guildID, fmt.Sprintf("Cannot play %s", t.Title))
			if e.history != nil {
				e.history.RecordFailed(guildID, t)
			}
			continue
		}

		s.generation++
		generation := s.generation
		s.state = StatePlaying
		e.notifier.Notify(guildID, fmt.Sprintf("Playing now %s", t.Title))
		if e.history != nil {
			e.history.RecordPlayed(guildID, t)
		}
		s.sink.Play(stream, func() {
			e.onTrackEnd(guildID, generation)
		})
		return
	}
}

// terminateLocked is the single terminal path: mark the session idle,
// notify once and disconnect from voice. Running it again is a no-op,
// so two racing queue-finished triggers cannot double-disconnect.
func (e *Engine) terminateLocked(guildID string, s *session) {
	e.queue.SetPlaying(guildID, false)

	alreadyDown := s.sink == nil && s.state == StateIdle
	s.state = StateIdle
	if alreadyDown {
		return
	}

	s.generation++
	e.notifier.Notify(guildID, "Queue finished")
	if s.sink != nil {
		s.sink.Disconnect()
		s.sink = nil
		e.notifier.Notify(guildID, "Left voice channel")
	}
}
