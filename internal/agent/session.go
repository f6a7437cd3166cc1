// File: internal/agent/session.go
package agent

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/xkilldash9x/pagepilot/api/schemas"
)

// uuidNewString is swapped in tests for deterministic ids.
var uuidNewString = uuid.NewString

// Session is the durable conversation state threaded through the
// orchestrator: the transcript, the stop flag and the lifecycle status. It
// replaces ad hoc globals so that concurrent sessions stay independent.
type Session struct {
	ID string

	mu     sync.Mutex
	turns  []schemas.Turn
	status schemas.SessionStatus
	stop   atomic.Bool
}

// NewSession creates an empty idle session.
func NewSession() *Session {
	return &Session{
		ID:     uuidNewString(),
		status: schemas.SessionIdle,
	}
}

// Append records a turn in the transcript.
func (s *Session) Append(turn schemas.Turn) {
	if turn.ID == "" {
		turn.ID = uuidNewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
}

// Window returns a copy of the most recent n turns.
func (s *Session) Window(n int) []schemas.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := len(s.turns) - n
	if n <= 0 || start < 0 {
		start = 0
	}
	out := make([]schemas.Turn, len(s.turns)-start)
	copy(out, s.turns[start:])
	return out
}

// Len reports the transcript length.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Stop requests cancellation of the running loop. The orchestrator checks
// the flag between model calls, before tool execution and between streamed
// characters of commentary.
func (s *Session) Stop() { s.stop.Store(true) }

// Stopped reports whether a stop was requested.
func (s *Session) Stopped() bool { return s.stop.Load() }

// resetStop clears the flag at the start of a new user request.
func (s *Session) resetStop() { s.stop.Store(false) }

// Status returns the current lifecycle state.
func (s *Session) Status() schemas.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) setStatus(status schemas.SessionStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}
