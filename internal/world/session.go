package world

import (
	"fmt"

	"github.com/vovakirdan/geocoin/internal/cache"
	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/memento"
)

// Session is the player's side of the game state.
// Coins is one wallet shared across all caches.
type Session struct {
	Location grid.LatLng
	Points   int
	Coins    int
	History  []grid.LatLng // Locations moved to, oldest first
}

// NewSession returns a zeroed session standing at start.
func NewSession(start grid.LatLng) Session {
	return Session{Location: start}
}

// Clone returns a copy that shares no memory with s.
func (s Session) Clone() Session {
	c := s
	if s.History != nil {
		c.History = make([]grid.LatLng, len(s.History))
		copy(c.History, s.History)
	}
	return c
}

// Equal reports field-by-field equality, including history order.
func (s Session) Equal(other Session) bool {
	if s.Location != other.Location || s.Points != other.Points || s.Coins != other.Coins {
		return false
	}
	if len(s.History) != len(other.History) {
		return false
	}
	for i := range s.History {
		if s.History[i] != other.History[i] {
			return false
		}
	}
	return true
}

// CacheView is a cache as shown to a shell: its live record plus whether the
// player has opened it (and so it has an override in the store).
type CacheView struct {
	Record   cache.Record
	Opened   bool
	Distance int // Chebyshev distance from the player's cell
}

// Saver persists the session and the store after each mutation.
type Saver interface {
	Save(session Session, store *memento.Store) error
}

// ScoreRecorder receives the final score of a session when it is reset.
type ScoreRecorder interface {
	SaveScore(player string, score int) (int64, error)
}

// InsufficientFundsError describes a refused economy move. The engine never
// returns it to callers; it is logged so refused moves remain traceable.
type InsufficientFundsError struct {
	Op        string // "collect" or "deposit"
	Cell      grid.Cell
	Requested int
	Available int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("world: %s of %d at %s refused, only %d available",
		e.Op, e.Requested, e.Cell, e.Available)
}
