package persist

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/geocoin/internal/memento"
	"github.com/vovakirdan/geocoin/internal/world"
)

// Manager saves and loads one named slot. It implements world.Saver, so an
// engine snapshots itself through the manager after every mutation.
type Manager struct {
	slot   Slot
	name   string
	logger *log.Logger
}

// NewManager creates a manager for the named slot. A nil logger discards.
func NewManager(slot Slot, name string, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{slot: slot, name: name, logger: logger}
}

// Name returns the slot name.
func (m *Manager) Name() string {
	return m.name
}

// Save snapshots the session and store into the slot.
func (m *Manager) Save(session world.Session, store *memento.Store) error {
	blob, err := Snapshot(session, store)
	if err != nil {
		return err
	}
	return m.slot.Save(context.Background(), m.name, blob)
}

// Load reads and parses the slot.
// Returns ErrSlotEmpty when nothing was saved yet and a *CorruptStateError
// when the blob is malformed.
func (m *Manager) Load(ctx context.Context) (world.Session, []memento.Entry, error) {
	blob, err := m.slot.Load(ctx, m.name)
	if err != nil {
		return world.Session{}, nil, err
	}
	return Restore(blob)
}

// Clear deletes the slot.
func (m *Manager) Clear(ctx context.Context) error {
	return m.slot.Delete(ctx, m.name)
}

// Resume loads the slot into the engine. Whatever goes wrong, the engine is
// left usable: an empty, corrupt or unreadable slot leaves it on its fresh
// default session. Returns true when a saved session was restored.
func (m *Manager) Resume(ctx context.Context, e *world.Engine) bool {
	session, entries, err := m.Load(ctx)
	if err != nil {
		var corrupt *CorruptStateError
		switch {
		case errors.Is(err, ErrSlotEmpty):
			m.logger.Info("no saved session, starting fresh", "slot", m.name)
		case errors.As(err, &corrupt):
			m.logger.Warn("discarding corrupt save", "slot", m.name, "err", err)
		default:
			m.logger.Error("could not load save", "slot", m.name, "err", err)
		}
		return false
	}

	if err := e.Restore(session, entries); err != nil {
		m.logger.Warn("discarding inconsistent save", "slot", m.name, "err", err)
		return false
	}
	m.logger.Info("session resumed", "slot", m.name, "points", session.Points, "coins", session.Coins)
	return true
}
