// Package persist turns a game session into a plain JSON save blob and back,
// and stores that blob in a named slot.
package persist

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vovakirdan/geocoin/internal/cache"
	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/memento"
	"github.com/vovakirdan/geocoin/internal/world"
)

//go:embed save.schema.json
var saveSchemaJSON string

const saveSchemaURL = "https://geocoin.invalid/save.schema.json"

var (
	saveSchemaOnce sync.Once
	saveSchema     *jsonschema.Schema
	saveSchemaErr  error
)

func schema() (*jsonschema.Schema, error) {
	saveSchemaOnce.Do(func() {
		saveSchema, saveSchemaErr = jsonschema.CompileString(saveSchemaURL, saveSchemaJSON)
	})
	return saveSchema, saveSchemaErr
}

// CorruptStateError reports a save blob that does not have the expected
// shape. Callers recover by starting a fresh session.
type CorruptStateError struct {
	Reason string
	Err    error
}

func (e *CorruptStateError) Error() string {
	if e.Err == nil {
		return "persist: corrupt state: " + e.Reason
	}
	return fmt.Sprintf("persist: corrupt state: %s: %v", e.Reason, e.Err)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

// saveFile is the on-disk shape of a save blob.
type saveFile struct {
	PlayerLocation  grid.LatLng   `json:"playerLocation"`
	PlayerPoints    int           `json:"playerPoints"`
	PlayerCoins     int           `json:"playerCoins"`
	CacheStates     []cacheState  `json:"cacheStates"`
	MovementHistory []grid.LatLng `json:"movementHistory"`
}

// cacheState is one store entry, encoded as a [key, record] pair.
type cacheState struct {
	Key    string
	Record cache.Record
}

func (c cacheState) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Key, c.Record})
}

func (c *cacheState) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("cache state has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.Key); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &c.Record)
}

// Snapshot serializes the session and every store override.
func Snapshot(session world.Session, store *memento.Store) ([]byte, error) {
	entries := store.Entries()
	states := make([]cacheState, 0, len(entries))
	for _, e := range entries {
		states = append(states, cacheState{Key: e.Key, Record: e.Record})
	}

	history := session.History
	if history == nil {
		history = []grid.LatLng{}
	}

	data, err := json.Marshal(saveFile{
		PlayerLocation:  session.Location,
		PlayerPoints:    session.Points,
		PlayerCoins:     session.Coins,
		CacheStates:     states,
		MovementHistory: history,
	})
	if err != nil {
		return nil, fmt.Errorf("persist: cannot encode snapshot: %w", err)
	}
	return data, nil
}

// Restore parses a blob produced by Snapshot. Any structural problem is
// reported as a *CorruptStateError.
func Restore(blob []byte) (world.Session, []memento.Entry, error) {
	if len(bytes.TrimSpace(blob)) == 0 {
		return world.Session{}, nil, &CorruptStateError{Reason: "empty blob"}
	}

	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return world.Session{}, nil, &CorruptStateError{Reason: "not JSON", Err: err}
	}

	s, err := schema()
	if err != nil {
		return world.Session{}, nil, fmt.Errorf("persist: cannot compile save schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return world.Session{}, nil, &CorruptStateError{Reason: "unexpected shape", Err: err}
	}

	var sf saveFile
	if err := json.Unmarshal(blob, &sf); err != nil {
		return world.Session{}, nil, &CorruptStateError{Reason: "cannot decode", Err: err}
	}

	entries := make([]memento.Entry, 0, len(sf.CacheStates))
	for _, cs := range sf.CacheStates {
		c, err := grid.ParseCellKey(cs.Key)
		if err != nil {
			return world.Session{}, nil, &CorruptStateError{Reason: "bad cell key", Err: err}
		}
		if c != cs.Record.Cell {
			return world.Session{}, nil, &CorruptStateError{
				Reason: "cell key mismatch",
				Err:    fmt.Errorf("key %s holds record for %s", cs.Key, cs.Record.Cell),
			}
		}
		entries = append(entries, memento.Entry{Key: cs.Key, Record: cs.Record})
	}

	var history []grid.LatLng
	if len(sf.MovementHistory) > 0 {
		history = sf.MovementHistory
	}

	session := world.Session{
		Location: sf.PlayerLocation,
		Points:   sf.PlayerPoints,
		Coins:    sf.PlayerCoins,
		History:  history,
	}
	return session, entries, nil
}
