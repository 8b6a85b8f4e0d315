// Package memento holds the player-modified state of caches.
//
// A cache that has never been opened has no entry here; its state is whatever
// the generator derives. Once opened, the entry overrides generation until the
// store is cleared by a reset.
package memento

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/geocoin/internal/cache"
	"github.com/vovakirdan/geocoin/internal/grid"
)

// Entry is one exported override, keyed by the canonical cell key.
type Entry struct {
	Key    string
	Record cache.Record
}

// Store maps cell keys to override records.
// Not safe for concurrent use; each game session owns its store.
type Store struct {
	records map[string]cache.Record
}

// New creates an empty store.
func New() *Store {
	return &Store{records: make(map[string]cache.Record)}
}

// Get returns the override for the cell. It never falls back to generation.
func (s *Store) Get(c grid.Cell) (cache.Record, bool) {
	rec, ok := s.records[grid.CellKey(c)]
	return rec, ok
}

// Put stores the record under its cell's key.
func (s *Store) Put(rec cache.Record) {
	s.records[grid.CellKey(rec.Cell)] = rec
}

// Clear drops every override.
func (s *Store) Clear() {
	clear(s.records)
}

// Len returns the number of overrides.
func (s *Store) Len() int {
	return len(s.records)
}

// Entries exports all overrides sorted by key.
func (s *Store) Entries() []Entry {
	entries := make([]Entry, 0, len(s.records))
	for k, rec := range s.records {
		entries = append(entries, Entry{Key: k, Record: rec})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Restore replaces the store content with the given entries.
// On error the store is left unchanged.
func (s *Store) Restore(entries []Entry) error {
	records := make(map[string]cache.Record, len(entries))
	for _, e := range entries {
		c, err := grid.ParseCellKey(e.Key)
		if err != nil {
			return fmt.Errorf("memento: %w", err)
		}
		if c != e.Record.Cell {
			return fmt.Errorf("memento: key %q does not match record cell %s", e.Key, e.Record.Cell)
		}
		if e.Record.CoinCount < 0 {
			return fmt.Errorf("memento: negative coin count %d at %s", e.Record.CoinCount, e.Key)
		}
		records[e.Key] = e.Record
	}
	s.records = records
	return nil
}
