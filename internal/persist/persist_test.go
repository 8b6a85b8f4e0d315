package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/geocoin/internal/cache"
	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/memento"
	"github.com/vovakirdan/geocoin/internal/oracle"
	"github.com/vovakirdan/geocoin/internal/world"
)

func roundTrip(t *testing.T, session world.Session, store *memento.Store) (world.Session, []memento.Entry) {
	t.Helper()
	blob, err := Snapshot(session, store)
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}
	got, entries, err := Restore(blob)
	if err != nil {
		t.Fatalf("Restore() failed: %v\nblob: %s", err, blob)
	}
	return got, entries
}

func assertEntries(t *testing.T, got, want []memento.Entry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRoundTripEmptyStore(t *testing.T) {
	session := world.NewSession(grid.LatLng{Lat: 36.98949379578401, Lng: -122.06277128548504})
	store := memento.New()

	got, entries := roundTrip(t, session, store)
	if !got.Equal(session) {
		t.Errorf("session = %+v, want %+v", got, session)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from an empty store", len(entries))
	}
}

func TestRoundTripOneEntry(t *testing.T) {
	session := world.Session{
		Location: grid.LatLng{Lat: 0.00015, Lng: 0.00025},
		Points:   60,
		Coins:    1,
		History:  []grid.LatLng{{Lat: 0.00015, Lng: 0.00015}, {Lat: 0.00015, Lng: 0.00025}},
	}
	store := memento.New()
	store.Put(cache.Record{Cell: grid.C(1, 1), PointValue: 20, CoinCount: 4})

	got, entries := roundTrip(t, session, store)
	if !got.Equal(session) {
		t.Errorf("session = %+v, want %+v", got, session)
	}
	assertEntries(t, entries, store.Entries())
}

func TestRoundTripNegativeAndPositiveCells(t *testing.T) {
	session := world.Session{
		Location: grid.LatLng{Lat: -33.868820123456789, Lng: 151.209295987654321},
		Points:   1234,
		Coins:    17,
		History: []grid.LatLng{
			{Lat: -33.8688, Lng: 151.2093},
			{Lat: 1e-17, Lng: -0.1 + 0.2},
			{Lat: -33.868820123456789, Lng: 151.209295987654321},
		},
	}
	store := memento.New()
	store.Put(cache.Record{Cell: grid.C(-338689, 1512093), PointValue: 3, CoinCount: 0})
	store.Put(cache.Record{Cell: grid.C(5, -7), PointValue: 99, CoinCount: 250})
	store.Put(cache.Record{Cell: grid.C(0, 0), PointValue: 0, CoinCount: 9})

	got, entries := roundTrip(t, session, store)
	if !got.Equal(session) {
		t.Errorf("session = %+v, want %+v", got, session)
	}
	assertEntries(t, entries, store.Entries())

	restored := memento.New()
	if err := restored.Restore(entries); err != nil {
		t.Fatalf("memento Restore() failed: %v", err)
	}
	rec, ok := restored.Get(grid.C(-338689, 1512093))
	if !ok || rec.PointValue != 3 {
		t.Errorf("negative cell lost: %+v %v", rec, ok)
	}
}

func TestSnapshotIsStableAndReadable(t *testing.T) {
	session := world.NewSession(grid.LatLng{Lat: 1.5, Lng: -2.25})
	store := memento.New()
	store.Put(cache.Record{Cell: grid.C(2, -3), PointValue: 7, CoinCount: 1})
	store.Put(cache.Record{Cell: grid.C(-1, 0), PointValue: 8, CoinCount: 2})

	a, err := Snapshot(session, store)
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}
	b, _ := Snapshot(session, store)
	if !bytes.Equal(a, b) {
		t.Error("two snapshots of the same state differ")
	}

	var doc map[string]any
	if err := json.Unmarshal(a, &doc); err != nil {
		t.Fatalf("snapshot is not JSON: %v", err)
	}
	for _, field := range []string{"playerLocation", "playerPoints", "playerCoins", "cacheStates", "movementHistory"} {
		if _, ok := doc[field]; !ok {
			t.Errorf("snapshot missing field %q", field)
		}
	}

	want := `["-1:0",{"cell":{"i":-1,"j":0},"pointValue":8,"coinCount":2}]`
	if !bytes.Contains(a, []byte(want)) {
		t.Errorf("snapshot does not encode entries as [key, record] pairs:\n%s", a)
	}
	if !bytes.Contains(a, []byte(`"movementHistory":[]`)) {
		t.Errorf("empty history should encode as []:\n%s", a)
	}
}

func TestRestoreCorruptBlobs(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"empty", ""},
		{"not json", "{playerLocation"},
		{"missing cacheStates", `{"playerLocation":{"lat":0,"lng":0},"playerPoints":0,"playerCoins":0,"movementHistory":[]}`},
		{"missing playerLocation", `{"playerPoints":0,"playerCoins":0,"cacheStates":[],"movementHistory":[]}`},
		{"wrong points type", `{"playerLocation":{"lat":0,"lng":0},"playerPoints":"lots","playerCoins":0,"cacheStates":[],"movementHistory":[]}`},
		{"fractional coins", `{"playerLocation":{"lat":0,"lng":0},"playerPoints":0,"playerCoins":1.5,"cacheStates":[],"movementHistory":[]}`},
		{"negative coins", `{"playerLocation":{"lat":0,"lng":0},"playerPoints":0,"playerCoins":-1,"cacheStates":[],"movementHistory":[]}`},
		{"entry not a pair", `{"playerLocation":{"lat":0,"lng":0},"playerPoints":0,"playerCoins":0,"cacheStates":[["1:1"]],"movementHistory":[]}`},
		{"bad key", `{"playerLocation":{"lat":0,"lng":0},"playerPoints":0,"playerCoins":0,"cacheStates":[["x",{"cell":{"i":1,"j":1},"pointValue":1,"coinCount":1}]],"movementHistory":[]}`},
		{"key mismatch", `{"playerLocation":{"lat":0,"lng":0},"playerPoints":0,"playerCoins":0,"cacheStates":[["2:2",{"cell":{"i":1,"j":1},"pointValue":1,"coinCount":1}]],"movementHistory":[]}`},
		{"history entry missing lng", `{"playerLocation":{"lat":0,"lng":0},"playerPoints":0,"playerCoins":0,"cacheStates":[],"movementHistory":[{"lat":1}]}`},
		{"array root", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Restore([]byte(tt.blob))
			var corrupt *CorruptStateError
			if !errors.As(err, &corrupt) {
				t.Fatalf("Restore() error = %v, want CorruptStateError", err)
			}
			if corrupt.Reason == "" {
				t.Error("CorruptStateError has no reason")
			}
		})
	}
}

func TestMemorySlot(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySlot()

	if _, err := s.Load(ctx, "a"); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("Load on empty slot = %v, want ErrSlotEmpty", err)
	}

	blob := []byte(`{"x":1}`)
	if err := s.Save(ctx, "a", blob); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	blob[0] = 'X'

	got, err := s.Load(ctx, "a")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(got) != `{"x":1}` {
		t.Errorf("Load() = %s, slot shares memory with caller", got)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := s.Load(ctx, "a"); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("Load after Delete = %v", err)
	}
}

func TestFileSlot(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "saves")

	s, err := NewFileSlot(dir)
	if err != nil {
		t.Fatalf("NewFileSlot() failed: %v", err)
	}

	if _, err := s.Load(ctx, "default"); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("Load on missing file = %v, want ErrSlotEmpty", err)
	}

	if err := s.Save(ctx, "default", []byte("one")); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := s.Save(ctx, "default", []byte("two")); err != nil {
		t.Fatalf("Save() overwrite failed: %v", err)
	}
	got, err := s.Load(ctx, "default")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("Load() = %q, want %q", got, "two")
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 1 {
		t.Errorf("expected one file in slot dir, found %d", len(files))
	}

	if err := s.Delete(ctx, "default"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := s.Delete(ctx, "default"); err != nil {
		t.Errorf("second Delete() failed: %v", err)
	}

	if err := s.Save(ctx, "../escape", []byte("x")); err == nil {
		t.Error("Save with path separator in name should fail")
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	session := world.NewSession(grid.LatLng{Lat: 10, Lng: 20})
	store := memento.New()
	store.Put(cache.Record{Cell: grid.C(3, 3), PointValue: 5, CoinCount: 5})
	blob, err := Snapshot(session, store)
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteArchive(&buf, blob); err != nil {
		t.Fatalf("WriteArchive() failed: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("playerLocation")) {
		t.Error("archive does not look compressed")
	}

	got, err := ReadArchive(&buf)
	if err != nil {
		t.Fatalf("ReadArchive() failed: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("archive round trip changed the blob")
	}

	if _, err := ReadArchive(bytes.NewReader([]byte("not zstd"))); err == nil {
		t.Error("ReadArchive of garbage should fail")
	}
}

func newEngine() *world.Engine {
	reg := grid.NewRegistry(grid.DefaultTileSize)
	return world.NewEngine(world.Deps{
		Registry:  reg,
		Generator: cache.NewGenerator(oracle.New(0), cache.DefaultParams()),
	}, world.Options{Radius: 4, Start: grid.LatLng{Lat: 0.00005, Lng: 0.00005}})
}

func TestManagerSaveAndResume(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	m := NewManager(slot, "default", nil)

	session := world.Session{
		Location: grid.LatLng{Lat: 0.00125, Lng: -0.00075},
		Points:   12,
		Coins:    3,
		History:  []grid.LatLng{{Lat: 0.00125, Lng: -0.00075}},
	}
	store := memento.New()
	store.Put(cache.Record{Cell: grid.C(12, -8), PointValue: 4, CoinCount: 2})

	if err := m.Save(session, store); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	e := newEngine()
	if !m.Resume(ctx, e) {
		t.Fatal("Resume() did not restore the saved session")
	}
	if !e.Session().Equal(session) {
		t.Errorf("resumed session = %+v", e.Session())
	}
	if e.Store().Len() != 1 {
		t.Errorf("resumed store has %d entries", e.Store().Len())
	}
}

func TestManagerResumeFallsBackOnCorruptBlob(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	slot.Save(ctx, "default", []byte(`{"playerLocation":{"lat":0,"lng":0},"playerPoints":0,"playerCoins":0,"movementHistory":[]}`))
	m := NewManager(slot, "default", nil)

	_, _, err := m.Load(ctx)
	var corrupt *CorruptStateError
	if !errors.As(err, &corrupt) {
		t.Fatalf("Load() error = %v, want CorruptStateError", err)
	}

	e := newEngine()
	if m.Resume(ctx, e) {
		t.Fatal("Resume() restored a corrupt save")
	}
	fresh := world.NewSession(grid.LatLng{Lat: 0.00005, Lng: 0.00005})
	if !e.Session().Equal(fresh) {
		t.Errorf("engine not left on a fresh session: %+v", e.Session())
	}

	// The engine keeps working and overwrites the bad save.
	e2 := world.NewEngine(world.Deps{
		Registry:  grid.NewRegistry(grid.DefaultTileSize),
		Generator: cache.NewGenerator(oracle.New(0), cache.DefaultParams()),
		Saver:     m,
	}, world.Options{Radius: 4})
	e2.MoveTo(grid.LatLng{Lat: 0.001, Lng: 0.001})
	if _, _, err := m.Load(ctx); err != nil {
		t.Errorf("Load() after fresh save failed: %v", err)
	}
}

func TestManagerResumeEmptySlot(t *testing.T) {
	m := NewManager(NewMemorySlot(), "nobody", nil)
	e := newEngine()
	if m.Resume(context.Background(), e) {
		t.Error("Resume() on an empty slot reported a restore")
	}
	if err := m.Clear(context.Background()); err != nil {
		t.Errorf("Clear() failed: %v", err)
	}
}
