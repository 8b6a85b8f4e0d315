package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/geocoin/internal/cache"
	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/memento"
	"github.com/vovakirdan/geocoin/internal/oracle"
	"github.com/vovakirdan/geocoin/internal/persist"
	"github.com/vovakirdan/geocoin/internal/world"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreOpenNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/.geocoin/geocoin.db")
	if err != nil {
		t.Fatalf("ExpandHome() failed: %v", err)
	}
	if want := filepath.Join(home, ".geocoin", "geocoin.db"); got != want {
		t.Errorf("ExpandHome() = %q, want %q", got, want)
	}

	if got, _ := ExpandHome("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("absolute path changed to %q", got)
	}
}

func TestSlotLoadEmpty(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Load(context.Background(), "default")
	if !errors.Is(err, persist.ErrSlotEmpty) {
		t.Fatalf("Load() on empty slot: got %v, want ErrSlotEmpty", err)
	}
}

func TestSlotSaveOverwriteDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "default", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Save(ctx, "default", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Save(ctx, "other", []byte(`{}`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	blob, err := store.Load(ctx, "default")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(blob) != `{"a":2}` {
		t.Errorf("Load() = %s, want the latest save", blob)
	}

	slots, err := store.Slots(ctx)
	if err != nil {
		t.Fatalf("Slots() failed: %v", err)
	}
	if len(slots) != 2 || slots[0].Name != "default" || slots[1].Name != "other" {
		t.Fatalf("Slots() = %+v, want default and other", slots)
	}
	if slots[0].Size != len(`{"a":2}`) {
		t.Errorf("slot size = %d, want %d", slots[0].Size, len(`{"a":2}`))
	}

	if err := store.Delete(ctx, "default"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Load(ctx, "default"); !errors.Is(err, persist.ErrSlotEmpty) {
		t.Errorf("Load() after Delete: got %v, want ErrSlotEmpty", err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete() of missing slot failed: %v", err)
	}
}

func TestSlotSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.Save(ctx, "default", []byte(`saved`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	blob, err := store.Load(ctx, "default")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(blob) != "saved" {
		t.Errorf("Load() = %q, want %q", blob, "saved")
	}
}

func TestEngineResumesFromStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	newEngine := func(store *Store) (*world.Engine, *persist.Manager) {
		reg := grid.NewRegistry(grid.DefaultTileSize)
		gen := cache.NewGenerator(oracle.New(7), cache.DefaultParams())
		mgr := persist.NewManager(store, "default", nil)
		e := world.NewEngine(world.Deps{
			Registry:  reg,
			Generator: gen,
			Store:     memento.New(),
			Saver:     mgr,
			Scores:    store,
		}, world.Options{Start: reg.Center(grid.C(0, 0))})
		return e, mgr
	}

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	e, _ := newEngine(store)
	caches := e.Caches()
	if len(caches) == 0 {
		t.Fatal("expected at least one cache near the origin")
	}
	target := caches[0].Record.Cell
	if _, err := e.Open(target); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	before := caches[0].Record.CoinCount
	if before > 0 && !e.Collect(target, 1) {
		t.Fatal("Collect(1) refused on a non-empty cache")
	}
	want := e.Session()
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	resumed, mgr := newEngine(store)
	if !mgr.Resume(ctx, resumed) {
		t.Fatal("Resume() found no saved session")
	}
	if !resumed.Session().Equal(want) {
		t.Errorf("resumed session = %+v, want %+v", resumed.Session(), want)
	}
	got, err := resumed.Cache(target)
	if err != nil {
		t.Fatalf("Cache() failed: %v", err)
	}
	if got.Record.CoinCount != max(before-1, 0) {
		t.Errorf("resumed coin count = %d, want %d", got.Record.CoinCount, max(before-1, 0))
	}
}

func TestStoreSaveAndRetrieveScores(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{100, 50, 200} {
		if _, err := store.SaveScore("alice", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("bob", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("alice", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].Player != "alice" {
		t.Errorf("Player = %q, want alice", scores[0].Player)
	}

	all, err := store.TopScores("", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(all) != 4 || all[0].Player != "bob" {
		t.Errorf("TopScores(\"\") = %v, want bob first of 4", all)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("alice")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for new player, got %d", high)
	}

	store.SaveScore("alice", 100)
	store.SaveScore("alice", 300)
	store.SaveScore("alice", 200)

	high, err = store.HighScore("alice")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("alice", 100)
	store.SaveScore("alice", 200)
	store.SaveScore("bob", 300)

	if err := store.ClearScores("alice"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	aliceScores, _ := store.TopScores("alice", 10)
	if len(aliceScores) != 0 {
		t.Errorf("Expected 0 alice scores after clear, got %d", len(aliceScores))
	}

	bobScores, _ := store.TopScores("bob", 10)
	if len(bobScores) != 1 {
		t.Errorf("Bob's scores should not be affected by clearing alice")
	}
}
