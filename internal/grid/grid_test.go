package grid

import (
	"testing"
)

func TestCanonicalizeSameCell(t *testing.T) {
	r := NewRegistry(1e-4)

	tests := []struct {
		name string
		locs []LatLng
		want Cell
	}{
		{
			name: "positive",
			locs: []LatLng{{0.00012, 0.00031}, {0.000125, 0.000305}, {0.00019, 0.00039}},
			want: C(1, 3),
		},
		{
			name: "origin",
			locs: []LatLng{{0, 0}, {0.00005, 0.00009}},
			want: C(0, 0),
		},
		{
			name: "negative floors away from zero",
			locs: []LatLng{{-0.00005, -0.00001}, {-0.00009, -0.00008}},
			want: C(-1, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, loc := range tt.locs {
				if got := r.Canonicalize(loc); got != tt.want {
					t.Errorf("Canonicalize(%v) = %v, want %v", loc, got, tt.want)
				}
			}
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	r := NewRegistry(1e-4)
	loc := LatLng{Lat: 36.98949379578401, Lng: -122.06277128548504}

	first := r.Canonicalize(loc)
	for range 10 {
		if got := r.Canonicalize(loc); got != first {
			t.Fatalf("Canonicalize changed result: %v vs %v", got, first)
		}
	}
	if got := r.Canonicalize(r.Center(first)); got != first {
		t.Errorf("Center of %v canonicalized to %v", first, got)
	}
}

func TestRegistryInterns(t *testing.T) {
	r := NewRegistry(1e-4)

	a := r.Ref(3, 4)
	b := r.Ref(3, 4)
	if a != b {
		t.Error("Ref(3, 4) returned different pointers")
	}
	if r.OfCellIndex(3, 4) != *a {
		t.Error("OfCellIndex disagrees with Ref")
	}

	r.OfCellIndex(-3, 4)
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestNewRegistryRejectsBadTileSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewRegistry(0) did not panic")
		}
	}()
	NewRegistry(0)
}

func TestCellKeyRoundTrip(t *testing.T) {
	cells := []Cell{C(0, 0), C(-5, 12), C(369894, -1220628), C(7, -7)}
	for _, c := range cells {
		key := CellKey(c)
		got, err := ParseCellKey(key)
		if err != nil {
			t.Fatalf("ParseCellKey(%q) failed: %v", key, err)
		}
		if got != c {
			t.Errorf("ParseCellKey(%q) = %v, want %v", key, got, c)
		}
	}

	if CellKey(C(-5, 12)) != "-5:12" {
		t.Errorf("CellKey(-5,12) = %q", CellKey(C(-5, 12)))
	}
}

func TestParseCellKeyErrors(t *testing.T) {
	for _, key := range []string{"", "12", "a:1", "1:b", "1,2"} {
		if _, err := ParseCellKey(key); err == nil {
			t.Errorf("ParseCellKey(%q) expected error", key)
		}
	}
}

func TestChebyshev(t *testing.T) {
	tests := []struct {
		a, b Cell
		want int
	}{
		{C(0, 0), C(0, 0), 0},
		{C(0, 0), C(8, -3), 8},
		{C(-2, 5), C(1, -4), 9},
	}
	for _, tt := range tests {
		if got := tt.a.Chebyshev(tt.b); got != tt.want {
			t.Errorf("%v.Chebyshev(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTokensUnique(t *testing.T) {
	c := C(2, -9)
	tokens := TokensOf(c, 6)
	if len(tokens) != 6 {
		t.Fatalf("TokensOf returned %d tokens, want 6", len(tokens))
	}

	seen := make(map[string]bool)
	for i, tok := range tokens {
		if tok.Serial != i {
			t.Errorf("token %d has serial %d", i, tok.Serial)
		}
		if seen[tok.ID()] {
			t.Errorf("duplicate token id %s", tok.ID())
		}
		seen[tok.ID()] = true
	}

	if tokens[3].ID() != "2:-9#3" {
		t.Errorf("ID() = %q, want %q", tokens[3].ID(), "2:-9#3")
	}
	if TokensOf(c, 0) != nil {
		t.Error("TokensOf(c, 0) should be nil")
	}
}
