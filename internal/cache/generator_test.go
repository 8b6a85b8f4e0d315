package cache

import (
	"errors"
	"testing"

	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/oracle"
)

// stubOracle returns fixed values for known keys and 0.99 otherwise.
func stubOracle(values map[string]float64) oracle.Oracle {
	return oracle.Func(func(key string) float64 {
		if v, ok := values[key]; ok {
			return v
		}
		return 0.99
	})
}

func TestKeysAreDistinctPerPurpose(t *testing.T) {
	c := grid.C(3, -4)
	if ExistenceKey(c) != "3,-4" {
		t.Errorf("ExistenceKey = %q", ExistenceKey(c))
	}
	if ValueKey(c) != "3,-4,initialValue" {
		t.Errorf("ValueKey = %q", ValueKey(c))
	}
	if CoinKey(c) != "3,-4,coinCount" {
		t.Errorf("CoinKey = %q", CoinKey(c))
	}
}

func TestExistsUsesSpawnProbability(t *testing.T) {
	o := stubOracle(map[string]float64{
		"0,0": 0.05,
		"0,1": 0.1,
		"1,0": 0.0999,
	})
	g := NewGenerator(o, DefaultParams())

	if !g.Exists(grid.C(0, 0)) {
		t.Error("cell 0,0 should exist (0.05 < 0.1)")
	}
	if g.Exists(grid.C(0, 1)) {
		t.Error("cell 0,1 should not exist (0.1 is not < 0.1)")
	}
	if !g.Exists(grid.C(1, 0)) {
		t.Error("cell 1,0 should exist (0.0999 < 0.1)")
	}
	if g.Exists(grid.C(5, 5)) {
		t.Error("cell 5,5 should not exist")
	}
}

func TestInitialRecordScaling(t *testing.T) {
	c := grid.C(2, 7)
	o := stubOracle(map[string]float64{
		ValueKey(c): 0.423,
		CoinKey(c):  0.5,
	})
	g := NewGenerator(o, DefaultParams())

	rec := g.InitialRecord(c)
	want := Record{Cell: c, PointValue: 42, CoinCount: 5}
	if !rec.Equal(want) {
		t.Errorf("InitialRecord = %+v, want %+v", rec, want)
	}
}

func TestScaleClampsOracleAtOne(t *testing.T) {
	o := oracle.Func(func(string) float64 { return 1.0 })
	g := NewGenerator(o, DefaultParams())

	rec := g.InitialRecord(grid.C(0, 0))
	if rec.PointValue != 99 || rec.CoinCount != 9 {
		t.Errorf("InitialRecord with oracle=1 gave %+v", rec)
	}
}

func TestGenerationIsDeterministic(t *testing.T) {
	g1 := NewGenerator(oracle.New(7), DefaultParams())
	g2 := NewGenerator(oracle.New(7), DefaultParams())

	for i := -20; i <= 20; i++ {
		for j := -20; j <= 20; j++ {
			c := grid.C(i, j)
			first, second, other := g1.Exists(c), g1.Exists(c), g2.Exists(c)
			if first != second || first != other {
				t.Fatalf("Exists(%v) not deterministic", c)
			}
			r1, r2, r3 := g1.InitialRecord(c), g1.InitialRecord(c), g2.InitialRecord(c)
			if r1 != r2 || r1 != r3 {
				t.Fatalf("InitialRecord(%v) not deterministic: %+v %+v %+v", c, r1, r2, r3)
			}
		}
	}
}

func TestRecordRanges(t *testing.T) {
	g := NewGenerator(oracle.New(0), DefaultParams())
	for i := 0; i < 50; i++ {
		for j := 0; j < 50; j++ {
			rec := g.InitialRecord(grid.C(i, j))
			if rec.PointValue < 0 || rec.PointValue >= 100 {
				t.Fatalf("PointValue %d out of range", rec.PointValue)
			}
			if rec.CoinCount < 0 || rec.CoinCount >= 10 {
				t.Fatalf("CoinCount %d out of range", rec.CoinCount)
			}
		}
	}
}

func TestLookupUnknownCell(t *testing.T) {
	g := NewGenerator(stubOracle(nil), DefaultParams())

	_, err := g.Lookup(grid.C(1, 1))
	var unknown *UnknownCellError
	if !errors.As(err, &unknown) {
		t.Fatalf("Lookup error = %v, want UnknownCellError", err)
	}
	if unknown.Cell != grid.C(1, 1) {
		t.Errorf("UnknownCellError.Cell = %v", unknown.Cell)
	}
}

func TestTokensMatchCoinCount(t *testing.T) {
	c := grid.C(0, 0)
	g := NewGenerator(stubOracle(map[string]float64{
		ExistenceKey(c): 0.01,
		CoinKey(c):      0.3,
	}), DefaultParams())

	tokens := g.Tokens(c)
	if len(tokens) != 3 {
		t.Fatalf("Tokens returned %d, want 3", len(tokens))
	}
	if tokens[2].ID() != "0:0#2" {
		t.Errorf("last token id = %s", tokens[2].ID())
	}
}
