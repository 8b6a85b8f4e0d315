package oracle

import (
	"testing"
)

func TestKeyFormat(t *testing.T) {
	if got := Key(3, 4); got != "3,4" {
		t.Errorf("Key(3, 4) = %q, want %q", got, "3,4")
	}
	if got := Key(-1, 7, TagCoinCount); got != "-1,7,coinCount" {
		t.Errorf("Key(-1, 7, coinCount) = %q", got)
	}
	if got := Key(); got != "" {
		t.Errorf("Key() = %q, want empty", got)
	}
}

func TestHashDeterminism(t *testing.T) {
	a := New(42)
	b := New(42)

	keys := []string{"0,0", "3,4", "-12,99,initialValue", "", "x"}
	for _, k := range keys {
		v1 := a.Value(k)
		v2 := a.Value(k)
		v3 := b.Value(k)
		if v1 != v2 || v1 != v3 {
			t.Errorf("Value(%q) not deterministic: %v %v %v", k, v1, v2, v3)
		}
	}
}

func TestHashRange(t *testing.T) {
	h := New(0)
	for i := -200; i < 200; i++ {
		for j := -20; j < 20; j++ {
			v := h.Value(Key(i, j))
			if v < 0 || v >= 1 {
				t.Fatalf("Value(%d,%d) = %v out of [0,1)", i, j, v)
			}
		}
	}
}

func TestHashNoCollisionOnShiftedSeparators(t *testing.T) {
	h := New(0)
	if h.Value("3,4") == h.Value("34,") {
		t.Error("keys \"3,4\" and \"34,\" produced the same value")
	}
	if h.Value(Key(1, 23)) == h.Value(Key(12, 3)) {
		t.Error("keys 1,23 and 12,3 produced the same value")
	}
}

func TestHashSeedChangesWorld(t *testing.T) {
	a := New(1)
	b := New(2)

	same := 0
	for i := 0; i < 100; i++ {
		if a.Value(Key(i, 0)) == b.Value(Key(i, 0)) {
			same++
		}
	}
	if same > 0 {
		t.Errorf("%d of 100 values identical across different seeds", same)
	}
}

func TestHashUniformity(t *testing.T) {
	h := New(0)
	const (
		buckets = 10
		samples = 20000
	)

	var counts [buckets]int
	sum := 0.0
	for n := 0; n < samples; n++ {
		v := h.Value(Key(n/200, n%200))
		counts[int(v*buckets)]++
		sum += v
	}

	mean := sum / samples
	if mean < 0.47 || mean > 0.53 {
		t.Errorf("mean = %v, expected close to 0.5", mean)
	}

	expected := samples / buckets
	for b, c := range counts {
		if c < expected*8/10 || c > expected*12/10 {
			t.Errorf("bucket %d has %d samples, expected about %d", b, c, expected)
		}
	}
}

func TestFuncAdapter(t *testing.T) {
	var o Oracle = Func(func(key string) float64 {
		if key == "hit" {
			return 0.25
		}
		return 0.75
	})

	if o.Value("hit") != 0.25 {
		t.Error("Func adapter did not forward key")
	}
	if o.Value("miss") != 0.75 {
		t.Error("Func adapter returned wrong default")
	}
}
