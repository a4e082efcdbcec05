package glyphfield

import (
	"math"
	"testing"
)

const epsilon = 1e-6

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestNormalizeWord(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"geist", "GEIST"},
		{"  hello   world  ", "HELLO WORLD"},
		{"a\tb\nc", "A B C"},
		{"mixed-42!chars", "MIXED42CHARS"},
		{"", ""},
		{"   ", ""},
		{"!!!", ""},
		{"abcdefghijklmnopqrstuvwxyz", "ABCDEFGHIJKLMNOPQR"}, // capped at 18
	}
	for _, c := range cases {
		if got := NormalizeWord(c.in); got != c.want {
			t.Errorf("NormalizeWord(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeWordLengthCap(t *testing.T) {
	long := "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	if got := NormalizeWord(long); len(got) != MaxWordLen {
		t.Errorf("len = %d, want %d", len(got), MaxWordLen)
	}
}

func TestGlyphIndex(t *testing.T) {
	if g := glyphIndex('A'); g != 0 {
		t.Errorf("glyphIndex('A') = %d, want 0", g)
	}
	if g := glyphIndex('Z'); g != 25 {
		t.Errorf("glyphIndex('Z') = %d, want 25", g)
	}
	if g := glyphIndex('0'); g != 26 {
		t.Errorf("glyphIndex('0') = %d, want 26", g)
	}
	if g := glyphIndex('9'); g != 35 {
		t.Errorf("glyphIndex('9') = %d, want 35", g)
	}
	if g := glyphIndex(' '); g != -1 {
		t.Errorf("glyphIndex(' ') = %d, want -1", g)
	}
	if len(ForegroundGlyphs) != 36 {
		t.Errorf("alphabet size = %d, want 36", len(ForegroundGlyphs))
	}
}

func TestSmoothstep(t *testing.T) {
	assertNear(t, "below edge", smoothstep(1, 2, 0.5), 0)
	assertNear(t, "above edge", smoothstep(1, 2, 3), 1)
	assertNear(t, "midpoint", smoothstep(0, 1, 0.5), 0.5)
	// Degenerate edge ordering must not divide by zero.
	assertNear(t, "degenerate low", smoothstep(1, 1, 0.5), 0)
	assertNear(t, "degenerate high", smoothstep(1, 1, 1.5), 1)
}

func TestFiniteOr(t *testing.T) {
	assertNear(t, "nan", finiteOr(math.NaN(), 7), 7)
	assertNear(t, "+inf", finiteOr(math.Inf(1), 7), 7)
	assertNear(t, "-inf", finiteOr(math.Inf(-1), 7), 7)
	assertNear(t, "finite", finiteOr(3.5, 7), 3.5)
}

func TestHash01Range(t *testing.T) {
	for i := uint32(0); i < 10000; i++ {
		v := hash01(i)
		if v < 0 || v >= 1 {
			t.Fatalf("hash01(%d) = %v, outside [0,1)", i, v)
		}
	}
	// Deterministic.
	if hash01(42) != hash01(42) {
		t.Error("hash01 not deterministic")
	}
}
