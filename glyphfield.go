package glyphfield

import (
	"math"
	"strings"
)

// ForegroundGlyphs is the fixed alphabet foreground particles draw from.
// Target glyph indices always refer into this string.
const ForegroundGlyphs = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// BackgroundGlyphs is the ambient marker set used by the background depth
// layers. Indices in background instance buffers refer into this slice.
var BackgroundGlyphs = []rune{'+', '·', ':', '×', '*', '∘'}

// MaxWordLen caps the normalized word length.
const MaxWordLen = 18

// NormalizeWord maps arbitrary input to the engine's word domain: uppercase,
// restricted to [A-Z0-9 ], runs of whitespace collapsed to single spaces,
// trimmed, and capped at MaxWordLen runes. The engine re-normalizes
// defensively on every word input regardless of what the caller did.
func NormalizeWord(s string) string {
	var b strings.Builder
	b.Grow(MaxWordLen)
	space := true // leading spaces are dropped
	for _, r := range strings.ToUpper(s) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			if b.Len() >= MaxWordLen {
				return b.String()
			}
			b.WriteRune(r)
			space = false
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !space && b.Len() < MaxWordLen {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// glyphIndex returns the ForegroundGlyphs index for b, or -1.
func glyphIndex(b byte) int {
	switch {
	case b >= 'A' && b <= 'Z':
		return int(b - 'A')
	case b >= '0' && b <= '9':
		return 26 + int(b-'0')
	}
	return -1
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// smoothstep is the cubic Hermite step: 0 below edge0, 1 above edge1,
// 3t²−2t³ in between.
func smoothstep(edge0, edge1, t float64) float64 {
	if edge1 <= edge0 {
		if t < edge0 {
			return 0
		}
		return 1
	}
	x := clamp((t-edge0)/(edge1-edge0), 0, 1)
	return x * x * (3 - 2*x)
}

// finiteOr replaces non-finite values (NaN, ±Inf) with def.
func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// hash01 maps an integer to a deterministic pseudo-random value in [0, 1).
// Used wherever the simulation needs repeatable per-index jitter without
// consuming the build RNG.
func hash01(n uint32) float64 {
	n ^= n >> 16
	n *= 0x7feb352d
	n ^= n >> 15
	n *= 0x846ca68b
	n ^= n >> 16
	return float64(n) / float64(1<<32)
}
