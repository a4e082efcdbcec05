package glyphfield

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// TargetPoint is one sampled coverage point of the rasterized word:
// a mask-space position (centered on the word) and the ForegroundGlyphs
// index of the character whose glyph run covers it.
type TargetPoint struct {
	X, Y  float64
	Glyph int
}

// Sampler rasterizes words into coverage masks and emits the target points
// the foreground field converges toward. Sampling is deterministic: identical
// (word, font, viewport, step) inputs yield identical point lists.
type Sampler struct {
	fonts    map[string]*truetype.Font
	fallback *truetype.Font
}

const (
	// fitFraction is the share of the viewport width the word may occupy.
	fitFraction = 0.9
	// sampleStepFactor relates the coverage sampling grid to the particle
	// lattice step. Finer than the lattice so every particle finds a slot.
	sampleStepFactor = 0.38
	// coverageThreshold is the minimum alpha (out of 255) for a sample to
	// count as inside the word.
	coverageThreshold = 28
)

// NewSampler creates a Sampler with the embedded Go Regular face as its
// fallback font.
func NewSampler() *Sampler {
	s := &Sampler{fonts: make(map[string]*truetype.Font)}
	// goregular ships with the toolchain and always parses; a nil fallback
	// would only mean every sample comes back empty, which the field
	// tolerates as the no-word state.
	if f, err := truetype.Parse(goregular.TTF); err == nil {
		s.fallback = f
	}
	return s
}

// RegisterFont parses TTF/OTF data and registers it under the given family
// name. Later samples naming that family use it; unknown families fall back
// to the embedded face.
func (s *Sampler) RegisterFont(family string, ttf []byte) error {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("glyphfield: parse font %q: %w", family, err)
	}
	s.fonts[family] = f
	return nil
}

// lookup returns the font registered for family, or the fallback.
func (s *Sampler) lookup(family string) *truetype.Font {
	if f, ok := s.fonts[family]; ok {
		return f
	}
	return s.fallback
}

// Sample rasterizes word in the given font family sized to fit the viewport
// and returns its coverage as target points in mask-space (origin at the
// word's center, Y down). latticeStep is the foreground lattice spacing; the
// coverage grid samples at sampleStepFactor times that.
//
// An empty word, an unusable font, or a word that rasterizes to nothing all
// yield an empty list (the field's no-word state), never an error.
func (s *Sampler) Sample(word, family string, width, height, latticeStep float64) []TargetPoint {
	word = NormalizeWord(word)
	if word == "" {
		return nil
	}
	fnt := s.lookup(family)
	if fnt == nil {
		return nil
	}
	width = clamp(finiteOr(width, minViewportW), minViewportW, 1e6)
	height = clamp(finiteOr(height, minViewportH), minViewportH, 1e6)

	size := height * 0.58
	face, textW := s.fitFace(fnt, word, size, width*fitFraction)
	defer face.Close()

	pad := int(size*0.25) + 2
	maskW := int(textW) + pad*2
	maskH := int(size*1.4) + pad*2

	dc := gg.NewContext(maskW, maskH)
	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(word, float64(maskW)/2, float64(maskH)/2, 0.5, 0.5)

	runs := glyphRuns(dc, word, (float64(maskW)-textW)/2)

	rgba, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil
	}

	step := sampleStepFactor * latticeStep
	if step < 2 {
		step = 2
	}

	var points []TargetPoint
	halfW := float64(maskW) / 2
	halfH := float64(maskH) / 2
	for y := 0.0; y < float64(maskH); y += step {
		row := int(y) * rgba.Stride
		for x := 0.0; x < float64(maskW); x += step {
			a := rgba.Pix[row+int(x)*4+3]
			if a < coverageThreshold {
				continue
			}
			points = append(points, TargetPoint{
				X:     x - halfW,
				Y:     y - halfH,
				Glyph: glyphAt(word, runs, x),
			})
		}
	}
	return points
}

// fitFace builds a face at the requested size, scaling down until the word
// fits maxWidth. Returns the face and the measured word width. A handful of
// linear passes converges because truetype advance widths scale with size.
func (s *Sampler) fitFace(fnt *truetype.Font, word string, size, maxWidth float64) (font.Face, float64) {
	const minSize = 8
	for i := 0; i < 4; i++ {
		face := truetype.NewFace(fnt, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		w := measureFace(face, word)
		if w <= maxWidth || size <= minSize {
			return face, w
		}
		face.Close()
		size = clamp(size*maxWidth/w, minSize, size)
	}
	face := truetype.NewFace(fnt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	return face, measureFace(face, word)
}

// measureFace returns the advance width of word under face, in pixels.
func measureFace(f font.Face, word string) float64 {
	adv := font.MeasureString(f, word)
	return float64(adv) / 64
}

// glyphRuns computes, for each byte of word, the x coordinate where that
// character's glyph run ends (mask coordinates). startX is where the word's
// first glyph begins.
func glyphRuns(dc *gg.Context, word string, startX float64) []float64 {
	ends := make([]float64, len(word))
	for i := range word {
		w, _ := dc.MeasureString(word[:i+1])
		ends[i] = startX + w
	}
	return ends
}

// glyphAt maps a mask x coordinate to the ForegroundGlyphs index of the
// character whose run spans it. Samples left of the first run or right of
// the last (anti-aliasing bleed) take the first/last character. Space
// characters defer to their nearest inked neighbor.
func glyphAt(word string, runEnds []float64, x float64) int {
	idx := len(word) - 1
	for i, end := range runEnds {
		if x < end {
			idx = i
			break
		}
	}
	// Spaces carry no ink of their own; walk outward to a real character.
	for off := 0; off < len(word); off++ {
		if j := idx - off; j >= 0 && word[j] != ' ' {
			if g := glyphIndex(word[j]); g >= 0 {
				return g
			}
		}
		if j := idx + off; j < len(word) && word[j] != ' ' {
			if g := glyphIndex(word[j]); g >= 0 {
				return g
			}
		}
	}
	return 0
}
