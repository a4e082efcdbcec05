package glyphfield

import (
	"math"
	"math/rand/v2"
)

// backgroundLayerSpec fixes the per-depth build parameters. Nearer layers
// are denser, brighter, and more pointer-reactive.
var backgroundLayerSpecs = [...]struct {
	depth      float64 // 0 near, 1 far
	stepFactor float64 // lattice step multiplier relative to the foreground
	alpha      float64
	driftRate  float64
}{
	{depth: 0.25, stepFactor: 2.6, alpha: 0.30, driftRate: 1.0},
	{depth: 0.55, stepFactor: 3.4, alpha: 0.22, driftRate: 0.65},
	{depth: 0.85, stepFactor: 4.6, alpha: 0.14, driftRate: 0.4},
}

// BackgroundLayer is one parallax depth plane of ambient glyph instances.
// Everything here is fixed at build time; per-frame motion is procedural on
// the render side, driven by the LayerUniforms the engine publishes each
// tick. The logic side never simulates these instances individually.
type BackgroundLayer struct {
	Depth float64
	Alpha float64 // base opacity before per-tick modulation

	BaseX, BaseY []float64
	Glyph        []uint8 // index into BackgroundGlyphs
	Tone         []float64
	Size         []float64
	Seed         []float64

	driftRate float64
}

// LayerUniforms is the per-layer scalar block the renderer consumes to
// animate a background layer for one frame.
type LayerUniforms struct {
	Time             float64
	DriftX, DriftY   float64
	Wobble           float64
	PointerX, PointerY float64
	Influence        float64 // pointer strength attenuated by depth
	Warp             float64 // mode's background warp amplitude
	FlowScale        float64 // mode's background flow multiplier
	Alpha            float64
	Parallax         float64
}

// Count returns the layer's instance count.
func (l *BackgroundLayer) Count() int {
	return len(l.BaseX)
}

// buildBackgroundLayers builds all depth layers for the viewport at the
// given quality scale, drawing creation randomness from rng.
func buildBackgroundLayers(width, height, quality float64, rng *rand.Rand) []BackgroundLayer {
	layers := make([]BackgroundLayer, 0, len(backgroundLayerSpecs))
	base := baseLatticeStep / clamp(quality, qualityMin, qualityMax)
	for _, spec := range backgroundLayerSpecs {
		step := base * spec.stepFactor
		cols := int(width/step) + 2
		rows := int(height/step) + 2
		n := cols * rows

		l := BackgroundLayer{
			Depth: spec.depth,
			Alpha: spec.alpha,
			BaseX: make([]float64, n), BaseY: make([]float64, n),
			Glyph: make([]uint8, n),
			Tone:  make([]float64, n),
			Size:  make([]float64, n),
			Seed:  make([]float64, n),

			driftRate: spec.driftRate,
		}
		halfW := float64(cols-1) * step / 2
		halfH := float64(rows-1) * step / 2
		i := 0
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				l.BaseX[i] = float64(c)*step - halfW + (rng.Float64()-0.5)*step*0.6
				l.BaseY[i] = float64(r)*step - halfH + (rng.Float64()-0.5)*step*0.6
				l.Glyph[i] = uint8(rng.IntN(len(BackgroundGlyphs)))
				l.Tone[i] = 0.35 + rng.Float64()*0.65
				l.Size[i] = (0.5 + rng.Float64()*0.8) * (1.4 - spec.depth)
				l.Seed[i] = rng.Float64()
				i++
			}
		}
		layers = append(layers, l)
	}
	return layers
}

// uniforms computes this layer's scalar block for one tick. Background
// layers never converge; they only breathe, drift with the camera motion
// parameter, and lean away from (or toward) the pointer per the active
// mode's background constants.
func (l *BackgroundLayer) uniforms(env *stepEnv, out *LayerUniforms) {
	ph := env.phases
	par := 1 - l.Depth
	drift := l.driftRate * env.motion.Camera * 9
	out.Time = env.time
	out.DriftX = math.Sin(env.time*0.17+l.Depth*4.1) * drift
	out.DriftY = math.Cos(env.time*0.13+l.Depth*2.7) * drift * 0.7
	out.Wobble = lerp(0.4, 1, ph.Flow) * env.motion.Flow
	out.PointerX = env.pointer.X * env.width / 2
	out.PointerY = env.pointer.Y * env.height / 2
	out.Influence = env.pointer.Strength * (0.25 + 0.75*par)
	out.Warp = env.mode.BackWarp * env.strength * par
	out.FlowScale = env.mode.BackFlow
	out.Alpha = l.Alpha * lerp(0.75, 1, ph.Breath)
	out.Parallax = par
}
