package glyphfield

import (
	"math"
	"math/rand/v2"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// baseLatticeStep is the foreground cell spacing in pixels at quality 1.
	baseLatticeStep = 24.0
	// maxTickDelta clamps the integration timestep so a suspended tab does
	// not blow up the spring integration on resume.
	maxTickDelta = 0.05
	// slotStride decorrelates lattice order from target order on fresh
	// assignment; an odd stride avoids visible raster banding.
	slotStride = 17
	// slotJitter is the ± range of the continuity jitter applied to
	// preserved slot remapping. Tunable, not a contract.
	slotJitter = 0.9
)

// Field is the foreground instance field: one spring-damped glyph particle
// per lattice cell, converging toward the sampled word. All per-particle
// state lives in flat parallel arrays sized once per build; retargeting
// mutates targets in place and never reallocates, so motion stays continuous
// across word changes.
type Field struct {
	cols, rows    int
	step          float64
	width, height float64

	homeX, homeY []float64
	posX, posY   []float64
	velX, velY   []float64
	seed         []float64
	baseGlyph    []uint8
	glyph        []uint8 // currently displayed glyph

	targetX, targetY []float64
	targetGlyph      []uint8
	targetSlot       []int32

	word        string // current normalized word
	targetCount int    // sampled target count; 0 = no-word state

	// Retarget transition scalars. Morph blends old→new convergence in,
	// excite adds a decaying burst of ambient agitation so a word change
	// reads differently than steady-state convergence.
	morph       float64
	excite      float64
	morphTween  *gween.Tween
	exciteTween *gween.Tween
}

// newField builds the lattice for the given viewport and quality scale and
// draws all creation-time randomness from rng. Targets start at home; call
// setWord afterwards to aim the field at a word.
func newField(width, height, quality float64, rng *rand.Rand) *Field {
	step := baseLatticeStep / clamp(quality, qualityMin, qualityMax)
	cols := int(width/step) + 1
	rows := int(height/step) + 1
	n := cols * rows

	f := &Field{
		cols: cols, rows: rows,
		step:  step,
		width: width, height: height,

		homeX: make([]float64, n), homeY: make([]float64, n),
		posX: make([]float64, n), posY: make([]float64, n),
		velX: make([]float64, n), velY: make([]float64, n),
		seed:      make([]float64, n),
		baseGlyph: make([]uint8, n),
		glyph:     make([]uint8, n),

		targetX: make([]float64, n), targetY: make([]float64, n),
		targetGlyph: make([]uint8, n),
		targetSlot:  make([]int32, n),

		morph: 1,
	}

	halfW := float64(cols-1) * step / 2
	halfH := float64(rows-1) * step / 2
	i := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			f.homeX[i] = float64(c)*step - halfW + (rng.Float64()-0.5)*step*0.5
			f.homeY[i] = float64(r)*step - halfH + (rng.Float64()-0.5)*step*0.5
			f.posX[i] = f.homeX[i] + (rng.Float64()-0.5)*step*2
			f.posY[i] = f.homeY[i] + (rng.Float64()-0.5)*step*2
			f.velX[i] = (rng.Float64() - 0.5) * 24
			f.velY[i] = (rng.Float64() - 0.5) * 24
			f.seed[i] = rng.Float64()
			g := uint8(rng.IntN(len(ForegroundGlyphs)))
			f.baseGlyph[i] = g
			f.glyph[i] = g
			f.targetX[i] = f.homeX[i]
			f.targetY[i] = f.homeY[i]
			f.targetGlyph[i] = g
			f.targetSlot[i] = -1
			i++
		}
	}
	return f
}

// Count returns the particle count, fixed for the lifetime of one build.
func (f *Field) Count() int {
	return len(f.posX)
}

// Step returns the lattice spacing in pixels.
func (f *Field) Step() float64 {
	return f.step
}

// setWord assigns targets for a freshly built field (no continuity).
func (f *Field) setWord(word string, points []TargetPoint) {
	f.word = word
	f.assign(points, false)
}

// Retarget reassigns targets for a new word while preserving particle
// identity and slot continuity. A retarget to the already-current word is a
// no-op: no reassignment, no morph reset. The transition scalars restart so
// the change is visually distinct from steady-state convergence.
func (f *Field) Retarget(word string, points []TargetPoint) {
	if word == f.word {
		return
	}
	f.word = word
	f.assign(points, true)
	f.morph = 0
	f.morphTween = gween.New(0, 1, 0.9, ease.OutCubic)
	f.excite = 1
	f.exciteTween = gween.New(1, 0, 1.4, ease.OutQuad)
}

// assign maps every particle to a target slot. With no targets, every
// particle aims at its own home with its original glyph, keeping the field
// coherent in the no-word state. When preserving, the previous slot's
// position ratio carries into the new slot space with deterministic jitter;
// otherwise slots are dealt by odd stride.
func (f *Field) assign(points []TargetPoint, preserve bool) {
	n := len(points)
	prev := f.targetCount
	f.targetCount = n

	if n == 0 {
		for i := range f.posX {
			f.targetX[i] = f.homeX[i]
			f.targetY[i] = f.homeY[i]
			f.targetGlyph[i] = f.baseGlyph[i]
			f.targetSlot[i] = -1
		}
		return
	}

	for i := range f.posX {
		var slot int
		if preserve && prev > 0 && f.targetSlot[i] >= 0 {
			ratio := float64(f.targetSlot[i]) / float64(prev)
			j := ratio*float64(n) + (hash01(uint32(i)*2654435761+uint32(prev))*2-1)*slotJitter
			slot = ((int(math.Round(j)) % n) + n) % n
		} else {
			slot = (i * slotStride) % n
		}
		p := points[slot]
		f.targetSlot[i] = int32(slot)
		f.targetX[i] = p.X
		f.targetY[i] = p.Y
		f.targetGlyph[i] = uint8(p.Glyph)
	}
}

// stepEnv carries the per-tick globals the integration loop reads. It is
// assembled by the engine; the field itself holds no cross-component state.
type stepEnv struct {
	dt       float64
	time     float64 // settle-scaled motion time
	phases   Phases
	motion   MotionSettings
	mode     *Mode
	strength float64 // per-mode user strength multiplier
	pointer  *PointerTracker
	width    float64
	height   float64
	driftX   float64 // global ambient drift vector
	driftY   float64
}

// Advance integrates every particle by one tick. The loop allocates nothing;
// all state lives in the field's flat arrays and env.
func (f *Field) Advance(env *stepEnv) {
	dt := clamp(finiteOr(env.dt, 1.0/60), 0, maxTickDelta)
	if dt == 0 {
		return
	}

	if f.morphTween != nil {
		v, done := f.morphTween.Update(float32(dt))
		f.morph = float64(v)
		if done {
			f.morphTween = nil
		}
	}
	if f.exciteTween != nil {
		v, done := f.exciteTween.Update(float32(dt))
		f.excite = float64(v)
		if done {
			f.exciteTween = nil
		}
	}

	ph := env.phases
	floating := 1 - ph.Solid
	gate := ph.Converge * (0.7 + 0.3*ph.Lock) * f.morph

	// Pointer interaction is gated hard on presence: with no strength the
	// mode is never evaluated and every mode produces identical motion.
	pt := env.pointer
	interact := pt.Strength > pointerEpsilon
	pointerX := pt.X * env.width / 2
	pointerY := pt.Y * env.height / 2
	radius := env.mode.Radius * math.Min(env.width, env.height)
	wave := env.time*(0.8+0.4*pt.Energy) + ph.Flow*1.3
	warp := (env.mode.WarpBase + env.mode.WarpFloat*floating) * env.strength * env.motion.Flow

	ambAmp := floating * (4.5 + f.excite*9) * env.motion.Flow
	t := env.time

	for i := range f.posX {
		seed := f.seed[i]
		x := f.posX[i]
		y := f.posY[i]

		// Staggered convergence: each particle opens its own smoothstep
		// window over the global gate, offset by its seed.
		delay := seed * 0.55
		conv := smoothstep(delay, delay+0.38, gate)

		// Jittered base position, shrinking as convergence takes over.
		jAmp := (1 - conv) * 7.5 * env.motion.Flow
		bx := f.homeX[i] + math.Sin(t*1.3+seed*6.2832)*jAmp
		by := f.homeY[i] + math.Cos(t*1.1+seed*10.7)*jAmp

		tx := bx + (f.targetX[i]-bx)*conv
		ty := by + (f.targetY[i]-by)*conv

		// Ambient float: cheap curl-ish field, fading out as the word
		// solidifies.
		tx += (math.Sin(y*0.013+t*0.7+seed*6.2832)-math.Cos(x*0.011-t*0.5))*0.5*ambAmp + env.driftX*floating
		ty += (math.Cos(x*0.012-t*0.62+seed*6.2832)+math.Sin(y*0.010+t*0.45))*0.5*ambAmp + env.driftY*floating

		dragScale := 1.0
		if interact {
			dx := x - pointerX
			dy := y - pointerY
			dist := math.Hypot(dx, dy)
			if dist < radius {
				prox := smoothstep(0, 1, 1-dist/radius)
				infl := prox * prox * pt.Strength
				fs := env.mode.Eval(dx, dy, dist, wave, seed)
				nx, ny := radial(dx, dy, dist)
				push := fs.Pressure * pressureBase * env.strength
				tx += (fs.FlowX*fs.FlowScale*warp + nx*push) * infl
				ty += (fs.FlowY*fs.FlowScale*warp + ny*push) * infl
				dragScale = 1 + (fs.DragScale-1)*infl
			}
		}

		// Critically-damped-ish spring toward the adjusted target.
		// Stiffness rises with convergence (fast snap), damping follows
		// drag and the mode's drag scale (slack drift at idle).
		k := (2.6 + 7.4*conv) * env.motion.Settle * (1 + 0.6*f.excite)
		f.velX[i] += (tx - x) * k * dt
		f.velY[i] += (ty - y) * k * dt
		damp := math.Exp(-(3.2 + 2.4*conv) * env.motion.Drag * dragScale * dt)
		f.velX[i] *= damp
		f.velY[i] *= damp
		f.posX[i] += f.velX[i] * dt
		f.posY[i] += f.velY[i] * dt

		// Glyph scramble: an abrupt per-particle flip once convergence
		// crosses a randomized threshold, intentionally desynchronized.
		threshold := 0.3 + 0.55*hash01(uint32(i)*747796405+1)
		if f.targetCount > 0 && conv*f.morph > threshold {
			f.glyph[i] = f.targetGlyph[i]
		} else {
			f.glyph[i] = f.baseGlyph[i]
		}
	}
}
