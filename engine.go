package glyphfield

import (
	"math"
	"math/rand/v2"
	"time"
)

// Minimum viewport clamps, enforced before any buffer sizing.
const (
	minViewportW = 320
	minViewportH = 240
)

// ColorMode is the binary display tint selector. It never affects the
// simulation; the engine only forwards it on the render frame.
type ColorMode uint8

const (
	ColorDark ColorMode = iota
	ColorLight
)

// Config configures a new Engine. Zero values fall back to documented
// defaults; all numeric fields are sanitized and clamped on entry.
type Config struct {
	// Width, Height is the viewport in device-independent pixels.
	// Clamped to at least 320×240.
	Width, Height float64
	// PixelRatio is the device pixel ratio. Defaults to 1.
	PixelRatio float64
	// Word is the initial word. Normalized defensively (uppercase,
	// [A-Z0-9 ], collapsed spaces, max 18 runes).
	Word string
	// Mode is the initial interaction mode id. Unknown ids fall back to
	// the first mode (fluid).
	Mode string
	// Motion are the global motion multipliers. The zero value means
	// DefaultMotion.
	Motion MotionSettings
	// Strengths are per-mode output multipliers; missing entries mean 1.
	Strengths ModeStrengths
	// ColorMode selects the display tint forwarded to the renderer.
	ColorMode ColorMode
	// FontFamily names the sampler font; unknown families use the
	// embedded fallback face.
	FontFamily string
	// Seed drives all build-time randomness. 0 means a time-based seed;
	// set it for reproducible runs.
	Seed uint64
}

// RenderFrame is the renderer-visible output of one tick. The engine owns
// and reuses the buffers; renderers must consume them before the next Tick.
type RenderFrame struct {
	// Rebuilt is set on ticks that rebuilt instance buffers (viewport,
	// font, or quality change). Simulation is skipped on those ticks and
	// instance contents are fresh-built, not stepped.
	Rebuilt bool

	Quality    float64
	PixelRatio float64
	ColorMode  ColorMode

	// ForegroundAlpha is the global foreground opacity blend.
	ForegroundAlpha float64
	// DepthJitter is the render-side depth scatter amplitude, collapsing
	// to zero as the word solidifies.
	DepthJitter float64

	// Foreground instance buffer: Count valid entries in X, Y (mask-space
	// centered, pixels) and Glyph (ForegroundGlyphs indices).
	Count int
	X, Y  []float32
	Glyph []uint8

	// Layers carries one uniform block per background layer.
	Layers []LayerUniforms
}

// commandKind discriminates queued external inputs.
type commandKind uint8

const (
	cmdWord commandKind = iota
	cmdMode
	cmdMotion
	cmdStrength
	cmdColor
	cmdFont
	cmdResize
	cmdPointerMove
	cmdPointerLeave
)

// command is one queued external input. External callers append commands;
// the tick loop consumes them at its start, which is the single
// synchronization point of the whole engine.
type command struct {
	kind   commandKind
	str    string
	value  float64
	motion MotionSettings
	x, y   float64
	color  ColorMode
}

// Engine is the frame driver. It exclusively owns all mutable simulation
// state (field, layers, pointer, quality); external input arrives only
// through the command queue and is applied at the top of Tick.
type Engine struct {
	sampler *Sampler
	field   *Field
	layers  []BackgroundLayer
	pointer PointerTracker
	quality *qualityController

	width, height float64
	word          string
	mode          *Mode
	motion        MotionSettings
	strengths     ModeStrengths
	colorMode     ColorMode
	fontFamily    string

	motionTime float64
	rng        *rand.Rand

	frame RenderFrame
	queue []command

	pendingRebuild bool
	disposed       bool
}

// NewEngine builds an engine and its initial instance buffers.
func NewEngine(cfg Config) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	motion := cfg.Motion
	if motion == (MotionSettings{}) {
		motion = DefaultMotion
	}
	strengths := make(ModeStrengths, len(cfg.Strengths))
	for id, v := range cfg.Strengths {
		strengths[id] = v
	}

	e := &Engine{
		sampler:    NewSampler(),
		quality:    newQualityController(cfg.PixelRatio),
		width:      clamp(finiteOr(cfg.Width, minViewportW), minViewportW, 1e6),
		height:     clamp(finiteOr(cfg.Height, minViewportH), minViewportH, 1e6),
		word:       NormalizeWord(cfg.Word),
		mode:       ModeByID(cfg.Mode),
		motion:     motion.Clamped(),
		strengths:  strengths,
		colorMode:  cfg.ColorMode,
		fontFamily: cfg.FontFamily,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	e.rebuild()
	return e
}

// RegisterFont registers TTF/OTF data under a family name for the sampler.
func (e *Engine) RegisterFont(family string, ttf []byte) error {
	return e.sampler.RegisterFont(family, ttf)
}

// --- External inputs (queued, consumed at next tick) ---

// SetWord queues a word change. The word is re-normalized on application; a
// change to the already-current word is a no-op.
func (e *Engine) SetWord(word string) {
	e.queue = append(e.queue, command{kind: cmdWord, str: word})
}

// SetMode queues an interaction mode change. Unknown ids fall back to fluid.
func (e *Engine) SetMode(id string) {
	e.queue = append(e.queue, command{kind: cmdMode, str: id})
}

// SetMotion queues new motion settings; each field is clamped to [0.5, 1.6]
// on application.
func (e *Engine) SetMotion(m MotionSettings) {
	e.queue = append(e.queue, command{kind: cmdMotion, motion: m})
}

// SetModeStrength queues a per-mode strength; clamped to [0.4, 1.8].
func (e *Engine) SetModeStrength(id string, strength float64) {
	e.queue = append(e.queue, command{kind: cmdStrength, str: id, value: strength})
}

// SetColorMode queues a display tint change (render-only).
func (e *Engine) SetColorMode(m ColorMode) {
	e.queue = append(e.queue, command{kind: cmdColor, color: m})
}

// SetFontFamily queues a sampler font change. Font changes rebuild the
// field, not just its targets.
func (e *Engine) SetFontFamily(family string) {
	e.queue = append(e.queue, command{kind: cmdFont, str: family})
}

// Resize queues a viewport change. Rapid-fire resizes coalesce into a single
// rebuild on the next tick.
func (e *Engine) Resize(width, height float64) {
	e.queue = append(e.queue, command{kind: cmdResize, x: width, y: height})
}

// SetPointer queues a pointer sample in viewport pixel coordinates. The
// engine normalizes each axis to [-1, 1] before it reaches the tracker.
func (e *Engine) SetPointer(x, y float64) {
	e.queue = append(e.queue, command{kind: cmdPointerMove, x: x, y: y})
}

// PointerLeave queues an immediate pointer reset (leave/cancel/blur/hidden).
func (e *Engine) PointerLeave() {
	e.queue = append(e.queue, command{kind: cmdPointerLeave})
}

// --- Accessors ---

// Word returns the current normalized word.
func (e *Engine) Word() string { return e.word }

// Mode returns the active interaction mode id.
func (e *Engine) Mode() string { return e.mode.ID }

// Motion returns the current clamped motion settings.
func (e *Engine) Motion() MotionSettings { return e.motion }

// Quality returns the current adaptive quality scale.
func (e *Engine) Quality() float64 { return e.quality.Quality() }

// Dispose stops the engine; subsequent Tick calls return nil and do nothing.
func (e *Engine) Dispose() { e.disposed = true }

// IsDisposed reports whether Dispose has been called.
func (e *Engine) IsDisposed() bool { return e.disposed }

// --- Tick ---

// Tick advances the simulation by dt seconds under a host-reported frames
// per second estimate, and returns the frame to render. The host owns
// scheduling; the engine only advances state.
//
// Ticks that rebuild buffers (resize, font change, quality step) skip
// simulation and return a frame flagged Rebuilt.
func (e *Engine) Tick(dt, fps float64) *RenderFrame {
	if e.disposed {
		return nil
	}

	e.drainQueue()
	if e.pendingRebuild {
		e.pendingRebuild = false
		e.rebuild()
		e.frame.Rebuilt = true
		e.publish(EvalPhases(e.motionTime))
		return &e.frame
	}

	dt = clamp(finiteOr(dt, 1.0/60), 0, maxTickDelta)
	if dt == 0 {
		dt = 1.0 / 60
	}

	if e.quality.Update(dt, fps) {
		// Density changed: rebuild and skip this frame's simulation so
		// nothing computes against stale buffer sizes.
		e.rebuild()
		e.frame.Rebuilt = true
		e.publish(EvalPhases(e.motionTime))
		return &e.frame
	}

	e.pointer.Advance(dt, e.motion.Drag)
	e.motionTime += dt * e.motion.Settle
	ph := EvalPhases(e.motionTime)

	env := stepEnv{
		dt:       dt,
		time:     e.motionTime,
		phases:   ph,
		motion:   e.motion,
		mode:     e.mode,
		strength: e.strengths.For(e.mode.ID),
		pointer:  &e.pointer,
		width:    e.width,
		height:   e.height,
		driftX:   math.Sin(e.motionTime*0.21) * 6 * e.motion.Flow * (0.4 + 0.6*ph.Breath),
		driftY:   math.Cos(e.motionTime*0.16) * 4 * e.motion.Flow * (0.4 + 0.6*ph.Breath),
	}

	e.field.Advance(&env)
	for i := range e.layers {
		e.layers[i].uniforms(&env, &e.frame.Layers[i])
	}

	e.frame.Rebuilt = false
	e.publish(ph)
	return &e.frame
}

// drainQueue applies every queued command in arrival order.
func (e *Engine) drainQueue() {
	for i := range e.queue {
		c := &e.queue[i]
		switch c.kind {
		case cmdWord:
			e.applyWord(c.str)
		case cmdMode:
			e.mode = ModeByID(c.str)
		case cmdMotion:
			e.motion = c.motion.Clamped()
		case cmdStrength:
			if e.strengths == nil {
				e.strengths = make(ModeStrengths)
			}
			e.strengths[c.str] = clamp(finiteOr(c.value, 1), strengthMin, strengthMax)
		case cmdColor:
			e.colorMode = c.color
		case cmdFont:
			if c.str != e.fontFamily {
				e.fontFamily = c.str
				e.pendingRebuild = true
			}
		case cmdResize:
			w := clamp(finiteOr(c.x, minViewportW), minViewportW, 1e6)
			h := clamp(finiteOr(c.y, minViewportH), minViewportH, 1e6)
			if w != e.width || h != e.height {
				e.width, e.height = w, h
				e.pendingRebuild = true
			}
		case cmdPointerMove:
			nx := clamp(2*c.x/e.width-1, -1, 1)
			ny := clamp(2*c.y/e.height-1, -1, 1)
			e.pointer.Move(nx, ny)
		case cmdPointerLeave:
			e.pointer.Leave()
		}
	}
	e.queue = e.queue[:0]
}

// applyWord retargets the field for a new word. Retargeting to the current
// word is a no-op: no sample, no morph reset.
func (e *Engine) applyWord(word string) {
	word = NormalizeWord(word)
	if word == e.word {
		return
	}
	e.word = word
	points := e.sampler.Sample(word, e.fontFamily, e.width, e.height, e.field.step)
	e.field.Retarget(word, points)
}

// rebuild replaces all instance buffers for the current viewport, font, and
// quality. Particle identity does not survive a rebuild; the old buffers are
// dropped wholesale.
func (e *Engine) rebuild() {
	q := e.quality.Quality()
	e.field = newField(e.width, e.height, q, e.rng)
	points := e.sampler.Sample(e.word, e.fontFamily, e.width, e.height, e.field.step)
	e.field.setWord(e.word, points)
	e.layers = buildBackgroundLayers(e.width, e.height, q, e.rng)

	n := e.field.Count()
	e.frame.X = make([]float32, n)
	e.frame.Y = make([]float32, n)
	e.frame.Glyph = make([]uint8, n)
	e.frame.Layers = make([]LayerUniforms, len(e.layers))
	e.frame.Count = n
}

// publish copies simulation state into the reusable render frame.
func (e *Engine) publish(ph Phases) {
	f := e.field
	for i := range f.posX {
		e.frame.X[i] = float32(f.posX[i])
		e.frame.Y[i] = float32(f.posY[i])
		e.frame.Glyph[i] = f.glyph[i]
	}
	e.frame.Count = len(f.posX)
	e.frame.Quality = e.quality.Quality()
	e.frame.PixelRatio = e.quality.RenderPixelRatio()
	e.frame.ColorMode = e.colorMode
	// Saturates at 0.56 + 0.34 + 0.1 ≈ 1.0 once the word has solidified.
	e.frame.ForegroundAlpha = 0.56 + 0.34*ph.Solid + 0.1*ph.Converge
	e.frame.DepthJitter = 14 * (1 - ph.Solid) * (0.5 + 0.5*ph.Breath)
}

// Layers returns the background layers for renderers that draw instances
// themselves. The returned slice must not be mutated.
func (e *Engine) Layers() []BackgroundLayer {
	return e.layers
}
