package glyphfield

import (
	"math"
	"math/rand/v2"
	"testing"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func testField() *Field {
	return newField(320, 240, 1.0, testRNG())
}

// testEnv builds a stepEnv for direct field stepping.
func testEnv(f *Field, time float64, p *PointerTracker, mode string, motion MotionSettings) *stepEnv {
	return &stepEnv{
		dt:       1.0 / 60,
		time:     time,
		phases:   EvalPhases(time),
		motion:   motion,
		mode:     ModeByID(mode),
		strength: 1,
		pointer:  p,
		width:    f.width,
		height:   f.height,
	}
}

// run advances f by n ticks at dt=1/60, tracking motion time like the engine.
func run(f *Field, n int, start float64, p *PointerTracker, mode string, motion MotionSettings) float64 {
	t := start
	for i := 0; i < n; i++ {
		t += motion.Settle / 60
		f.Advance(testEnv(f, t, p, mode, motion))
	}
	return t
}

func wordPoints(t *testing.T, word string, f *Field) []TargetPoint {
	t.Helper()
	pts := NewSampler().Sample(word, "", f.width, f.height, f.step)
	if len(pts) == 0 {
		t.Fatalf("no target points for %q", word)
	}
	return pts
}

func TestFieldBuildCount(t *testing.T) {
	f := testField()
	if f.Count() != f.cols*f.rows {
		t.Errorf("count = %d, want %d", f.Count(), f.cols*f.rows)
	}
	if f.Count() == 0 {
		t.Fatal("empty field")
	}
}

func TestHigherQualityDenserLattice(t *testing.T) {
	lo := newField(640, 480, qualityMin, testRNG())
	hi := newField(640, 480, qualityMax, testRNG())
	if hi.Count() <= lo.Count() {
		t.Errorf("quality %v count %d not denser than quality %v count %d",
			qualityMax, hi.Count(), qualityMin, lo.Count())
	}
}

func TestRetargetPreservesParticles(t *testing.T) {
	f := testField()
	f.setWord("GEIST", wordPoints(t, "GEIST", f))

	before := f.Count()
	posBacking := &f.posX[0]

	f.Retarget("DRIFT", wordPoints(t, "DRIFT", f))
	if f.Count() != before {
		t.Errorf("count changed across retarget: %d → %d", before, f.Count())
	}
	if &f.posX[0] != posBacking {
		t.Error("retarget reallocated particle arrays; identity must be preserved")
	}
}

func TestRetargetIdempotent(t *testing.T) {
	f := testField()
	f.setWord("GEIST", wordPoints(t, "GEIST", f))
	run(f, 120, 0, &PointerTracker{}, "fluid", DefaultMotion)

	morph := f.morph
	slots := append([]int32(nil), f.targetSlot...)

	f.Retarget("GEIST", wordPoints(t, "GEIST", f))
	if f.morph != morph {
		t.Error("retarget to current word reset the morph")
	}
	if f.morphTween != nil {
		t.Error("retarget to current word started a morph tween")
	}
	for i, s := range f.targetSlot {
		if s != slots[i] {
			t.Fatal("retarget to current word reassigned slots")
		}
	}
}

func TestRetargetStartsTransition(t *testing.T) {
	f := testField()
	f.setWord("GEIST", wordPoints(t, "GEIST", f))
	f.Retarget("DRIFT", wordPoints(t, "DRIFT", f))
	assertNear(t, "morph", f.morph, 0)
	assertNear(t, "excite", f.excite, 1)
	if f.morphTween == nil || f.exciteTween == nil {
		t.Error("retarget should start transition tweens")
	}
}

func TestEmptyTargetsFallBackToHome(t *testing.T) {
	f := testField()
	f.setWord("GEIST", wordPoints(t, "GEIST", f))
	f.Retarget("", nil)
	for i := range f.targetX {
		if f.targetX[i] != f.homeX[i] || f.targetY[i] != f.homeY[i] {
			t.Fatal("no-word state must target home positions")
		}
		if f.targetGlyph[i] != f.baseGlyph[i] {
			t.Fatal("no-word state must restore base glyphs")
		}
	}
}

func TestFreshAssignmentUsesOddStride(t *testing.T) {
	f := testField()
	pts := wordPoints(t, "GEIST", f)
	f.setWord("GEIST", pts)
	n := len(pts)
	for i := 0; i < f.Count(); i++ {
		if int(f.targetSlot[i]) != (i*slotStride)%n {
			t.Fatalf("particle %d slot %d, want %d", i, f.targetSlot[i], (i*slotStride)%n)
		}
	}
}

func TestPreservedAssignmentDeterministic(t *testing.T) {
	a := testField()
	b := testField()
	pts := wordPoints(t, "GEIST", a)
	a.setWord("GEIST", pts)
	b.setWord("GEIST", pts)
	next := wordPoints(t, "FIELD", a)
	a.Retarget("FIELD", next)
	b.Retarget("FIELD", next)
	for i := range a.targetSlot {
		if a.targetSlot[i] != b.targetSlot[i] {
			t.Fatal("preserved slot mapping must be deterministic")
		}
	}
}

func TestStabilityAtMotionExtremes(t *testing.T) {
	for _, motion := range []MotionSettings{
		{Flow: 0.5, Drag: 0.5, Camera: 0.5, Settle: 0.5},
		{Flow: 1.6, Drag: 1.6, Camera: 1.6, Settle: 1.6},
	} {
		f := testField()
		f.setWord("GEIST", wordPoints(t, "GEIST", f))

		// Stationary pointer at full strength keeps the interaction path
		// hot for the whole run.
		p := &PointerTracker{Strength: 1, StrengthTarget: 1}

		tm := 0.0
		for i := 0; i < 10000; i++ {
			tm += 0.016 * motion.Settle
			env := testEnv(f, tm, p, "vortex", motion)
			env.dt = 0.016
			f.Advance(env)
		}
		for i := range f.posX {
			for name, v := range map[string]float64{
				"posX": f.posX[i], "posY": f.posY[i],
				"velX": f.velX[i], "velY": f.velY[i],
			} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("motion %+v: particle %d %s non-finite after 10k ticks", motion, i, name)
				}
			}
		}
	}
}

func TestModeIrrelevantWithoutPointer(t *testing.T) {
	pts := NewSampler().Sample("GEIST", "", 320, 240, newField(320, 240, 1.0, testRNG()).step)

	var baseline []float64
	for _, mode := range ModeIDs {
		f := testField() // identical seed per build
		f.setWord("GEIST", pts)
		run(f, 500, 0, &PointerTracker{}, mode, DefaultMotion)

		if baseline == nil {
			baseline = append(append([]float64(nil), f.posX...), f.posY...)
			continue
		}
		for i := range f.posX {
			if f.posX[i] != baseline[i] || f.posY[i] != baseline[len(f.posX)+i] {
				t.Fatalf("mode %s diverged with zero pointer strength", mode)
			}
		}
	}
}

func TestPointerInputDistinguishesModes(t *testing.T) {
	pts := NewSampler().Sample("GEIST", "", 320, 240, newField(320, 240, 1.0, testRNG()).step)
	p := &PointerTracker{Strength: 1, StrengthTarget: 1}

	fv := testField()
	fv.setWord("GEIST", pts)
	run(fv, 500, 0, p, "vortex", DefaultMotion)

	ff := testField()
	ff.setWord("GEIST", pts)
	run(ff, 500, 0, p, "fluid", DefaultMotion)

	same := true
	for i := range fv.posX {
		if fv.posX[i] != ff.posX[i] || fv.posY[i] != ff.posY[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("vortex and fluid produced identical trajectories under pointer input")
	}
}

func TestGlyphLocksAfterConvergence(t *testing.T) {
	f := testField()
	f.setWord("GEIST", wordPoints(t, "GEIST", f))
	// Well past solidEnd: gate saturates and every particle's randomized
	// threshold has been crossed.
	run(f, 600, 20, &PointerTracker{}, "fluid", DefaultMotion)
	for i := range f.glyph {
		if f.glyph[i] != f.targetGlyph[i] {
			t.Fatalf("particle %d still shows base glyph after full convergence", i)
		}
	}
}

func TestTimestepClamp(t *testing.T) {
	f := testField()
	f.setWord("GEIST", wordPoints(t, "GEIST", f))
	// A huge post-suspend delta must be clamped, not integrated raw.
	env := testEnv(f, 10, &PointerTracker{}, "fluid", DefaultMotion)
	env.dt = 5.0
	f.Advance(env)
	for i := range f.posX {
		if math.IsNaN(f.posX[i]) || math.Abs(f.velX[i]) > 1e5 {
			t.Fatal("unclamped timestep blew up integration")
		}
	}
}

func TestZeroAllocsDuringAdvance(t *testing.T) {
	f := testField()
	f.setWord("GEIST", wordPoints(t, "GEIST", f))
	p := &PointerTracker{Strength: 1, StrengthTarget: 1}
	env := testEnv(f, 3, p, "vortex", DefaultMotion)

	// Warmup drains the transition tweens.
	for i := 0; i < 200; i++ {
		f.Advance(env)
	}

	allocs := testing.AllocsPerRun(100, func() {
		f.Advance(env)
	})
	if allocs > 0 {
		t.Errorf("Advance allocs = %f, want 0", allocs)
	}
}

// --- Benchmarks ---

func BenchmarkFieldAdvance(b *testing.B) {
	rng := testRNG()
	f := newField(1920, 1080, 1.0, rng)
	pts := NewSampler().Sample("GEIST", "", 1920, 1080, f.step)
	f.setWord("GEIST", pts)
	p := &PointerTracker{Strength: 1, StrengthTarget: 1}
	env := testEnv(f, 5, p, "vortex", DefaultMotion)
	for i := 0; i < 100; i++ {
		f.Advance(env)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		f.Advance(env)
	}
}
