package glyphfield

import "math"

// Timeline thresholds, in settle-scaled seconds. The word drifts as a loose
// mesh until meshEnd, converges onto its targets through convergeEnd, locks
// glyphs through holdEnd, and fully solidifies by solidEnd.
const (
	meshEnd     = 1.15
	convergeEnd = 2.7
	holdEnd     = 3.45
	solidEnd    = 4.9
)

// Phases are the global blend scalars for one tick. They are pure functions
// of scaled elapsed time; nothing is stored across frames, so changing the
// settle motion parameter rescales the remaining timeline smoothly.
type Phases struct {
	// Mesh ramps 0→1 while the scattered mesh forms.
	Mesh float64
	// Converge ramps 0→1 as particles head for their targets.
	Converge float64
	// Lock ramps 0→1 through the glyph-lock hold window.
	Lock float64
	// Solid ramps 0→1 and saturates; the field's only monotonic phase.
	Solid float64
	// Flow oscillates in [0,1] forever, driving idle ambient motion.
	Flow float64
	// Breath oscillates in [0,1] on a slower period, driving drift and
	// background alpha.
	Breath float64
}

// EvalPhases computes the phase scalars for scaled elapsed time t.
func EvalPhases(t float64) Phases {
	return Phases{
		Mesh:     smoothstep(0, meshEnd, t),
		Converge: smoothstep(meshEnd*0.55, convergeEnd, t),
		Lock:     smoothstep(convergeEnd, holdEnd, t),
		Solid:    smoothstep(holdEnd, solidEnd, t),
		Flow:     0.5 + 0.5*math.Sin(t*0.63+1.7),
		Breath:   0.5 + 0.5*math.Sin(t*0.241),
	}
}
