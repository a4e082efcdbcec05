package glyphfield

// Motion parameter clamps. Every externally supplied motion value passes
// through these on assignment; callers are never trusted.
const (
	motionMin = 0.5
	motionMax = 1.6

	strengthMin = 0.4
	strengthMax = 1.8
)

// MotionSettings are the four global speed/responsiveness multipliers.
// They scale rates throughout the simulation but never change its topology.
type MotionSettings struct {
	// Flow scales ambient drift and pointer flow amplitude.
	Flow float64
	// Drag scales pointer smoothing lag and particle damping.
	Drag float64
	// Camera scales background layer drift (forwarded to layer uniforms).
	Camera float64
	// Settle scales simulation time before timeline phase evaluation;
	// higher settle collapses the drift→lock timeline faster.
	Settle float64
}

// DefaultMotion is the neutral motion preset (all multipliers 1).
var DefaultMotion = MotionSettings{Flow: 1, Drag: 1, Camera: 1, Settle: 1}

// motionPresets are the named tunings selectable via MotionPreset.
var motionPresets = map[string]MotionSettings{
	"calm":     {Flow: 0.7, Drag: 1.25, Camera: 0.8, Settle: 0.7},
	"standard": DefaultMotion,
	"brisk":    {Flow: 1.25, Drag: 0.8, Camera: 1.1, Settle: 1.3},
	"frantic":  {Flow: 1.6, Drag: 0.5, Camera: 1.35, Settle: 1.6},
}

// MotionPreset returns the named preset, or DefaultMotion for unknown names.
func MotionPreset(name string) MotionSettings {
	if m, ok := motionPresets[name]; ok {
		return m
	}
	return DefaultMotion
}

// Clamped returns the settings with non-finite fields replaced by 1 and every
// field limited to [0.5, 1.6].
func (m MotionSettings) Clamped() MotionSettings {
	return MotionSettings{
		Flow:   clamp(finiteOr(m.Flow, 1), motionMin, motionMax),
		Drag:   clamp(finiteOr(m.Drag, 1), motionMin, motionMax),
		Camera: clamp(finiteOr(m.Camera, 1), motionMin, motionMax),
		Settle: clamp(finiteOr(m.Settle, 1), motionMin, motionMax),
	}
}

// ModeStrengths maps interaction mode ids to per-mode output multipliers.
// Missing, non-finite, or out-of-range entries resolve to defaults via For.
type ModeStrengths map[string]float64

// For returns the clamped strength for the given mode id, defaulting to 1.
func (s ModeStrengths) For(id string) float64 {
	v, ok := s[id]
	if !ok {
		return 1
	}
	return clamp(finiteOr(v, 1), strengthMin, strengthMax)
}
