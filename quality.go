package glyphfield

import "math"

// Adaptive quality control loop constants.
const (
	qualityMin      = 0.62
	qualityMax      = 1.05
	qualityStep     = 0.08 // per-evaluation step, and the hysteresis dead band
	qualityInterval = 3.2  // simulated seconds between evaluations
	fpsSmoothing    = 0.08
)

// qualityController maintains a rolling FPS estimate and steps a global
// quality scale toward a target derived from it, never more often than the
// evaluation interval and never by more than one step. The dead band keeps
// quality from oscillating between adjacent levels every window.
type qualityController struct {
	quality    float64
	fpsEMA     float64
	clock      float64
	pixelRatio float64 // device pixel ratio reported by the host
}

func newQualityController(devicePixelRatio float64) *qualityController {
	q := &qualityController{
		fpsEMA:     60,
		pixelRatio: clamp(finiteOr(devicePixelRatio, 1), 0.5, 4),
	}
	q.quality = q.baseline()
	return q
}

// baseline is the quality target under no FPS pressure. High-DPR devices
// start lower since they push proportionally more pixels.
func (q *qualityController) baseline() float64 {
	switch {
	case q.pixelRatio > 2:
		return 0.92
	case q.pixelRatio > 1.5:
		return 0.98
	default:
		return qualityMax
	}
}

// Update advances the FPS estimate and, at most once per evaluation window,
// steps quality toward its target. Reports whether quality changed; the
// caller must rebuild density-dependent buffers and skip the rest of the
// frame when it did.
func (q *qualityController) Update(dt, fps float64) bool {
	fps = finiteOr(fps, 0)
	if fps > 0 {
		q.fpsEMA += (fps - q.fpsEMA) * fpsSmoothing
	}

	q.clock += dt
	if q.clock < qualityInterval {
		return false
	}
	q.clock = 0

	target := q.baseline()
	if q.fpsEMA < 58 {
		target -= 0.08
	}
	if q.fpsEMA < 50 {
		target -= 0.10
	}
	if q.fpsEMA < 42 {
		target -= 0.10
	}
	if q.fpsEMA < 34 {
		target -= 0.12
	}
	if q.fpsEMA > 63 {
		target += 0.06
	}
	target = clamp(target, qualityMin, qualityMax)

	if math.Abs(target-q.quality) <= qualityStep+1e-9 {
		return false
	}
	if target > q.quality {
		q.quality += qualityStep
	} else {
		q.quality -= qualityStep
	}
	q.quality = clamp(q.quality, qualityMin, qualityMax)
	return true
}

// Quality returns the current quality scale in [qualityMin, qualityMax].
func (q *qualityController) Quality() float64 {
	return q.quality
}

// RenderPixelRatio derives the effective render pixel ratio from the device
// ratio and the current quality.
func (q *qualityController) RenderPixelRatio() float64 {
	return clamp(q.pixelRatio*q.quality, 0.75, q.pixelRatio)
}
