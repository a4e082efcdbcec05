package glyphfield

import "math"

// Pointer smoothing rates, per second at drag 1. Higher drag slows every
// follow rate proportionally.
const (
	pointerPosRate      = 10.0
	pointerVelRate      = 7.0
	pointerStrengthRate = 5.0
	pointerEnergyRate   = 3.0
	pointerTrailFade    = 2.4
	pointerEnergyMax    = 1.5
	pointerEpsilon      = 0.003
)

// PointerTracker smooths raw pointer samples into the lagged position,
// velocity, presence strength, and energy signals the fields consume.
// Positions are normalized to [-1, 1] per axis before entering the tracker.
type PointerTracker struct {
	// TargetX, TargetY is the latest raw position.
	TargetX, TargetY float64
	// X, Y is the smoothed (lagged) position.
	X, Y float64
	// TargetVX, TargetVY is the raw velocity estimate; it decays toward
	// zero continuously so a released pointer bleeds out instead of
	// vanishing.
	TargetVX, TargetVY float64
	// VX, VY is the smoothed velocity.
	VX, VY float64
	// StrengthTarget and Strength are the pointer presence signal.
	StrengthTarget, Strength float64
	// Energy is a further-smoothed function of pointer speed in
	// [0, pointerEnergyMax].
	Energy float64
}

// Move records a raw pointer sample at normalized coordinates. Out-of-range
// and non-finite values are clamped.
func (p *PointerTracker) Move(nx, ny float64) {
	nx = clamp(finiteOr(nx, 0), -1, 1)
	ny = clamp(finiteOr(ny, 0), -1, 1)
	// Blend rather than overwrite so a burst of events within one tick
	// accumulates into a usable velocity estimate.
	p.TargetVX = p.TargetVX*0.5 + (nx-p.TargetX)*30
	p.TargetVY = p.TargetVY*0.5 + (ny-p.TargetY)*30
	p.TargetX = nx
	p.TargetY = ny
	p.StrengthTarget = 1
}

// Leave resets the tracker when the pointer is known gone
// (leave/cancel/blur/hidden tab). Targets and smoothed values are force-set
// to zero with no smoothing, so no residual drift outlives the pointer.
func (p *PointerTracker) Leave() {
	p.TargetVX, p.TargetVY = 0, 0
	p.VX, p.VY = 0, 0
	p.StrengthTarget, p.Strength = 0, 0
	p.Energy = 0
}

// Advance steps all smoothed signals by dt seconds. drag is the motion
// Drag parameter; higher drag means slower follow.
func (p *PointerTracker) Advance(dt, drag float64) {
	if drag < motionMin {
		drag = motionMin
	}
	k := func(rate float64) float64 {
		return 1 - math.Exp(-rate*dt/drag)
	}

	p.X += (p.TargetX - p.X) * k(pointerPosRate)
	p.Y += (p.TargetY - p.Y) * k(pointerPosRate)

	fade := math.Exp(-pointerTrailFade * dt)
	p.TargetVX *= fade
	p.TargetVY *= fade
	p.VX += (p.TargetVX - p.VX) * k(pointerVelRate)
	p.VY += (p.TargetVY - p.VY) * k(pointerVelRate)

	p.Strength += (p.StrengthTarget - p.Strength) * k(pointerStrengthRate)

	speed := math.Hypot(p.VX, p.VY)
	target := clamp(speed*0.9, 0, pointerEnergyMax)
	p.Energy += (target - p.Energy) * k(pointerEnergyRate)
}
