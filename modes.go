package glyphfield

import "math"

// FieldSample is one interaction mode's contribution for a single instance:
// a flow direction, a radial pressure scale (negative attracts), and the
// drag/flow multipliers applied while the pointer influences the instance.
type FieldSample struct {
	FlowX, FlowY float64
	Pressure     float64
	DragScale    float64
	FlowScale    float64
}

// Mode is a pointer-interaction vector-field policy. Eval is a pure function
// of the instance's position relative to the pointer (px, py, dist in mask
// pixels), a time-varying oscillation term, and the instance seed. The
// geometry constants are deliberately per-mode; the modes must feel
// qualitatively distinct, so none of them are interpolated or shared.
type Mode struct {
	ID string

	// Radius is the pointer influence radius as a fraction of the smaller
	// viewport dimension. No influence outside it.
	Radius float64
	// WarpBase is the flow displacement amplitude in pixels; WarpFloat is
	// the bonus applied while the field is still floating (pre-solidify).
	WarpBase  float64
	WarpFloat float64
	// BackWarp and BackFlow are the background-layer analogues forwarded
	// to layer uniforms.
	BackWarp float64
	BackFlow float64

	Eval func(px, py, dist, wave, seed float64) FieldSample
}

// pressureBase is the radial push/pull amplitude in pixels at pressure 1.
const pressureBase = 38.0

// radial returns the unit vector from the pointer toward (px, py).
func radial(px, py, dist float64) (nx, ny float64) {
	if dist < 1e-6 {
		return 1, 0
	}
	return px / dist, py / dist
}

// modes is the dispatch table, in canonical id order. Index 0 is the
// fallback for unknown ids.
var modes = [...]Mode{
	{
		ID:     "fluid",
		Radius: 0.40, WarpBase: 46, WarpFloat: 18, BackWarp: 20, BackFlow: 1.0,
		Eval: func(px, py, dist, wave, seed float64) FieldSample {
			sweep := math.Sin(py*0.012 + wave*1.8 + seed*6.2832)
			lift := math.Cos(px*0.010 - wave*1.3)
			return FieldSample{
				FlowX:    sweep*0.9 + lift*0.35,
				FlowY:    lift*0.8 - sweep*0.3,
				Pressure: 0.55, DragScale: 1.0, FlowScale: 1.0,
			}
		},
	},
	{
		ID:     "nebula",
		Radius: 0.46, WarpBase: 54, WarpFloat: 26, BackWarp: 26, BackFlow: 1.2,
		Eval: func(px, py, dist, wave, seed float64) FieldSample {
			nx, ny := radial(px, py, dist)
			cloudA := math.Sin(px*0.008 + wave*1.1 + seed*4.0)
			cloudB := math.Cos(py*0.009 - wave*0.8 + seed*2.3)
			return FieldSample{
				FlowX:    -ny*0.6 + cloudA*0.5,
				FlowY:    nx*0.6 + cloudB*0.5,
				Pressure: 0.30, DragScale: 1.25, FlowScale: 1.2,
			}
		},
	},
	{
		ID:     "tide",
		Radius: 0.38, WarpBase: 40, WarpFloat: 12, BackWarp: 16, BackFlow: 0.7,
		Eval: func(px, py, dist, wave, seed float64) FieldSample {
			return FieldSample{
				FlowX:    math.Sin(py*0.011 + wave*2.2 + seed*1.6),
				FlowY:    0.45 * math.Sin(px*0.009-wave*1.7),
				Pressure: 0.95, DragScale: 0.70, FlowScale: 0.65,
			}
		},
	},
	{
		ID:     "vortex",
		Radius: 0.42, WarpBase: 62, WarpFloat: 30, BackWarp: 30, BackFlow: 1.35,
		Eval: func(px, py, dist, wave, seed float64) FieldSample {
			nx, ny := radial(px, py, dist)
			spiral := math.Sin(dist*0.020 - wave*2.4 + seed*3.1)
			curl := math.Cos(px*0.010 + py*0.010 + wave)
			return FieldSample{
				FlowX:    -ny*(1.1+0.2*curl) + nx*spiral*0.25,
				FlowY:    nx*(1.1+0.2*curl) + ny*spiral*0.25,
				Pressure: 0.50, DragScale: 0.85, FlowScale: 1.45,
			}
		},
	},
	{
		ID:     "ripple",
		Radius: 0.44, WarpBase: 50, WarpFloat: 20, BackWarp: 22, BackFlow: 1.1,
		Eval: func(px, py, dist, wave, seed float64) FieldSample {
			nx, ny := radial(px, py, dist)
			ring := math.Sin(dist*0.045 - wave*3.1)
			cross := 0.35 * math.Cos(wave*1.2+seed*2.1)
			return FieldSample{
				FlowX:    nx*ring - ny*cross,
				FlowY:    ny*ring + nx*cross,
				Pressure: 0.50, DragScale: 1.0, FlowScale: 1.1,
			}
		},
	},
	{
		ID:     "magnet",
		Radius: 0.34, WarpBase: 30, WarpFloat: 8, BackWarp: 12, BackFlow: 0.5,
		Eval: func(px, py, dist, wave, seed float64) FieldSample {
			// Attraction comes from the negative pressure sign; the flow
			// term only adds lattice-aligned shiver.
			return FieldSample{
				FlowX:    0.3 * math.Sin(px*0.05+seed*6.2832+wave*0.7),
				FlowY:    0.3 * math.Sin(py*0.05-seed*6.2832-wave*0.7),
				Pressure: -0.75, DragScale: 1.40, FlowScale: 0.50,
			}
		},
	},
}

// ModeIDs lists the interaction mode identifiers in canonical order.
var ModeIDs = func() []string {
	ids := make([]string, len(modes))
	for i := range modes {
		ids[i] = modes[i].ID
	}
	return ids
}()

// ModeByID returns the mode for id, falling back to the first mode (fluid)
// for unknown ids.
func ModeByID(id string) *Mode {
	for i := range modes {
		if modes[i].ID == id {
			return &modes[i]
		}
	}
	return &modes[0]
}
