// Package glyphfield is a procedural typographic particle engine.
//
// Glyphfield simulates a foreground lattice of spring-damped glyph particles
// that morphs from a scattered mesh into a readable word, layered over
// parallax background glyph planes, with pointer-driven vector fields and an
// adaptive quality controller that trades instance density for frame rate.
//
// The engine owns simulation only. It consumes a word, pointer input, motion
// settings, and a viewport, and produces per-tick instance buffers and layer
// uniforms for a host-provided renderer. It never schedules frames or
// rasterizes pixels itself.
//
// # Quick start
//
// Create an [Engine], feed it input, and call [Engine.Tick] from your render
// loop:
//
//	eng := glyphfield.NewEngine(glyphfield.Config{
//		Width: 1280, Height: 720, Word: "GEIST",
//	})
//	// each frame:
//	frame := eng.Tick(dt, fps)
//	// draw frame.X/frame.Y/frame.Glyph and frame.Layers
//
// External changes go through setters ([Engine.SetWord], [Engine.SetMode],
// [Engine.Resize], [Engine.SetPointer], ...). They are queued and consumed at
// the start of the next tick, so all simulation state is mutated from a
// single point.
//
// # Interaction modes
//
// Six vector-field policies shape how particles respond to the pointer:
// fluid, nebula, tide, vortex, ripple, and magnet. Each is a pure function
// returning a flow direction, pressure, drag scale, and flow scale; see
// [Mode]. Unknown mode ids fall back to fluid.
//
// A runnable renderer built on [Ebitengine] lives in examples/hero.
//
// [Ebitengine]: https://ebitengine.org
package glyphfield
