package shading

import (
	"math"

	"github.com/Carmen-Shannon/sunwave/common"
)

// DefaultBattery is the battery level the fragment stage hard-codes. It scales the scroll speed of the scanlines.
const DefaultBattery = 4.2

var (
	triangleColor = [3]float64{1.0, 0.6, 0.1}
	sunColor      = [3]float64{2.0, 0.4, 0.1}

	// 90 degree rotation, columns (c, -s) and (-s, c) as the fragment stage builds it
	rotC = math.Cos(1.5707964)
	rotS = math.Sin(1.5707964)
)

// Params are the per-frame inputs of the shading functions.
type Params struct {
	// Time is the already scaled time uniform, not milliseconds.
	Time float64

	// Battery scales the scanline scroll speed. Zero means DefaultBattery.
	Battery float64
}

func (p Params) battery() float64 {
	return common.Coalesce(p.Battery, DefaultBattery)
}

// scanlineCut carves horizontal bands that scroll upward with time.
func scanlineCut(y, amplitude, slope float64, p Params) float64 {
	wave := amplitude * math.Sin((y+p.Time*0.2*(p.battery()+0.02))*100)
	return common.Clamp(wave+common.Clamp(y*slope+1, -6, 6), 0, 1)
}

// Triangle returns the triangle mask at uv, in [0, 1].
//
// Parameters:
//   - x, y: the sample position, already offset by the caller
//   - p: the frame parameters
//
// Returns:
//   - float64: 0 outside the triangle, the scanline cut inside
func Triangle(x, y float64, p Params) float64 {
	ux, uy := common.Mat2MulVec(rotC, -rotS, -rotS, rotC, x-0.5, y-0.5)

	a := 0.5 - ux
	b := 0.5 + ux - uy
	d := ux + uy - 0.5
	inside := common.Step(0, math.Min(a, math.Min(b, d)))
	return common.Clamp(inside*scanlineCut(uy, 5, 10, p), 0, 1)
}

// Sun returns the sun disc mask plus its bloom at uv. The result can exceed 1 near the center.
//
// Parameters:
//   - x, y: the sample position, already offset by the caller
//   - p: the frame parameters
//
// Returns:
//   - float64: the disc mask in [0, 1] plus bloom in [0, 0.6]
func Sun(x, y float64, p Params) float64 {
	dist := common.Length2(x, y)
	val := common.Smoothstep(0.3, 0.29, dist)
	bloom := common.Smoothstep(0.7, 0, dist)
	cut := scanlineCut(y, 3, 14, p)
	return common.Clamp(val*cut, 0, 1) + bloom*0.6
}

// ShadeUV returns the unclamped linear color of the scene at uv, where uv spans [-1, 1] on both
// axes with y pointing up.
func ShadeUV(x, y float64, p Params) [3]float64 {
	s := Sun(x+0.3, y+0.3, p)
	t := Triangle(x-0.3, y-0.3, p)
	var c [3]float64
	for i := range c {
		c[i] = t*triangleColor[i] + s*sunColor[i]
	}
	return c
}

// Shade returns the color of the pixel whose center is (px, py) in a width x height image with
// the origin at the top left, the way the fragment stage sees @builtin(position).
//
// Parameters:
//   - px, py: the pixel center in pixels
//   - width, height: the image size in pixels, must be positive
//   - p: the frame parameters
//
// Returns:
//   - [3]float64: the unclamped linear color
func Shade(px, py float64, width, height int, p Params) [3]float64 {
	nx := px/float64(width)*2 - 1
	ny := py/float64(height)*2 - 1
	return ShadeUV(nx, -ny, p)
}
