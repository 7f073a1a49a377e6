package field

import "math"

// Vector is a single flow sample. Magnitude is computed once at
// construction; the value is immutable afterwards.
type Vector struct {
	U         float64
	V         float64
	Magnitude float64
}

func NewVector(u, v float64) Vector {
	return Vector{U: u, V: v, Magnitude: math.Hypot(u, v)}
}

// DirectionTo returns the bearing the flow points toward, in degrees
// clockwise from north, normalized to [0, 360).
func (v Vector) DirectionTo() float64 {
	return floorMod(math.Atan2(v.U, v.V)*180/math.Pi, 360)
}

// DirectionFrom returns the bearing the flow comes from.
func (v Vector) DirectionFrom() float64 {
	return floorMod(v.DirectionTo()+180, 360)
}

// floorMod is the floored modulo: the result has the sign of n, so
// negative dividends wrap into [0, n) instead of truncating toward zero.
func floorMod(a, n float64) float64 {
	return a - n*math.Floor(a/n)
}
