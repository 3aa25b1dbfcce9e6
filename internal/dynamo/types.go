package dynamo

import (
	"fmt"
	"math"
)

// Vec3 is a value type; every method returns a new vector.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.Dot(v)) }
func (v Vec3) LengthSq() float64    { return v.Dot(v) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Normalize returns the unit vector in v's direction. The zero vector stays zero.
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

// DistanceSq returns the squared distance between v and o.
func (v Vec3) DistanceSq(o Vec3) float64 {
	return v.Sub(o).LengthSq()
}

// Lerp interpolates from v to o; t is not clamped.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// Combine returns the sum of v and every vector in vs.
func (v Vec3) Combine(vs ...Vec3) Vec3 {
	for _, o := range vs {
		v = v.Add(o)
	}
	return v
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	for _, c := range v.Array() {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func (v Vec3) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

// Lerp interpolates between two scalars.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LinearCombination returns sum(weights[i] * vs[i]). Extra entries on either
// side are ignored.
func LinearCombination(weights []float64, vs []Vec3) Vec3 {
	var out Vec3
	for i := 0; i < len(weights) && i < len(vs); i++ {
		out = out.Add(vs[i].Scale(weights[i]))
	}
	return out
}

// Diagnostics counts numeric edge cases that were recovered locally.
type Diagnostics struct {
	DegenerateContacts int64
	ClockAnomalies     int64
}
