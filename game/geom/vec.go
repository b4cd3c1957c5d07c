// Package geom holds the small amount of 3D vector math the simulation needs.
package geom

import "math"

// Vec3 is a world-space point or direction. Y is up.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Zero is the origin.
var Zero = Vec3{}

// V builds a Vec3.
func V(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// LengthSq returns the squared length.
func (v Vec3) LengthSq() float32 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Length returns the euclidean length.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSq())))
}

// DistanceTo returns |o - v|.
func (v Vec3) DistanceTo(o Vec3) float32 { return o.Sub(v).Length() }

// Normalized returns the unit vector in the direction of v.
// A zero-length vector normalizes to Zero instead of NaN.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	inv := 1 / l
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Horizontal drops the vertical component.
func (v Vec3) Horizontal() Vec3 { return Vec3{X: v.X, Z: v.Z} }

// IsZero reports whether every component is zero.
func (v Vec3) IsZero() bool { return v == Zero }

// Yaw returns the rotation around Y, in radians, that faces along the
// horizontal part of v. Yaw 0 faces -Z. ok is false for a vertical or zero
// vector, in which case the caller should keep its previous heading.
func (v Vec3) Yaw() (yaw float32, ok bool) {
	h := v.Horizontal()
	if h.IsZero() {
		return 0, false
	}
	return float32(math.Atan2(float64(-h.X), float64(-h.Z))), true
}

// MoveToward steps from v toward target by at most maxStep.
func (v Vec3) MoveToward(target Vec3, maxStep float32) Vec3 {
	d := target.Sub(v)
	l := d.Length()
	if l <= maxStep || l == 0 {
		return target
	}
	return v.Add(d.Scale(maxStep / l))
}

// RotateY rotates v around the Y axis by angle radians, counter-clockwise
// seen from above. RotateY(yaw) of (0,0,-1) has Yaw() == yaw.
func (v Vec3) RotateY(angle float32) Vec3 {
	s, c := math.Sincos(float64(angle))
	sin, cos := float32(s), float32(c)
	return Vec3{X: v.X*cos + v.Z*sin, Y: v.Y, Z: -v.X*sin + v.Z*cos}
}
