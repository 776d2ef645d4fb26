package emath

// Small fixed-size vectors, used for color weights

import(
	"fmt"

	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point, hopefully make this file redundant
)

// Use local types so we can hang methods off them
type Vec3 f64.Vec3

func (v Vec3)String() string {
	return fmt.Sprintf("[%12.10f, %12.10f, %12.10f]", v[0], v[1], v[2])
}

func (v Vec3)Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

func (v Vec3)Scale(s float64) Vec3 {
	return Vec3{v[0]*s, v[1]*s, v[2]*s}
}

func (v *Vec3)FloorAt(min float64) {
	if v[0] < min { v[0] = min }
	if v[1] < min { v[1] = min }
	if v[2] < min { v[2] = min }
}
