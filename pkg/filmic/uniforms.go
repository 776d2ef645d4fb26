package filmic

import(
	"fmt"
	"math"

	"github.com/abworrall/filmic-hdr/pkg/emath"
)

// Uniforms is the curve packed the way a fragment shader wants it: one
// vec4 for the curve and two per segment.
type Uniforms struct {
	Curve     [4]float64 // inverseWhitePoint, x0, x1, 0
	ToeA      [4]float64 // offsetX, offsetY, scaleX, scaleY
	ToeB      [4]float64 // lnA, B, 0, 0
	MidA      [4]float64
	MidB      [4]float64
	ShoulderA [4]float64
	ShoulderB [4]float64
}

func (s Segment)packA() [4]float64 { return [4]float64{s.OffsetX, s.OffsetY, s.ScaleX, s.ScaleY} }
func (s Segment)packB() [4]float64 { return [4]float64{s.LnA, s.B, 0, 0} }

func (c Curve)Uniforms() Uniforms {
	return Uniforms{
		Curve:     [4]float64{c.InverseWhitePoint, c.X0, c.X1, 0},
		ToeA:      c.Segments[Toe].packA(),
		ToeB:      c.Segments[Toe].packB(),
		MidA:      c.Segments[Mid].packA(),
		MidB:      c.Segments[Mid].packB(),
		ShoulderA: c.Segments[Shoulder].packA(),
		ShoulderB: c.Segments[Shoulder].packB(),
	}
}

// A LUT is the curve sampled at evenly spaced EVs (log2 of the input).
type LUT struct {
	MinEV  float64
	MaxEV  float64
	Values []float64
}

// BakeLUT samples the curve at `size` points over [2^minEV, 2^maxEV]
func (c Curve)BakeLUT(size int, minEV, maxEV float64) (LUT, error) {
	if size < 2 {
		return LUT{}, fmt.Errorf("lut size %d too small, need at least 2", size)
	}
	if !(maxEV > minEV) {
		return LUT{}, fmt.Errorf("lut range [%.2f,%.2f] is empty", minEV, maxEV)
	}

	lut := LUT{MinEV: minEV, MaxEV: maxEV, Values: make([]float64, size)}
	for i := range lut.Values {
		ev := minEV + (maxEV-minEV)*float64(i)/float64(size-1)
		lut.Values[i] = c.Eval(math.Exp2(ev))
	}
	return lut, nil
}

// Lookup interpolates linearly in EV. Below the range it ramps linearly
// down to zero; above the range it holds the last entry.
func (l LUT)Lookup(x float64) float64 {
	n := len(l.Values)
	if n == 0 || !(x > 0.0) {
		return 0.0
	}

	if lo := math.Exp2(l.MinEV); x < lo {
		return l.Values[0] * x / lo
	}

	pos := (math.Log2(x) - l.MinEV) / (l.MaxEV - l.MinEV) * float64(n-1)
	if pos >= float64(n-1) {
		return l.Values[n-1]
	}
	i := int(pos)
	return emath.Lerp(l.Values[i], l.Values[i+1], pos-float64(i))
}
