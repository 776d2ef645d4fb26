package filmic

// A piecewise power curve for filmic tone mapping: a toe, a straight
// (optionally gamma'd) mid section, and a shoulder. Each piece has the form
//
//   y = exp(lnA + B*ln((x - offsetX)*scaleX)) * scaleY + offsetY
//
// and the pieces meet with matching value and slope. See John Hable,
// "Filmic Tonemapping with Piecewise Power Curves".

import(
	"fmt"
	"math"

	"github.com/abworrall/filmic-hdr/pkg/emath"
)

const(
	// Not the display gamma; a UI space so toe lengths don't need tiny numbers
	perceptualGamma = 2.2

	// Smallest value we will pass to ln
	logEpsilon = 1e-10

	// Clamp for shoulder strength and gamma
	minStrength = 1e-5

	// Floor for the gamma'd endpoint y values
	minEndpoint = 1e-10
)

type Segment struct {
	OffsetX float64
	OffsetY float64
	ScaleX  float64
	ScaleY  float64
	LnA     float64
	B       float64
}

// Eval evaluates the segment at (normalized) x. At or past the segment's
// origin the power term is zero, its limit for B>0, and ln is never called.
func (s Segment)Eval(x float64) float64 {
	x0 := (x - s.OffsetX) * s.ScaleX
	y0 := 0.0
	if x0 > 0.0 {
		y0 = math.Exp(s.LnA + s.B*math.Log(x0))
	}
	return y0*s.ScaleY + s.OffsetY
}

// Derivative is dy/dx of the segment at (normalized) x
func (s Segment)Derivative(x float64) float64 {
	x0 := (x - s.OffsetX) * s.ScaleX
	if !(x0 > 0.0) {
		return 0.0
	}
	// d/dx A*x0^B = A*B*x0^(B-1) * scaleX
	return math.Exp(s.LnA + (s.B-1)*math.Log(x0)) * s.B * s.ScaleX * s.ScaleY
}

func (s Segment)String() string {
	return fmt.Sprintf("seg{off(%.5f,%.5f) scale(%.1f,%.5f) lnA %.5f B %.5f}",
		s.OffsetX, s.OffsetY, s.ScaleX, s.ScaleY, s.LnA, s.B)
}

const(
	Toe      = 0
	Mid      = 1
	Shoulder = 2
)

// A Curve is built from ToneCurveParameters and never mutated afterwards.
// X0 and X1 are the toe->mid and mid->shoulder boundaries, in input units
// divided by the white point.
type Curve struct {
	Segments          [3]Segment
	WhitePoint        float64 // the input value that maps to 1.0
	InverseWhitePoint float64
	X0                float64
	X1                float64
}

// The curve before normalization, in the unit-ish space the parameters are
// expressed in
type directParams struct {
	x0, y0     float64
	x1, y1     float64
	w          float64
	overshootX float64
	overshootY float64
	gamma      float64
}

// Build constructs the curve. It is a pure function of the parameters.
func Build(p ToneCurveParameters) Curve {
	toeLength        := math.Pow(emath.Clamp01(p.ToeLength), perceptualGamma)
	toeStrength      := emath.Clamp01(p.ToeStrength)
	shoulderAngle    := emath.Clamp01(p.ShoulderAngle)
	shoulderStrength := emath.Clamp(p.ShoulderStrength, minStrength, 1.0-minStrength)
	shoulderLength   := math.Max(0.0, p.ShoulderLength)
	gamma            := math.Max(minStrength, p.Gamma)
	if math.IsNaN(p.ShoulderStrength) { shoulderStrength = minStrength }
	if math.IsNaN(p.ShoulderLength) { shoulderLength = 0.0 }
	if math.IsNaN(p.Gamma) { gamma = 1.0 }

	dp := directParams{gamma: gamma}

	// Toe goes from 0 to 0.5
	dp.x0 = toeLength * 0.5
	dp.y0 = (1.0 - toeStrength) * dp.x0 // lerp from 0 to x0

	remainingY := 1.0 - dp.y0
	initialW   := dp.x0 + remainingY

	y1Offset := (1.0 - shoulderStrength) * remainingY
	dp.x1 = dp.x0 + y1Offset
	dp.y1 = dp.y0 + y1Offset

	// Shoulder length is in F stops
	extraW := math.Exp2(shoulderLength) - 1.0
	dp.w = initialW + extraW

	dp.overshootX = (dp.w * 2.0) * shoulderAngle * shoulderLength
	dp.overshootY = 0.5 * shoulderAngle * shoulderLength

	return dp.segments()
}

func (dp directParams)segments() Curve {
	c := Curve{
		WhitePoint:        dp.w,
		InverseWhitePoint: 1.0 / dp.w,
	}

	// Normalize x to the white point
	x0 := dp.x0 / dp.w
	x1 := dp.x1 / dp.w
	overshootX := dp.overshootX / dp.w
	g := dp.gamma

	m, b := asSlopeIntercept(x0, x1, dp.y0, dp.y1)

	// The mid section is y = (mx+b)^g, which as a power curve is
	// y = exp(g*ln(m) + g*ln(x + b/m))
	c.Segments[Mid] = Segment{
		OffsetX: -(b / m),
		OffsetY: 0.0,
		ScaleX:  1.0,
		ScaleY:  1.0,
		LnA:     g * math.Log(m),
		B:       g,
	}

	toeM      := evalDerivativeLinearGamma(m, b, g, x0)
	shoulderM := evalDerivativeLinearGamma(m, b, g, x1)

	y0 := math.Max(minEndpoint, math.Pow(dp.y0, g))
	y1 := math.Max(minEndpoint, math.Pow(dp.y1, g))
	overshootY := math.Pow(1.0 + dp.overshootY, g) - 1.0

	c.X0 = x0
	c.X1 = x1

	lnA, B := solveAB(x0, y0, toeM)
	c.Segments[Toe] = Segment{ScaleX: 1.0, ScaleY: 1.0, LnA: lnA, B: B}

	// The shoulder is a toe, mirrored about the overshoot point
	sx0 := (1.0 + overshootX) - x1
	sy0 := (1.0 + overshootY) - y1
	lnA, B = solveAB(sx0, sy0, shoulderM)
	c.Segments[Shoulder] = Segment{
		OffsetX: 1.0 + overshootX,
		OffsetY: 1.0 + overshootY,
		ScaleX:  -1.0,
		ScaleY:  -1.0,
		LnA:     lnA,
		B:       B,
	}

	// Rescale so the shoulder lands on 1.0 at the white point. Without any
	// overshoot this is a no-op.
	invScale := 1.0 / c.Segments[Shoulder].Eval(1.0)
	for i := range c.Segments {
		c.Segments[i].OffsetY *= invScale
		c.Segments[i].ScaleY  *= invScale
	}

	return c
}

// solveAB finds f(x) = exp(lnA + B*ln(x)) with f(x0) = y0, f'(x0) = m. It
// passes through the origin for B>0.
func solveAB(x0, y0, m float64) (lnA, B float64) {
	x0 = math.Max(x0, logEpsilon)
	y0 = math.Max(y0, logEpsilon)
	B = (m * x0) / y0
	lnA = math.Log(y0) - B*math.Log(x0)
	return lnA, B
}

// y = mx + b through (x0,y0) and (x1,y1)
func asSlopeIntercept(x0, x1, y0, y1 float64) (m, b float64) {
	dy := y1 - y0
	dx := x1 - x0
	if dx == 0 {
		m = 1.0
	} else {
		m = dy / dx
	}
	b = y0 - x0*m
	return m, b
}

// f(x) = (mx+b)^g, f'(x) = g*m*(mx+b)^(g-1)
func evalDerivativeLinearGamma(m, b, g, x float64) float64 {
	return g * m * math.Pow(math.Max(m*x + b, logEpsilon), g - 1.0)
}

// SegmentIndex says which segment handles the input x
func (c Curve)SegmentIndex(x float64) int {
	normX := x * c.InverseWhitePoint
	switch {
	case normX < c.X0: return Toe
	case normX < c.X1: return Mid
	default:           return Shoulder
	}
}

// Eval maps linear input x to tonemapped output; Eval(WhitePoint) == 1.
// Negative and NaN inputs are treated as black. Inputs past the shoulder
// saturate.
func (c Curve)Eval(x float64) float64 {
	if !(x > 0.0) {
		x = 0.0
	}
	normX := x * c.InverseWhitePoint
	return c.Segments[c.SegmentIndex(x)].Eval(normX)
}

// Derivative is dy/dx of Eval at x, in input units
func (c Curve)Derivative(x float64) float64 {
	if !(x > 0.0) {
		x = 0.0
	}
	normX := x * c.InverseWhitePoint
	return c.Segments[c.SegmentIndex(x)].Derivative(normX) * c.InverseWhitePoint
}

func (c Curve)String() string {
	str := fmt.Sprintf("Curve[white %.5f, x0 %.5f, x1 %.5f\n", c.WhitePoint, c.X0, c.X1)
	for i, s := range c.Segments {
		str += fmt.Sprintf("  %d: %s\n", i, s)
	}
	return str + "]\n"
}

// BuildToneCurve is Build, with the parameters spelled out
func BuildToneCurve(toeStrength, toeLength, shoulderStrength, shoulderLength, shoulderAngle, gamma float64) Curve {
	return Build(ToneCurveParameters{
		ToeStrength:      toeStrength,
		ToeLength:        toeLength,
		ShoulderStrength: shoulderStrength,
		ShoulderLength:   shoulderLength,
		ShoulderAngle:    shoulderAngle,
		Gamma:            gamma,
	})
}

func EvaluateToneCurve(c Curve, x float64) float64 {
	return c.Eval(x)
}
