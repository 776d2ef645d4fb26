package filmic

import(
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paramGrid = []ToneCurveParameters{
	DefaultToneCurveParameters(),
	{ToeStrength: 0.5, ToeLength: 0.5, ShoulderStrength: 0.5, ShoulderLength: 1.0, ShoulderAngle: 0.0, Gamma: 1.0},
	{ToeStrength: 0.2, ToeLength: 0.3, ShoulderStrength: 0.7, ShoulderLength: 2.0, ShoulderAngle: 0.5, Gamma: 1.0},
	{ToeStrength: 0.8, ToeLength: 0.8, ShoulderStrength: 0.3, ShoulderLength: 0.5, ShoulderAngle: 1.0, Gamma: 0.8},
	{ToeStrength: 0.3, ToeLength: 0.6, ShoulderStrength: 0.9, ShoulderLength: 3.0, ShoulderAngle: 0.2, Gamma: 1.4},
	{ToeStrength: 1.0, ToeLength: 0.0, ShoulderStrength: 0.0, ShoulderLength: 5.0, ShoulderAngle: 0.0, Gamma: 0.5},
}

// Curves whose pieces are gentle enough for finite differences
var smoothGrid = paramGrid[1:5]

func TestZeroStrengthIsIdentity(t *testing.T) {
	c := BuildToneCurve(0, 0.5, 0, 0.5, 0, 1)

	// x0 = 0.5^2.2/2, y0 = x0, so the toe and the mid section are both y=x;
	// the white point gains half a stop of headroom.
	assert.InDelta(t, math.Sqrt2, c.WhitePoint, 1e-9)
	assert.InDelta(t, math.Pow(0.5, 2.2)*0.5/math.Sqrt2, c.X0, 1e-9)

	for _, x := range []float64{0.01, 0.05, 0.1, 0.25, 0.5, 0.75, 0.95} {
		assert.InDelta(t, x, EvaluateToneCurve(c, x), 1e-6, "x=%f", x)
	}
	assert.InDelta(t, 1.0, c.Eval(c.WhitePoint), 1e-6)
	assert.InDelta(t, 0.0, c.Eval(0.0), 1e-6)
}

func TestWhitePointMapsToOne(t *testing.T) {
	for _, p := range paramGrid {
		c := Build(p)
		require.False(t, math.IsNaN(c.WhitePoint), "%s", p)
		assert.InDelta(t, 1.0, c.Eval(c.WhitePoint), 1e-6, "%s", p)
	}
}

func TestMonotonic(t *testing.T) {
	for _, p := range paramGrid {
		c := Build(p)
		prev := c.Eval(0)
		steps := 4000
		for i:=1; i<=steps; i++ {
			x := 3.0 * c.WhitePoint * float64(i) / float64(steps)
			y := c.Eval(x)
			require.False(t, math.IsNaN(y), "%s: NaN at x=%f", p, x)
			require.GreaterOrEqual(t, y, prev - 1e-9, "%s: not monotonic at x=%f", p, x)
			prev = y
		}
	}
}

func TestContinuousAtBoundaries(t *testing.T) {
	for _, p := range smoothGrid {
		c := Build(p)
		for _, nb := range []float64{c.X0, c.X1} {
			b := nb * c.WhitePoint
			d := 1e-9 * c.WhitePoint

			assert.InDelta(t, c.Eval(b-d), c.Eval(b+d), 1e-6, "%s: value jumps at %f", p, b)

			// analytic one-sided slopes
			left, right := c.Derivative(b-d), c.Derivative(b+d)
			assert.InDelta(t, left, right, 1e-3 * math.Max(1.0, math.Abs(left)), "%s: slope jumps at %f", p, b)

			// and numerically, from each side
			h := 1e-6
			numLeft  := (c.Eval(b) - c.Eval(b-h)) / h
			numRight := (c.Eval(b+h) - c.Eval(b)) / h
			assert.InDelta(t, numLeft, numRight, 1e-3 * math.Max(1.0, math.Abs(numLeft)), "%s: numeric slope jumps at %f", p, b)
		}
	}
}

func TestSegmentsAreOrdered(t *testing.T) {
	for _, p := range paramGrid {
		c := Build(p)
		assert.LessOrEqual(t, c.X0, c.X1, "%s", p)
		assert.Less(t, c.X1, 1.0, "%s", p)
		if c.X0 > 0 {
			assert.Equal(t, Toe, c.SegmentIndex(0.0), "%s", p)
		} else {
			// no toe at all; zero starts the mid segment
			assert.Equal(t, Mid, c.SegmentIndex(0.0), "%s", p)
		}
		assert.Equal(t, Shoulder, c.SegmentIndex(c.WhitePoint))
		if c.X1 > c.X0 {
			assert.Equal(t, Mid, c.SegmentIndex(0.5*(c.X0+c.X1)*c.WhitePoint), "%s", p)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	for _, p := range paramGrid {
		assert.Equal(t, Build(p), Build(p))
	}
}

func TestDegenerateInputs(t *testing.T) {
	c := Build(DefaultToneCurveParameters())
	assert.Equal(t, c.Eval(0), c.Eval(-5))
	assert.Equal(t, c.Eval(0), c.Eval(math.NaN()))
	assert.InDelta(t, 1.0, c.Eval(math.Inf(1)), 1e-6)
	assert.InDelta(t, 1.0, c.Eval(1e9), 1e-6)

	// Out of range and NaN parameters get clamped, not propagated
	wild := Build(ToneCurveParameters{
		ToeStrength:      -3,
		ToeLength:        7,
		ShoulderStrength: math.NaN(),
		ShoulderLength:   -1,
		ShoulderAngle:    4,
		Gamma:            0,
	})
	cliff := BuildToneCurve(1, 1, 1, 0, 1, 2.2)
	for _, x := range []float64{0, 0.001, 0.1, 0.5, 1, 10} {
		for _, c := range []Curve{wild, cliff} {
			assert.False(t, math.IsNaN(c.Eval(x)), "x=%f", x)
			assert.False(t, math.IsInf(c.Eval(x), 0), "x=%f", x)
		}
	}
}

func TestOvershootShoulderSaturatesAboveOne(t *testing.T) {
	c := Build(ToneCurveParameters{ToeLength: 0.5, ShoulderStrength: 0.5, ShoulderLength: 1.0, ShoulderAngle: 1.0, Gamma: 1.0})
	assert.InDelta(t, 1.0, c.Eval(c.WhitePoint), 1e-6)
	assert.Greater(t, c.Eval(2.0*c.WhitePoint), 1.0)
}

func TestSegmentDerivative(t *testing.T) {
	s := Segment{OffsetX: 0.1, ScaleX: 1, ScaleY: 2, LnA: math.Log(3), B: 2}
	// y = 2*3*(x-0.1)^2, y' = 12*(x-0.1)
	assert.InDelta(t, 6*0.16, s.Eval(0.5), 1e-12)
	assert.InDelta(t, 12*0.4, s.Derivative(0.5), 1e-12)
}
