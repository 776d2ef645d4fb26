package exposure

import(
	"fmt"
	"math"

	"github.com/abworrall/filmic-hdr/pkg/loghist"
)

const(
	Progressive = "progressive" // ease towards the target exposure over time
	Fixed       = "fixed"       // jump straight to the target every frame
)

// Settings control how a metered frame is turned into an exposure multiplier
type Settings struct {
	Filtering    [2]float64 `yaml:"filtering"`    // percent of the histogram to drop at the dark end, and to keep up to
	MinLuminance float64    `yaml:"minluminance"` // EV; the average is clamped into [min,max] before exposing
	MaxLuminance float64    `yaml:"maxluminance"`
	KeyValue     float64    `yaml:"keyvalue"`     // what the average luminance should be exposed to
	Adaptation   string     `yaml:"adaptation"`   // Progressive or Fixed
	SpeedUp      float64    `yaml:"speedup"`      // adaptation speed from dark to light
	SpeedDown    float64    `yaml:"speeddown"`    // adaptation speed from light to dark
}

func DefaultSettings() Settings {
	return Settings{
		Filtering:    [2]float64{50.0, 95.0},
		MinLuminance: loghist.RangeMin,
		MaxLuminance: loghist.RangeMax,
		KeyValue:     1.0,
		Adaptation:   Progressive,
		SpeedUp:      2.0,
		SpeedDown:    1.0,
	}
}

// Validate pulls out of range values back in, and fails on things it
// can't guess at
func (s *Settings)Validate() error {
	s.Filtering[0], s.Filtering[1] = loghist.ClampPercentiles(s.Filtering[0], s.Filtering[1])

	if s.MinLuminance > s.MaxLuminance {
		s.MinLuminance, s.MaxLuminance = s.MaxLuminance, s.MinLuminance
	}

	if !(s.KeyValue > 0) {
		return fmt.Errorf("exposure keyvalue %f must be positive", s.KeyValue)
	}
	if !(s.SpeedUp >= 0) || !(s.SpeedDown >= 0) {
		return fmt.Errorf("exposure speeds {up %f, down %f} must not be negative", s.SpeedUp, s.SpeedDown)
	}

	switch s.Adaptation {
	case "":          s.Adaptation = Progressive
	case Progressive:
	case Fixed:
	default:
		return fmt.Errorf("no eye adaptation named '%s'", s.Adaptation)
	}

	return nil
}

// TargetExposure is the multiplier that brings a frame averaging avgEV to
// the key value
func (s Settings)TargetExposure(avgEV float64) float64 {
	if math.IsNaN(avgEV) { avgEV = 0.0 }
	avgEV = math.Max(s.MinLuminance, math.Min(s.MaxLuminance, avgEV))
	avgLum := math.Max(math.Exp2(avgEV), loghist.Epsilon)
	return s.KeyValue / avgLum
}

func (s Settings)String() string {
	return fmt.Sprintf("filter[%.1f%%,%.1f%%] EV[%+.1f,%+.1f] key %.3f %s(up %.2f, down %.2f)",
		s.Filtering[0], s.Filtering[1], s.MinLuminance, s.MaxLuminance, s.KeyValue,
		s.Adaptation, s.SpeedUp, s.SpeedDown)
}
