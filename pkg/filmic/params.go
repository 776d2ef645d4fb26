package filmic

import "fmt"

// ToneCurveParameters are the artist-facing controls for the filmic curve.
// They are clamped into range when the curve is built, so any values are
// accepted here.
type ToneCurveParameters struct {
	ToeStrength      float64 `yaml:"toestrength"`      // [0,1], 0 keeps the linear slope into black
	ToeLength        float64 `yaml:"toelength"`        // [0,1], in a perceptual (gamma 2.2) space
	ShoulderStrength float64 `yaml:"shoulderstrength"` // [0,1], 0 keeps the linear slope up to white
	ShoulderLength   float64 `yaml:"shoulderlength"`   // >=0, in F stops of extra headroom above white
	ShoulderAngle    float64 `yaml:"shoulderangle"`    // [0,1], how much the shoulder overshoots before flattening
	Gamma            float64 `yaml:"gamma"`            // >0, applied to the mid section
}

func DefaultToneCurveParameters() ToneCurveParameters {
	return ToneCurveParameters{
		ToeStrength:      0.0,
		ToeLength:        0.5,
		ShoulderStrength: 0.0,
		ShoulderLength:   0.5,
		ShoulderAngle:    0.0,
		Gamma:            1.0,
	}
}

func (p ToneCurveParameters)String() string {
	return fmt.Sprintf("toe{%.3f,%.3f} shoulder{%.3f,%.3f,%.3f} gamma %.3f",
		p.ToeStrength, p.ToeLength, p.ShoulderStrength, p.ShoulderLength, p.ShoulderAngle, p.Gamma)
}
