package grade

import(
	"fmt"
	"math"
)

type rat64 [2]int64

// An ExposureValue details how a photograph was exposed, so that frames
// shot with different settings can be brought to a common scene-linear
// scale before metering.
type ExposureValue struct {
	ISO          int64  // 100, 800, etc.
	ApertureX10  int64  // f/5.6 is the integer 56.
	ShutterSpeed rat64  // 1/500, 1/1000, etc.

	EV           float64 // EV at ISO100 - https://en.wikipedia.org/wiki/Exposure_value

	valid        bool
}

func (ev ExposureValue)String() string {
	s := fmt.Sprintf("f/%.1f", float32(ev.ApertureX10)/10.0)
	if ev.ShutterSpeed[1] != 1 {
		s += fmt.Sprintf(", %d/%4d", ev.ShutterSpeed[0], ev.ShutterSpeed[1])
	} else {
		s += fmt.Sprintf(", %d", ev.ShutterSpeed[0])
	}
	s += fmt.Sprintf(", ISO%d", ev.ISO)
	return s + fmt.Sprintf(", EV %5.2f", ev.EV)
}

// Validate computes EV100 = log2(N^2/t) - log2(ISO/100)
func (ev *ExposureValue)Validate() error {
	ev.valid = false
	if ev.ApertureX10 <= 0 {
		return fmt.Errorf("(%s) had bad aperture", ev)
	}
	if ev.ShutterSpeed[0] <= 0 || ev.ShutterSpeed[1] <= 0 {
		return fmt.Errorf("(%s) had bad shutterspeed", ev)
	}
	if ev.ISO <= 0 {
		return fmt.Errorf("(%s) had bad ISO", ev)
	}

	n := float64(ev.ApertureX10) / 10.0
	t := float64(ev.ShutterSpeed[0]) / float64(ev.ShutterSpeed[1])
	ev.EV = math.Log2(n*n/t) - math.Log2(float64(ev.ISO)/100.0)

	if ev.EV < -6 || ev.EV > 24 {
		return fmt.Errorf("Exposure info looks suspicous, EV=%.2f: %v\n", ev.EV, ev)
	}
	ev.valid = true
	return nil
}

// Illuminance is roughly how many lux fully expose the sensor (E = 2.5 * 2^EV)
func (ev ExposureValue)Illuminance() float64 {
	return 2.5 * math.Exp2(ev.EV)
}

// ScaleTo is the multiplier that puts pixel values from this exposure onto
// the scale of a frame shot at refEV. Brighter scenes (higher EV) get
// scaled up.
func (ev ExposureValue)ScaleTo(refEV float64) float64 {
	return math.Exp2(ev.EV - refEV)
}

// Known is false for frames that came without usable EXIF exposure data
func (ev ExposureValue)Known() bool {
	return ev.valid
}
