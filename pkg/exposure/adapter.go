// Package exposure turns metered luminance into an exposure multiplier,
// easing it between frames the way an eye adapts.
package exposure

import(
	"math"

	"github.com/abworrall/filmic-hdr/pkg/loghist"
)

// An Adapter remembers the exposure from the previous frame
type Adapter struct {
	Settings

	exposure float64
	primed   bool
}

func NewAdapter(s Settings) (*Adapter, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{Settings: s}, nil
}

// Exposure is the current multiplier; 1.0 until the first Update
func (a *Adapter)Exposure() float64 {
	if !a.primed { return 1.0 }
	return a.exposure
}

// Reset forgets the history, so the next Update snaps to its target
func (a *Adapter)Reset() {
	a.exposure = 0.0
	a.primed = false
}

// Update meters the histogram and moves the exposure towards the target,
// dt seconds after the previous frame
func (a *Adapter)Update(h *loghist.Histogram, dt float64) float64 {
	return a.UpdateEV(h.FilteredAverage(a.Filtering[0], a.Filtering[1]), dt)
}

func (a *Adapter)UpdateEV(avgEV, dt float64) float64 {
	target := a.TargetExposure(avgEV)

	if !a.primed || a.Adaptation == Fixed {
		a.exposure = target
		a.primed = true
		return a.exposure
	}

	delta := target - a.exposure
	speed := a.SpeedUp
	if delta > 0 {
		// exposure going up means the scene got darker
		speed = a.SpeedDown
	}

	if dt < 0 { dt = 0 }
	a.exposure += delta * (1.0 - math.Exp2(-dt*speed))
	return a.exposure
}
