package exposure

import(
	"fmt"
	"math"

	"github.com/codahale/hdrhistogram"

	"github.com/abworrall/filmic-hdr/pkg/emath"
	"github.com/abworrall/filmic-hdr/pkg/loghist"
)

const(
	surveyMinEV   = -20.0
	surveyMaxEV   =  20.0
	surveyUnits   = 1000.0 // milli-EV resolution
	surveySigFigs = 3
)

// A Survey keeps a much finer record of sample EVs than the 128 bin
// metering histogram, so we can see how far the binned average strays
// from the real distribution.
type Survey struct {
	h *hdrhistogram.Histogram
}

func NewSurvey() *Survey {
	return &Survey{
		h: hdrhistogram.New(0, int64((surveyMaxEV-surveyMinEV)*surveyUnits), surveySigFigs),
	}
}

func (s *Survey)Add(luminance float64) error {
	ev := emath.Clamp(emath.Log2Floor(luminance, loghist.Epsilon), surveyMinEV, surveyMaxEV)
	v := int64(math.Round((ev - surveyMinEV) * surveyUnits))
	if err := s.h.RecordValue(v); err != nil {
		return fmt.Errorf("survey record %d: %v", v, err)
	}
	return nil
}

func (s *Survey)AddGrid(g *emath.FloatGrid) error {
	for _, lum := range g.Values() {
		if err := s.Add(lum); err != nil {
			return err
		}
	}
	return nil
}

func (s *Survey)Count() int64 { return s.h.TotalCount() }

func (s *Survey)toEV(v float64) float64 { return v/surveyUnits + surveyMinEV }

// Quantile returns the EV below which `percent` of the samples lie
func (s *Survey)Quantile(percent float64) float64 {
	if s.Count() == 0 { return 0.0 }
	return s.toEV(float64(s.h.ValueAtQuantile(percent)))
}

func (s *Survey)MeanEV() float64 {
	if s.Count() == 0 { return 0.0 }
	return s.toEV(s.h.Mean())
}

func (s *Survey)String() string {
	return fmt.Sprintf("Survey[%d samples, EV p1 %+.2f p50 %+.2f p99 %+.2f, mean %+.2f]",
		s.Count(), s.Quantile(1), s.Quantile(50), s.Quantile(99), s.MeanEV())
}
