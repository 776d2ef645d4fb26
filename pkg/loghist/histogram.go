// Package loghist bins scene luminance by exposure value, for metering a
// frame before auto exposure.
package loghist

import(
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/abworrall/filmic-hdr/pkg/emath"
)

const(
	Bins     = 128
	RangeMin = -9.0 // EV
	RangeMax =  9.0 // EV

	// Luminance at or below this lands in the bottom bin, and keeps log2 finite
	Epsilon  = 1e-4

	// Smallest gap allowed between the low and high percentiles
	percentileMinDelta = 1e-2
)

// ScaleOffset maps EV onto [0,1] across the histogram range: t = ev*scale + offset
func ScaleOffset() (scale, offset float64) {
	scale = 1.0 / (RangeMax - RangeMin)
	offset = -RangeMin * scale
	return scale, offset
}

// A Histogram counts luminance samples into EV bins. The zero value is an
// empty histogram; Clear resets it for the next frame.
type Histogram struct {
	Bins [Bins]uint64
}

func (h *Histogram)Clear() {
	for i := range h.Bins {
		h.Bins[i] = 0
	}
}

// BinFor returns the bin a linear luminance sample falls into
func BinFor(luminance float64) int {
	scale, offset := ScaleOffset()
	t := emath.Log2Floor(luminance, Epsilon)*scale + offset
	pos := math.Floor(t * Bins)
	switch {
	case pos < 0:          return 0
	case pos >= Bins - 1:  return Bins - 1
	}
	return int(pos)
}

// BinCenterEV is the EV at the middle of bin i
func BinCenterEV(i int) float64 {
	scale, offset := ScaleOffset()
	t := (float64(i) + 0.5) / Bins
	return (t - offset) / scale
}

// Add counts one sample. Counters saturate rather than wrap.
func (h *Histogram)Add(luminance float64) {
	i := BinFor(luminance)
	if h.Bins[i] != math.MaxUint64 {
		h.Bins[i]++
	}
}

func (h *Histogram)Accumulate(samples []float64) {
	for _, s := range samples {
		h.Add(s)
	}
}

// Merge adds the counts from another histogram into this one (saturating)
func (h *Histogram)Merge(other *Histogram) {
	for i, n := range other.Bins {
		if h.Bins[i] > math.MaxUint64 - n {
			h.Bins[i] = math.MaxUint64
		} else {
			h.Bins[i] += n
		}
	}
}

func (h *Histogram)Total() uint64 {
	total := uint64(0)
	for _, n := range h.Bins {
		if total > math.MaxUint64 - n {
			return math.MaxUint64
		}
		total += n
	}
	return total
}

// ClampPercentiles keeps the bounds inside [1,99] with low strictly under high
func ClampPercentiles(lowPercent, highPercent float64) (float64, float64) {
	if math.IsNaN(highPercent) { highPercent = 99.0 }
	if math.IsNaN(lowPercent)  { lowPercent = 1.0 }
	highPercent = emath.Clamp(highPercent, 1.0 + percentileMinDelta, 99.0)
	lowPercent  = emath.Clamp(lowPercent, 1.0, highPercent - percentileMinDelta)
	return lowPercent, highPercent
}

// FilteredAverage returns the mean EV of the samples, after discarding the
// darkest lowPercent of them and everything brighter than highPercent.
// Bins straddling a cut contribute the part of their count that survives.
// An empty histogram averages to 0 EV.
func (h *Histogram)FilteredAverage(lowPercent, highPercent float64) float64 {
	lowPercent, highPercent = ClampPercentiles(lowPercent, highPercent)

	total := float64(h.Total())
	if total == 0 {
		return 0.0
	}

	skip := total * lowPercent / 100.0  // still to be discarded from the dark end
	keep := total * highPercent / 100.0 // still allowed, counting from the dark end

	evs     := make([]float64, Bins)
	weights := make([]float64, Bins)
	for i, n := range h.Bins {
		v := float64(n)

		dark := math.Min(skip, v)
		v    -= dark
		skip -= dark
		keep -= dark

		v = math.Min(keep, v)
		keep -= v

		evs[i] = BinCenterEV(i)
		weights[i] = v
	}

	if floats.Sum(weights) <= 0 {
		return 0.0
	}
	return stat.Mean(evs, weights)
}

func (h *Histogram)String() string {
	str := fmt.Sprintf("LogHistogram[%d samples, EV %+.1f..%+.1f\n", h.Total(), RangeMin, RangeMax)
	for i, n := range h.Bins {
		if n > 0 {
			str += fmt.Sprintf("  bin %3d (EV %+6.2f): %d\n", i, BinCenterEV(i), n)
		}
	}
	return str + "]\n"
}

// The flat function forms

func LogHistogramClear(h *Histogram)                    { h.Clear() }
func LogHistogramAccumulate(h *Histogram, s float64)    { h.Add(s) }

func LogHistogramFilteredAverage(h *Histogram, lowPercent, highPercent float64) float64 {
	return h.FilteredAverage(lowPercent, highPercent)
}
