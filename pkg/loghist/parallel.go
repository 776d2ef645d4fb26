package loghist

import(
	"runtime"
	"sync"

	"github.com/abworrall/filmic-hdr/pkg/emath"
)

// AccumulateParallel splits the samples across workers, each filling a
// private histogram, and merges them by summation. Since merging is plain
// addition the result is the same as Accumulate, whatever the split.
func (h *Histogram)AccumulateParallel(samples []float64, workers int) {
	if workers < 1 { workers = runtime.NumCPU() }
	if workers > len(samples) { workers = len(samples) }
	if workers <= 1 {
		h.Accumulate(samples)
		return
	}

	partials := make([]Histogram, workers)
	chunk := (len(samples) + workers - 1) / workers

	var wg sync.WaitGroup
	for w:=0; w<workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(samples) { hi = len(samples) }
		if lo >= hi { break }

		wg.Add(1)
		go func(part *Histogram, samples []float64) {
			defer wg.Done()
			part.Accumulate(samples)
		}(&partials[w], samples[lo:hi])
	}
	wg.Wait()

	for i := range partials {
		h.Merge(&partials[i])
	}
}

// AccumulateGrid counts every cell of a luminance grid
func (h *Histogram)AccumulateGrid(g *emath.FloatGrid, workers int) {
	h.AccumulateParallel(g.Values(), workers)
}
