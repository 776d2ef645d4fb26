package grade

import(
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/abworrall/filmic-hdr/pkg/filmic"
	"github.com/abworrall/filmic-hdr/pkg/loghist"
)

const(
	plotW = 1024
	plotH = 512
	plotMargin = 40.0
)

// DumpCurve draws the configured filmic curve (left), and the metering
// histogram of each frame (right), into a PNG. Handy for tuning params.
func (s *Sequence)DumpCurve(filename string) error {
	dc := gg.NewContext(plotW, plotH)
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.Clear()

	drawCurve(dc, filmic.Build(s.Config.Curve), 0, 0, plotW/2, plotH)
	for i := range s.Frames {
		drawHistogram(dc, &s.Frames[i].Histogram, s.Frames[i].AverageEV, plotW/2, 0, plotW/2, plotH)
	}

	dc.SetRGB(1, 1, 1)
	dc.DrawString(s.Config.Curve.String(), plotMargin, plotMargin/2)
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("DumpCurve '%s': %v", filename, err)
	}
	return nil
}

// drawCurve plots y over x in [0, 1.25*whitepoint], marking the segment boundaries
func drawCurve(dc *gg.Context, c filmic.Curve, x0, y0, w, h float64) {
	xMax := 1.25 * c.WhitePoint
	yMax := math.Max(1.0, c.Eval(xMax)) * 1.05
	pw, ph := w - 2*plotMargin, h - 2*plotMargin
	toPix := func(x, y float64) (float64, float64) {
		return x0 + plotMargin + pw*x/xMax, y0 + plotMargin + ph*(1.0 - y/yMax)
	}

	// axes, and y=1
	dc.SetRGB(0.5, 0.5, 0.5)
	dc.SetLineWidth(1)
	px, py := toPix(0, 0)
	dc.DrawLine(px, py, px + pw, py)
	dc.DrawLine(px, py, px, py - ph)
	dc.Stroke()
	ax, ay := toPix(0, 1)
	bx, by := toPix(xMax, 1)
	dc.DrawLine(ax, ay, bx, by)
	dc.Stroke()

	// segment boundaries
	dc.SetRGB(0.3, 0.3, 0.8)
	for _, nb := range []float64{c.X0, c.X1, 1.0} {
		bx, by := toPix(nb * c.WhitePoint, 0)
		dc.DrawLine(bx, by, bx, by - ph)
	}
	dc.Stroke()

	dc.SetRGB(1, 0.8, 0.2)
	dc.SetLineWidth(2)
	steps := 400
	for i:=0; i<=steps; i++ {
		x := xMax * float64(i) / float64(steps)
		px, py := toPix(x, c.Eval(x))
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.Stroke()
}

// drawHistogram draws bars per bin, normalized to the fullest bin, with a
// marker at the filtered average
func drawHistogram(dc *gg.Context, hist *loghist.Histogram, avgEV, x0, y0, w, h float64) {
	maxN := uint64(0)
	for _, n := range hist.Bins {
		if n > maxN { maxN = n }
	}
	if maxN == 0 {
		return
	}

	pw, ph := w - 2*plotMargin, h - 2*plotMargin
	barW := pw / loghist.Bins

	dc.SetRGBA(0.2, 0.8, 0.4, 0.5)
	for i, n := range hist.Bins {
		bh := ph * float64(n) / float64(maxN)
		dc.DrawRectangle(x0 + plotMargin + float64(i)*barW, y0 + plotMargin + ph - bh, barW, bh)
	}
	dc.Fill()

	scale, offset := loghist.ScaleOffset()
	ax := x0 + plotMargin + pw*(avgEV*scale + offset)
	dc.SetRGB(1, 0.3, 0.3)
	dc.DrawLine(ax, y0 + plotMargin, ax, y0 + plotMargin + ph)
	dc.Stroke()
}
