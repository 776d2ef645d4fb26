package filmic

import(
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"

	"github.com/mdouchement/hdr"

	"github.com/abworrall/filmic-hdr/pkg/ecolor"
)

// Tonemapper applies a filmic Curve to each channel of an HDR image, after
// scaling it by Exposure, and gamma encodes the result into sRGB. It
// implements mdouchement/hdr/tmo:ToneMappingOperator.
type Tonemapper struct {
	Curve
	Exposure float64
	Workers  int

	LUT      *LUT     // if set, used instead of evaluating the curve

	Input    hdr.Image
	Output   *image.RGBA64
}

func NewTonemapper(img hdr.Image, p ToneCurveParameters, exposure float64) *Tonemapper {
	return &Tonemapper{
		Curve:    Build(p),
		Exposure: exposure,
		Workers:  runtime.NumCPU(),
		Input:    img,
	}
}

// Perform tonemaps the image, working on bands of rows in parallel
func (tm *Tonemapper)Perform() image.Image {
	bounds := tm.Input.Bounds()
	tm.Output = image.NewRGBA64(bounds)
	if bounds.Empty() {
		return tm.Output
	}

	workers := tm.Workers
	if workers < 1 { workers = 1 }
	if workers > bounds.Dy() { workers = bounds.Dy() }

	var wg sync.WaitGroup
	rowsPerWorker := (bounds.Dy() + workers - 1) / workers
	for w:=0; w<workers; w++ {
		yMin := bounds.Min.Y + w*rowsPerWorker
		yMax := yMin + rowsPerWorker
		if yMax > bounds.Max.Y { yMax = bounds.Max.Y }
		if yMin >= yMax { break }

		wg.Add(1)
		go func(yMin, yMax int) {
			defer wg.Done()
			for y:=yMin; y<yMax; y++ {
				for x:=bounds.Min.X; x<bounds.Max.X; x++ {
					tm.Output.SetRGBA64(x, y, tm.MapPixel(x, y))
				}
			}
		}(yMin, yMax)
	}
	wg.Wait()

	return tm.Output
}

// UseLUT bakes the curve into a table of `size` entries, from minEV up to
// the white point, and has MapPixel look values up in it
func (tm *Tonemapper)UseLUT(size int, minEV float64) error {
	lut, err := tm.Curve.BakeLUT(size, minEV, math.Log2(tm.Curve.WhitePoint))
	if err != nil {
		return err
	}
	tm.LUT = &lut
	return nil
}

func (tm *Tonemapper)apply(x float64) float64 {
	if tm.LUT != nil {
		return tm.LUT.Lookup(x)
	}
	return tm.Curve.Eval(x)
}

// MapPixel tonemaps a single input pixel
func (tm *Tonemapper)MapPixel(x, y int) color.RGBA64 {
	r, g, b, _ := tm.Input.HDRAt(x, y).HDRRGBA()
	return ecolor.ToSRGB64(
		tm.apply(r * tm.Exposure),
		tm.apply(g * tm.Exposure),
		tm.apply(b * tm.Exposure),
	)
}
