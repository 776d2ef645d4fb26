package grade

import(
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/filmic-hdr/pkg/ecolor"
	"github.com/abworrall/filmic-hdr/pkg/emath"
	"github.com/abworrall/filmic-hdr/pkg/loghist"
)

// A Frame is one scene-linear HDR image, plus what we learn about it as it
// goes through the pipeline. Implements the hdr.Image interface, returning
// the exposed pixels.
type Frame struct {
	LoadFilename     string
	Input            hdr.Image          // Scene-linear RGB
	ExposureValue                       // How the frame was shot, if we know
	Scale            float64            // Applied on top of Input, to put frames on a common scale

	Luminance        emath.FloatGrid    // Downsampled luminance, used for metering
	Histogram        loghist.Histogram
	AverageEV        float64            // Filtered average from the histogram
	Exposure         float64            // The multiplier we settled on
}

func NewFrame(filename string, img hdr.Image) Frame {
	return Frame{
		LoadFilename: filename,
		Input:        img,
		Scale:        1.0,
		Exposure:     1.0,
	}
}

// Implement image.Image
func (f Frame)ColorModel() color.Model       { return hdrcolor.RGBModel }
func (f Frame)Bounds() image.Rectangle       { return f.Input.Bounds() }
func (f Frame)At(x, y int) color.Color       { return f.HDRAt(x, y) }

// Implement hdr.Image
func (f Frame)HDRAt(x, y int) hdrcolor.Color { return ecolor.Expose(f.LinearAt(x, y), f.Exposure) }
func (f Frame)Size() int                     { return f.Bounds().Dx() * f.Bounds().Dy() }

// LinearAt is the scaled, but not exposed, pixel
func (f Frame)LinearAt(x, y int) hdrcolor.RGB {
	r, g, b, _ := f.Input.HDRAt(x, y).HDRRGBA()
	return ecolor.HDRRGBFloorAt(hdrcolor.RGB{R: r*f.Scale, G: g*f.Scale, B: b*f.Scale}, 0.0)
}

func (f Frame)Filename() string {
	return filepath.Base(f.LoadFilename)
}

func (f Frame)String() string {
	return fmt.Sprintf("%s: %dx%d, scale %.3f, avg EV %+.2f, exposure %.4f",
		f.Filename(), f.Bounds().Dx(), f.Bounds().Dy(), f.Scale, f.AverageEV, f.Exposure)
}

// BuildLuminanceGrid computes the luminance of every pixel, then halves the
// resolution; metering doesn't need every pixel.
func (f *Frame)BuildLuminanceGrid() {
	bounds := f.Bounds()
	grid := emath.NewFloatGrid(bounds.Dx(), bounds.Dy())

	for y:=bounds.Min.Y; y<bounds.Max.Y; y++ {
		row := grid.Row(y - bounds.Min.Y)
		for x:=bounds.Min.X; x<bounds.Max.X; x++ {
			row[x - bounds.Min.X] = ecolor.Luminance(f.LinearAt(x, y))
		}
	}

	f.Luminance = grid.DownSample()
}

// Meter fills the histogram from the luminance grid, and computes the
// filtered average
func (f *Frame)Meter(lowPercent, highPercent float64, workers int) {
	if f.Luminance.Len() == 0 {
		f.BuildLuminanceGrid()
	}
	f.Histogram.Clear()
	f.Histogram.AccumulateGrid(&f.Luminance, workers)
	f.AverageEV = f.Histogram.FilteredAverage(lowPercent, highPercent)
}
