package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A FloatGrid is a grid of floats, with some operations. We use it to hold
// a single channel (luminance) of a frame.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Len() int                { return len(fg.values) }

func (fg *FloatGrid)Dy() int {
	if fg.stride == 0 { return 0 }
	return len(fg.values) / fg.stride
}

// Row returns the backing slice for row y; writes go through to the grid
func (fg *FloatGrid)Row(y int) []float64 {
	return fg.values[fg.stride*y : fg.stride*(y+1)]
}

// Values returns the backing slice, row-major
func (fg *FloatGrid)Values() []float64 { return fg.values }

func (g1 *FloatGrid)Copy() *FloatGrid {
	g2 := FloatGrid{stride: g1.stride, values:make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return &g2
}

// DownSample returns a grid that is 1/4 of the size, averaging the values from the
// original. An odd trailing row or column is dropped; grids too small to halve
// are copied.
func (g1 *FloatGrid)DownSample() FloatGrid {
	width := g1.Dx() / 2
	height := g1.Dy() / 2
	if width == 0 || height == 0 {
		return *g1.Copy()
	}
	g2 := NewFloatGrid(width, height)

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			p := g1.Get(2*x,   2*y)
			p += g1.Get(2*x+1, 2*y)
			p += g1.Get(2*x,   2*y+1)
			p += g1.Get(2*x+1, 2*y+1)
			g2.Set(x, y, p/4.0)
		}
	}

	return g2
}

func (fg *FloatGrid)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0  * min

	for i:=0 ; i<len(fg.values) ; i++ {
		if fg.values[i] > max { max = fg.values[i] }
		if fg.values[i] < min { min = fg.values[i] }
	}
	return min, max
}

func (fg *FloatGrid)Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImg saves a simple grayscale, based on the range of values in the grid, and gamma scaling the
// gray to look normal for human vision
func (fg *FloatGrid)ToImg(title, filename string) error {
	min, max := fg.MinMax()
	span := max - min
	if span <= 0 { span = 1.0 }

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			gray := GammaExpand_F64(Clamp01((fg.Get(x,y) - min) / span))
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,1,1)
	dc.DrawString(title, 50, 50)
	return dc.SavePNG(filename)
}
