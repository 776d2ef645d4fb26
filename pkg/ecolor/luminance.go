package ecolor

import(
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/filmic-hdr/pkg/emath"
)

var(
	// Relative luminance of linear Rec.709/sRGB primaries (the Y row of the sRGB->XYZ(D65) matrix)
	LuminanceWeights = emath.Vec3{0.2126729, 0.7151522, 0.0721750}
)

// Luminance is the relative luminance of a scene-linear color. Negative
// channels (out of gamut) are floored at zero first.
func Luminance(c hdrcolor.Color) float64 {
	r, g, b, _ := c.HDRRGBA()
	v := emath.Vec3{r, g, b}
	v.FloorAt(0.0)
	return v.Dot(LuminanceWeights)
}

// NewLinearRGB treats the input RGB channels as linear [0, 0xFFFF], and
// scales them so that a full channel reads as `illumAtMax`.
func NewLinearRGB(col color.Color, illumAtMax float64) hdrcolor.RGB {
	r, g, b, _ := col.RGBA()

	return hdrcolor.RGB{
		R: float64(r) / float64(0xFFFF) * illumAtMax,
		G: float64(g) / float64(0xFFFF) * illumAtMax,
		B: float64(b) / float64(0xFFFF) * illumAtMax,
	}
}

// Expose multiplies all channels by the exposure
func Expose(c hdrcolor.RGB, exposure float64) hdrcolor.RGB {
	return hdrcolor.RGB{R: c.R * exposure, G: c.G * exposure, B: c.B * exposure}
}

func HDRRGBFloorAt(c1 hdrcolor.RGB, min float64) hdrcolor.RGB {
	c2 := c1
	if c2.R < min { c2.R = min }
	if c2.G < min { c2.G = min }
	if c2.B < min { c2.B = min }
	return c2
}

// ToSRGB64 gamma encodes a display-linear color (channels nominally in
// [0,1]) into a 16 bit per channel sRGB color. Out of range channels clip.
func ToSRGB64(r, g, b float64) color.RGBA64 {
	c := colorful.LinearRgb(emath.Clamp01(r), emath.Clamp01(g), emath.Clamp01(b)).Clamped()
	r32, g32, b32, _ := c.RGBA()
	return color.RGBA64{uint16(r32), uint16(g32), uint16(b32), 0xFFFF}
}

