package grade

import(
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/abworrall/filmic-hdr/pkg/exposure"
	"github.com/abworrall/filmic-hdr/pkg/filmic"
)

const testYaml = `
verbosity: 0
tonemapper: linear
outputprefix: graded
framedelta: 0.5
curve:
  toestrength: 0.3
  toelength: 0.5
  shoulderstrength: 0.7
  shoulderlength: 2
  shoulderangle: 0.2
  gamma: 1
exposure:
  filtering: [60, 40]
  minluminance: 6
  maxluminance: -6
  keyvalue: 0.18
  adaptation: fixed
  speedup: 3
  speeddown: 1
`

func TestConfigFromYaml(t *testing.T) {
	c, err := newConfigFromYaml([]byte(testYaml))
	require.NoError(t, err)

	assert.Equal(t, "linear", c.Tonemapper)
	assert.Equal(t, "graded", c.OutputPrefix)
	assert.Equal(t, 0.5, c.FrameDelta)
	assert.Equal(t, 0.7, c.Curve.ShoulderStrength)
	assert.Equal(t, 2.0, c.Curve.ShoulderLength)
	assert.Equal(t, 0.18, c.Exposure.KeyValue)
	assert.Equal(t, exposure.Fixed, c.Exposure.Adaptation)
	assert.Equal(t, -6.0, c.Exposure.MinLuminance)
	assert.Less(t, c.Exposure.Filtering[0], c.Exposure.Filtering[1])
	assert.Greater(t, c.Workers, 0)

	// Defaults survive for things the file doesn't mention
	assert.Equal(t, 12.0, c.ReferenceEV)

	// And it round trips
	c2, err := newConfigFromYaml([]byte(c.AsYaml()))
	require.NoError(t, err)
	assert.Equal(t, c, c2)
}

func TestConfigValidate(t *testing.T) {
	c := NewConfig()
	require.NoError(t, c.Validate())

	c.Tonemapper = "all"
	assert.NoError(t, c.Validate())

	c.Tonemapper = "fattal02"
	assert.Error(t, c.Validate())

	c = NewConfig()
	c.FrameDelta = -1
	assert.Error(t, c.Validate())

	c = NewConfig()
	c.Exposure.Adaptation = "nope"
	assert.Error(t, c.Validate())

	for _, size := range []int{-1, 1} {
		c = NewConfig()
		c.LUTSize = size
		assert.Error(t, c.Validate(), "lutsize %d", size)
	}

	_, err := newConfigFromYaml([]byte("tonemapper: [oops"))
	assert.Error(t, err)
}

func TestExposureValue(t *testing.T) {
	tests := []struct{
		ev      ExposureValue
		want    float64
		wantErr bool
	}{
		{ExposureValue{ISO: 100, ApertureX10: 56, ShutterSpeed: rat64{1, 4000}}, math.Log2(5.6*5.6*4000), false},
		{ExposureValue{ISO: 800, ApertureX10: 56, ShutterSpeed: rat64{1, 2000}}, math.Log2(5.6*5.6*2000) - 3, false},
		{ExposureValue{ISO: 100, ApertureX10: 80, ShutterSpeed: rat64{2, 1}}, math.Log2(64.0/2), false},
		{ExposureValue{ISO: 100, ApertureX10: 10, ShutterSpeed: rat64{1, 1}}, 0, false},
		{ExposureValue{ISO: 0, ApertureX10: 56, ShutterSpeed: rat64{1, 100}}, 0, true},
		{ExposureValue{ISO: 100, ApertureX10: 0, ShutterSpeed: rat64{1, 100}}, 0, true},
		{ExposureValue{ISO: 100, ApertureX10: 56, ShutterSpeed: rat64{1, 0}}, 0, true},
		{ExposureValue{ISO: 100, ApertureX10: 10, ShutterSpeed: rat64{3600, 1}}, 0, true}, // EV -11.8
	}

	for _, tc := range tests {
		ev := tc.ev
		err := ev.Validate()
		if tc.wantErr {
			assert.Error(t, err, "%s", ev)
			continue
		}
		require.NoError(t, err, "%s", ev)
		assert.InDelta(t, tc.want, ev.EV, 1e-9, "%s", ev)
		assert.True(t, ev.Known())
	}
	assert.False(t, ExposureValue{}.Known())

	// A failed revalidation forgets that it was known
	ev0 := ExposureValue{ISO: 100, ApertureX10: 10, ShutterSpeed: rat64{1, 1}}
	require.NoError(t, ev0.Validate())
	assert.True(t, ev0.Known())
	ev0.ISO = 0
	assert.Error(t, ev0.Validate())
	assert.False(t, ev0.Known())

	ev := ExposureValue{ISO: 100, ApertureX10: 56, ShutterSpeed: rat64{1, 125}}
	require.NoError(t, ev.Validate())
	assert.InDelta(t, 2.0, ev.ScaleTo(ev.EV - 1), 1e-12)
	assert.InDelta(t, 2.5*math.Exp2(ev.EV), ev.Illuminance(), 1e-9)
}

// A frame that is half one luminance, half another
func twoToneImage(w, h int, dark, bright float64) *hdr.RGB {
	img := hdr.NewRGB(image.Rect(0, 0, w, h))
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			v := dark
			if x >= w/2 { v = bright }
			img.Set(x, y, hdrcolor.RGB{R: v, G: v, B: v})
		}
	}
	return img
}

func writeRGBE(t *testing.T, filename string, img hdr.Image) {
	w, err := os.Create(filename)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, rgbe.Encode(w, img))
}

func TestFrameMeter(t *testing.T) {
	f := NewFrame("flat.hdr", twoToneImage(16, 8, 0.25, 0.25))
	f.Meter(1, 99, 2)

	assert.Equal(t, 8, f.Luminance.Dx())
	assert.Equal(t, 4, f.Luminance.Dy())
	assert.Equal(t, uint64(32), f.Histogram.Total())
	assert.InDelta(t, -2.0, f.AverageEV, 0.15)

	f.Exposure = 4.0
	r, g, b, _ := f.HDRAt(3, 3).HDRRGBA()
	assert.InDelta(t, 1.0, r, 1e-9)
	assert.InDelta(t, 1.0, g, 1e-9)
	assert.InDelta(t, 1.0, b, 1e-9)
	assert.Equal(t, 128, f.Size())
}

func TestSequencePipeline(t *testing.T) {
	dir := t.TempDir()
	writeRGBE(t, filepath.Join(dir, "a.hdr"), twoToneImage(16, 16, 0.02, 0.5))
	writeRGBE(t, filepath.Join(dir, "b.hdr"), twoToneImage(16, 16, 0.2, 5.0))

	cfgFile := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("verbosity: 2\ntonemapper: filmic\nframedelta: 0.25\nlutsize: 512\n"), 0644))

	s := NewSequence()
	require.NoError(t, s.LoadFilesAndDirs(dir))
	require.Len(t, s.Frames, 2)
	assert.Equal(t, "a.hdr", s.Frames[0].Filename())
	assert.Equal(t, 0.25, s.Config.FrameDelta)

	s.Config.OutputPrefix = filepath.Join(dir, "out")
	s.Config.Workers = 2

	s.Meter()
	assert.Less(t, s.Frames[0].AverageEV, s.Frames[1].AverageEV)

	require.NoError(t, s.Expose())

	// First frame snaps to its target; the brighter second frame is only part way there
	first := s.Config.Exposure.TargetExposure(s.Frames[0].AverageEV)
	assert.InDelta(t, first, s.Frames[0].Exposure, 1e-9)
	second := s.Config.Exposure.TargetExposure(s.Frames[1].AverageEV)
	assert.Less(t, s.Frames[1].Exposure, first)
	assert.Greater(t, s.Frames[1].Exposure, second)

	require.NoError(t, s.Tonemap())
	require.NoError(t, s.WriteToHDR())
	require.NoError(t, s.DumpCurve(filepath.Join(dir, "curve.png")))

	for _, name := range []string{"out-filmic-000.png", "out-filmic-001.png", "out-exposed-000.hdr", "out-luminance-001.png", "curve.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestSetupTonemapper(t *testing.T) {
	s := NewSequence()
	f := NewFrame("x.hdr", twoToneImage(4, 4, 0.1, 1.0))
	for _, name := range Tonemappers {
		op, err := s.SetupTonemapper(name, f)
		require.NoError(t, err, name)
		assert.NotNil(t, op, name)
	}
	_, err := s.SetupTonemapper("fattal02", f)
	assert.Error(t, err)

	op, err := s.SetupTonemapper("filmic", f)
	require.NoError(t, err)
	assert.Nil(t, op.(*filmic.Tonemapper).LUT)

	s.Config.LUTSize = 256
	op, err = s.SetupTonemapper("filmic", f)
	require.NoError(t, err)
	lut := op.(*filmic.Tonemapper).LUT
	require.NotNil(t, lut)
	assert.Len(t, lut.Values, 256)
	assert.Equal(t, s.Config.LUTMinEV, lut.MinEV)

	s.Config.LUTMinEV = 40
	_, err = s.SetupTonemapper("filmic", f)
	assert.Error(t, err)
}

func TestLoadTIFFWithoutExif(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "plain.tif")

	img := image.NewRGBA64(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.RGBA64{0xFFFF, 0x8000, 0x0000, 0xFFFF})
	w, err := os.Create(filename)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(w, img, nil))
	require.NoError(t, w.Close())

	s := NewSequence()
	require.NoError(t, s.LoadFilesAndDirs(filename))
	require.Len(t, s.Frames, 1)

	f := s.Frames[0]
	assert.False(t, f.ExposureValue.Known())
	r, g, b, _ := f.Input.HDRAt(1, 1).HDRRGBA()
	assert.InDelta(t, 1.0, r, 1e-6)
	assert.InDelta(t, 0.5, g, 1e-4)
	assert.Equal(t, 0.0, b)
}

func TestLoadErrors(t *testing.T) {
	s := NewSequence()
	assert.Error(t, s.LoadFilesAndDirs(filepath.Join(t.TempDir(), "missing.hdr")))

	bad := filepath.Join(t.TempDir(), "bad.hdr")
	require.NoError(t, os.WriteFile(bad, []byte("not an rgbe file"), 0644))
	assert.Error(t, s.LoadFilesAndDirs(bad))
}
