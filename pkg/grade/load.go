package grade

import(
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"

	"github.com/abworrall/filmic-hdr/pkg/ecolor"
)

// LoadFilesAndDirs loads frames and config files; directories are walked.
// Frames are kept in filename order, since that is the order of the
// sequence.
func (s *Sequence)LoadFilesAndDirs(args ...string) (error) {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := ioutil.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				if err := s.LoadFilesAndDirs(filepath.Join(arg, content.Name())); err != nil {
					return fmt.Errorf("load %s: %v", arg, err)
				}
			}

		default: // is a file, load it
			if err := s.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %v", arg, err)
			}
		}
	}

	sort.SliceStable(s.Frames, func(i, j int) bool { return s.Frames[i].LoadFilename < s.Frames[j].LoadFilename })

	return nil
}

func (s *Sequence)loadFile(filename string) error {
	ext := filepath.Ext(filename)

	switch strings.ToLower(ext) {

	case ".tif", ".tiff":
		f, err := loadTIFF(filename)
		if err != nil {
			return fmt.Errorf("Loading %s as TIFF failed: %v", filename, err)
		}
		s.AddFrame(f)

	case ".hdr":
		f, err := loadHDR(filename)
		if err != nil {
			return fmt.Errorf("Loading %s as RGBE failed: %v", filename, err)
		}
		s.AddFrame(f)

	case ".yaml":
		cfg, err := loadConfig(filename)
		if err != nil {
			return fmt.Errorf("Loading %s as config YAML failed: %v", filename, err)
		}
		s.Config = cfg
		log.Printf("Loaded base configuration from %s\n", filename)
	}

	return nil
}

func loadConfig(filename string) (Config, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}

	return newConfigFromYaml(contents)
}

func loadHDR(filename string) (Frame, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return Frame{}, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer reader.Close()

	img, err := rgbe.Decode(reader)
	if err != nil {
		return Frame{}, fmt.Errorf("rgbe decoding '%s': %v", filename, err)
	}

	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return Frame{}, fmt.Errorf("rgbe decoding '%s': got %T, not an HDR image", filename, img)
	}

	return NewFrame(filename, hdrImg), nil
}

// loadTIFF treats the 16 bit channels as linear. If the EXIF data is
// there, we keep the exposure so the frame can be rescaled later.
func loadTIFF(filename string) (Frame, error) {
	ev, err := loadExposureValue(filename)
	if err != nil {
		log.Printf("%s: no usable exposure info, leaving unscaled (%v)\n", filepath.Base(filename), err)
		ev = ExposureValue{}
	}

	reader, err := os.Open(filename)
	if err != nil {
		return Frame{}, fmt.Errorf("open+r img '%s': %v", filename, err)
	}
	defer reader.Close()

	img, err := tiff.Decode(reader)
	if err != nil {
		return Frame{}, fmt.Errorf("tiff loading '%s': %v", filename, err)
	}

	bounds := img.Bounds()
	linear := hdr.NewRGB(bounds)
	for y:=bounds.Min.Y; y<bounds.Max.Y; y++ {
		for x:=bounds.Min.X; x<bounds.Max.X; x++ {
			linear.Set(x, y, ecolor.NewLinearRGB(img.At(x, y), 1.0))
		}
	}

	f := NewFrame(filename, linear)
	f.ExposureValue = ev
	return f, nil
}

func loadExposureValue(filename string) (ExposureValue, error) {
	ev := ExposureValue{}

	reader, err := os.Open(filename)
	if err != nil {
		return ev, fmt.Errorf("open+r exif '%s': %v", filename, err)
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return ev, fmt.Errorf("exif parsing '%s': %v", filename, err)
	}

	if tag,err := ex.Get(exif.ISOSpeedRatings); err != nil {
		return ev, fmt.Errorf("exif ISO '%s': %v", filename, err)
	} else if val,err := tag.Int64(0); err != nil {
		return ev, fmt.Errorf("exif ISO '%s': %v", filename, err)
	} else {
		ev.ISO = val
	}

	if tag,err := ex.Get(exif.FNumber); err != nil {
		return ev, fmt.Errorf("exif FNumber '%s': %v", filename, err)
	} else if num,denom,err := tag.Rat2(0); err != nil {
		return ev, fmt.Errorf("exif FNumber '%s': %v", filename, err)
	} else if denom == 0 {
		return ev, fmt.Errorf("exif FNumber '%s': zero denominator", filename)
	} else {
		ev.ApertureX10 = (num * 10 + denom/2) / denom
	}

	if tag,err := ex.Get(exif.ExposureTime); err != nil {
		return ev, fmt.Errorf("exif ExposureTime '%s': %v", filename, err)
	} else if num,denom,err := tag.Rat2(0); err != nil {
		return ev, fmt.Errorf("exif ExposureTime '%s': %v", filename, err)
	} else {
		ev.ShutterSpeed = rat64{num, denom}
	}

	// Exposure compensation is informational; the Fstop/Speed/ISO triple
	// fully defines how much light would expose a pixel.

	if err := ev.Validate(); err != nil {
		return ev, fmt.Errorf("image '%s' EV: %v", filename, err)
	}

	return ev, nil
}
