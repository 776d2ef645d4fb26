package grade

import(
	"fmt"
	"log"
	"os"

	"github.com/mdouchement/hdr/codec/rgbe"

	"github.com/abworrall/filmic-hdr/pkg/exposure"
)

// A Sequence is an ordered run of frames, graded with one config. Auto
// exposure carries over from frame to frame, as if they were video.
type Sequence struct {
	Frames []Frame
	Config

	adapter *exposure.Adapter
}

func NewSequence() Sequence {
	return Sequence{
		Frames: []Frame{},
		Config: NewConfig(),
	}
}

func (s Sequence)String() string {
	str := fmt.Sprintf("Sequence[%d frames\n", len(s.Frames))
	for _, f := range s.Frames {
		str += fmt.Sprintf("  %s\n", f)
	}
	return str + "]\n"
}

func (s *Sequence)AddFrame(f Frame) {
	s.Frames = append(s.Frames, f)
}

// Meter puts each frame on the common scale, and measures its filtered
// average luminance
func (s *Sequence)Meter() {
	log.Printf("Metering %d frames", len(s.Frames))

	for i := range s.Frames {
		f := &s.Frames[i]
		if f.ExposureValue.Known() {
			f.Scale = f.ExposureValue.ScaleTo(s.Config.ReferenceEV)
		}

		f.BuildLuminanceGrid()
		f.Meter(s.Config.Exposure.Filtering[0], s.Config.Exposure.Filtering[1], s.Config.Workers)

		if s.Config.Verbosity > 0 {
			survey := exposure.NewSurvey()
			if err := survey.AddGrid(&f.Luminance); err != nil {
				log.Printf("%s: survey: %v", f.Filename(), err)
			}
			shot := "exposure unknown"
			if f.ExposureValue.Known() {
				shot = fmt.Sprintf("%s, ~%.0f lux", f.ExposureValue, f.ExposureValue.Illuminance())
			}
			log.Printf("%s: %s; metered avg EV %+.2f; %s", f.Filename(), shot, f.AverageEV, survey)
		}
		if s.Config.Verbosity > 1 {
			log.Printf("%s: luminance %s\n%s", f.Filename(), f.Luminance.Stats(), &f.Histogram)
			filename := s.OutputFilename("luminance", i, "png")
			if err := f.Luminance.ToImg(f.Filename(), filename); err != nil {
				log.Printf("%s: %v", f.Filename(), err)
			}
		}
	}
}

// Expose runs the eye adaptation over the frames, in order
func (s *Sequence)Expose() error {
	if s.adapter == nil {
		a, err := exposure.NewAdapter(s.Config.Exposure)
		if err != nil {
			return fmt.Errorf("Sequence.Expose: %v", err)
		}
		s.adapter = a
	}

	for i := range s.Frames {
		f := &s.Frames[i]
		f.Exposure = s.adapter.UpdateEV(f.AverageEV, s.Config.FrameDelta)
		log.Printf("Exposing %s: %s", f.Filename(), f)
	}

	return nil
}

// OutputFilename names the output for frame i, from the named tonemapper
func (s *Sequence)OutputFilename(name string, i int, ext string) string {
	if len(s.Frames) == 1 {
		return fmt.Sprintf("%s-%s.%s", s.Config.OutputPrefix, name, ext)
	}
	return fmt.Sprintf("%s-%s-%03d.%s", s.Config.OutputPrefix, name, i, ext)
}

// WriteToHDR outputs the exposed frames as HDR images. You can load these
// into photoshop or other HDR tools.
func (s *Sequence)WriteToHDR() error {
	for i, f := range s.Frames {
		filename := s.OutputFilename("exposed", i, "hdr")
		if err := f.WriteToHDR(filename); err != nil {
			return err
		}
	}
	return nil
}

func (f Frame)WriteToHDR(filename string) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("Frame.WriteToHDR, open+w '%s': %v", filename, err)
	}
	defer writer.Close()

	if err := rgbe.Encode(writer, f); err != nil {
		return fmt.Errorf("Frame.WriteToHDR, encoding RGBE file '%s': %v", filename, err)
	}
	return nil
}
