package grade

import(
	"fmt"
	"image"
	"log"

	"github.com/mdouchement/hdr/tmo"

	"github.com/abworrall/filmic-hdr/pkg/filmic"
)

var(
	Tonemappers = []string{"filmic", "drago03", "durand", "icam06", "linear", "reinhard05"}
)

func ListTonemappers() string {
	return fmt.Sprintf("%v", Tonemappers)
}

func IsTonemapper(name string) bool {
	for _, n := range Tonemappers {
		if n == name {
			return true
		}
	}
	return false
}

// Tonemap runs the configured operator (or all of them) over every frame,
// writing a PNG for each
func (s *Sequence)Tonemap() error {
	names := []string{s.Config.Tonemapper}
	if s.Config.Tonemapper == "all" {
		log.Printf("Tonemapping (using all operators)")
		names = Tonemappers
	}

	for i := range s.Frames {
		for _, name := range names {
			op, err := s.SetupTonemapper(name, s.Frames[i])
			if err != nil {
				return err
			}
			if _, err := s.ApplyTonemapper(op, name, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Sequence)ApplyTonemapper(op tmo.ToneMappingOperator, name string, i int) (image.Image, error) {
	log.Printf("Tonemapping: %s, frame %d", name, i)
	newImg := op.Perform()

	filename := s.OutputFilename(name, i, "png")
	if err := WritePNG(newImg, filename); err != nil {
		return nil, fmt.Errorf("tonemap %s: %v", name, err)
	}
	return newImg, nil
}

// SetupTonemapper builds the named operator for a frame. The filmic operator
// applies the frame's exposure itself; the others are handed the exposed
// frame, and do their own normalization on top.
func (s *Sequence)SetupTonemapper(name string, f Frame) (tmo.ToneMappingOperator, error) {
	switch name {
	case "filmic":
		op := filmic.NewTonemapper(scaledFrame(f), s.Config.Curve, f.Exposure)
		op.Workers = s.Config.Workers
		if s.Config.LUTSize > 0 {
			if err := op.UseLUT(s.Config.LUTSize, s.Config.LUTMinEV); err != nil {
				return nil, fmt.Errorf("filmic LUT: %v", err)
			}
		}
		if s.Config.Verbosity > 1 {
			log.Printf("Filmic curve for %s:-\n%s\nuniforms: %+v", f.Filename(), op.Curve, op.Curve.Uniforms())
		}
		return op, nil

	case "drago03":
		op :=  tmo.NewDefaultDrago03(f)
		op.Bias = 0.85
		return op, nil

	case "durand":
		return tmo.NewDefaultDurand(f), nil

	case "icam06":
		op := tmo.NewDefaultICam06(f)
		op.MaxClipping = 0.99
		return op, nil

	case "linear":
		return tmo.NewLinear(f), nil

	case "reinhard05":
		return tmo.NewDefaultReinhard05(f), nil
	}

	return nil, fmt.Errorf("ToneMapper %q not recognized, wanted %s", name, ListTonemappers())
}

// scaledFrame is the frame with exposure 1, so the filmic operator sees
// the scaled scene-linear values and applies exposure itself
func scaledFrame(f Frame) Frame {
	f.Exposure = 1.0
	return f
}
