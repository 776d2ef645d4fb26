package grade

import(
	"fmt"
	"log"
	"runtime"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/filmic-hdr/pkg/exposure"
	"github.com/abworrall/filmic-hdr/pkg/filmic"
)

/* Example config file ...

verbosity: 1
tonemapper: filmic
outputprefix: graded
framedelta: 0.0333
referenceev: 12
lutsize: 1024
lutminev: -12
curve:
  toestrength: 0.3
  toelength: 0.5
  shoulderstrength: 0.7
  shoulderlength: 2
  shoulderangle: 0.2
  gamma: 1
exposure:
  filtering: [50, 95]
  minluminance: -6
  maxluminance: 6
  keyvalue: 0.18
  adaptation: progressive
  speedup: 2
  speeddown: 1

*/

type Config struct {
	Verbosity    int

	Tonemapper   string                       // one of Tonemappers, or "all"
	OutputPrefix string                       // output files are <prefix>-<tonemapper>[-<frame>].png
	FrameDelta   float64                      // seconds between frames, for eye adaptation
	ReferenceEV  float64                      // TIFF frames shot at this EV are left at their native scale
	Workers      int                          // for metering and tonemapping; 0 means one per CPU
	LUTSize      int                          // if >0, the filmic curve is baked into a LUT this big
	LUTMinEV     float64                      // input EV at the bottom of the LUT; the top is the white point

	Curve        filmic.ToneCurveParameters
	Exposure     exposure.Settings
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Printf("Can't marshal config yaml: %v\n", err)
		return ""
	}
	return string(b)
}

func NewConfig() Config {
	return Config{
		Tonemapper:   "filmic",
		OutputPrefix: "tmo",
		FrameDelta:   1.0 / 30.0,
		ReferenceEV:  12,
		LUTMinEV:     -12,
		Curve:        filmic.DefaultToneCurveParameters(),
		Exposure:     exposure.DefaultSettings(),
	}
}

// Validate does sanity checks, and fills in values left empty
func (c *Config)Validate() error {
	if c.Tonemapper != "all" && !IsTonemapper(c.Tonemapper) {
		return fmt.Errorf("no tonemapper named '%s', wanted one of %s", c.Tonemapper, ListTonemappers())
	}
	if c.OutputPrefix == "" {
		c.OutputPrefix = "tmo"
	}
	if c.FrameDelta < 0 {
		return fmt.Errorf("framedelta %f is negative", c.FrameDelta)
	}
	if c.LUTSize < 0 || c.LUTSize == 1 {
		return fmt.Errorf("lutsize %d: want 0 (no LUT), or at least 2", c.LUTSize)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if err := c.Exposure.Validate(); err != nil {
		return fmt.Errorf("exposure: %v", err)
	}
	return nil
}
