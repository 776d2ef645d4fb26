package main

import(
	"flag"
	"log"

	"github.com/abworrall/filmic-hdr/pkg/grade"
)

var(
	fVerbosity int
	fTonemapper string
	fOutputPrefix string
	fFrameDelta float64
	fWorkers int
	fKeyValue float64
	fAdaptation string
	fCurvePlot string
	fWriteHDR bool
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fTonemapper, "tonemapper", "filmic", "how to tonemap from HDR to LDR: "+grade.ListTonemappers()+", or all")
	flag.StringVar(&fOutputPrefix, "o", "tmo", "prefix for output filenames")
	flag.Float64Var(&fFrameDelta, "framedelta", 1.0/30.0, "seconds between frames, for eye adaptation")
	flag.IntVar(&fWorkers, "workers", 0, "goroutines for metering and tonemapping (0 == one per CPU)")
	flag.Float64Var(&fKeyValue, "keyvalue", 1.0, "exposure key value; the filtered average is exposed to this")
	flag.StringVar(&fAdaptation, "adaptation", "progressive", "eye adaptation: progressive, fixed")
	flag.StringVar(&fCurvePlot, "curve", "", "if set, plot the tone curve and histograms to this PNG")
	flag.BoolVar(&fWriteHDR, "hdrout", false, "also write the exposed frames as .hdr files")
	flag.Parse()

	log.Printf("filmic-grade starting\n")
}

// Flags only override the config (possibly loaded from yaml) if they were
// given on the command line
func applyFlags(c *grade.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":          c.Verbosity = fVerbosity
		case "tonemapper": c.Tonemapper = fTonemapper
		case "o":          c.OutputPrefix = fOutputPrefix
		case "framedelta": c.FrameDelta = fFrameDelta
		case "workers":    c.Workers = fWorkers
		case "keyvalue":   c.Exposure.KeyValue = fKeyValue
		case "adaptation": c.Exposure.Adaptation = fAdaptation
		}
	})
}

func main() {
	if flag.NArg() == 0 {
		log.Fatal("usage: filmic-grade [flags] [config.yaml] frame.hdr|frame.tif|dir ...")
	}

	seq := grade.NewSequence()
	if err := seq.LoadFilesAndDirs(flag.Args()...); err != nil {
		log.Fatal(err)
	}
	if len(seq.Frames) == 0 {
		log.Fatal("no frames loaded")
	}

	applyFlags(&seq.Config)
	if err := seq.Config.Validate(); err != nil {
		log.Fatal(err)
	}

	if seq.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", seq.Config.AsYaml())
	}

	seq.Meter()
	if err := seq.Expose(); err != nil {
		log.Fatal(err)
	}

	if fWriteHDR {
		if err := seq.WriteToHDR(); err != nil {
			log.Fatal(err)
		}
	}

	if err := seq.Tonemap(); err != nil {
		log.Fatal(err)
	}

	if fCurvePlot != "" {
		if err := seq.DumpCurve(fCurvePlot); err != nil {
			log.Fatal(err)
		}
	}
}
