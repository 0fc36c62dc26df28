package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/resnet/internal/config"
)

// options holds raw flag values. Flags the user set override the config
// file; unset flags leave it alone.
type options struct {
	configPath  string
	input       string
	block       string
	repetitions string
	stem        string
	seed        int64
	channel     int
	cols        int
	plotURL     string
	summary     string
}

func registerFlags(fs *flag.FlagSet) *options {
	def := config.Default()
	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&o.input, "input", formatInts(def.Input.Channels, def.Input.Height, def.Input.Width), "input shape as C,H,W")
	fs.StringVar(&o.block, "block", def.Block, "block kind")
	fs.StringVar(&o.repetitions, "repetitions", formatInts(def.Repetitions...), "blocks per stage")
	fs.StringVar(&o.stem, "stem", def.Stem, "stem: none or standard")
	fs.Int64Var(&o.seed, "seed", def.Seed, "weight initialization seed")
	fs.IntVar(&o.channel, "channel", def.Display.Channel, "feature map channel to display")
	fs.IntVar(&o.cols, "cols", def.Display.Columns, "terminal width of the heatmap (0 = one cell per value)")
	fs.StringVar(&o.plotURL, "plot-url", def.Display.PlotURL, "sidecar plotting service base URL")
	fs.StringVar(&o.summary, "summary", def.Summary, "summary format: text or json")
	return o
}

// resolve loads the config file, applies every flag set on fs and
// validates the result.
func (o *options) resolve(fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}

	var errs []string
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			dims, err := parseInts(o.input)
			if err != nil || len(dims) != 3 {
				errs = append(errs, fmt.Sprintf("-input %q: want C,H,W", o.input))
				return
			}
			cfg.Input = config.Input{Channels: dims[0], Height: dims[1], Width: dims[2]}
		case "block":
			cfg.Block = o.block
		case "repetitions":
			reps, err := parseInts(o.repetitions)
			if err != nil {
				errs = append(errs, fmt.Sprintf("-repetitions: %v", err))
				return
			}
			cfg.Repetitions = reps
		case "stem":
			cfg.Stem = o.stem
		case "seed":
			cfg.Seed = o.seed
		case "channel":
			cfg.Display.Channel = o.channel
		case "cols":
			cfg.Display.Columns = o.cols
		case "plot-url":
			cfg.Display.PlotURL = o.plotURL
		case "summary":
			cfg.Summary = o.summary
		}
	})
	if len(errs) > 0 {
		return config.Config{}, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// parseInts parses a comma-separated list such as "3,4,6,3".
func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func formatInts(vals ...int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
