// Package main provides the resnet-extract CLI.
//
// Usage:
//
//	resnet-extract [flags] <image>
//	resnet-extract version
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/born-ml/resnet/internal/backend/cpu"
	"github.com/born-ml/resnet/internal/config"
	"github.com/born-ml/resnet/internal/extract"
	"github.com/born-ml/resnet/internal/plot"
	"github.com/born-ml/resnet/internal/resnet"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("resnet-extract %s\n", version)
		return
	}

	log.SetFlags(0)
	log.SetPrefix("resnet-extract: ")

	fs := flag.NewFlagSet("resnet-extract", flag.ExitOnError)
	opts := registerFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: resnet-extract [flags] <image>\n       resnet-extract version\n\nFlags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := opts.resolve(fs)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := run(cfg, fs.Arg(0)); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(cfg config.Config, path string) error {
	spec, err := cfg.NetworkSpec()
	if err != nil {
		return err
	}

	backend := cpu.New()
	start := time.Now()
	net, err := resnet.Build(spec, backend)
	if err != nil {
		return fmt.Errorf("build network: %w", err)
	}
	fmt.Printf("Built %v in %v\n\n", net, time.Since(start).Round(time.Millisecond))

	format := extract.SummaryText
	if cfg.Summary == config.SummaryJSON {
		format = extract.SummaryJSON
	}
	driver := extract.NewDriver(net, backend, os.Stdout, format)

	start = time.Now()
	fm, err := driver.Run(path)
	if err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}
	fmt.Printf("\nFeature map %v in %v\n", fm.Shape(), time.Since(start).Round(time.Millisecond))

	channel, err := fm.Channel(0, cfg.Display.Channel)
	if err != nil {
		return err
	}
	heatmap, err := plot.NewHeatmap(fmt.Sprintf("channel %d", cfg.Display.Channel), channel)
	if err != nil {
		return err
	}
	if err := heatmap.Render(os.Stdout, cfg.Display.Columns); err != nil {
		return err
	}

	if cfg.Display.PlotURL == "" {
		return nil
	}
	ctx := context.Background()
	if cfg.Display.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Display.Timeout)
		defer cancel()
	}
	resp, err := plot.NewClient(cfg.Display.PlotURL, cfg.Display.Timeout).Send(ctx, heatmap.PlotData("resnet-"+spec.Block.String()))
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	if resp.ViewURL != "" {
		fmt.Printf("Plot available at %s\n", resp.ViewURL)
	}
	return nil
}
