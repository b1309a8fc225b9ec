package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/df07/go-pinhole-raytracer/pkg/config"
	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags layers command line flags over the loaded configuration
func parseFlags(args []string, cfg config.Config, stdout io.Writer) (config.Config, bool, error) {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stdout)

	seed := uint(cfg.Seed)
	fs.StringVar(&cfg.Scene, "scene", cfg.Scene, "Scene to render: a built-in name or a .pbrt file")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "Output PNG path")
	fs.IntVar(&cfg.BitDepth, "depth", cfg.BitDepth, "PNG channel depth: 8 or 16")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Image width (0 = scene default)")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Image height (0 = scene default)")
	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "Samples per pixel (0 = scene default)")
	fs.Var(config.OptionalBool{Value: &cfg.Jitter}, "jitter", "Jitter samples within each pixel (default: scene setting)")
	fs.UintVar(&seed, "seed", seed, "Sampler seed (nonzero)")
	fs.StringVar(&cfg.PreviewPath, "preview", cfg.PreviewPath, "Optional 8-bit thumbnail path")
	fs.IntVar(&cfg.PreviewWidth, "preview-width", cfg.PreviewWidth, "Thumbnail width")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}
	if seed > 0xFFFFFFFF {
		return cfg, false, fmt.Errorf("%w: seed %d does not fit in 32 bits", config.ErrInvalid, seed)
	}
	cfg.Seed = uint32(seed)

	if *help {
		fmt.Fprintln(stdout, "Pinhole Raytracer")
		fmt.Fprintln(stdout, "Usage: raytracer [options]")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Available scenes:")
		for _, info := range scene.ListScenes() {
			fmt.Fprintf(stdout, "  %-14s %s\n", info.ID, info.Description)
		}
		return cfg, true, nil
	}
	return cfg, false, nil
}

// createScene builds the named scene, or loads it when the name is a .pbrt
// file, with the configured overrides applied
func createScene(cfg config.Config) (*scene.Scene, error) {
	var s *scene.Scene
	var err error
	if strings.HasSuffix(strings.ToLower(cfg.Scene), ".pbrt") {
		s, err = scene.NewPBRTScene(cfg.Scene)
	} else {
		s, err = scene.Create(cfg.Scene)
	}
	if err != nil {
		return nil, err
	}
	s.SetSize(cfg.Width, cfg.Height)
	s.SamplingConfig = cfg.SamplingConfig(s.SamplingConfig)
	return s, nil
}

func run(args []string, stdout io.Writer) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	cfg, helped, err := parseFlags(args, cfg, stdout)
	if err != nil || helped {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := renderer.NewWriterLogger(stdout)
	logger.Printf("Using %s scene...\n", cfg.Scene)

	selectedScene, err := createScene(cfg)
	if err != nil {
		return err
	}

	img, stats := renderer.NewRaytracer(selectedScene, logger).RenderPass()
	logger.Printf("Samples: %d over %d pixels, final seed %#x\n",
		stats.TotalSamples, stats.TotalPixels, stats.FinalSeed)

	depth, err := output.ParseBitDepth(cfg.BitDepth)
	if err != nil {
		return err
	}
	if err := output.WritePNG(cfg.Output, img, depth); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", cfg.Output)

	if cfg.PreviewPath != "" {
		if err := output.WritePreview(cfg.PreviewPath, img, cfg.PreviewWidth); err != nil {
			return err
		}
		logger.Printf("Preview saved as %s\n", cfg.PreviewPath)
	}

	if cfg.S3.Enabled() {
		data, err := output.EncodePNGBytes(img, depth)
		if err != nil {
			return err
		}
		publisher, err := output.NewS3Publisher(cfg.S3)
		if err != nil {
			return err
		}
		if err := publisher.Publish(context.Background(), cfg.S3Key, data); err != nil {
			return err
		}
		logger.Printf("Uploaded %s to s3://%s (%d bytes)\n", cfg.S3Key, cfg.S3.Bucket, len(data))
	}

	return nil
}
