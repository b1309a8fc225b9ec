package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings for a command-line render
type Config struct {
	Scene        string
	Output       string
	BitDepth     int
	Width        int // 0 keeps the scene's width
	Height       int // 0 keeps the scene's height
	Samples      int // 0 keeps the scene's samples per pixel
	Jitter       *bool // nil keeps the scene's jitter setting
	Seed         uint32
	PreviewPath  string
	PreviewWidth int
	S3           output.S3Config
	S3Key        string
}

// Default returns the configuration that renders the default scene to
// result.png as a 16-bit PNG
func Default() Config {
	return Config{
		Scene:        "default",
		Output:       "result.png",
		BitDepth:     16,
		Seed:         renderer.DefaultSeed,
		PreviewWidth: 150,
		S3Key:        "result.png",
	}
}

// Load reads an optional .env file and then the process environment over
// the defaults. Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Scene, "RAYTRACER_SCENE")
	setString(&c.Output, "RAYTRACER_OUTPUT")
	setString(&c.PreviewPath, "RAYTRACER_PREVIEW")
	setString(&c.S3.Bucket, "S3_BUCKET")
	setString(&c.S3.Region, "S3_REGION")
	setString(&c.S3.Endpoint, "S3_ENDPOINT")
	setString(&c.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&c.S3.SecretKey, "S3_SECRET_KEY")
	setString(&c.S3Key, "S3_KEY")

	ints := []struct {
		dst *int
		key string
	}{
		{&c.BitDepth, "RAYTRACER_BIT_DEPTH"},
		{&c.Width, "RAYTRACER_WIDTH"},
		{&c.Height, "RAYTRACER_HEIGHT"},
		{&c.Samples, "RAYTRACER_SAMPLES"},
		{&c.PreviewWidth, "RAYTRACER_PREVIEW_WIDTH"},
	}
	for _, i := range ints {
		if err := setInt(i.dst, i.key); err != nil {
			return err
		}
	}

	if value := os.Getenv("RAYTRACER_JITTER"); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: RAYTRACER_JITTER=%q", ErrInvalid, value)
		}
		c.Jitter = &parsed
	}
	if value := os.Getenv("RAYTRACER_SEED"); value != "" {
		parsed, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return fmt.Errorf("%w: RAYTRACER_SEED=%q", ErrInvalid, value)
		}
		c.Seed = uint32(parsed)
	}
	return nil
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalid, key, value)
	}
	*dst = parsed
	return nil
}

// Validate checks the configuration before rendering
func (c Config) Validate() error {
	if c.Scene == "" {
		return fmt.Errorf("%w: scene name is empty", ErrInvalid)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalid)
	}
	if _, err := output.ParseBitDepth(c.BitDepth); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.Samples < 0 {
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalid, c.Samples)
	}
	// Zero is a fixed point of the xorshift sampler
	if c.Seed == 0 {
		return fmt.Errorf("%w: seed must be nonzero", ErrInvalid)
	}
	if c.PreviewPath != "" && c.PreviewWidth <= 0 {
		return fmt.Errorf("%w: preview width %d", ErrInvalid, c.PreviewWidth)
	}
	if c.S3.Enabled() && c.S3Key == "" {
		return fmt.Errorf("%w: S3 key is empty", ErrInvalid)
	}
	return nil
}

// SamplingConfig merges the overrides into a scene's sampling config
func (c Config) SamplingConfig(base renderer.SamplingConfig) renderer.SamplingConfig {
	if c.Samples > 0 {
		base.SamplesPerPixel = c.Samples
	}
	if c.Jitter != nil {
		base.Jitter = *c.Jitter
	}
	base.Seed = c.Seed
	return base
}

// OptionalBool is a flag.Value for a bool that distinguishes "not given"
// from an explicit false
type OptionalBool struct {
	Value **bool
}

func (ob OptionalBool) String() string {
	if ob.Value == nil || *ob.Value == nil {
		return ""
	}
	return strconv.FormatBool(**ob.Value)
}

func (ob OptionalBool) Set(value string) error {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*ob.Value = &parsed
	return nil
}

// IsBoolFlag lets the flag be given without a value
func (ob OptionalBool) IsBoolFlag() bool {
	return true
}
