package output

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// BitDepth selects the PNG channel width
type BitDepth int

const (
	Depth8  BitDepth = 8
	Depth16 BitDepth = 16
)

// ParseBitDepth validates a channel width given as an integer
func ParseBitDepth(bits int) (BitDepth, error) {
	switch BitDepth(bits) {
	case Depth8, Depth16:
		return BitDepth(bits), nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d (want 8 or 16)", bits)
	}
}

// toStdImage converts the render to an opaque RGB image of the given depth
func toStdImage(img *renderer.Image, depth BitDepth) (image.Image, error) {
	switch depth {
	case Depth16:
		return img.NRGBA64(), nil
	case Depth8:
		return img.NRGBA(), nil
	default:
		return nil, fmt.Errorf("unsupported bit depth %d", depth)
	}
}

// EncodePNG writes the image as an RGB PNG
func EncodePNG(w io.Writer, img *renderer.Image, depth BitDepth) error {
	std, err := toStdImage(img, depth)
	if err != nil {
		return err
	}
	if err := png.Encode(w, std); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// EncodePNGBytes returns the encoded PNG
func EncodePNGBytes(img *renderer.Image, depth BitDepth) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img, depth); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG encodes the image to a file, replacing any existing one
func WritePNG(path string, img *renderer.Image, depth BitDepth) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := EncodePNG(w, img, depth); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
