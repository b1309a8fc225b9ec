package output

import (
	"fmt"
	"image/png"
	"os"

	"github.com/nfnt/resize"

	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// WritePreview writes an 8-bit thumbnail no wider than maxWidth, keeping
// the aspect ratio. Images already narrow enough are written unscaled.
func WritePreview(path string, img *renderer.Image, maxWidth int) error {
	if maxWidth <= 0 {
		return fmt.Errorf("preview width must be positive, got %d", maxWidth)
	}

	maxHeight := max(1, img.Height()*maxWidth/img.Width())
	thumb := resize.Thumbnail(uint(maxWidth), uint(maxHeight), img.NRGBA(), resize.Bilinear)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, thumb); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return file.Close()
}
