package renderer

import (
	"image"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// Image is a row-major grid of linear colors
type Image struct {
	width, height int
	pixels        []core.Color
}

// NewImage allocates a zeroed image
func NewImage(width, height int) *Image {
	return &Image{
		width:  width,
		height: height,
		pixels: make([]core.Color, width*height),
	}
}

// Width returns the image width in pixels
func (img *Image) Width() int {
	return img.width
}

// Height returns the image height in pixels
func (img *Image) Height() int {
	return img.height
}

// At returns the color at (row, col)
func (img *Image) At(row, col int) core.Color {
	return img.pixels[img.index(row, col)]
}

// Set stores the color at (row, col)
func (img *Image) Set(row, col int, c core.Color) {
	img.pixels[img.index(row, col)] = c
}

func (img *Image) index(row, col int) int {
	if row < 0 || row >= img.height || col < 0 || col >= img.width {
		panic("renderer: pixel out of bounds")
	}
	return row*img.width + col
}

// RGB16Bytes flattens the image to 6 bytes per pixel, big-endian channels
func (img *Image) RGB16Bytes() []byte {
	data := make([]byte, 0, len(img.pixels)*6)
	for _, c := range img.pixels {
		rgb := c.RGB16()
		data = append(data, rgb[:]...)
	}
	return data
}

// RGB8Bytes flattens the image to 3 bytes per pixel
func (img *Image) RGB8Bytes() []byte {
	data := make([]byte, 0, len(img.pixels)*3)
	for _, c := range img.pixels {
		rgb := c.RGB8()
		data = append(data, rgb[:]...)
	}
	return data
}

// NRGBA64 converts the image to an opaque 16-bit standard library image
func (img *Image) NRGBA64() *image.NRGBA64 {
	out := image.NewNRGBA64(image.Rect(0, 0, img.width, img.height))
	data := img.RGB16Bytes()
	for i := 0; i < len(img.pixels); i++ {
		copy(out.Pix[i*8:i*8+6], data[i*6:i*6+6])
		out.Pix[i*8+6] = 0xFF
		out.Pix[i*8+7] = 0xFF
	}
	return out
}

// NRGBA converts the image to an opaque 8-bit standard library image
func (img *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.width, img.height))
	data := img.RGB8Bytes()
	for i := 0; i < len(img.pixels); i++ {
		copy(out.Pix[i*4:i*4+3], data[i*3:i*3+3])
		out.Pix[i*4+3] = 0xFF
	}
	return out
}
