// Package vision decodes raster images and crops them into network input.
//
// PNG, JPEG and GIF come from the standard library; BMP, TIFF and WebP
// from golang.org/x/image.
package vision

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// RGB is the channel count of every crop.
const RGB = 3

var (
	// ErrDecode reports a file that could not be read or decoded.
	ErrDecode = errors.New("image decode failed")

	// ErrImageTooSmall reports an image smaller than the requested crop.
	ErrImageTooSmall = errors.New("image smaller than crop")
)

// Load opens and decodes the image at path.
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode decodes an image in any registered format and reports the format
// name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, format, nil
}

// CropTopLeft returns the top-left height x width region of img as
// row-major HWC float32 RGB values in [0, 255]. Alpha is dropped without
// premultiplying and gray images are replicated to three channels. No
// resampling is performed: a smaller image is an error.
func CropTopLeft(img image.Image, height, width int) ([]float32, error) {
	b := img.Bounds()
	if b.Dy() < height || b.Dx() < width {
		return nil, fmt.Errorf("%w: have %dx%d, need %dx%d", ErrImageTooSmall, b.Dy(), b.Dx(), height, width)
	}

	out := make([]float32, 0, height*width*RGB)
	for y := b.Min.Y; y < b.Min.Y+height; y++ {
		for x := b.Min.X; x < b.Min.X+width; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out = append(out, float32(c.R), float32(c.G), float32(c.B))
		}
	}
	return out, nil
}
