package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoad_PNG(t *testing.T) {
	img, format, err := Load(writePNG(t, gradient(10, 6)))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 10, 6), img.Bounds())
}

func TestDecode_BMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, gradient(4, 4)))

	img, format, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestLoad_Errors(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, ErrDecode)

	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))
	_, _, err = Load(path)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCropTopLeft(t *testing.T) {
	data, err := CropTopLeft(gradient(10, 6), 2, 3)
	require.NoError(t, err)
	require.Len(t, data, 2*3*RGB)

	// pixel (y=1, x=2)
	off := (1*3 + 2) * RGB
	assert.Equal(t, []float32{2, 1, 3}, data[off:off+RGB])
}

func TestCropTopLeft_OffsetBounds(t *testing.T) {
	sub := gradient(10, 10).SubImage(image.Rect(4, 5, 10, 10))
	data, err := CropTopLeft(sub, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 5, 9}, data)
}

func TestCropTopLeft_GrayAndAlpha(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.SetGray(0, 0, color.Gray{Y: 77})
	data, err := CropTopLeft(gray, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{77, 77, 77}, data)

	trans := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	trans.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 10})
	data, err = CropTopLeft(trans, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{200, 100, 50}, data)
}

func TestCropTopLeft_TooSmall(t *testing.T) {
	for _, size := range [][2]int{{223, 300}, {300, 223}} {
		_, err := CropTopLeft(gradient(size[0], size[1]), 224, 224)
		assert.ErrorIs(t, err, ErrImageTooSmall, "size %v", size)
	}
}
