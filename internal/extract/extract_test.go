package extract

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

	"github.com/born-ml/resnet/internal/backend/cpu"
	"github.com/born-ml/resnet/internal/resnet"
	"github.com/born-ml/resnet/internal/tensor"
	"github.com/born-ml/resnet/internal/vision"
)

type Backend = *cpu.CPUBackend

func testNetwork(t *testing.T) *resnet.Network[Backend] {
	t.Helper()
	spec := resnet.NewSpec(1, 1)
	spec.Input = resnet.InputShape{Channels: 3, Height: 8, Width: 8}
	net, err := resnet.Build(spec, cpu.New())
	require.NoError(t, err)
	return net
}

func noise(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 31)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func TestDriver_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, noise(12, 10)))
	require.NoError(t, f.Close())

	var out bytes.Buffer
	d := NewDriver(testNetwork(t), cpu.New(), &out, SummaryText)

	fm, err := d.Run(path)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 4, 4, 512}, fm.Shape())
	assert.Contains(t, out.String(), "Stages: 2")

	ch, err := fm.Channel(0, 0)
	require.NoError(t, err)
	assert.Len(t, ch, 4)
}

func TestDriver_InputIsTopLeftRaw(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 9, 9))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 128, B: 1, A: 255})
	img.SetNRGBA(8, 8, color.NRGBA{R: 9, G: 9, B: 9, A: 255})

	d := NewDriver(testNetwork(t), cpu.New(), nil, SummaryNone)
	x, err := d.Input(img)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 8, 8, 3}, x.Shape())
	assert.Equal(t, []float32{255, 128, 1}, x.Data()[:3])
	for _, v := range x.Data()[3:] {
		if v != 0 {
			t.Fatalf("unexpected non-zero %v outside the top-left pixel", v)
		}
	}
}

func TestDriver_Idempotent(t *testing.T) {
	d := NewDriver(testNetwork(t), cpu.New(), nil, SummaryNone)
	img := noise(8, 8)

	a, err := d.RunImage(img)
	require.NoError(t, err)
	b, err := d.RunImage(img)
	require.NoError(t, err)
	assert.Equal(t, a.Tensor().Data(), b.Tensor().Data())
}

func TestDriver_TooSmall(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(testNetwork(t), cpu.New(), &out, SummaryText)

	for _, size := range [][2]int{{7, 8}, {8, 7}} {
		fm, err := d.RunImage(noise(size[0], size[1]))
		assert.ErrorIs(t, err, resnet.ErrInputShape)
		assert.ErrorIs(t, err, vision.ErrImageTooSmall)
		assert.Nil(t, fm)
	}
	assert.Empty(t, out.String(), "no partial output")
}

func TestDriver_DecodeError(t *testing.T) {
	d := NewDriver(testNetwork(t), cpu.New(), nil, SummaryNone)
	_, err := d.Run(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, vision.ErrDecode)
}

func TestDriver_JSONSummary(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(testNetwork(t), cpu.New(), &out, SummaryJSON)

	_, err := d.RunImage(noise(8, 8))
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"block"`)
}

func TestDriver_ChannelMismatch(t *testing.T) {
	spec := resnet.NewSpec(1)
	spec.Input = resnet.InputShape{Channels: 1, Height: 4, Width: 4}
	net, err := resnet.Build(spec, cpu.New())
	require.NoError(t, err)

	_, err = NewDriver(net, cpu.New(), nil, SummaryNone).RunImage(noise(4, 4))
	assert.ErrorIs(t, err, resnet.ErrInputShape)
}
