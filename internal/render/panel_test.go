package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPreparePanel_AlwaysPanelSized(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	inputs := map[string]image.Image{
		"wide":       solid(800, 200, red),
		"tall":       solid(200, 800, red),
		"square":     solid(200, 200, red),
		"exact":      solid(PanelWidth, PanelHeight, red),
		"absent":     nil,
		"degenerate": solid(1000, 1, red),
	}
	for name, in := range inputs {
		panel := PreparePanel(in)
		assert.Equal(t, image.Rect(0, 0, PanelWidth, PanelHeight), panel.Bounds(), name)
	}
}

func TestPreparePanel_Fallback(t *testing.T) {
	panel := PreparePanel(nil)
	for _, y := range []int{0, 360, PanelHeight - 1} {
		assert.Equal(t, FallbackPanel, panel.NRGBAAt(0, y))
	}
	right := panel.NRGBAAt(PanelWidth-1, 100)
	assert.Equal(t, color.NRGBA{A: 255}, right)

	mid := panel.NRGBAAt(PanelWidth/2, 100)
	assert.Less(t, mid.R, FallbackPanel.R)
	assert.Greater(t, mid.R, uint8(0))
}

func TestPreparePanel_CentersCrop(t *testing.T) {
	// 1000×720: the 400px center strip [300,700) survives the crop.
	src := image.NewNRGBA(image.Rect(0, 0, 1000, 720))
	for y := 0; y < 720; y++ {
		for x := 0; x < 1000; x++ {
			c := color.NRGBA{G: 255, A: 255}
			if x < 300 {
				c = color.NRGBA{R: 255, A: 255}
			} else if x >= 700 {
				c = color.NRGBA{B: 255, A: 255}
			}
			src.SetNRGBA(x, y, c)
		}
	}
	panel := PreparePanel(src)
	left := panel.NRGBAAt(0, 360)
	assert.InDelta(t, 0, int(left.R), 2)
	assert.InDelta(t, 255, int(left.G), 2)
	assert.InDelta(t, 0, int(left.B), 2)
}

func TestCropToAspect(t *testing.T) {
	wide := cropToAspect(solid(1000, 720, color.White), PanelWidth, PanelHeight)
	assert.Equal(t, 400, wide.Bounds().Dx())
	assert.Equal(t, 720, wide.Bounds().Dy())

	tall := cropToAspect(solid(400, 1000, color.White), PanelWidth, PanelHeight)
	assert.Equal(t, 400, tall.Bounds().Dx())
	assert.Equal(t, 720, tall.Bounds().Dy())

	square := cropToAspect(solid(200, 200, color.White), PanelWidth, PanelHeight)
	assert.Equal(t, 111, square.Bounds().Dx())
	assert.Equal(t, 200, square.Bounds().Dy())

	offset := solid(100, 100, color.White).(*image.NRGBA).SubImage(image.Rect(50, 50, 100, 100))
	sub := cropToAspect(offset, PanelWidth, PanelHeight)
	require.False(t, sub.Bounds().Empty())
	assert.Equal(t, 50, sub.Bounds().Dy())
}

func TestFadeMask(t *testing.T) {
	mask := fadeMask(PanelWidth, 3)
	assert.Equal(t, uint8(0), mask.AlphaAt(0, 0).A)
	assert.Equal(t, uint8(255), mask.AlphaAt(PanelWidth-1, 2).A)
	for x := 1; x < PanelWidth; x++ {
		assert.GreaterOrEqual(t, mask.AlphaAt(x, 1).A, mask.AlphaAt(x-1, 1).A)
		assert.Equal(t, mask.AlphaAt(x, 0), mask.AlphaAt(x, 2))
	}
}
