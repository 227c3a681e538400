package render

import (
	"image"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// PreparePanel turns an optional avatar into the finished 400×720 panel.
// A nil avatar produces the solid fallback panel. Either way the result is
// faded towards black from left to right.
func PreparePanel(src image.Image) *image.NRGBA {
	var panel *image.NRGBA
	if src != nil {
		if cropped := cropToAspect(src, PanelWidth, PanelHeight); !cropped.Bounds().Empty() {
			panel = imaging.Resize(cropped, PanelWidth, PanelHeight, imaging.Lanczos)
		}
	}
	if panel == nil {
		panel = imaging.New(PanelWidth, PanelHeight, FallbackPanel)
	}
	applyFade(panel)
	return panel
}

// cropToAspect crops img symmetrically so that its aspect ratio matches w:h.
func cropToAspect(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return &image.NRGBA{}
	}
	target := float64(w) / float64(h)
	var rect image.Rectangle
	if float64(srcW)/float64(srcH) > target {
		newW := int(float64(srcH) * target)
		off := (srcW - newW) / 2
		rect = image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+newW, b.Max.Y)
	} else {
		newH := int(float64(srcW) / target)
		off := (srcH - newH) / 2
		rect = image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+newH)
	}
	return imaging.Crop(img, rect)
}

// fadeMask is a horizontal alpha ramp from 0 at the left edge to 255 at the
// right edge, constant along each column.
func fadeMask(w, h int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	row := make([]uint8, w)
	for x := range row {
		if w > 1 {
			row[x] = uint8(255 * x / (w - 1))
		}
	}
	for y := 0; y < h; y++ {
		copy(mask.Pix[y*mask.Stride:y*mask.Stride+w], row)
	}
	return mask
}

func applyFade(panel *image.NRGBA) {
	b := panel.Bounds()
	mask := fadeMask(b.Dx(), b.Dy())
	xdraw.DrawMask(panel, b, image.Black, image.Point{}, mask, image.Point{}, xdraw.Over)
}
