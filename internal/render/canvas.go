package render

import (
	"image"
	"image/draw"

	"github.com/rook-computer/quotecard/internal/render/layout"
)

// Bounds of the whole canvas.
var canvasRect = image.Rect(0, 0, CanvasWidth, CanvasHeight)

// TextRegion is the area to the right of the avatar panel that text is laid
// out in: x ∈ [440, 1240).
func TextRegion() image.Rectangle {
	_, right := layout.SplitVertical(canvasRect, PanelWidth)
	return layout.InsetX(right, TextMargin)
}

// ComposeCanvas allocates an opaque black canvas and places panel flush at the
// top-left corner.
func ComposeCanvas(panel image.Image) *image.RGBA {
	canvas := image.NewRGBA(canvasRect)
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
	if panel != nil {
		left, _ := layout.SplitVertical(canvasRect, PanelWidth)
		draw.Draw(canvas, left, panel, panel.Bounds().Min, draw.Src)
	}
	return canvas
}
