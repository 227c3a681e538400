package layout

import "image"

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// InsetX shrinks rect by paddingPx on the left and right sides only.
// The result never has negative width.
func InsetX(rect image.Rectangle, paddingPx int) image.Rectangle {
	rect = Normalize(rect)
	if paddingPx <= 0 {
		return rect
	}
	if 2*paddingPx >= rect.Dx() {
		mid := rect.Min.X + rect.Dx()/2
		return image.Rect(mid, rect.Min.Y, mid, rect.Max.Y)
	}
	return image.Rect(rect.Min.X+paddingPx, rect.Min.Y, rect.Max.X-paddingPx, rect.Max.Y)
}

// SplitVertical splits rect into left and right parts.
// leftWidthPx is clamped to [0, rect.Dx()].
func SplitVertical(rect image.Rectangle, leftWidthPx int) (left image.Rectangle, right image.Rectangle) {
	rect = Normalize(rect)
	width := rect.Dx()
	if leftWidthPx < 0 {
		leftWidthPx = 0
	}
	if leftWidthPx > width {
		leftWidthPx = width
	}
	left = image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+leftWidthPx, rect.Max.Y)
	right = image.Rect(rect.Min.X+leftWidthPx, rect.Min.Y, rect.Max.X, rect.Max.Y)
	return left, right
}

// AnchorBottomRight returns a (widthPx,heightPx) rectangle placed in the
// bottom-right corner of rect, marginPx away from both edges. The size is
// clamped so the result stays inside rect.
func AnchorBottomRight(rect image.Rectangle, widthPx, heightPx, marginPx int) image.Rectangle {
	rect = Normalize(rect)
	if marginPx < 0 {
		marginPx = 0
	}
	maxW := rect.Dx() - marginPx
	maxH := rect.Dy() - marginPx
	widthPx = clamp(widthPx, 0, maxW)
	heightPx = clamp(heightPx, 0, maxH)
	maxX := rect.Max.X - marginPx
	maxY := rect.Max.Y - marginPx
	return image.Rect(maxX-widthPx, maxY-heightPx, maxX, maxY)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
