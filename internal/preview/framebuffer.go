package preview

import (
	"image"
	"image/color"
	"image/draw"

	fb "github.com/gonutz/framebuffer"
)

const DefaultDevice = "/dev/fb0"

// Framebuffer shows rendered quotes on a Linux framebuffer console.
type Framebuffer struct {
	Device string
	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

// Show opens the device, letterboxes img onto it and closes it again.
func (f *Framebuffer) Show(img image.Image) error {
	path := f.Device
	if path == "" {
		path = DefaultDevice
	}
	dev, err := fb.Open(path)
	if err != nil {
		if f.Logger != nil {
			f.Logger.Errorf("fb", "open %s failed: %v", path, err)
		}
		return err
	}
	defer dev.Close()
	bounds := dev.Bounds()
	if f.Logger != nil {
		f.Logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	}
	Blit(dev, img)
	return nil
}

// FitRect returns the largest rectangle with the aspect ratio of srcW×srcH
// centered inside dst.
func FitRect(dst image.Rectangle, srcW, srcH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || dst.Empty() {
		return image.Rectangle{}
	}
	w := dst.Dx()
	h := w * srcH / srcW
	if h > dst.Dy() {
		h = dst.Dy()
		w = h * srcW / srcH
	}
	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// Blit clears dst to black and nearest-neighbor scales src into the
// letterboxed area.
func Blit(dst draw.Image, src image.Image) {
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
	sb := src.Bounds()
	rect := FitRect(bounds, sb.Dx(), sb.Dy())
	if rect.Empty() {
		return
	}
	for y := 0; y < rect.Dy(); y++ {
		sy := sb.Min.Y + (y*sb.Dy())/rect.Dy()
		for x := 0; x < rect.Dx(); x++ {
			sx := sb.Min.X + (x*sb.Dx())/rect.Dx()
			r, g, b, _ := src.At(sx, sy).RGBA()
			dst.Set(rect.Min.X+x, rect.Min.Y+y, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xFF})
		}
	}
}
