package render

import "image/color"

// Fixed canvas geometry and palette.
const (
	CanvasWidth  = 1280
	CanvasHeight = 720

	// Avatar panel on the left edge.
	PanelWidth  = 400
	PanelHeight = CanvasHeight

	// Horizontal gap between the panel and the text, mirrored on the right.
	TextMargin = 40
	TextLeft   = PanelWidth + TextMargin
	TextWidth  = CanvasWidth - PanelWidth - 2*TextMargin

	LineBudget      = 30 // characters per wrapped line
	LineGap         = 10
	AttributionGap  = 20
	BodyFontSize    = 40
	EmojiFontSize   = 40
	AttributionSize = 30

	QRSize = 120
)

var (
	Background = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	Foreground = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	// Fallback panel color when no avatar can be used.
	FallbackPanel = color.NRGBA{R: 100, G: 100, B: 100, A: 0xFF}
)

// Default font locations, relative to the working directory.
const (
	DefaultTextFont  = "Roboto-VariableFont_wdth,wght.ttf"
	DefaultEmojiFont = "NotoEmoji-VariableFont_wght.ttf"
	DefaultOutput    = "quote_image.png"
)
