package render

import (
	"image"
	"image/draw"

	"github.com/rook-computer/quotecard/internal/render/layout"
	"github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
)

// GenerateQRCodeImage returns a QR code image for the given payload.
// If payload is empty, it returns (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = QRSize
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	return qrCode.Image(sizePx), nil
}

// QRRect is where the link badge goes: bottom-right of the text region.
func QRRect() image.Rectangle {
	return layout.AnchorBottomRight(TextRegion(), QRSize, QRSize, TextMargin)
}

// badgeFits reports whether the text block ends above the badge area.
func badgeFits(tl TextLayout) bool {
	return tl.AttributionTop+AttributionSize <= QRRect().Min.Y
}

// drawLinkBadge stamps a QR code for link onto the canvas.
func drawLinkBadge(dst draw.Image, link string) error {
	code, err := GenerateQRCodeImage(link, QRSize)
	if err != nil || code == nil {
		return err
	}
	xdraw.NearestNeighbor.Scale(dst, QRRect(), code, code.Bounds(), xdraw.Src, nil)
	return nil
}
