package render

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Line is one wrapped, segmented and measured line of message text.
type Line struct {
	Text     string
	Segments []Segment
	// Advances holds the measured width of each segment, in order.
	Advances []fixed.Int26_6
	Width    fixed.Int26_6
	Height   int
	Top      int

	runs []faceRun
}

// TextLayout is the fully positioned text block of one render.
type TextLayout struct {
	Lines       []Line
	TotalHeight int
	StartY      int

	Attribution    string
	AttributionTop int
}

// faceRun is a piece of a segment drawn with a single face at offset X from
// the start of the line.
type faceRun struct {
	text string
	face font.Face
	x    fixed.Int26_6
}

// Layout positions message and the attribution line without drawing them.
func (f *Fonts) Layout(message, displayName string, mode WrapMode) (TextLayout, error) {
	fs, err := f.newFaces()
	if err != nil {
		return TextLayout{}, err
	}
	defer fs.Close()
	return layoutText(fs, message, displayName, mode), nil
}

func layoutText(fs *faceSet, message, displayName string, mode WrapMode) TextLayout {
	var wrapped []string
	if mode == WrapMeasured {
		wrapped = WrapWidth(message, TextWidth, func(s string) int { return fs.measureLine(s).Ceil() })
	} else {
		wrapped = WrapChars(message, LineBudget)
	}

	ascent := fs.body.Metrics().Ascent.Ceil()
	tl := TextLayout{Lines: make([]Line, 0, len(wrapped))}
	for _, text := range wrapped {
		line := Line{Text: text, Segments: Segments(text)}
		var x fixed.Int26_6
		descent := 0
		for _, seg := range line.Segments {
			start := x
			for _, run := range fs.runsFor(seg) {
				run.x = x
				adv := font.MeasureString(run.face, run.text)
				if b, _ := font.BoundString(run.face, run.text); b.Max.Y.Ceil() > descent {
					descent = b.Max.Y.Ceil()
				}
				x += adv
				line.runs = append(line.runs, run)
			}
			line.Advances = append(line.Advances, x-start)
		}
		line.Width = x
		line.Height = ascent + descent
		tl.TotalHeight += line.Height
		tl.Lines = append(tl.Lines, line)
	}
	if n := len(tl.Lines); n > 1 {
		tl.TotalHeight += (n - 1) * LineGap
	}
	tl.StartY = floorDiv(CanvasHeight-tl.TotalHeight, 2)

	y := tl.StartY
	for i := range tl.Lines {
		tl.Lines[i].Top = y
		y += tl.Lines[i].Height + LineGap
	}
	tl.Attribution = "~ " + displayName
	tl.AttributionTop = y + AttributionGap
	return tl
}

// floorDiv rounds toward negative infinity, so a block taller than the
// canvas starts one pixel higher rather than truncating toward zero.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// runsFor splits a segment by the face that can draw it. Emoji runes the
// emoji font lacks fall back to the body face; invisible sequence
// components it lacks are dropped.
func (fs *faceSet) runsFor(seg Segment) []faceRun {
	if seg.Kind == KindPlain {
		return []faceRun{{text: seg.Text, face: fs.body}}
	}
	var runs []faceRun
	for _, r := range seg.Text {
		face := fs.emoji
		if !fs.emojiCovers(r) {
			if sequenceComponent(r) {
				continue
			}
			face = fs.body
		}
		if n := len(runs); n > 0 && runs[n-1].face == face {
			runs[n-1].text += string(r)
			continue
		}
		runs = append(runs, faceRun{text: string(r), face: face})
	}
	return runs
}

// measureLine returns the advance of s as it would be drawn.
func (fs *faceSet) measureLine(s string) fixed.Int26_6 {
	var w fixed.Int26_6
	for _, seg := range Segments(s) {
		for _, run := range fs.runsFor(seg) {
			w += font.MeasureString(run.face, run.text)
		}
	}
	return w
}

// drawText renders tl onto dst in the foreground color, starting at TextLeft.
// All runs of a line share the body face's baseline.
func drawText(dst draw.Image, fs *faceSet, tl TextLayout) {
	src := image.NewUniform(Foreground)
	ascent := fs.body.Metrics().Ascent.Ceil()
	left := fixed.I(TextRegion().Min.X)
	for _, line := range tl.Lines {
		baseline := fixed.I(line.Top + ascent)
		for _, run := range line.runs {
			d := font.Drawer{Dst: dst, Src: src, Face: run.face, Dot: fixed.Point26_6{X: left + run.x, Y: baseline}}
			d.DrawString(run.text)
		}
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: fs.attribution,
		Dot:  fixed.Point26_6{X: left, Y: fixed.I(tl.AttributionTop + fs.attribution.Metrics().Ascent.Ceil())},
	}
	d.DrawString(tl.Attribution)
}
