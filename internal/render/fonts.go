package render

import (
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// FontPaths locates the two required font files.
type FontPaths struct {
	Text  string
	Emoji string
}

// DefaultFontPaths returns the conventional asset locations.
func DefaultFontPaths() FontPaths {
	return FontPaths{Text: DefaultTextFont, Emoji: DefaultEmojiFont}
}

// Fonts holds parsed font programs. A Fonts value is immutable and may be
// shared between concurrent renders; faces are created per render.
type Fonts struct {
	text  *opentype.Font
	emoji *opentype.Font
	// emojiTT answers glyph coverage queries. Nil when freetype cannot parse
	// the emoji font, in which case the sfnt cmap is used instead.
	emojiTT *truetype.Font
}

// LoadFonts reads and parses both fonts. Any failure is a *RenderFailure.
func LoadFonts(paths FontPaths) (*Fonts, error) {
	text, _, err := parseFont("text", paths.Text)
	if err != nil {
		return nil, err
	}
	emoji, raw, err := parseFont("emoji", paths.Emoji)
	if err != nil {
		return nil, err
	}
	fonts := &Fonts{text: text, emoji: emoji}
	if tt, terr := truetype.Parse(raw); terr == nil {
		fonts.emojiTT = tt
	}
	return fonts, nil
}

func parseFont(asset, path string) (*opentype.Font, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &RenderFailure{Asset: asset, Path: path, Err: err}
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, nil, &RenderFailure{Asset: asset, Path: path, Err: err}
	}
	return parsed, data, nil
}

// faceSet is the per-render set of sized faces. Faces carry scratch buffers,
// so a faceSet must not be shared between goroutines.
type faceSet struct {
	body        font.Face
	emoji       font.Face
	attribution font.Face

	fonts *Fonts
	buf   sfnt.Buffer
}

func (f *Fonts) newFaces() (*faceSet, error) {
	body, err := newFace(f.text, BodyFontSize)
	if err != nil {
		return nil, &RenderFailure{Asset: "text", Err: err}
	}
	emoji, err := newFace(f.emoji, EmojiFontSize)
	if err != nil {
		return nil, &RenderFailure{Asset: "emoji", Err: err}
	}
	attribution, err := newFace(f.text, AttributionSize)
	if err != nil {
		return nil, &RenderFailure{Asset: "text", Err: err}
	}
	return &faceSet{body: body, emoji: emoji, attribution: attribution, fonts: f}, nil
}

// Sizes are pixel ems, hence 72 DPI.
func newFace(fnt *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(fnt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

func (fs *faceSet) Close() {
	_ = fs.body.Close()
	_ = fs.emoji.Close()
	_ = fs.attribution.Close()
}

// emojiCovers reports whether the emoji font has a glyph for r.
func (fs *faceSet) emojiCovers(r rune) bool {
	if fs.fonts.emojiTT != nil {
		return fs.fonts.emojiTT.Index(r) != 0
	}
	idx, err := fs.fonts.emoji.GlyphIndex(&fs.buf, r)
	return err == nil && idx != 0
}
