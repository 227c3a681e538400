package render

import (
	"context"
	"image"

	"github.com/rook-computer/quotecard/internal/avatar"
)

// Request is the immutable input of one render.
type Request struct {
	Avatar      avatar.Source
	Text        string
	DisplayName string
	// Link, when set, is stamped onto the card as a QR code.
	Link string
}

// Result describes a finished render.
type Result struct {
	Path     string
	Fallback avatar.Reason
	Layout   TextLayout
}

// AvatarLoader resolves an avatar source. A nil image selects the fallback
// panel; the Reason says why.
type AvatarLoader interface {
	Load(ctx context.Context, src avatar.Source) (image.Image, avatar.Reason)
}

// Renderer runs the quote pipeline: avatar panel, canvas, text, artifact.
//
// When Fonts is nil the fonts are loaded from FontPaths on every call.
// A Renderer holds no per-render state and may be used concurrently as long
// as Writer targets distinct paths.
type Renderer struct {
	Fonts     *Fonts
	FontPaths FontPaths
	Avatars   AvatarLoader
	Writer    ArtifactWriter
	Wrap      WrapMode
	Logger    interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

// Render composes the quote image for req and writes it out. Only a
// *RenderFailure or a write error is returned; avatar problems degrade to
// the fallback panel and are reported through Result.Fallback.
func (r *Renderer) Render(ctx context.Context, req Request) (Result, error) {
	writer := r.Writer
	if writer == nil {
		writer = FileWriter{Path: DefaultOutput}
	}
	return r.RenderTo(ctx, req, writer)
}

// RenderTo is Render with an explicit artifact writer.
func (r *Renderer) RenderTo(ctx context.Context, req Request, writer ArtifactWriter) (Result, error) {
	canvas, res, err := r.Compose(ctx, req)
	if err != nil {
		return Result{}, err
	}
	path, err := writer.Write(canvas)
	if err != nil {
		r.errorf("artifact write failed: %v", err)
		return Result{}, err
	}
	res.Path = path
	r.infof("rendered %dx%d quote to %s (lines=%d, avatar=%s)", CanvasWidth, CanvasHeight, path, len(res.Layout.Lines), res.Fallback)
	return res, nil
}

// Compose runs the pipeline up to, but not including, the artifact write.
func (r *Renderer) Compose(ctx context.Context, req Request) (*image.RGBA, Result, error) {
	fonts := r.Fonts
	if fonts == nil {
		loaded, err := LoadFonts(r.FontPaths)
		if err != nil {
			r.errorf("%v", err)
			return nil, Result{}, err
		}
		fonts = loaded
	}
	faces, err := fonts.newFaces()
	if err != nil {
		r.errorf("%v", err)
		return nil, Result{}, err
	}
	defer faces.Close()

	loader := r.Avatars
	if loader == nil {
		loader = &avatar.Loader{Logger: r.Logger}
	}
	img, reason := loader.Load(ctx, req.Avatar)
	if reason != avatar.ReasonNone {
		r.infof("using fallback panel: %s", reason)
	}

	canvas := ComposeCanvas(PreparePanel(img))
	tl := layoutText(faces, req.Text, req.DisplayName, r.Wrap)
	drawText(canvas, faces, tl)
	switch {
	case req.Link == "":
	case !badgeFits(tl):
		r.infof("link badge skipped: text reaches y=%d", tl.AttributionTop+AttributionSize)
	default:
		if err := drawLinkBadge(canvas, req.Link); err != nil {
			r.errorf("link badge skipped: %v", err)
		}
	}
	return canvas, Result{Fallback: reason, Layout: tl}, nil
}

func (r *Renderer) infof(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Infof("render", format, args...)
	}
}

func (r *Renderer) errorf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Errorf("render", format, args...)
	}
}
