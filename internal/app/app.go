package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/rook-computer/quotecard/internal/render"
	"github.com/rook-computer/quotecard/internal/state"
)

// Previewer displays a finished canvas somewhere besides the artifact.
type Previewer interface {
	Show(img image.Image) error
}

// App is the boundary between callers (CLI, HTTP) and the renderer. It
// records statistics, logs fallbacks and turns every failure, panics
// included, into an error the caller can show to a user.
type App struct {
	Renderer *render.Renderer
	Store    *state.Store
	Logger   Logger
	Preview  Previewer
}

func New(renderer *render.Renderer, store *state.Store) *App {
	return &App{Renderer: renderer, Store: store, Logger: NoopLogger{}}
}

// Quote renders req with the renderer's configured writer.
func (app *App) Quote(ctx context.Context, req render.Request) (render.Result, error) {
	writer := app.Renderer.Writer
	if writer == nil {
		writer = render.FileWriter{Path: render.DefaultOutput}
	}
	return app.QuoteTo(ctx, req, writer)
}

// QuoteTo renders req and hands the canvas to writer.
func (app *App) QuoteTo(ctx context.Context, req render.Request, writer render.ArtifactWriter) (res render.Result, err error) {
	logger := app.logger()
	if app.Store != nil {
		app.Store.BeginRender()
	}
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("render panic: %v", p)
			res = render.Result{}
		}
		if err != nil {
			logger.Errorf("app", "quote failed: %v", err)
		}
		if app.Store != nil {
			info := state.RenderInfo{
				Path:     res.Path,
				Fallback: res.Fallback.String(),
				Lines:    len(res.Layout.Lines),
				Duration: time.Since(start),
				At:       time.Now(),
			}
			if err != nil {
				info.Err = err.Error()
			}
			app.Store.FinishRender(info)
		}
	}()

	if app.Preview != nil {
		writer = previewWriter{next: writer, preview: app.Preview, logger: logger}
	}
	res, err = app.Renderer.RenderTo(ctx, req, writer)
	if err != nil {
		return render.Result{}, err
	}
	logger.Infof("app", "quote ready at %s (avatar fallback: %s)", res.Path, res.Fallback)
	return res, nil
}

func (app *App) logger() Logger {
	if app.Logger == nil {
		return NoopLogger{}
	}
	return app.Logger
}

// previewWriter shows the canvas before passing it on. Preview errors are
// logged and never fail the render.
type previewWriter struct {
	next    render.ArtifactWriter
	preview Previewer
	logger  Logger
}

func (w previewWriter) Write(img image.Image) (string, error) {
	if err := w.preview.Show(img); err != nil {
		w.logger.Errorf("app", "preview failed: %v", err)
	}
	return w.next.Write(img)
}

// UserMessage converts any render error into a sentence suitable for the
// person who asked for the quote. It returns "" for a nil error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var failure *render.RenderFailure
	if errors.As(err, &failure) {
		return "Sorry, the quote image could not be rendered because the " + failure.Asset + " font is unavailable."
	}
	return "An error occurred: " + err.Error()
}
