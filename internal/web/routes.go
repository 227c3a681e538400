package web

import (
	"context"
	"net/http"

	"github.com/rook-computer/quotecard/internal/render"
	"github.com/rook-computer/quotecard/internal/state"
)

// QuoteFunc renders one quote into writer.
type QuoteFunc func(ctx context.Context, req render.Request, writer render.ArtifactWriter) (render.Result, error)

type APIV1Handlers struct {
	QuoteFunc  QuoteFunc
	StatusFunc func() state.State
	// OutputDir holds artifacts between rendering and sending them.
	OutputDir string
	Logger    sysLogger
}

// sysLogger is the logging shape shared across the internal packages.
type sysLogger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, handlers APIV1Handlers) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(handlers)))
}

// NewDefaultMux builds the standard mux:
// - /api/v1/* for the API
// - / answers 404 so stray paths do not hit the API
func NewDefaultMux(handlers APIV1Handlers, devMode bool) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, handlers)
	mux.Handle("/", http.NotFoundHandler())
	if devMode {
		return WithDevCORS(mux)
	}
	return mux
}
