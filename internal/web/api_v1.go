package web

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rook-computer/quotecard/internal/app"
	"github.com/rook-computer/quotecard/internal/avatar"
	"github.com/rook-computer/quotecard/internal/render"
)

// maxQuoteBody caps request bodies, avatar upload included.
const maxQuoteBody = 10 << 20

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type quoteRequest struct {
	Text         string `json:"text"`
	Name         string `json:"name"`
	AvatarURL    string `json:"avatarUrl"`
	AvatarBase64 string `json:"avatarBase64"`
	Link         string `json:"link"`
}

type statusResponse struct {
	Phase     string           `json:"phase"`
	InFlight  int              `json:"inFlight"`
	Rendered  int64            `json:"rendered"`
	Failed    int64            `json:"failed"`
	Fallbacks map[string]int64 `json:"fallbacks"`
	Last      *lastRender      `json:"last,omitempty"`
}

type lastRender struct {
	Fallback   string    `json:"fallback"`
	Lines      int       `json:"lines"`
	DurationMS int64     `json:"durationMs"`
	At         time.Time `json:"at"`
	Error      string    `json:"error,omitempty"`
}

func apiV1Router(handlers APIV1Handlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) { handleQuote(w, r, handlers) })
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, handlers) })
	return mux
}

func handleQuote(w http.ResponseWriter, r *http.Request, handlers APIV1Handlers) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if handlers.QuoteFunc == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "quote rendering not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxQuoteBody)
	req, err := parseQuoteRequest(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAPIError(w, http.StatusRequestEntityTooLarge, "too_large", "request body too large")
			return
		}
		writeAPIError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	id := newRequestID()
	path := render.UniquePath(handlers.OutputDir, id)
	res, err := handlers.QuoteFunc(r.Context(), req, render.FileWriter{Path: path})
	if err != nil {
		status, code := http.StatusInternalServerError, "render_failed"
		var failure *render.RenderFailure
		if errors.As(err, &failure) {
			status, code = http.StatusServiceUnavailable, "fonts_unavailable"
		}
		writeAPIError(w, status, code, app.UserMessage(err))
		return
	}
	defer os.Remove(res.Path)

	f, err := os.Open(res.Path)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "artifact_missing", app.UserMessage(err))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Avatar-Fallback", res.Fallback.String())
	w.Header().Set("X-Request-Id", id)
	if st, err := f.Stat(); err == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(st.Size(), 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil && handlers.Logger != nil {
		handlers.Logger.Errorf("web", "send %s: %v", id, err)
	}
}

func parseQuoteRequest(r *http.Request) (render.Request, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		return parseMultipartQuote(r)
	case "application/json", "":
		var body quoteRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			return render.Request{}, fmt.Errorf("decode json: %w", err)
		}
		req := render.Request{
			Text:        body.Text,
			DisplayName: body.Name,
			Link:        body.Link,
			Avatar:      avatar.Source{URL: strings.TrimSpace(body.AvatarURL)},
		}
		if body.AvatarBase64 != "" {
			// Undecodable base64 is handed on as-is so the renderer falls back
			// to the gray panel with decode_failed.
			data, err := base64.StdEncoding.DecodeString(body.AvatarBase64)
			if err != nil {
				data = []byte(body.AvatarBase64)
			}
			req.Avatar.Data = data
		}
		return req, nil
	}
	return render.Request{}, fmt.Errorf("unsupported content type %q", mediaType)
}

func parseMultipartQuote(r *http.Request) (render.Request, error) {
	if err := r.ParseMultipartForm(maxQuoteBody); err != nil {
		return render.Request{}, err
	}
	req := render.Request{
		Text:        r.FormValue("text"),
		DisplayName: r.FormValue("name"),
		Link:        r.FormValue("link"),
		Avatar:      avatar.Source{URL: strings.TrimSpace(r.FormValue("avatar_url"))},
	}
	file, _, err := r.FormFile("avatar")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, nil
	case err != nil:
		return render.Request{}, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return render.Request{}, err
	}
	req.Avatar.Data = data
	return req, nil
}

func handleStatus(w http.ResponseWriter, r *http.Request, handlers APIV1Handlers) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if handlers.StatusFunc == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "status not configured")
		return
	}
	snap := handlers.StatusFunc()
	resp := statusResponse{
		Phase:     snap.Phase.String(),
		InFlight:  snap.InFlight,
		Rendered:  snap.Rendered,
		Failed:    snap.Failed,
		Fallbacks: snap.Fallbacks,
	}
	if !snap.Last.At.IsZero() {
		resp.Last = &lastRender{
			Fallback:   snap.Last.Fallback,
			Lines:      snap.Last.Lines,
			DurationMS: snap.Last.Duration.Milliseconds(),
			At:         snap.Last.At,
			Error:      snap.Last.Err,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func newRequestID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b[:])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
