package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rook-computer/quotecard/internal/app"
	"github.com/rook-computer/quotecard/internal/render"
	"github.com/rook-computer/quotecard/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

type testEnv struct {
	handler   http.Handler
	outputDir string
	store     *state.Store
}

func newTestEnv(t *testing.T, withFonts bool) testEnv {
	t.Helper()
	fontDir := t.TempDir()
	paths := render.FontPaths{Text: filepath.Join(fontDir, "text.ttf"), Emoji: filepath.Join(fontDir, "emoji.ttf")}
	if withFonts {
		require.NoError(t, os.WriteFile(paths.Text, goregular.TTF, 0o644))
		require.NoError(t, os.WriteFile(paths.Emoji, goregular.TTF, 0o644))
	}
	store := state.NewStore()
	a := app.New(&render.Renderer{FontPaths: paths}, store)
	outputDir := t.TempDir()
	handlers := APIV1Handlers{
		QuoteFunc:  a.QuoteTo,
		StatusFunc: store.Snapshot,
		OutputDir:  outputDir,
	}
	return testEnv{handler: NewDefaultMux(handlers, true), outputDir: outputDir, store: store}
}

func avatarPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 0xC0, 0xFF
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestQuote_JSON(t *testing.T) {
	env := newTestEnv(t, true)
	body := `{"text":"Hello 😀 world","name":"Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "absent", rec.Header().Get("X-Avatar-Fallback"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1280, 720), img.Bounds())
	assert.Equal(t, color.RGBA{R: 100, G: 100, B: 100, A: 255}, color.RGBAModel.Convert(img.At(0, 0)))

	assertEmptyDir(t, env.outputDir)
	assert.Equal(t, int64(1), env.store.Snapshot().Rendered)
}

func TestQuote_Multipart(t *testing.T) {
	env := newTestEnv(t, true)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("text", "Test message"))
	require.NoError(t, mw.WriteField("name", "Alice"))
	fw, err := mw.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write(avatarPNG(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "none", rec.Header().Get("X-Avatar-Fallback"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	left := color.RGBAModel.Convert(img.At(0, 100)).(color.RGBA)
	assert.InDelta(t, 0xC0, int(left.R), 2)
	assertEmptyDir(t, env.outputDir)
}

func TestQuote_InvalidAvatarBase64FallsBack(t *testing.T) {
	env := newTestEnv(t, true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(`{"text":"x","name":"Bob","avatarBase64":"%%%"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "decode_failed", rec.Header().Get("X-Avatar-Fallback"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 100, G: 100, B: 100, A: 255}, color.RGBAModel.Convert(img.At(0, 0)))
	assertEmptyDir(t, env.outputDir)
}

func TestQuote_FontsUnavailable(t *testing.T) {
	env := newTestEnv(t, false)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(`{"text":"x","name":"y"}`))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var apiErr apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "fonts_unavailable", apiErr.Error)
	assert.Contains(t, apiErr.Message, "font is unavailable")
	assertEmptyDir(t, env.outputDir)
}

func TestQuote_BadRequests(t *testing.T) {
	env := newTestEnv(t, true)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quote", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader("{nope")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader("text=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	big := `{"text":"` + strings.Repeat("a", maxQuoteBody) + `"}`
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(big)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestQuote_NotConfigured(t *testing.T) {
	h := NewDefaultMux(APIV1Handlers{}, false)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader("{}")))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t, true)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "idle", resp.Phase)
	assert.Nil(t, resp.Last)

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(`{"text":"hi","name":"Al"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "done", resp.Phase)
	assert.Equal(t, int64(1), resp.Rendered)
	require.NotNil(t, resp.Last)
	assert.Equal(t, "absent", resp.Last.Fallback)
	assert.Equal(t, 1, resp.Last.Lines)
}

func TestDevCORS_Preflight(t *testing.T) {
	env := newTestEnv(t, true)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/quote", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPServer_StartStop(t *testing.T) {
	store := state.NewStore()
	srv := NewHTTPServer("127.0.0.1:0")
	srv.Handlers = APIV1Handlers{StatusFunc: store.Snapshot}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, srv.Start(ctx))

	resp, err := http.Get("http://" + srv.ListenAddr() + "/api/v1/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop())
	assert.Error(t, srv.Start(ctx))
}

func TestDefaultServerConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvDevMode, "true")
	t.Setenv(EnvOutputDir, dir)
	cfg, err := DefaultServerConfigFromEnv(":9000")
	require.NoError(t, err)
	assert.Equal(t, ServerConfig{ListenAddr: ":9000", DevMode: true, OutputDir: dir}, cfg)

	t.Setenv(EnvDevMode, "maybe")
	_, err = DefaultServerConfigFromEnv(":9000")
	assert.Error(t, err)

	t.Setenv(EnvDevMode, "")
	t.Setenv(EnvOutputDir, filepath.Join(dir, "missing"))
	_, err = DefaultServerConfigFromEnv(":9000")
	assert.Error(t, err)
}
