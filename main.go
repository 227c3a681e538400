package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rook-computer/quotecard/internal/app"
	"github.com/rook-computer/quotecard/internal/avatar"
	"github.com/rook-computer/quotecard/internal/preview"
	"github.com/rook-computer/quotecard/internal/render"
	"github.com/rook-computer/quotecard/internal/state"
	"github.com/rook-computer/quotecard/internal/web"
)

const (
	envTextFont  = "QUOTECARD_TEXT_FONT"
	envEmojiFont = "QUOTECARD_EMOJI_FONT"
	envStdioLog  = "QUOTECARD_STDIO_LOG"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Flags
	text := flag.String("text", "", "message text to quote")
	name := flag.String("name", "", "display name for the attribution line")
	avatarRef := flag.String("avatar", "", "avatar image: a local file path or an http(s) URL")
	link := flag.String("link", "", "optional URL stamped onto the card as a QR code")
	out := flag.String("out", render.DefaultOutput, "output PNG path (overwritten)")
	textFont := flag.String("text-font", envOr(envTextFont, render.DefaultTextFont), "text font file; also configurable via "+envTextFont)
	emojiFont := flag.String("emoji-font", envOr(envEmojiFont, render.DefaultEmojiFont), "emoji font file; also configurable via "+envEmojiFont)
	measured := flag.Bool("measured-wrap", false, "wrap by measured pixel width instead of a 30 character budget")
	serve := flag.Bool("serve", false, "run the HTTP API instead of rendering once")
	framebuffer := flag.Bool("fb", false, "also show the rendered quote on "+preview.DefaultDevice)
	debug := flag.Bool("debug", false, "enable debug logging to ./quotecard-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+envStdioLog)
	flag.Parse()

	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv(envStdioLog)
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./quotecard-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	renderer := &render.Renderer{
		FontPaths: render.FontPaths{Text: *textFont, Emoji: *emojiFont},
		Avatars:   &avatar.Loader{Logger: logger},
		Writer:    render.FileWriter{Path: *out},
		Logger:    logger,
	}
	if *measured {
		renderer.Wrap = render.WrapMeasured
	}

	store := state.NewStore()
	a := app.New(renderer, store)
	a.Logger = logger
	if *framebuffer {
		a.Preview = &preview.Framebuffer{Logger: logger}
	}

	if *serve {
		return runServer(ctx, a, renderer, logger)
	}

	res, err := a.Quote(ctx, render.Request{Avatar: avatarSource(*avatarRef), Text: *text, DisplayName: *name, Link: *link})
	if err != nil {
		fmt.Fprintln(os.Stderr, app.UserMessage(err))
		return 1
	}
	if res.Fallback != avatar.ReasonNone {
		fmt.Fprintf(os.Stderr, "avatar unavailable (%s), used fallback panel\n", res.Fallback)
	}
	fmt.Println(res.Path)
	return 0
}

// runServer loads fonts once up front, so a missing asset stops startup
// instead of failing every request.
func runServer(ctx context.Context, a *app.App, renderer *render.Renderer, logger app.Logger) int {
	fonts, err := render.LoadFonts(renderer.FontPaths)
	if err != nil {
		fmt.Fprintln(os.Stderr, "font load error:", err)
		return 1
	}
	renderer.Fonts = fonts

	cfg, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 1
	}
	server := web.NewHTTPServer(cfg.ListenAddr)
	server.DevMode = cfg.DevMode
	server.Handlers = web.APIV1Handlers{
		QuoteFunc:  a.QuoteTo,
		StatusFunc: a.Store.Snapshot,
		OutputDir:  cfg.OutputDir,
		Logger:     logger,
	}
	if err := server.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "web server start error:", err)
		return 1
	}
	fmt.Println("quotecard listening on", server.ListenAddr())
	<-ctx.Done()
	if err := server.Stop(); err != nil {
		fmt.Println("web server stop error:", err)
	}
	return 0
}

// avatarSource treats http(s) references as URLs and anything else as a
// local file. The loader reads the file, so an unreadable one ends up as the
// fallback panel like a failed download.
func avatarSource(ref string) avatar.Source {
	switch {
	case ref == "":
		return avatar.Source{}
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return avatar.Source{URL: ref}
	}
	return avatar.Source{Path: ref}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
