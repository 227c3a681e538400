package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "QUOTECARD_LISTEN"
	EnvDevMode    = "QUOTECARD_DEV"
	EnvOutputDir  = "QUOTECARD_OUTPUT_DIR"
)

// ServerConfig contains settings for running the HTTP server.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
	// OutputDir receives per-request artifacts; they are removed once sent.
	OutputDir string
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	outputDir := os.Getenv(EnvOutputDir)
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	if st, err := os.Stat(outputDir); err != nil || !st.IsDir() {
		return ServerConfig{}, fmt.Errorf("%s must be an existing directory (got %q)", EnvOutputDir, outputDir)
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode, OutputDir: outputDir}, nil
}
