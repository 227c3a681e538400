package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ArtifactWriter persists a finished canvas and returns where it went.
type ArtifactWriter interface {
	Write(img image.Image) (string, error)
}

// FileWriter writes PNG artifacts to a fixed path, replacing any previous
// file there. The image is encoded to a temporary sibling first and renamed
// into place, so a failed write never leaves a truncated artifact.
type FileWriter struct {
	Path string
}

func (w FileWriter) Write(img image.Image) (string, error) {
	path := w.Path
	if path == "" {
		path = DefaultOutput
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".quote-*.png")
	if err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	tmpName := tmp.Name()
	if err := imaging.Encode(tmp, img, imaging.PNG); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write artifact: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

// UniquePath returns a per-invocation artifact path inside dir.
func UniquePath(dir, id string) string {
	return filepath.Join(dir, "quote_"+filepath.Base(id)+".png")
}
