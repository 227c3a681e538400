package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Source is an optional avatar image. Data takes precedence over Path, and Path
// over URL; when all are empty the avatar is absent.
type Source struct {
	Data []byte
	Path string
	URL  string
}

// IsZero reports whether no avatar was supplied.
func (s Source) IsZero() bool { return len(s.Data) == 0 && s.Path == "" && s.URL == "" }

// Reason classifies why no usable avatar image is available.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonAbsent
	ReasonBadURL
	ReasonFetch
	ReasonStatus
	ReasonDecode
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonAbsent:
		return "absent"
	case ReasonBadURL:
		return "bad_url"
	case ReasonFetch:
		return "fetch_failed"
	case ReasonStatus:
		return "bad_status"
	case ReasonDecode:
		return "decode_failed"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Loader fetches and decodes avatar images.
//
// The fetch is attempted exactly once. Loader imposes no timeout of its own; the
// caller's context is the only deadline.
type Loader struct {
	Client *http.Client
	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}
}

// Load resolves src into a decoded image. Failures are never returned as errors:
// the image is nil and the Reason tells the caller which fallback applies.
func (l *Loader) Load(ctx context.Context, src Source) (image.Image, Reason) {
	if src.IsZero() {
		return nil, ReasonAbsent
	}
	data := src.Data
	if len(data) == 0 && src.Path != "" {
		read, err := os.ReadFile(src.Path)
		if err != nil {
			l.errorf("avatar read %q: %v", src.Path, err)
			return nil, ReasonFetch
		}
		data = read
	} else if len(data) == 0 {
		fetched, reason, err := l.fetch(ctx, src.URL)
		if reason != ReasonNone {
			l.errorf("avatar fetch %q: %s: %v", src.URL, reason, err)
			return nil, reason
		}
		data = fetched
	}
	img, err := Decode(data)
	if err != nil {
		l.errorf("avatar decode: %v", err)
		return nil, ReasonDecode
	}
	return img, ReasonNone
}

// Decode decodes any registered image format, honoring EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, Reason, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, ReasonBadURL, err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ReasonBadURL, fmt.Errorf("unsupported avatar url %q", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, ReasonBadURL, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, ReasonFetch, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ReasonStatus, fmt.Errorf("status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ReasonFetch, err
	}
	return body, ReasonNone, nil
}

func (l *Loader) errorf(format string, args ...interface{}) {
	if l.Logger != nil {
		l.Logger.Errorf("avatar", format, args...)
	}
}
