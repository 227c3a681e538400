package render

import "fmt"

// RenderFailure is the one fatal render outcome: a required font asset could
// not be loaded. No artifact is written when it is returned.
type RenderFailure struct {
	Asset string // "text" or "emoji"
	Path  string
	Err   error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("render failure: %s font %q: %v", e.Asset, e.Path, e.Err)
}

func (e *RenderFailure) Unwrap() error { return e.Err }
