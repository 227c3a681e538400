//go:build !unix

package main

import (
	"fmt"
	"os"
	"time"
)

// Fallback for non-Unix platforms: only Go-level writes to os.Stdout and
// os.Stderr are captured, runtime panic output is not.
func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	fmt.Fprintf(f, "--- quotecard pid %d started %s ---\n", os.Getpid(), time.Now().Format(time.RFC3339))
	os.Stdout = f
	os.Stderr = f
	return nil
}
