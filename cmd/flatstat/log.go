package main

import (
	"fmt"
	"io"
)

// logger prints debug output when enabled.
type logger struct {
	enabled bool
	w       io.Writer
}

func (l logger) printf(format string, args ...any) {
	if l.enabled && l.w != nil {
		fmt.Fprintf(l.w, format, args...)
	}
}
