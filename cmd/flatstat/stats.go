package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FileStat is one file as reported by the statistics tool.
type FileStat struct {
	Path          string `json:"path"`
	ByteSize      int64  `json:"byte_size"`
	TokenEstimate int    `json:"token_estimate"`
	LineCount     int    `json:"line_count"`
	// Content is kept only for --copy-content and never rendered.
	Content string `json:"-"`
}

// DirStat holds the sums of every file below a directory.
type DirStat struct {
	Path          string `json:"path"`
	TokenEstimate int    `json:"token_estimate"`
	ByteSize      int64  `json:"byte_size"`
	LineCount     int    `json:"line_count"`
	FileCount     int    `json:"file_count"`
}

// StatsProvider returns the per-file statistics for a root directory.
type StatsProvider interface {
	Stats(ctx context.Context, root string) ([]FileStat, error)
}

// ToolError reports that the statistics tool could not be run or its output
// could not be read. It is always fatal.
type ToolError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	if errors.Is(e.Err, errToolNotFound) {
		msg = fmt.Sprintf("failed to execute `%s --json`. Is '%s' in your PATH?", e.Tool, e.Tool)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ":\n" + s
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

var errToolNotFound = errors.New("executable not found")

// ClipboardError reports a failed clipboard write. The report has already
// been printed when it is returned.
type ClipboardError struct {
	Mode string
	Err  error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard (%s): %v", e.Mode, e.Err)
}

func (e *ClipboardError) Unwrap() error { return e.Err }
