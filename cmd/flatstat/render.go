package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	formatText = "text"
	formatJSON = "json"

	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// warnColor highlights files over the line-count threshold.
const warnColor = lipgloss.Color("#F59E0B")

func normalizeFormat(format string) (string, bool) {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "", formatText, "txt", "table":
		return formatText, true
	case formatJSON:
		return formatJSON, true
	default:
		return "", false
	}
}

func normalizeColorMode(mode string) (string, bool) {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", colorAuto:
		return colorAuto, true
	case colorAlways, "on", "true", "yes":
		return colorAlways, true
	case colorNever, "off", "false", "no":
		return colorNever, true
	default:
		return "", false
	}
}

// useColor decides whether the report printed to f gets ANSI colours.
func useColor(mode string, f *os.File) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type textRenderer struct {
	warn lipgloss.Style
}

func newTextRenderer(w io.Writer, color bool) *textRenderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &textRenderer{warn: r.NewStyle().Foreground(warnColor).Bold(true)}
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatEntry(bullet string, path string, tokens, lines int, bytes int64) string {
	if bytes == 0 {
		return fmt.Sprintf("%s %s (empty)", bullet, path)
	}
	return fmt.Sprintf("%s %s (~%s tokens, %s lines, %s bytes)",
		bullet, path, formatCount(tokens), formatCount(lines), humanize.Comma(bytes))
}

// Render writes the human-readable report.
func (t *textRenderer) Render(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "~%s tokens / %s files / %s lines / %s bytes\n",
		formatCount(r.TotalTokens), formatCount(r.FileCount), formatCount(r.TotalLines), humanize.Comma(r.TotalBytes))

	b.WriteString("\nLargest directories\n")
	for _, d := range r.TopDirs {
		b.WriteString(formatEntry("-", d.Path, d.TokenEstimate, d.LineCount, d.ByteSize))
		b.WriteString("\n")
	}

	b.WriteString("\nLargest files\n")
	for _, f := range r.TopFiles {
		if r.IsLarge(f) {
			b.WriteString(t.warn.Render(formatEntry("!", f.Path, f.TokenEstimate, f.LineCount, f.ByteSize)))
		} else {
			b.WriteString(formatEntry("-", f.Path, f.TokenEstimate, f.LineCount, f.ByteSize))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func renderJSON(r *Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding JSON output: %w", err)
	}
	return string(data) + "\n", nil
}

// renderContent builds the clipboard blob of every file's content, each
// preceded by a ">>>> path" header line.
func renderContent(files []FileStat) string {
	var b strings.Builder
	for i, f := range files {
		fmt.Fprintf(&b, ">>>> %s\n%s", f.Path, f.Content)
		if i < len(files)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
