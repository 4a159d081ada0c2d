package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
)

// clipboardIO is the clipboard as seen by the command. Tests swap it for an
// in-memory fake.
type clipboardIO interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility found (tried pbcopy, xclip, xsel, wl-copy, clip)")
	}
	return clipboard.WriteAll(text)
}

func (systemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", errors.New("no clipboard utility found (tried pbpaste, xclip, xsel, wl-paste, powershell)")
	}
	return clipboard.ReadAll()
}

func osc52Sequence(data string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(data))
	seq := fmt.Sprintf("\x1b]52;c;%s\x07", encoded)
	if os.Getenv("TMUX") != "" {
		return "\x1bPtmux;" + seq + "\x1b\\"
	}
	if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		return "\x1bP" + seq + "\x1b\\"
	}
	return seq
}

func copyToOSC52(w io.Writer, data string) error {
	if _, err := io.WriteString(w, osc52Sequence(data)); err != nil {
		return fmt.Errorf("failed to write OSC 52 sequence: %w", err)
	}
	return nil
}

// deliver hands text to the clipboard selected by mode. It returns a
// *ClipboardError on failure and nil for outputModePrint.
func deliver(mode string, cb clipboardIO, terminal io.Writer, text string) error {
	var err error
	switch mode {
	case outputModePrint:
		return nil
	case outputModeCopy:
		err = cb.WriteAll(text)
	case outputModeSSHCopy:
		err = copyToOSC52(terminal, text)
	default:
		err = fmt.Errorf("unknown output mode %q", mode)
	}
	if err != nil {
		return &ClipboardError{Mode: mode, Err: err}
	}
	return nil
}

// statusLine is the last line printed after the report.
func statusLine(mode string, err error) string {
	if err != nil {
		return fmt.Sprintf("⚠️  Failed to copy to clipboard: %v", err)
	}
	switch mode {
	case outputModePrint:
		return "ℹ️  Clipboard copy skipped (output mode: print)"
	case outputModeSSHCopy:
		return "✅ Copied to clipboard (OSC 52)"
	default:
		return "✅ Copied to clipboard"
	}
}

// pathFromClipboard reads a directory path from the clipboard.
func pathFromClipboard(cb clipboardIO) (string, error) {
	raw, err := cb.ReadAll()
	if err != nil {
		return "", &ClipboardError{Mode: "read", Err: err}
	}
	p := strings.TrimSpace(raw)
	p = strings.Trim(p, `"'`)
	if p == "" {
		return "", errors.New("clipboard is empty, expected a directory path")
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand %q: %w", p, err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p, nil
}
