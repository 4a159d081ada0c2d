package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeClipboard struct {
	written  string
	writes   int
	read     string
	writeErr error
	readErr  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.written = text
	c.writes++
	return nil
}

func (c *fakeClipboard) ReadAll() (string, error) {
	return c.read, c.readErr
}

func TestOSC52Sequence(t *testing.T) {
	data := "hello"
	encoded := "aGVsbG8="

	origTMUX := os.Getenv("TMUX")
	origTERM := os.Getenv("TERM")
	t.Cleanup(func() {
		os.Setenv("TMUX", origTMUX)
		os.Setenv("TERM", origTERM)
	})

	os.Setenv("TMUX", "")
	os.Setenv("TERM", "xterm-256color")
	seq := osc52Sequence(data)
	if !strings.HasPrefix(seq, "\x1b]52;c;"+encoded) || !strings.HasSuffix(seq, "\x07") {
		t.Fatalf("unexpected OSC52 sequence for xterm: %q", seq)
	}

	os.Setenv("TMUX", "1")
	seq = osc52Sequence(data)
	wantTmux := "\x1bPtmux;\x1b]52;c;" + encoded + "\x07\x1b\\"
	if seq != wantTmux {
		t.Fatalf("unexpected OSC52 sequence for tmux: %q", seq)
	}

	os.Setenv("TMUX", "")
	os.Setenv("TERM", "screen")
	seq = osc52Sequence(data)
	wantScreen := "\x1bP\x1b]52;c;" + encoded + "\x07\x1b\\"
	if seq != wantScreen {
		t.Fatalf("unexpected OSC52 sequence for screen: %q", seq)
	}
}

func TestDeliver(t *testing.T) {
	cb := &fakeClipboard{}
	var term bytes.Buffer

	if err := deliver(outputModePrint, cb, &term, "report"); err != nil {
		t.Fatalf("print mode should not fail: %v", err)
	}
	if cb.writes != 0 || term.Len() != 0 {
		t.Fatalf("print mode must not copy anything")
	}

	if err := deliver(outputModeCopy, cb, &term, "report"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cb.written != "report" {
		t.Fatalf("expected clipboard to hold %q, got %q", "report", cb.written)
	}

	if err := deliver(outputModeSSHCopy, cb, &term, "report"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(term.String(), "]52;c;") {
		t.Fatalf("expected OSC52 sequence on terminal, got %q", term.String())
	}

	cb.writeErr = errors.New("no display")
	err := deliver(outputModeCopy, cb, &term, "report")
	var clipErr *ClipboardError
	if !errors.As(err, &clipErr) {
		t.Fatalf("expected *ClipboardError, got %T (%v)", err, err)
	}
	if !strings.Contains(statusLine(outputModeCopy, err), "no display") {
		t.Fatalf("status line should mention the failure: %q", statusLine(outputModeCopy, err))
	}
}

func TestStatusLine(t *testing.T) {
	if got := statusLine(outputModeCopy, nil); got != "✅ Copied to clipboard" {
		t.Fatalf("unexpected copy status: %q", got)
	}
	if got := statusLine(outputModePrint, nil); !strings.Contains(got, "skipped") {
		t.Fatalf("unexpected print status: %q", got)
	}
	if got := statusLine(outputModeSSHCopy, nil); !strings.Contains(got, "OSC 52") {
		t.Fatalf("unexpected ssh-copy status: %q", got)
	}
}

func TestPathFromClipboard(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	cases := map[string]string{
		"/tmp/project\n":     "/tmp/project",
		"  '/tmp/project'  ": "/tmp/project",
		"\"/tmp/x y\"":       "/tmp/x y",
		"~/code":             filepath.Join(home, "code"),
	}
	for in, want := range cases {
		got, err := pathFromClipboard(&fakeClipboard{read: in})
		if err != nil {
			t.Fatalf("pathFromClipboard(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("pathFromClipboard(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := pathFromClipboard(&fakeClipboard{read: "  \n"}); err == nil {
		t.Fatalf("expected error for empty clipboard")
	}

	_, err = pathFromClipboard(&fakeClipboard{readErr: errors.New("locked")})
	var clipErr *ClipboardError
	if !errors.As(err, &clipErr) {
		t.Fatalf("expected *ClipboardError, got %T (%v)", err, err)
	}
}
