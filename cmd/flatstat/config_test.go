package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := loadSettings(filepath.Join(t.TempDir(), "missing"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Report != defaultReportConfig() {
		t.Fatalf("unexpected report config: %+v", s.Report)
	}
	if s.Output != outputModeCopy || s.Format != formatText || s.Color != colorAuto {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.Tool != defaultTool || s.Tokenizer != tokenizerChars {
		t.Fatalf("unexpected tool defaults: %+v", s)
	}
}

func TestLoadSettingsLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	cfg := "top_file_count: 3\ntop_dir_count: 4\noutput: print\nexclude:\n  - \"**/*.lock\"\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("FLATSTAT_TOP_DIR_COUNT", "2")

	cmd := newRootCmd(newApp())
	if err := cmd.Flags().Parse([]string{"--warn-large-files-by-line-count", "120", "--format", "json"}); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	s, err := loadSettings(path, cmd.Flags())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ReportConfig{TopFileCount: 3, TopDirCount: 2, WarnLargeFilesByLineCount: 120}
	if s.Report != want {
		t.Fatalf("report config = %+v, want %+v", s.Report, want)
	}
	if s.Output != outputModePrint {
		t.Fatalf("output = %q, want print", s.Output)
	}
	if s.Format != formatJSON {
		t.Fatalf("format = %q, want json", s.Format)
	}
	if len(s.Exclude) != 1 || s.Exclude[0] != "**/*.lock" {
		t.Fatalf("exclude = %v", s.Exclude)
	}
}

func TestLoadSettingsExcludeFromEnv(t *testing.T) {
	t.Setenv("FLATSTAT_EXCLUDE", "docs/**, vendor/**,")

	s, err := loadSettings(filepath.Join(t.TempDir(), "missing"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"docs/**", "vendor/**"}
	if len(s.Exclude) != len(want) {
		t.Fatalf("exclude = %q, want %q", s.Exclude, want)
	}
	for i := range want {
		if s.Exclude[i] != want[i] {
			t.Fatalf("exclude = %q, want %q", s.Exclude, want)
		}
	}
}

func TestLoadSettingsRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative":  "top_file_count: -1\n",
		"output":    "output: fax\n",
		"format":    "format: xml\n",
		"color":     "color: rainbow\n",
		"tokenizer": "tokenizer: sentencepiece\n",
		"exclude":   "exclude:\n  - \"[\"\n",
		"yaml":      "top_file_count: [\n",
	}
	for name, cfg := range cases {
		path := filepath.Join(t.TempDir(), configFileName)
		if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
			t.Fatalf("%s: failed to write config: %v", name, err)
		}
		if _, err := loadSettings(path, nil); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
