package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "FLATSTAT"

// settings is the merged result of defaults, the dotfile, the environment
// and the command line.
type settings struct {
	Report    ReportConfig
	Output    string
	Format    string
	Color     string
	Tool      string
	Tokenizer string
	Model     string
	Exclude   []string
}

// flagKeys maps viper keys to the flags that override them.
var flagKeys = map[string]string{
	"top_file_count":                 "top-file-count",
	"top_dir_count":                  "top-dir-count",
	"warn_large_files_by_line_count": "warn-large-files-by-line-count",
	"format":                         "format",
	"color":                          "color",
	"tool":                           "tool",
	"tokenizer":                      "tokenizer",
	"model":                          "model",
	"exclude":                        "exclude",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("top_file_count", defaultTopFileCount)
	v.SetDefault("top_dir_count", defaultTopDirCount)
	v.SetDefault("warn_large_files_by_line_count", defaultWarnLargeFilesByLineCount)
	v.SetDefault("output", outputModeCopy)
	v.SetDefault("format", formatText)
	v.SetDefault("color", colorAuto)
	v.SetDefault("tool", defaultTool)
	v.SetDefault("tokenizer", tokenizerChars)
	v.SetDefault("model", defaultTiktokenModel)
	v.SetDefault("exclude", []string{})

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// loadSettings reads the config file at path (a missing file is fine) and
// layers the environment and the changed flags on top of it.
func loadSettings(path string, flags *pflag.FlagSet) (*settings, error) {
	v := newViper()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	s := &settings{
		Report: ReportConfig{
			TopFileCount:              v.GetInt("top_file_count"),
			TopDirCount:               v.GetInt("top_dir_count"),
			WarnLargeFilesByLineCount: v.GetInt("warn_large_files_by_line_count"),
		},
		Output:    v.GetString("output"),
		Format:    v.GetString("format"),
		Color:     v.GetString("color"),
		Tool:      v.GetString("tool"),
		Tokenizer: v.GetString("tokenizer"),
		Model:     v.GetString("model"),
		Exclude:   splitList(v.GetStringSlice("exclude")),
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return s, nil
}

// splitList splits every element on commas and drops empty entries, so
// FLATSTAT_EXCLUDE="a/**,b/**" and a YAML list both yield one pattern each.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (s *settings) normalize() error {
	if err := s.Report.validate(); err != nil {
		return err
	}

	var ok bool
	output := s.Output
	if s.Output, ok = normalizeOutputMode(output); !ok {
		return fmt.Errorf("invalid output mode %q (expected print, copy, or ssh-copy)", output)
	}
	format := s.Format
	if s.Format, ok = normalizeFormat(format); !ok {
		return fmt.Errorf("invalid format %q (expected text or json)", format)
	}
	color := s.Color
	if s.Color, ok = normalizeColorMode(color); !ok {
		return fmt.Errorf("invalid color mode %q (expected auto, always, or never)", color)
	}
	tokenizer := s.Tokenizer
	if s.Tokenizer, ok = normalizeTokenizer(tokenizer); !ok {
		return fmt.Errorf("invalid tokenizer %q (expected chars or tiktoken)", tokenizer)
	}
	if strings.TrimSpace(s.Tool) == "" {
		s.Tool = defaultTool
	}
	return validateExcludePatterns(s.Exclude)
}
