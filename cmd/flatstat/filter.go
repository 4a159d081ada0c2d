package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

const ignoreFileName = ".flatstatignore"

// RecordFilter drops tool records the user does not want in the report.
type RecordFilter struct {
	ignoreFile      *ignore.GitIgnore
	excludePatterns []string
}

// NewRecordFilter builds a filter for root. Exclude patterns use doublestar
// syntax and are matched against the slash-separated record path. Unless
// skipIgnoreFile is set, a .flatstatignore file in root is honoured as well.
func NewRecordFilter(root string, excludePatterns []string, skipIgnoreFile bool) (*RecordFilter, error) {
	if err := validateExcludePatterns(excludePatterns); err != nil {
		return nil, err
	}
	f := &RecordFilter{excludePatterns: excludePatterns}

	if !skipIgnoreFile {
		ignorePath := filepath.Join(root, ignoreFileName)
		if _, err := os.Stat(ignorePath); err == nil {
			gi, err := ignore.CompileIgnoreFile(ignorePath)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", ignorePath, err)
			}
			f.ignoreFile = gi
		}
	}

	return f, nil
}

func validateExcludePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid exclude pattern %q", pat)
		}
	}
	return nil
}

// ShouldInclude returns true if the record at path stays in the report
func (f *RecordFilter) ShouldInclude(path string) bool {
	if f.ignoreFile != nil && f.ignoreFile.MatchesPath(path) {
		return false
	}
	for _, pat := range f.excludePatterns {
		if matched, err := doublestar.Match(pat, path); err == nil && matched {
			return false
		}
	}
	return true
}

// Apply returns the records that pass the filter, keeping their order.
func (f *RecordFilter) Apply(files []FileStat) []FileStat {
	if f.ignoreFile == nil && len(f.excludePatterns) == 0 {
		return files
	}
	kept := make([]FileStat, 0, len(files))
	for _, file := range files {
		if f.ShouldInclude(file.Path) {
			kept = append(kept, file)
		}
	}
	return kept
}
