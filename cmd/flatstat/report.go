package main

import (
	"context"
	"fmt"
	"path"
	"sort"
)

const (
	defaultTopFileCount              = 9
	defaultTopDirCount               = 6
	defaultWarnLargeFilesByLineCount = 300
)

// ReportConfig controls how much of the ranking is shown.
type ReportConfig struct {
	TopFileCount              int `json:"top_file_count"`
	TopDirCount               int `json:"top_dir_count"`
	WarnLargeFilesByLineCount int `json:"warn_large_files_by_line_count"`
}

func defaultReportConfig() ReportConfig {
	return ReportConfig{
		TopFileCount:              defaultTopFileCount,
		TopDirCount:               defaultTopDirCount,
		WarnLargeFilesByLineCount: defaultWarnLargeFilesByLineCount,
	}
}

func (c ReportConfig) validate() error {
	if c.TopFileCount < 0 {
		return fmt.Errorf("--top-file-count cannot be negative (got %d)", c.TopFileCount)
	}
	if c.TopDirCount < 0 {
		return fmt.Errorf("--top-dir-count cannot be negative (got %d)", c.TopDirCount)
	}
	if c.WarnLargeFilesByLineCount < 0 {
		return fmt.Errorf("--warn-large-files-by-line-count cannot be negative (got %d)", c.WarnLargeFilesByLineCount)
	}
	return nil
}

// Report is the aggregated, truncated view the renderers print.
type Report struct {
	Root        string     `json:"root"`
	FileCount   int        `json:"file_count"`
	TotalTokens int        `json:"total_tokens"`
	TotalBytes  int64      `json:"total_bytes"`
	TotalLines  int        `json:"total_lines"`
	TopDirs     []DirStat  `json:"top_dirs"`
	TopFiles    []FileStat `json:"top_files"`
	WarnLines   int        `json:"warn_large_files_by_line_count"`
}

// IsLarge reports whether f should be highlighted.
func (r *Report) IsLarge(f FileStat) bool {
	return f.LineCount > r.WarnLines
}

// ReportBuilder turns provider output into a Report.
type ReportBuilder struct {
	Provider StatsProvider
	Filter   *RecordFilter
	Config   ReportConfig
	log      logger
}

// Build fetches the statistics for root and aggregates them. The returned
// slice holds every record that survived filtering, in provider order.
func (b *ReportBuilder) Build(ctx context.Context, root string) (*Report, []FileStat, error) {
	if err := b.Config.validate(); err != nil {
		return nil, nil, err
	}
	files, err := b.Provider.Stats(ctx, root)
	if err != nil {
		return nil, nil, err
	}
	if b.Filter != nil {
		before := len(files)
		files = b.Filter.Apply(files)
		b.log.printf("[debug]: filter kept %d of %d files\n", len(files), before)
	}
	return aggregate(root, files, b.Config), files, nil
}

func aggregate(root string, files []FileStat, cfg ReportConfig) *Report {
	r := &Report{
		Root:      root,
		FileCount: len(files),
		WarnLines: cfg.WarnLargeFilesByLineCount,
	}
	for _, f := range files {
		r.TotalTokens += f.TokenEstimate
		r.TotalBytes += f.ByteSize
		r.TotalLines += f.LineCount
	}

	r.TopDirs = topDirs(aggregateDirs(files), cfg.TopDirCount)
	r.TopFiles = topFiles(files, cfg.TopFileCount)
	return r
}

// aggregateDirs adds every file to its parent directory and to each ancestor
// above it. Files directly in the root are grouped under "."; the root does
// not collect its subdirectories, since that sum is the report total.
func aggregateDirs(files []FileStat) []DirStat {
	byPath := make(map[string]*DirStat)
	add := func(dir string, f FileStat) {
		d, ok := byPath[dir]
		if !ok {
			d = &DirStat{Path: dir}
			byPath[dir] = d
		}
		d.TokenEstimate += f.TokenEstimate
		d.ByteSize += f.ByteSize
		d.LineCount += f.LineCount
		d.FileCount++
	}
	for _, f := range files {
		dir := path.Dir(f.Path)
		if isRootDir(dir) {
			add(".", f)
			continue
		}
		for !isRootDir(dir) {
			add(dir, f)
			dir = path.Dir(dir)
		}
	}

	dirs := make([]DirStat, 0, len(byPath))
	for _, d := range byPath {
		dirs = append(dirs, *d)
	}
	return dirs
}

func isRootDir(dir string) bool {
	return dir == "." || dir == "/" || dir == ""
}

func topFiles(files []FileStat, n int) []FileStat {
	sorted := make([]FileStat, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TokenEstimate == sorted[j].TokenEstimate {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].TokenEstimate > sorted[j].TokenEstimate
	})
	if n < len(sorted) {
		sorted = sorted[:max(n, 0)]
	}
	return sorted
}

func topDirs(dirs []DirStat, n int) []DirStat {
	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i].TokenEstimate == dirs[j].TokenEstimate {
			return dirs[i].Path < dirs[j].Path
		}
		return dirs[i].TokenEstimate > dirs[j].TokenEstimate
	})
	if n < len(dirs) {
		dirs = dirs[:max(n, 0)]
	}
	return dirs
}
