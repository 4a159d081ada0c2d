package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const defaultTool = "yek"

// yekFile is one entry of the `yek --json` output.
type yekFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// yekProvider runs the yek CLI in the root directory and converts its JSON
// output into FileStats.
type yekProvider struct {
	tool      string
	estimator TokenEstimator
	log       logger
}

func newYekProvider(tool string, estimator TokenEstimator, log logger) *yekProvider {
	if tool == "" {
		tool = defaultTool
	}
	if estimator == nil {
		estimator = charEstimator{}
	}
	return &yekProvider{tool: tool, estimator: estimator, log: log}
}

func (p *yekProvider) Stats(ctx context.Context, root string) ([]FileStat, error) {
	path, err := exec.LookPath(p.tool)
	if err != nil {
		return nil, &ToolError{Tool: p.tool, Err: fmt.Errorf("%w: %v", errToolNotFound, err)}
	}
	p.log.printf("[debug]: running %s --json . in %s\n", path, root)

	cmd := exec.CommandContext(ctx, path, "--json", ".")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &ToolError{Tool: p.tool, Stderr: stderr.String(), Err: err}
	}
	p.log.printf("[debug]: %s wrote %d bytes of JSON\n", p.tool, stdout.Len())

	return p.parse(stdout.Bytes())
}

func (p *yekProvider) parse(data []byte) ([]FileStat, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var files []yekFile
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, &ToolError{Tool: p.tool, Err: fmt.Errorf("failed to parse JSON output: %w", err)}
	}

	stats := make([]FileStat, 0, len(files))
	for _, f := range files {
		stats = append(stats, FileStat{
			Path:          normalizeStatPath(f.Filename),
			ByteSize:      int64(len(f.Content)),
			TokenEstimate: p.estimator.Estimate(f.Content),
			LineCount:     countLines(f.Content),
			Content:       f.Content,
		})
	}
	return stats, nil
}

func normalizeStatPath(path string) string {
	path = filepath.ToSlash(path)
	for strings.HasPrefix(path, "./") {
		path = strings.TrimPrefix(path, "./")
	}
	return path
}
