package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const (
	tokenizerChars    = "chars"
	tokenizerTiktoken = "tiktoken"

	defaultTiktokenModel = "gpt-4o"
)

// TokenEstimator turns file content into an approximate token count.
type TokenEstimator interface {
	Estimate(content string) int
}

// charEstimator assumes four characters per token.
type charEstimator struct{}

func (charEstimator) Estimate(content string) int {
	return utf8.RuneCountInString(content) / 4
}

type tiktokenEstimator struct {
	tkm *tiktoken.Tiktoken
}

func (e *tiktokenEstimator) Estimate(content string) int {
	if content == "" {
		return 0
	}
	return len(e.tkm.Encode(content, nil, nil))
}

func normalizeTokenizer(name string) (string, bool) {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case "", tokenizerChars, "char", "approx":
		return tokenizerChars, true
	case tokenizerTiktoken, "tiktoken-go", "bpe":
		return tokenizerTiktoken, true
	default:
		return "", false
	}
}

func newTokenEstimator(name string, model string) (TokenEstimator, error) {
	kind, ok := normalizeTokenizer(name)
	if !ok {
		return nil, fmt.Errorf("invalid tokenizer %q (expected chars or tiktoken)", name)
	}
	if kind == tokenizerChars {
		return charEstimator{}, nil
	}
	if model == "" {
		model = defaultTiktokenModel
	}
	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer for model %q: %w", model, err)
	}
	return &tiktokenEstimator{tkm: tkm}, nil
}

// countLines counts lines the way a line iterator does: a trailing newline
// does not start a new line and "\r\n" is a single terminator.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
