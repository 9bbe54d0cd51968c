// Package rlang lexes R source into tokens with bracket structure, which is
// enough for the token-pattern rules in internal/rules/builtin.
package rlang

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"
)

// ParseResult contains the lexed file and line statistics.
type ParseResult struct {
	// TotalLines is the number of lines; a single trailing newline does not
	// open an extra line.
	TotalLines int
	// BlankLines is the number of empty or whitespace-only lines
	BlankLines int
	// CommentLines is the number of lines whose first non-blank byte is '#'
	CommentLines int
	// Tokens is the token stream without whitespace and comments
	Tokens []Token
	// Source is the raw source content
	Source []byte
}

// openSource opens path for reading.
// If path is "-", returns os.Stdin and a no-op closer.
func openSource(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// ParseFile reads and lexes an R file.
func ParseFile(_ context.Context, path string) (*ParseResult, error) {
	r, closer, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closer() }()

	return Parse(r)
}

// Parse reads all of r and lexes it.
func Parse(r io.Reader) (*ParseResult, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(content), nil
}

// ParseBytes lexes content held in memory. It cannot fail.
func ParseBytes(content []byte) *ParseResult {
	result := &ParseResult{
		Source: content,
		Tokens: Lex(content),
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), len(content)+1)
	for scanner.Scan() {
		result.TotalLines++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			result.BlankLines++
		case strings.HasPrefix(line, "#"):
			result.CommentLines++
		}
	}
	return result
}
