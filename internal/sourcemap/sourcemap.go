// Package sourcemap indexes line starts in a source buffer so byte offsets
// can be turned into line/column pairs and lines can be sliced back out.
package sourcemap

import (
	"sort"
	"strings"
)

// SourceMap is an immutable line index over a source buffer.
// Lines are split on '\n' only; a '\r' before it stays part of the line.
type SourceMap struct {
	source []byte
	starts []int
}

// New builds a SourceMap for source. The slice is retained, not copied.
func New(source []byte) *SourceMap {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceMap{source: source, starts: starts}
}

// LineCount returns the number of lines. A trailing newline opens an
// empty final line, so "a\n" has two lines.
func (m *SourceMap) LineCount() int {
	return len(m.starts)
}

// Line returns line i (0-based) without its terminating newline.
// Out-of-range indexes yield "".
func (m *SourceMap) Line(i int) string {
	if i < 0 || i >= len(m.starts) {
		return ""
	}
	end := len(m.source)
	if i+1 < len(m.starts) {
		end = m.starts[i+1] - 1
	}
	return string(m.source[m.starts[i]:end])
}

// LineStart returns the byte offset at which line i begins, or -1.
func (m *SourceMap) LineStart(i int) int {
	if i < 0 || i >= len(m.starts) {
		return -1
	}
	return m.starts[i]
}

// LineCol maps a byte offset to a 0-based line and a 0-based byte column.
// Offsets past the end are clamped to the end of the buffer.
func (m *SourceMap) LineCol(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(m.source) {
		offset = len(m.source)
	}
	line = sort.Search(len(m.starts), func(i int) bool { return m.starts[i] > offset }) - 1
	return line, offset - m.starts[line]
}

// Snippet returns lines startLine..endLine inclusive joined by "\n".
func (m *SourceMap) Snippet(startLine, endLine int) string {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(m.starts) {
		endLine = len(m.starts) - 1
	}
	if startLine > endLine {
		return ""
	}
	lines := make([]string, 0, endLine-startLine+1)
	for i := startLine; i <= endLine; i++ {
		lines = append(lines, m.Line(i))
	}
	return strings.Join(lines, "\n")
}
