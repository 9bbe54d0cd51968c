package rules

import "github.com/flir-lint/flir/internal/sourcemap"

// Position represents a single point in a source file.
type Position struct {
	// Line is the 1-based line number.
	Line int `json:"line"`
	// Column is the 1-based byte column.
	Column int `json:"column"`
}

// Location represents a range in a source file.
type Location struct {
	// File is the path to the source file.
	File string `json:"file"`
	// Start is the starting position (inclusive).
	Start Position `json:"start"`
	// End is the ending position (exclusive).
	End Position `json:"end"`
}

// NewRangeLocation creates a location spanning multiple lines/columns.
func NewRangeLocation(file string, startLine, startCol, endLine, endCol int) Location {
	return Location{
		File:  file,
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	}
}

// LocationFromOffsets converts a byte range into 1-based line/column
// positions using sm.
func LocationFromOffsets(file string, sm *sourcemap.SourceMap, start, end int) Location {
	sl, sc := sm.LineCol(start)
	el, ec := sm.LineCol(end)
	return NewRangeLocation(file, sl+1, sc+1, el+1, ec+1)
}

// IsPointLocation returns true if start and end coincide.
func (l Location) IsPointLocation() bool {
	return l.Start == l.End
}
