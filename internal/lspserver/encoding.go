package lspserver

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/flir-lint/flir/internal/lsp/protocol"
)

// PositionEncoding is the unit of Position.Character agreed at initialize.
type PositionEncoding int

const (
	UTF16 PositionEncoding = iota
	UTF8
	UTF32
)

// serverEncodingPreference is consulted when the client does not offer UTF-16.
var serverEncodingPreference = []PositionEncoding{UTF8, UTF32, UTF16}

// Kind returns the protocol name of the encoding.
func (e PositionEncoding) Kind() protocol.PositionEncodingKind {
	switch e {
	case UTF8:
		return protocol.PositionEncodingUTF8
	case UTF32:
		return protocol.PositionEncodingUTF32
	default:
		return protocol.PositionEncodingUTF16
	}
}

func (e PositionEncoding) String() string {
	return string(e.Kind())
}

// negotiateEncoding picks UTF-16 whenever the client offers it, otherwise
// the first server preference the client offers, otherwise UTF-16.
func negotiateEncoding(offered []protocol.PositionEncodingKind) PositionEncoding {
	has := make(map[protocol.PositionEncodingKind]bool, len(offered))
	for _, k := range offered {
		has[k] = true
	}
	if has[protocol.PositionEncodingUTF16] {
		return UTF16
	}
	for _, enc := range serverEncodingPreference {
		if has[enc.Kind()] {
			return enc
		}
	}
	return UTF16
}

// units returns the width of r in the encoding's code units.
func (e PositionEncoding) units(r rune) int {
	switch e {
	case UTF8:
		return utf8.RuneLen(r)
	case UTF32:
		return 1
	default:
		if r >= 0x10000 {
			return 2
		}
		return 1
	}
}

// unitsIn counts the code units of s. Invalid bytes count as one unit each
// (U+FFFD is three UTF-8 bytes, so UTF-8 counts raw bytes instead).
func (e PositionEncoding) unitsIn(s string) int {
	if e == UTF8 {
		return len(s)
	}
	n := 0
	for _, r := range s {
		n += e.units(r)
	}
	return n
}

// OffsetToPosition converts a byte offset into content to a position.
// Lines are split on '\n' only. offset == len(content) is valid.
func OffsetToPosition(content string, offset int, enc PositionEncoding) (protocol.Position, error) {
	if offset < 0 || offset > len(content) {
		return protocol.Position{}, fmt.Errorf("%w: offset %d in %d bytes", ErrOutOfBounds, offset, len(content))
	}
	prefix := content[:offset]
	line := strings.Count(prefix, "\n")
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(enc.unitsIn(content[lineStart:offset])),
	}, nil
}

// PositionToOffset converts a position to a byte offset into content.
// A character past the end of the line clamps to the end of the line; a
// line past the last line is ErrOutOfBounds. A character that falls inside
// a multi-unit character resolves to that character's start.
func PositionToOffset(content string, pos protocol.Position, enc PositionEncoding) (int, error) {
	lineStart := 0
	for i := uint32(0); i < pos.Line; i++ {
		nl := strings.IndexByte(content[lineStart:], '\n')
		if nl < 0 {
			return 0, fmt.Errorf("%w: line %d beyond last line %d", ErrOutOfBounds, pos.Line, i)
		}
		lineStart += nl + 1
	}
	lineEnd := len(content)
	if nl := strings.IndexByte(content[lineStart:], '\n'); nl >= 0 {
		lineEnd = lineStart + nl
	}

	if enc == UTF8 {
		off := min(lineStart+int(pos.Character), lineEnd)
		for off > lineStart && off < lineEnd && !utf8.RuneStart(content[off]) {
			off--
		}
		return off, nil
	}
	want := int(pos.Character)
	units := 0
	for i, r := range content[lineStart:lineEnd] {
		w := enc.units(r)
		if units+w > want {
			return lineStart + i, nil
		}
		units += w
	}
	return lineEnd, nil
}
