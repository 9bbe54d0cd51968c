package lspserver

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flir-lint/flir/internal/lsp/protocol"
)

var allEncodings = []PositionEncoding{UTF8, UTF16, UTF32}

func TestNegotiateEncoding(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		offered []protocol.PositionEncodingKind
		want    PositionEncoding
	}{
		{"nothing offered", nil, UTF16},
		{"utf-16 wins when offered", []protocol.PositionEncodingKind{"utf-8", "utf-16"}, UTF16},
		{"utf-8 only", []protocol.PositionEncodingKind{"utf-8"}, UTF8},
		{"utf-32 only", []protocol.PositionEncodingKind{"utf-32"}, UTF32},
		{"server prefers utf-8 over utf-32", []protocol.PositionEncodingKind{"utf-32", "utf-8"}, UTF8},
		{"unknown kinds", []protocol.PositionEncodingKind{"latin-1"}, UTF16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, negotiateEncoding(tt.offered))
		})
	}
}

func TestOffsetToPosition_Example(t *testing.T) {
	t.Parallel()
	content := "hello 🌍 world"
	offset := 11 // the "w"
	want := map[PositionEncoding]uint32{UTF8: 11, UTF16: 9, UTF32: 8}

	for enc, char := range want {
		pos, err := OffsetToPosition(content, offset, enc)
		require.NoError(t, err, enc.String())
		assert.Equal(t, protocol.Position{Line: 0, Character: char}, pos, enc.String())
	}
}

func TestOffsetToPosition_Boundary(t *testing.T) {
	t.Parallel()
	content := "abc\ndef"
	for _, enc := range allEncodings {
		pos, err := OffsetToPosition(content, len(content), enc)
		require.NoError(t, err)
		assert.Equal(t, protocol.Position{Line: 1, Character: 3}, pos)

		_, err = OffsetToPosition(content, len(content)+1, enc)
		require.ErrorIs(t, err, ErrOutOfBounds)

		_, err = OffsetToPosition(content, -1, enc)
		require.ErrorIs(t, err, ErrOutOfBounds)
	}
}

func TestOffsetPositionRoundTrip(t *testing.T) {
	t.Parallel()
	contents := map[string]string{
		"ascii":            "x <- 1\ny <- any(is.na(x))\n",
		"multibyte":        "größe <- c(\"ü\", \"é\")\nnaïve\n",
		"emoji":            "# 🌍🚀\nx <- \"🎉\" # done\n",
		"crlf":             "a <- 1\r\nb <- 2\r\n",
		"empty":            "",
		"no final newline": "f(x)",
	}
	for name, content := range contents {
		for _, enc := range allEncodings {
			t.Run(name+"/"+enc.String(), func(t *testing.T) {
				t.Parallel()
				for off := 0; off <= len(content); off++ {
					if off < len(content) && !utf8.RuneStart(content[off]) {
						continue
					}
					pos, err := OffsetToPosition(content, off, enc)
					require.NoError(t, err)
					back, err := PositionToOffset(content, pos, enc)
					require.NoError(t, err)
					assert.Equal(t, off, back, "offset %d via %+v", off, pos)
				}
			})
		}
	}
}

func TestOffsetToPosition_CarriageReturnIsContent(t *testing.T) {
	t.Parallel()
	pos, err := OffsetToPosition("a\r\nb", 2, UTF16)
	require.NoError(t, err)
	assert.Equal(t, protocol.Position{Line: 0, Character: 2}, pos)
}

func TestPositionToOffset(t *testing.T) {
	t.Parallel()
	content := "ab\nhello 🌍 world\n"
	tests := []struct {
		name string
		pos  protocol.Position
		enc  PositionEncoding
		want int
	}{
		{"start", protocol.Position{}, UTF16, 0},
		{"clamps past end of line", protocol.Position{Line: 0, Character: 10}, UTF16, 2},
		{"after emoji utf-16", protocol.Position{Line: 1, Character: 8}, UTF16, 13},
		{"after emoji utf-32", protocol.Position{Line: 1, Character: 7}, UTF32, 13},
		{"after emoji utf-8", protocol.Position{Line: 1, Character: 10}, UTF8, 13},
		{"inside surrogate pair", protocol.Position{Line: 1, Character: 7}, UTF16, 9},
		{"inside utf-8 sequence", protocol.Position{Line: 1, Character: 8}, UTF8, 9},
		{"empty last line", protocol.Position{Line: 2, Character: 0}, UTF16, len(content)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PositionToOffset(content, tt.pos, tt.enc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositionToOffset_LinePastEnd(t *testing.T) {
	t.Parallel()
	_, err := PositionToOffset("ab\ncd", protocol.Position{Line: 2}, UTF16)
	require.ErrorIs(t, err, ErrOutOfBounds)
}
