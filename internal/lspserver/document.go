package lspserver

import (
	"fmt"
	"net/url"
	"strings"

	"go.lsp.dev/uri"

	"github.com/flir-lint/flir/internal/lsp/protocol"
)

// DocumentKey identifies a document independently of how the client
// spelled its URI.
type DocumentKey string

// NewDocumentKey normalizes a URI: scheme and host are lower-cased, the
// path is decoded and re-encoded canonically, and a trailing slash is
// dropped. Unparseable URIs are used verbatim.
func NewDocumentKey(raw protocol.DocumentURI) DocumentKey {
	u, err := url.Parse(string(raw))
	if err != nil || u.Scheme == "" {
		return DocumentKey(raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Scheme == uri.FileScheme && u.Host == "" {
		u.RawQuery, u.Fragment, u.RawFragment = "", "", ""
		if name, ok := filename(uri.URI(u.String())); ok {
			if len(name) > 1 {
				name = strings.TrimSuffix(name, "/")
			}
			return DocumentKey(uri.File(name))
		}
	}

	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	u.RawPath = ""
	return DocumentKey(u.String())
}

// filename converts a file URI to a path. uri.URI.Filename panics on
// anything it cannot parse, so the panic is turned into ok=false.
func filename(u uri.URI) (name string, ok bool) {
	defer func() {
		if recover() != nil {
			name, ok = "", false
		}
	}()
	name = u.Filename()
	return name, name != ""
}

// TextDocument is the server's copy of an open document.
type TextDocument struct {
	content    string
	version    int32
	languageID string
}

// NewTextDocument creates a document as sent by didOpen.
func NewTextDocument(content string, version int32, languageID string) *TextDocument {
	return &TextDocument{content: content, version: version, languageID: languageID}
}

func (d *TextDocument) Content() string    { return d.content }
func (d *TextDocument) Version() int32     { return d.version }
func (d *TextDocument) LanguageID() string { return d.languageID }

// Apply applies changes in order and then sets version. Edits are made to
// a working copy, so on error the document is left untouched.
func (d *TextDocument) Apply(changes []protocol.TextDocumentContentChangeEvent, version int32, enc PositionEncoding) error {
	if version <= d.version {
		return fmt.Errorf("%w: got %d, have %d", ErrStaleVersion, version, d.version)
	}

	working := d.content
	for i, change := range changes {
		if change.Range == nil {
			working = change.Text
			continue
		}
		start, err := PositionToOffset(working, change.Range.Start, enc)
		if err != nil {
			return fmt.Errorf("change %d start: %w", i, err)
		}
		end, err := PositionToOffset(working, change.Range.End, enc)
		if err != nil {
			return fmt.Errorf("change %d end: %w", i, err)
		}
		if start > end {
			return fmt.Errorf("%w: change %d range starts after it ends", ErrProtocol, i)
		}
		working = working[:start] + change.Text + working[end:]
	}

	d.content = working
	d.version = version
	return nil
}
