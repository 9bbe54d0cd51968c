package lspserver

import (
	"go.lsp.dev/uri"

	"github.com/flir-lint/flir/internal/lsp/protocol"
)

// DocumentSnapshot is an immutable point-in-time copy of a document,
// safe to hand to worker goroutines. Later edits to the live document do
// not affect it.
type DocumentSnapshot struct {
	content      string
	key          DocumentKey
	uri          protocol.DocumentURI
	version      int32
	encoding     PositionEncoding
	capabilities protocol.ClientCapabilities
}

func (s DocumentSnapshot) Content() string                           { return s.content }
func (s DocumentSnapshot) Key() DocumentKey                          { return s.key }
func (s DocumentSnapshot) URI() protocol.DocumentURI                 { return s.uri }
func (s DocumentSnapshot) Version() int32                            { return s.version }
func (s DocumentSnapshot) PositionEncoding() PositionEncoding        { return s.encoding }
func (s DocumentSnapshot) Capabilities() protocol.ClientCapabilities { return s.capabilities }

// FilePath returns the local path for file URIs and "" otherwise, in
// which case the document is linted with the default configuration.
func (s DocumentSnapshot) FilePath() string {
	name, ok := filename(uri.URI(s.key))
	if !ok {
		return ""
	}
	return name
}
