// Package protocol holds the subset of Language Server Protocol 3.17 types
// the flir server speaks: document synchronization, position encodings,
// diagnostics (push and pull) and the lifecycle messages.
//
// Only the fields the server reads or writes are modelled. Unknown fields
// are ignored on decode.
package protocol
