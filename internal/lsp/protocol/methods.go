package protocol

// Method names.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "initialized"
	MethodShutdown    = "shutdown"
	MethodExit        = "exit"

	MethodCancelRequest = "$/cancelRequest"
	MethodSetTrace      = "$/setTrace"

	MethodTextDocumentDidOpen   = "textDocument/didOpen"
	MethodTextDocumentDidChange = "textDocument/didChange"
	MethodTextDocumentDidSave   = "textDocument/didSave"
	MethodTextDocumentDidClose  = "textDocument/didClose"

	MethodTextDocumentPublishDiagnostics = "textDocument/publishDiagnostics"
	MethodTextDocumentDiagnostic         = "textDocument/diagnostic"
	MethodWorkspaceDiagnosticRefresh     = "workspace/diagnostic/refresh"
)

// Error codes defined by LSP on top of the JSON-RPC reserved range.
const (
	CodeServerNotInitialized int64 = -32002
	CodeUnknownErrorCode     int64 = -32001
	CodeRequestCancelled     int64 = -32800
	CodeContentModified      int64 = -32801
)
