// Package mcptypes defines the MCP payload types exchanged by the server.
// It is imported by the mcp, middleware and tools packages and depends on none of them.
// file: internal/mcptypes/types.go
package mcptypes

import (
	"encoding/json"
)

// ProtocolVersion is the MCP revision announced in the initialize result.
const ProtocolVersion = "2024-11-05"

// --- Core MCP Data Structures ---.

// Implementation describes the name and version of an MCP client or server.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ClientCapabilities is kept raw; the server only logs it.
type ClientCapabilities map[string]json.RawMessage

// ServerCapabilities describes features supported by the server.
type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability indicates server support for tools.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// InitializeRequest represents the parameters for the 'initialize' request.
type InitializeRequest struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ClientInfo      Implementation     `json:"clientInfo"`
	Capabilities    ClientCapabilities `json:"capabilities,omitempty"`
}

// InitializeResult represents the successful result of an 'initialize' request.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	Instructions    string             `json:"instructions,omitempty"`
}

// Tool is the wire form of a registered tool descriptor.
type Tool struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	InputSchema json.RawMessage  `json:"inputSchema"`
	Annotations *ToolAnnotations `json:"annotations,omitempty"`
}

// ToolAnnotations contains additional hints about a tool.
type ToolAnnotations struct {
	Title           string `json:"title,omitempty"`
	ReadOnlyHint    bool   `json:"readOnlyHint,omitempty"`
	IdempotentHint  bool   `json:"idempotentHint,omitempty"`
	DestructiveHint bool   `json:"destructiveHint,omitempty"`
}

// ListToolsResult represents the successful result of a 'tools/list' request.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolRequest represents the parameters for the 'tools/call' request.
type CallToolRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"` // Decoded by the tool.
}

// CallToolResult represents the result of a tool call.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

// --- Content Types ---.

// Content represents a content item in a tool result, keyed by its type tag.
type Content interface {
	GetType() string
}

// TextContent represents a text content item.
type TextContent struct {
	Type string `json:"type"` // Always "text".
	Text string `json:"text"`
}

// GetType returns the type of content ("text").
func (t TextContent) GetType() string {
	return "text"
}

// NewTextContent builds a text content item.
func NewTextContent(text string) TextContent {
	return TextContent{Type: "text", Text: text}
}

// NewTextResult returns a successful result carrying a single text item.
func NewTextResult(text string) *CallToolResult {
	return &CallToolResult{Content: []Content{NewTextContent(text)}}
}

// NewErrorResult returns an isError result carrying a single text item.
func NewErrorResult(text string) *CallToolResult {
	return &CallToolResult{Content: []Content{NewTextContent(text)}, IsError: true}
}

// Text concatenates the text items of the result, one per line.
func (r *CallToolResult) Text() string {
	var out string
	for i, c := range r.Content {
		tc, ok := c.(TextContent)
		if !ok {
			continue
		}
		if i > 0 {
			out += "\n"
		}
		out += tc.Text
	}
	return out
}
