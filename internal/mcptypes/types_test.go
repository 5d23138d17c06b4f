// file: internal/mcptypes/types_test.go
package mcptypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallToolResult_JSONShape(t *testing.T) {
	b, err := json.Marshal(NewErrorResult("value must be between 0 and 100"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"value must be between 0 and 100"}],"isError":true}`, string(b))

	b, err = json.Marshal(NewTextResult("ok"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"ok"}],"isError":false}`, string(b))
}

func TestInitializeResult_EmptyToolsCapability(t *testing.T) {
	res := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      Implementation{Name: "syscontrol", Version: "1.0.0"},
		Capabilities:    ServerCapabilities{Tools: &ToolsCapability{}},
	}
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"protocolVersion":"2024-11-05","serverInfo":{"name":"syscontrol","version":"1.0.0"},"capabilities":{"tools":{}}}`, string(b))
}

func TestCallToolResult_Text(t *testing.T) {
	r := &CallToolResult{Content: []Content{NewTextContent("a"), NewTextContent("b")}}
	assert.Equal(t, "a\nb", r.Text())
	assert.Equal(t, "text", r.Content[0].GetType())
}
