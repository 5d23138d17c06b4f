// file: internal/mcp/registry_test.go
package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/dkoosis/syscontrol/internal/schema"
	"github.com/dkoosis/syscontrol/internal/tools"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okExecutor(_ context.Context, _ json.RawMessage) *mcptypes.CallToolResult {
	return mcptypes.NewTextResult("ok")
}

func TestNewRegistry_Rejects(t *testing.T) {
	testCases := []struct {
		name  string
		descs []tools.Descriptor
	}{
		{name: "empty name", descs: []tools.Descriptor{testTool("", okExecutor)}},
		{name: "invalid name", descs: []tools.Descriptor{testTool("Bad-Name", okExecutor)}},
		{name: "duplicate", descs: []tools.Descriptor{testTool("dup", okExecutor), testTool("dup", okExecutor)}},
		{name: "no executor", descs: []tools.Descriptor{testTool("lazy", nil)}},
		{name: "no schema", descs: []tools.Descriptor{{Name: "bare", Execute: okExecutor}}},
		{name: "schema does not compile", descs: []tools.Descriptor{{
			Name:        "broken",
			InputSchema: &jsonschema.Schema{Type: "object", Pattern: "(["},
			Execute:     okExecutor,
		}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRegistry(schema.NewValidator(nil), nil, tc.descs...)
			assert.Error(t, err)
		})
	}

	_, err := NewRegistry(nil, nil)
	assert.Error(t, err)
}

func TestRegistry_ListPreservesOrderAndIsACopy(t *testing.T) {
	h := newHarness(t)
	listed := h.registry.List()
	require.Len(t, listed, 3)
	assert.Equal(t, tools.BrightnessToolName, listed[0].Name)
	assert.Equal(t, "adjust_volume", listed[1].Name)
	assert.Equal(t, "get_system_info", listed[2].Name)
	assert.JSONEq(t, `"object"`, string(mustField(t, listed[0].InputSchema, "type")))

	listed[0].Name = "mutated"
	assert.Equal(t, tools.BrightnessToolName, h.registry.List()[0].Name)
	assert.Equal(t, 3, h.registry.Len())
}

func TestRegistry_Lookup(t *testing.T) {
	h := newHarness(t)
	d, ok := h.registry.Lookup("adjust_volume")
	require.True(t, ok)
	assert.Equal(t, "adjust_volume", d.Name)

	_, ok = h.registry.Lookup("adjust_Volume")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestRegistry_CallValidatesBeforeExecuting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.registry.Call(ctx, tools.BrightnessToolName, json.RawMessage(`{"action":"set","value":150}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "between 0 and 100")
	assert.Empty(t, h.brightness.setCalls())

	res, err = h.registry.Call(ctx, tools.BrightnessToolName, json.RawMessage(`{"action":"dim"}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "get, set")

	res, err = h.registry.Call(ctx, tools.BrightnessToolName, json.RawMessage(`{"action":"set","value":75}`))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []int{75}, h.brightness.setCalls())

	_, err = h.registry.Call(ctx, "nope", nil)
	assert.Error(t, err)
}

func TestRegistry_CallReportsActionBeforeRange(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 25; i++ {
		res, err := h.registry.Call(context.Background(), tools.VolumeToolName, json.RawMessage(`{"action":"bogus","value":500}`))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		require.Equal(t,
			`Invalid arguments: invalid action "bogus": supported values are get, set, mute, unmute, toggle_mute, devices`,
			res.Text(), "iteration %d", i)
	}
	assert.Equal(t, 30, h.volume.level)
}

func mustField(t *testing.T, raw json.RawMessage, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[key]
}
