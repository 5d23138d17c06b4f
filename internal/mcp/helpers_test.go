// file: internal/mcp/helpers_test.go
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/dkoosis/syscontrol/internal/metrics"
	"github.com/dkoosis/syscontrol/internal/platform"
	"github.com/dkoosis/syscontrol/internal/schema"
	"github.com/dkoosis/syscontrol/internal/tools"
	"github.com/dkoosis/syscontrol/internal/transport"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/require"
)

// fakeBrightness records every Set call.
type fakeBrightness struct {
	mu    sync.Mutex
	level int
	sets  []int
}

func (f *fakeBrightness) Get(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level, nil
}

func (f *fakeBrightness) Set(_ context.Context, percent int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.level = percent
	f.sets = append(f.sets, percent)
	return nil
}

func (f *fakeBrightness) setCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.sets...)
}

type fakeVolume struct {
	level int
	muted bool
}

func (f *fakeVolume) GetVolume(_ context.Context) (int, error) { return f.level, nil }
func (f *fakeVolume) SetVolume(_ context.Context, p int) error { f.level = p; return nil }
func (f *fakeVolume) GetMute(_ context.Context) (bool, error) { return f.muted, nil }
func (f *fakeVolume) SetMute(_ context.Context, m bool) error { f.muted = m; return nil }
func (f *fakeVolume) DescribeDevices(_ context.Context) (map[string]any, error) {
	return map[string]any{"sinks": []string{"speakers"}, "count": 1}, nil
}

type fakeSystemInfo struct{}

func (fakeSystemInfo) Query(_ context.Context, c platform.Category) (map[string]any, error) {
	return map[string]any{"category": string(c)}, nil
}

// testHarness bundles the pieces a loop test inspects afterwards.
type testHarness struct {
	brightness *fakeBrightness
	volume     *fakeVolume
	metrics    *metrics.Collector
	registry   *Registry
}

func newHarness(t *testing.T, extra ...tools.Descriptor) *testHarness {
	t.Helper()
	h := &testHarness{
		brightness: &fakeBrightness{level: 40},
		volume:     &fakeVolume{level: 30},
		metrics:    metrics.NewMetricsCollector(10),
	}
	descs := tools.All(tools.Providers{
		Brightness: h.brightness,
		Volume:     h.volume,
		SystemInfo: fakeSystemInfo{},
	}, nil)
	descs = append(descs, extra...)
	reg, err := NewRegistry(schema.NewValidator(nil), nil, descs...)
	require.NoError(t, err)
	h.registry = reg
	return h
}

// run feeds input through a Server and returns the response lines.
func (h *testHarness) run(t *testing.T, opts ServerOptions, input string) []string {
	t.Helper()
	out := &bytes.Buffer{}
	tr := transport.NewNDJSONTransport(strings.NewReader(input), out, nil, 0, nil)
	srv, err := NewServer(opts, h.registry, tr, h.metrics, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Serve(context.Background()))
	return splitLines(out.String())
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &m), "line: %s", line)
	return m
}

// toolResult extracts the CallToolResult fields from a response line.
func toolResult(t *testing.T, line string) (text string, isError bool) {
	t.Helper()
	var resp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(line), &resp), "line: %s", line)
	require.Len(t, resp.Result.Content, 1, "line: %s", line)
	return resp.Result.Content[0].Text, resp.Result.IsError
}

func testTool(name string, exec tools.Executor) tools.Descriptor {
	return tools.Descriptor{
		Name:        name,
		Description: "test tool",
		InputSchema: &jsonschema.Schema{Type: "object"},
		Execute:     exec,
	}
}

func panicTool() tools.Descriptor {
	return testTool("explode", func(_ context.Context, _ json.RawMessage) *mcptypes.CallToolResult {
		panic("kaboom")
	})
}

func slowTool(release <-chan struct{}) tools.Descriptor {
	return testTool("stall", func(_ context.Context, _ json.RawMessage) *mcptypes.CallToolResult {
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
		return mcptypes.NewTextResult("finished")
	})
}
