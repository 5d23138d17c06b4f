// file: internal/tools/sysinfo.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dkoosis/syscontrol/internal/logging"
	"github.com/dkoosis/syscontrol/internal/mcptypes"
	"github.com/dkoosis/syscontrol/internal/platform"
	"github.com/google/jsonschema-go/jsonschema"
)

// SystemInfoToolName is the registered name of the inventory tool.
const SystemInfoToolName = "get_system_info"

// NewSystemInfoTool returns the get_system_info tool backed by p.
func NewSystemInfoTool(p platform.SystemInfoProvider, logger logging.Logger) Descriptor {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	t := &systemInfoTool{provider: p, logger: logger.WithField("tool", SystemInfoToolName)}

	categories := []any{}
	for _, c := range supportedCategories() {
		categories = append(categories, c)
	}

	return Descriptor{
		Name:        SystemInfoToolName,
		Description: "Report system information: hardware, display, audio, power, or all of them.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"category": {
					Type:        "string",
					Description: "Which inventory to report. Defaults to \"all\".",
					Enum:        categories,
				},
			},
		},
		Annotations: &mcptypes.ToolAnnotations{Title: "System Information", ReadOnlyHint: true, IdempotentHint: true},
		Execute:     t.execute,
	}
}

type systemInfoTool struct {
	provider platform.SystemInfoProvider
	logger   logging.Logger
}

func (t *systemInfoTool) execute(ctx context.Context, raw json.RawMessage) *mcptypes.CallToolResult {
	var args struct {
		Category string `json:"category"`
	}
	if err := decodeArgs(raw, &args); err != nil {
		return mcptypes.NewErrorResult("Invalid arguments: " + err.Error())
	}
	if t.provider == nil {
		return missingProvider("read system information")
	}

	category := platform.Category(args.Category)
	if category == "" {
		category = platform.CategoryAll
	}
	if !validCategory(category) {
		return mcptypes.NewErrorResult(fmt.Sprintf("Unsupported category %q. Supported categories: %s",
			args.Category, strings.Join(supportedCategories(), ", ")))
	}

	info, err := t.provider.Query(ctx, category)
	if err != nil {
		return providerFailure(t.logger, "read "+string(category)+" information", err)
	}
	text, err := jsonText(info)
	if err != nil {
		return mcptypes.NewErrorResult(err.Error())
	}
	return mcptypes.NewTextResult(text)
}

func supportedCategories() []string {
	out := make([]string, 0, len(platform.Categories())+1)
	for _, c := range platform.Categories() {
		out = append(out, string(c))
	}
	return append(out, string(platform.CategoryAll))
}

func validCategory(c platform.Category) bool {
	if c == platform.CategoryAll {
		return true
	}
	for _, known := range platform.Categories() {
		if c == known {
			return true
		}
	}
	return false
}
