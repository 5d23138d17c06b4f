// file: internal/schema/name_rules.go

package schema

import (
	"regexp"

	"github.com/cockroachdb/errors"
)

// NameRule defines validation rules for a tool name.
type NameRule struct {
	// Pattern is the regex pattern the name must match.
	Pattern *regexp.Regexp

	// Description is a human-readable description of the pattern.
	Description string

	// MaxLength is the maximum allowed length of the name.
	MaxLength int
}

// ToolNameRule is the naming rule every registered tool must satisfy.
var ToolNameRule = NameRule{
	Pattern:     regexp.MustCompile(`^[a-z][a-z0-9_]*$`),
	Description: "Must start with a lowercase letter, followed by lowercase letters, digits or underscores",
	MaxLength:   64,
}

// ValidateToolName validates a tool name against ToolNameRule.
func ValidateToolName(name string) error {
	if len(name) == 0 {
		return errors.New("empty tool name is not allowed")
	}
	if len(name) > ToolNameRule.MaxLength {
		return errors.Newf("tool name exceeds maximum length of %d characters", ToolNameRule.MaxLength)
	}
	if !ToolNameRule.Pattern.MatchString(name) {
		return errors.Newf("invalid tool name '%s': %s", name, ToolNameRule.Description)
	}
	return nil
}
