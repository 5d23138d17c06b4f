// file: internal/schema/helpers.go
package schema

import (
	"bytes"
	"strconv"
	"strings"
)

// calculatePreview returns a short printable prefix of data for log context.
func calculatePreview(data []byte) string {
	const maxPreviewLen = 100
	suffix := ""
	if len(data) > maxPreviewLen {
		data = data[:maxPreviewLen]
		suffix = "..."
	}
	previewBytes := bytes.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return '.'
		}
		return r
	}, data)
	return string(previewBytes) + suffix
}

// lookupPointer resolves a JSON pointer against a decoded JSON document.
// It returns nil when any segment is missing.
func lookupPointer(doc interface{}, pointer string) interface{} {
	if pointer == "" || pointer == "/" {
		return doc
	}
	cur := doc
	for _, raw := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		seg := unescapeSegment(raw)
		switch node := cur.(type) {
		case map[string]interface{}:
			next, ok := node[seg]
			if !ok {
				return nil
			}
			cur = next
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			cur = node[idx]
		default:
			return nil
		}
	}
	return cur
}

// parentPointer drops the last segment of a JSON pointer.
func parentPointer(pointer string) string {
	i := strings.LastIndex(pointer, "/")
	if i <= 0 {
		return ""
	}
	return pointer[:i]
}

// lastSegment returns the unescaped last segment of a JSON pointer.
func lastSegment(pointer string) string {
	i := strings.LastIndex(pointer, "/")
	if i < 0 {
		return ""
	}
	return unescapeSegment(pointer[i+1:])
}

func unescapeSegment(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}
