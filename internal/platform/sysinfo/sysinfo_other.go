//go:build !linux

// file: internal/platform/sysinfo/sysinfo_other.go
package sysinfo

// hostFacts has no portable source outside Linux.
func hostFacts() map[string]any {
	return map[string]any{}
}
