// Package platform declares the capability providers the tools depend on and
// the error kinds those providers report.
// file: internal/platform/platform.go
package platform

import (
	"context"
)

// BrightnessProvider reads and sets display brightness as a percentage.
type BrightnessProvider interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, percent int) error
}

// VolumeProvider reads and sets output volume and mute state.
type VolumeProvider interface {
	GetVolume(ctx context.Context) (int, error)
	SetVolume(ctx context.Context, percent int) error
	GetMute(ctx context.Context) (bool, error)
	SetMute(ctx context.Context, muted bool) error
	DescribeDevices(ctx context.Context) (map[string]any, error)
}

// Category selects a slice of system inventory.
type Category string

// Supported categories.
const (
	CategoryHardware Category = "hardware"
	CategoryDisplay  Category = "display"
	CategoryAudio    Category = "audio"
	CategoryPower    Category = "power"
	CategoryAll      Category = "all"
)

// Categories lists every concrete category in report order. CategoryAll is not included.
func Categories() []Category {
	return []Category{CategoryHardware, CategoryDisplay, CategoryAudio, CategoryPower}
}

// SystemInfoProvider returns inventory for a category as a string-keyed mapping.
type SystemInfoProvider interface {
	Query(ctx context.Context, category Category) (map[string]any, error)
}
