// file: internal/tools/mocks_test.go
package tools

import (
	"context"

	"github.com/dkoosis/syscontrol/internal/platform"
	"github.com/stretchr/testify/mock"
)

// MockBrightness is a mock implementation of platform.BrightnessProvider.
type MockBrightness struct {
	mock.Mock
}

func (m *MockBrightness) Get(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockBrightness) Set(ctx context.Context, percent int) error {
	args := m.Called(ctx, percent)
	return args.Error(0)
}

// MockVolume is a mock implementation of platform.VolumeProvider.
type MockVolume struct {
	mock.Mock
}

func (m *MockVolume) GetVolume(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockVolume) SetVolume(ctx context.Context, percent int) error {
	args := m.Called(ctx, percent)
	return args.Error(0)
}

func (m *MockVolume) GetMute(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockVolume) SetMute(ctx context.Context, muted bool) error {
	args := m.Called(ctx, muted)
	return args.Error(0)
}

func (m *MockVolume) DescribeDevices(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	devices, _ := args.Get(0).(map[string]any)
	return devices, args.Error(1)
}

// MockSystemInfo is a mock implementation of platform.SystemInfoProvider.
type MockSystemInfo struct {
	mock.Mock
}

func (m *MockSystemInfo) Query(ctx context.Context, category platform.Category) (map[string]any, error) {
	args := m.Called(ctx, category)
	info, _ := args.Get(0).(map[string]any)
	return info, args.Error(1)
}
