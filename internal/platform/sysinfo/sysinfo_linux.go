//go:build linux

// file: internal/platform/sysinfo/sysinfo_linux.go
package sysinfo

import (
	"golang.org/x/sys/unix"
)

// hostFacts returns kernel, memory and uptime facts from uname(2) and sysinfo(2).
func hostFacts() map[string]any {
	facts := map[string]any{}

	var u unix.Utsname
	if err := unix.Uname(&u); err == nil {
		facts["kernel"] = unix.ByteSliceToString(u.Sysname[:]) + " " + unix.ByteSliceToString(u.Release[:])
		facts["machine"] = unix.ByteSliceToString(u.Machine[:])
	}

	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err == nil {
		unit := uint64(si.Unit)
		if unit == 0 {
			unit = 1
		}
		facts["memory_total_bytes"] = uint64(si.Totalram) * unit
		facts["memory_free_bytes"] = uint64(si.Freeram) * unit
		facts["uptime_seconds"] = int64(si.Uptime)
	}
	return facts
}
