// Package state tracks the MCP session lifecycle. The tracker observes
// lifecycle messages and records where the session is; it never rejects a
// method because of the current state.
// file: internal/mcp/state/states.go
package state

// State is a lifecycle state.
type State string

// Lifecycle states.
const (
	StateUninitialized State = "uninitialized" // No initialize request seen yet.
	StateInitializing  State = "initializing"  // initialize answered, awaiting notifications/initialized.
	StateReady         State = "ready"         // Handshake complete.
	StateClosed        State = "closed"        // Input ended or the server is stopping.
)

// IsTerminal reports whether no further transitions occur from s.
func IsTerminal(s State) bool {
	return s == StateClosed
}
