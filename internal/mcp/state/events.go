// file: internal/mcp/state/events.go
package state

// Event triggers a lifecycle transition.
type Event string

// Lifecycle events.
const (
	EventInitializeRequest Event = "rcvd_initialize_request"       // Client sent 'initialize'.
	EventClientInitialized Event = "rcvd_client_initialized_notif" // Client sent 'notifications/initialized'.
	EventClose             Event = "close"                         // Loop is ending.
)

// EventForMethod maps an incoming method to its lifecycle event, or "" when
// the method has no lifecycle meaning.
func EventForMethod(method string) Event {
	switch method {
	case "initialize":
		return EventInitializeRequest
	case "notifications/initialized":
		return EventClientInitialized
	default:
		return ""
	}
}
