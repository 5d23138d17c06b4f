// file: internal/mcp/state/machine.go
package state

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/dkoosis/syscontrol/internal/logging"
	lfsm "github.com/looplab/fsm"
)

// Tracker records the lifecycle state of the session.
type Tracker struct {
	fsm    *lfsm.FSM
	logger logging.Logger
}

// NewTracker creates a tracker in StateUninitialized.
func NewTracker(logger logging.Logger) *Tracker {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	t := &Tracker{logger: logger.WithField("component", "mcp_lifecycle")}

	live := []string{string(StateUninitialized), string(StateInitializing), string(StateReady)}
	t.fsm = lfsm.NewFSM(
		string(StateUninitialized),
		lfsm.Events{
			// A client may re-send initialize; the session restarts its handshake.
			{Name: string(EventInitializeRequest), Src: live, Dst: string(StateInitializing)},
			{Name: string(EventClientInitialized), Src: []string{string(StateInitializing)}, Dst: string(StateReady)},
			{Name: string(EventClose), Src: live, Dst: string(StateClosed)},
		},
		lfsm.Callbacks{
			"enter_state": func(_ context.Context, e *lfsm.Event) {
				t.logger.Info("Lifecycle state changed.", "from", e.Src, "to", e.Dst, "event", e.Event)
			},
		},
	)
	return t
}

// Current returns the current state.
func (t *Tracker) Current() State {
	return State(t.fsm.Current())
}

// Observe records that method was received. It never fails: messages that
// arrive out of the usual order are logged and otherwise ignored.
func (t *Tracker) Observe(ctx context.Context, method string) {
	event := EventForMethod(method)
	if event == "" {
		if t.Current() == StateUninitialized {
			t.logger.Debug("Method received before initialize.", "method", method)
		}
		return
	}
	t.fire(ctx, event, method)
}

// Close moves the tracker to StateClosed.
func (t *Tracker) Close(ctx context.Context) {
	t.fire(ctx, EventClose, "")
}

func (t *Tracker) fire(ctx context.Context, event Event, method string) {
	if !t.fsm.Can(string(event)) {
		t.logger.Warn("Lifecycle message out of sequence.", "method", method, "event", event, "state", t.Current())
		return
	}
	err := t.fsm.Event(ctx, string(event))
	var noTransition lfsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		t.logger.Warn("Lifecycle transition failed.", "event", event, "state", t.Current(), "error", err)
	}
}
