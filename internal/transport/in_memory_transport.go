// file: internal/transport/in_memory_transport.go
package transport

import (
	"context"
	"sync"
)

// InMemoryTransport implements Transport over channels. Tests and embedders
// push inbound lines with Send and read replies from Outbound.
type InMemoryTransport struct {
	inbound  chan []byte
	outbound chan []byte

	inputOnce sync.Once
	closed    bool
	closeLock sync.RWMutex
}

// NewInMemoryTransport creates a transport with buffer slots in each direction.
func NewInMemoryTransport(buffer int) *InMemoryTransport {
	return &InMemoryTransport{
		inbound:  make(chan []byte, buffer),
		outbound: make(chan []byte, buffer),
	}
}

// Send queues line for the next ReadMessage. It blocks when the buffer is full.
func (t *InMemoryTransport) Send(line string) {
	t.inbound <- []byte(line)
}

// CloseInput signals end of input; pending lines are still delivered.
func (t *InMemoryTransport) CloseInput() {
	t.inputOnce.Do(func() { close(t.inbound) })
}

// Outbound returns the channel carrying written messages.
func (t *InMemoryTransport) Outbound() <-chan []byte {
	return t.outbound
}

// ReadMessage implements Transport.ReadMessage.
func (t *InMemoryTransport) ReadMessage(ctx context.Context) ([]byte, error) {
	if t.isClosed() {
		return nil, NewClosedError("read")
	}
	select {
	case <-ctx.Done():
		return nil, NewCancelledError("read", ctx.Err())
	case msg, ok := <-t.inbound:
		if !ok {
			return nil, NewClosedError("read")
		}
		return msg, nil
	}
}

// WriteMessage implements Transport.WriteMessage.
func (t *InMemoryTransport) WriteMessage(ctx context.Context, message []byte) error {
	if t.isClosed() {
		return NewClosedError("write")
	}
	msg := append([]byte(nil), message...)
	select {
	case <-ctx.Done():
		return NewCancelledError("write", ctx.Err())
	case t.outbound <- msg:
		return nil
	}
}

// Close implements Transport.Close.
func (t *InMemoryTransport) Close() error {
	t.closeLock.Lock()
	defer t.closeLock.Unlock()
	t.closed = true
	return nil
}

func (t *InMemoryTransport) isClosed() bool {
	t.closeLock.RLock()
	defer t.closeLock.RUnlock()
	return t.closed
}
