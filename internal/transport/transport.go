// Package transport reads and writes newline-delimited JSON messages.
package transport

// file: internal/transport/transport.go

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/dkoosis/syscontrol/internal/logging"
)

// DefaultMaxMessageSize is the default limit for a single inbound line in bytes.
const DefaultMaxMessageSize = 1024 * 1024 // 1MB.

// previewLen bounds message previews written to logs and errors.
const previewLen = 100

// Transport moves single messages in and out of the process.
// Reads and writes may be called from different goroutines.
type Transport interface {
	// ReadMessage returns the next line without its terminator. The returned
	// line may be blank; callers decide what to do with it.
	ReadMessage(ctx context.Context) ([]byte, error)

	// WriteMessage writes message followed by a newline and flushes.
	WriteMessage(ctx context.Context, message []byte) error

	// Close marks the transport closed and closes the underlying stream, if any.
	Close() error
}

type readResult struct {
	data []byte
	err  error
}

// NDJSONTransport implements Transport over a byte stream with one message per line.
type NDJSONTransport struct {
	reader  *bufio.Reader
	writer  *bufio.Writer
	closer  io.Closer
	maxSize int
	logger  logging.Logger

	readLock sync.Mutex
	// pending holds a read abandoned by a cancelled ReadMessage; the next
	// ReadMessage collects its result instead of starting a second reader.
	pending chan readResult

	writeLock sync.Mutex
	closed    bool
	closeLock sync.RWMutex
}

// NewNDJSONTransport creates a transport reading from reader and writing to
// writer. closer may be nil. A maxSize of zero or less selects DefaultMaxMessageSize.
func NewNDJSONTransport(reader io.Reader, writer io.Writer, closer io.Closer, maxSize int, logger logging.Logger) *NDJSONTransport {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxMessageSize
	}
	return &NDJSONTransport{
		reader:  bufio.NewReader(reader),
		writer:  bufio.NewWriter(writer),
		closer:  closer,
		maxSize: maxSize,
		logger:  logger.WithField("component", "ndjson_transport"),
	}
}

// ReadMessage implements Transport.ReadMessage. End of input yields a closed
// error; a line over the size limit is consumed entirely and reported as a
// message size error so the caller can answer it and keep reading.
func (t *NDJSONTransport) ReadMessage(ctx context.Context) ([]byte, error) {
	if t.isClosed() {
		return nil, NewClosedError("read")
	}

	t.readLock.Lock()
	defer t.readLock.Unlock()

	resultCh := t.pending
	t.pending = nil
	if resultCh == nil {
		resultCh = make(chan readResult, 1)
		go func() {
			data, err := t.readLine()
			resultCh <- readResult{data: data, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		t.pending = resultCh
		t.logger.Debug("Context cancelled while reading message.", "error", ctx.Err())
		return nil, NewCancelledError("read", ctx.Err())
	case result := <-resultCh:
		return result.data, result.err
	}
}

// readLine reads one line, accumulating fragments until the terminator.
func (t *NDJSONTransport) readLine() ([]byte, error) {
	var buffer bytes.Buffer
	totalSize := 0
	for {
		fragment, isPrefix, err := t.reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				if totalSize > t.maxSize {
					return nil, NewMessageSizeError(totalSize, t.maxSize, preview(buffer.Bytes()))
				}
				return nil, NewError(ErrTransportClosed, "input closed by peer", io.EOF)
			}
			return nil, NewError(ErrGeneric, "failed to read message line", err)
		}
		totalSize += len(fragment)
		// Past the limit, keep draining the line without buffering it.
		if totalSize <= t.maxSize {
			buffer.Write(fragment)
		} else if buffer.Len() < previewLen {
			buffer.Write(fragment[:min(len(fragment), previewLen)])
		}
		if isPrefix {
			continue
		}
		if totalSize > t.maxSize {
			t.logger.Warn("Inbound message exceeds size limit.", "size", totalSize, "limit", t.maxSize)
			return nil, NewMessageSizeError(totalSize, t.maxSize, preview(buffer.Bytes()))
		}
		message := bytes.TrimSuffix(buffer.Bytes(), []byte{'\r'})
		t.logger.Debug("Received raw message.", "size", len(message), "contentPreview", string(preview(message)))
		return message, nil
	}
}

// WriteMessage implements Transport.WriteMessage.
func (t *NDJSONTransport) WriteMessage(ctx context.Context, message []byte) error {
	if t.isClosed() {
		return NewClosedError("write")
	}
	if err := ctx.Err(); err != nil {
		return NewCancelledError("write", err)
	}

	t.writeLock.Lock()
	defer t.writeLock.Unlock()

	t.logger.Debug("Writing message.", "size", len(message)+1, "contentPreview", string(preview(message)))
	if _, err := t.writer.Write(message); err != nil {
		return NewError(ErrWriteFailed, "failed to write message", err)
	}
	if err := t.writer.WriteByte('\n'); err != nil {
		return NewError(ErrWriteFailed, "failed to write message terminator", err)
	}
	if err := t.writer.Flush(); err != nil {
		return NewError(ErrWriteFailed, "failed to flush message", err)
	}
	return nil
}

// Close implements Transport.Close. Closing twice is a no-op.
func (t *NDJSONTransport) Close() error {
	t.closeLock.Lock()
	defer t.closeLock.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.logger.Info("Closing NDJSON transport.")
	if t.closer != nil {
		if err := t.closer.Close(); err != nil {
			return NewError(ErrTransportClosed, "failed to close underlying stream", err)
		}
	}
	return nil
}

func (t *NDJSONTransport) isClosed() bool {
	t.closeLock.RLock()
	defer t.closeLock.RUnlock()
	return t.closed
}

func preview(b []byte) []byte {
	return b[:min(len(b), previewLen)]
}
