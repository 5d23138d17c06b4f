// Package metrics collects in-process request counters for the server.
// file: internal/metrics/server_metrics.go
package metrics

import (
	"runtime"
	"sync"
	"time"
)

// ServerMetrics is a snapshot of the server's request statistics.
type ServerMetrics struct {
	StartTime time.Time     `json:"startTime"`
	Uptime    time.Duration `json:"uptime"`
	GoVersion string        `json:"goVersion"`

	// Request stats.
	TotalRequests    int                `json:"totalRequests"`
	FailedRequests   int                `json:"failedRequests"`
	ParseErrors      int                `json:"parseErrors"`
	Notifications    int                `json:"notifications"`
	RequestLatencies map[string]float64 `json:"requestLatencies"` // Method to mean latency in ms.

	// Tool stats.
	ToolCalls  map[string]int `json:"toolCalls"`
	ToolErrors map[string]int `json:"toolErrors"` // Results returned with isError set.

	// Last errors.
	LastErrors []ErrorInfo `json:"lastErrors,omitempty"`
}

// ErrorInfo contains details about an error that occurred.
type ErrorInfo struct {
	Timestamp time.Time `json:"timestamp"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
	Stack     string    `json:"stack,omitempty"`
}

// Collector manages server metrics collection and reporting.
type Collector struct {
	metrics      ServerMetrics
	requestCount map[string]int // Per-method sample count for the running mean.
	errorBuffer  []ErrorInfo
	bufferSize   int
	mu           sync.Mutex
	now          func() time.Time
}

// NewMetricsCollector creates a collector keeping the last errorBufferSize errors.
func NewMetricsCollector(errorBufferSize int) *Collector {
	if errorBufferSize < 1 {
		errorBufferSize = 1
	}
	c := &Collector{
		requestCount: make(map[string]int),
		errorBuffer:  make([]ErrorInfo, 0, errorBufferSize),
		bufferSize:   errorBufferSize,
		now:          time.Now,
	}
	c.metrics = ServerMetrics{
		StartTime:        c.now(),
		GoVersion:        runtime.Version(),
		RequestLatencies: make(map[string]float64),
		ToolCalls:        make(map[string]int),
		ToolErrors:       make(map[string]int),
	}
	return c
}

// GetCurrentMetrics returns a deep copy of the current metrics.
func (c *Collector) GetCurrentMetrics() ServerMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.metrics
	out.Uptime = c.now().Sub(c.metrics.StartTime)
	out.RequestLatencies = make(map[string]float64, len(c.metrics.RequestLatencies))
	for k, v := range c.metrics.RequestLatencies {
		out.RequestLatencies[k] = v
	}
	out.ToolCalls = copyCounts(c.metrics.ToolCalls)
	out.ToolErrors = copyCounts(c.metrics.ToolErrors)
	if len(c.errorBuffer) > 0 {
		out.LastErrors = make([]ErrorInfo, len(c.errorBuffer))
		copy(out.LastErrors, c.errorBuffer)
	}
	return out
}

// RecordRequest records the outcome and latency of a routed request.
func (c *Collector) RecordRequest(method string, latency time.Duration, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.TotalRequests++
	if !success {
		c.metrics.FailedRequests++
	}

	n := c.requestCount[method] + 1
	c.requestCount[method] = n
	ms := float64(latency) / float64(time.Millisecond)
	prev := c.metrics.RequestLatencies[method]
	c.metrics.RequestLatencies[method] = prev + (ms-prev)/float64(n)
}

// RecordParseError counts a line that could not be parsed.
func (c *Collector) RecordParseError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.ParseErrors++
}

// RecordNotification counts a notification.
func (c *Collector) RecordNotification() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.Notifications++
}

// RecordToolCall counts an executed tool and whether it reported isError.
func (c *Collector) RecordToolCall(name string, isError bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.ToolCalls[name]++
	if isError {
		c.metrics.ToolErrors[name]++
	}
}

// RecordError adds an error to the bounded error buffer, dropping the oldest.
func (c *Collector) RecordError(component, message, stack string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.errorBuffer) >= c.bufferSize {
		c.errorBuffer = c.errorBuffer[1:]
	}
	c.errorBuffer = append(c.errorBuffer, ErrorInfo{
		Timestamp: c.now(),
		Component: component,
		Message:   message,
		Stack:     stack,
	})
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
