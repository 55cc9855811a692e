package dispatch

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/specforge/oas2raw/internal/models"
)

// EventType represents the type of dispatch event.
type EventType int

const (
	// EventStarting indicates a request is about to be sent.
	EventStarting EventType = iota
	// EventCompleted indicates a request has been sent and answered.
	EventCompleted
)

// Event represents an event during a dispatch run.
type Event struct {
	Type       EventType
	Descriptor models.OperationDescriptor
	Result     *models.DispatchResult // nil for Starting events
	Index      int                    // current request index (0-based)
	Total      int                    // total number of requests
}

// OnEvent is a callback function for dispatch events.
type OnEvent func(event Event)

// Dispatcher replays synthesized raw requests against a target. The raw
// bytes are written verbatim over the connection, which an http.Client could
// not guarantee.
type Dispatcher struct {
	timeout  time.Duration
	insecure bool
}

// NewDispatcher creates a dispatcher with a configurable timeout. Setting
// insecure skips TLS certificate verification, which security-testing
// targets with self-signed certificates routinely need.
func NewDispatcher(timeout time.Duration, insecure bool) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{timeout: timeout, insecure: insecure}
}

// Dispatch sends one raw request and records the response status line.
// Failures land in the result, never as a Go error: one bad endpoint must
// not abort the rest of a run.
func (d *Dispatcher) Dispatch(gen models.GeneratedRequest, opts models.RuntimeOptions) models.DispatchResult {
	result := models.DispatchResult{
		Method:      gen.Descriptor.Method,
		Path:        gen.Descriptor.Path,
		OperationID: gen.Descriptor.OperationID,
	}
	if gen.Request == nil {
		result.Error = "no request synthesized"
		return result
	}

	addr := targetAddr(opts)

	startTime := time.Now()
	conn, err := d.dial(addr, opts)
	if err != nil {
		result.Error = fmt.Sprintf("connection failed: %v", err)
		return result
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(d.timeout))

	if _, err := conn.Write([]byte(gen.Request.Raw())); err != nil {
		result.Error = fmt.Sprintf("write failed: %v", err)
		return result
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	result.ResponseTime = time.Since(startTime)
	if err != nil {
		result.Error = fmt.Sprintf("reading response failed: %v", err)
		return result
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	result.Sent = true
	result.StatusCode = resp.StatusCode
	result.StatusLine = resp.Proto + " " + resp.Status
	return result
}

// DispatchAll replays multiple requests with optional live event reporting.
func (d *Dispatcher) DispatchAll(requests []models.GeneratedRequest, opts models.RuntimeOptions, onEvent OnEvent) models.DispatchSummary {
	summary := models.DispatchSummary{
		Results: make([]models.DispatchResult, 0, len(requests)),
	}
	total := len(requests)

	for i, gen := range requests {
		if onEvent != nil {
			onEvent(Event{Type: EventStarting, Descriptor: gen.Descriptor, Index: i, Total: total})
		}

		result := d.Dispatch(gen, opts)
		summary.AddResult(result)

		if onEvent != nil {
			onEvent(Event{Type: EventCompleted, Descriptor: gen.Descriptor, Result: &result, Index: i, Total: total})
		}
	}

	return summary
}

func (d *Dispatcher) dial(addr string, opts models.RuntimeOptions) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: d.timeout}
	if opts.Scheme == "https" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		return tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: d.insecure,
		})
	}
	return dialer.Dial("tcp", addr)
}

// targetAddr derives the dial address from the runtime options, defaulting
// the port from the scheme when the host carries none. Bare IPv6 literals
// get bracketed so the port is unambiguous.
func targetAddr(opts models.RuntimeOptions) string {
	host := opts.Host
	if _, port, err := net.SplitHostPort(host); err == nil && port != "" {
		return host
	}
	port := "80"
	if opts.Scheme == "https" {
		port = "443"
	}
	return net.JoinHostPort(strings.Trim(host, "[]"), port)
}
