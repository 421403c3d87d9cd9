// Package diag writes one-way diagnostic text lines, typically to a UART.
// Writes never block the caller: lines are queued and dropped when the
// queue is full.
package diag

import (
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"go.bug.st/serial"
)

// DefaultBaud is the UART speed used when none is configured.
const DefaultBaud = 115200

// DefaultQueue is the number of lines held while the port is slow.
const DefaultQueue = 64

// FormatPot returns the potentiometer diagnostic line.
func FormatPot(v float64) string {
	return fmt.Sprintf("Potentiometer: %.2f\r\n", v)
}

// OpenSerial opens a UART for diagnostic output (8N1).
func OpenSerial(path string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", path, err)
	}
	return port, nil
}

// Writer queues lines and writes them from its own goroutine.
type Writer struct {
	out     io.Writer
	lines   chan string
	done    chan struct{}
	mu      sync.Mutex
	closed  bool
	dropped atomic.Uint64
}

// NewWriter starts a writer draining into out. If out is an io.Closer it is
// closed by Close.
func NewWriter(out io.Writer, queue int) *Writer {
	if queue <= 0 {
		queue = DefaultQueue
	}
	w := &Writer{
		out:   out,
		lines: make(chan string, queue),
		done:  make(chan struct{}),
	}
	go w.drain()
	return w
}

func (w *Writer) drain() {
	defer close(w.done)
	for line := range w.lines {
		if _, err := io.WriteString(w.out, line); err != nil {
			log.Printf("diag write error: %v", err)
		}
	}
}

// Line queues a line. It returns false if the line was dropped.
func (w *Writer) Line(s string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.dropped.Add(1)
		return false
	}
	select {
	case w.lines <- s:
		return true
	default:
		w.dropped.Add(1)
		return false
	}
}

// Pot queues the potentiometer diagnostic line.
func (w *Writer) Pot(v float64) bool {
	return w.Line(FormatPot(v))
}

// Dropped returns the number of lines discarded so far.
func (w *Writer) Dropped() uint64 {
	return w.dropped.Load()
}

// Close flushes queued lines and closes the output if it is closable.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.lines)
	w.mu.Unlock()

	<-w.done
	if c, ok := w.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
