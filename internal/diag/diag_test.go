package diag

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

// syncBuffer is a bytes.Buffer safe for the writer goroutine and the test.
type syncBuffer struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// blockingWriter blocks every write until release is closed.
type blockingWriter struct {
	release chan struct{}
	out     syncBuffer
}

func (b *blockingWriter) Write(p []byte) (int, error) {
	<-b.release
	return b.out.Write(p)
}

func TestFormatPot(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "Potentiometer: 0.00\r\n"},
		{0.333, "Potentiometer: 0.33\r\n"},
		{0.666, "Potentiometer: 0.67\r\n"},
		{1, "Potentiometer: 1.00\r\n"},
	}

	for _, tt := range tests {
		if got := FormatPot(tt.v); got != tt.want {
			t.Errorf("FormatPot(%v): got %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestWriterWritesInOrder(t *testing.T) {
	out := &syncBuffer{}
	w := NewWriter(out, 8)

	w.Pot(0.25)
	w.Line("hello\r\n")
	w.Pot(0.75)

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := "Potentiometer: 0.25\r\nhello\r\nPotentiometer: 0.75\r\n"
	if got := out.String(); got != want {
		t.Errorf("output: got %q, want %q", got, want)
	}
	if !out.closed {
		t.Error("expected output to be closed")
	}
	if w.Dropped() != 0 {
		t.Errorf("Dropped: got %d, want 0", w.Dropped())
	}
}

func TestWriterNeverBlocks(t *testing.T) {
	bw := &blockingWriter{release: make(chan struct{})}
	w := NewWriter(bw, 2)

	// The drain goroutine holds at most one line in Write, the queue two
	// more; everything past that is dropped without blocking.
	accepted := 0
	for i := 0; i < 100; i++ {
		if w.Pot(0.5) {
			accepted++
		}
	}

	if accepted > 3 {
		t.Errorf("accepted %d lines with a blocked port, want at most 3", accepted)
	}
	if w.Dropped() != uint64(100-accepted) {
		t.Errorf("Dropped: got %d, want %d", w.Dropped(), 100-accepted)
	}

	close(bw.release)
	w.Close()
}

func TestWriterAfterClose(t *testing.T) {
	w := NewWriter(&syncBuffer{}, 4)
	w.Close()

	if w.Line("late\r\n") {
		t.Error("expected line after Close to be dropped")
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("uart unplugged")
}

func TestWriterSurvivesWriteErrors(t *testing.T) {
	w := NewWriter(failingWriter{}, 4)
	w.Pot(0.1)
	w.Pot(0.2)
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
