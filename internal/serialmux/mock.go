package serialmux

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// MockSerialPort implements SerialPorter for dev mode and tests. Reads are
// fed from the pipe, writes are captured for inspection.
type MockSerialPort struct {
	io.Reader

	mu      sync.Mutex
	written bytes.Buffer
	closed  bool
	closer  io.Closer
}

func (m *MockSerialPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.written.Write(p)
}

// Written returns everything the mux has written to the mock port.
func (m *MockSerialPort) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.written.Bytes()...)
}

func (m *MockSerialPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if m.closer != nil {
		return m.closer.Close()
	}
	return nil
}

// NewMock creates a SerialMux backed by a mock port replaying the given
// fixture lines at the given cadence, looping forever. The firmware's ready
// banner is emitted first so dev mode exercises the banner-discard path.
func NewMock(fixture []byte, interval time.Duration) *SerialMux[*MockSerialPort] {
	r, w := io.Pipe()
	mockPort := &MockSerialPort{Reader: r, closer: r}

	lines := bytes.Split(bytes.TrimSpace(fixture), []byte("\n"))

	go func() {
		defer w.Close()
		if _, err := w.Write([]byte("READY ultrasonic eye sensor v1\n")); err != nil {
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		i := 0
		for range ticker.C {
			line := append(append([]byte(nil), lines[i%len(lines)]...), '\n')
			if _, err := w.Write(line); err != nil {
				return
			}
			i++
		}
	}()

	return New(mockPort)
}
