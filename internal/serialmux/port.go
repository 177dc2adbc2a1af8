package serialmux

import (
	"io"
)

// SerialPorter is the minimal interface needed from a serial port. The
// abstraction keeps the mux testable without real sensor hardware; blocked
// reads end when Close tears the port down.
type SerialPorter interface {
	io.ReadWriter
	io.Closer
}
