package serialmux

import (
	"go.bug.st/serial"
)

// NewReal creates a SerialMux backed by a real serial port at the given
// path using the provided options.
func NewReal(path string, opts PortOptions) (*SerialMux[serial.Port], error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}

	return New[serial.Port](port), nil
}
