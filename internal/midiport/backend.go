package midiport

import "errors"

// Errors reported by the registry and its backends.
var (
	ErrPortNotFound         = errors.New("MIDI port not found")
	ErrPortOpen             = errors.New("error opening MIDI port")
	ErrPortNotConnected     = errors.New("MIDI port not connected")
	ErrPortAlreadyConnected = errors.New("MIDI port already connected")
	ErrEmptyPortName        = errors.New("empty MIDI port name")
	ErrUnsupportedAPI       = errors.New("MIDI API not available on this platform")
)

// InputHandler receives one raw MIDI message. deltaSeconds is the time since
// the previous message on the same port, zero for the first one.
type InputHandler func(deltaSeconds float64, data []byte)

// Input is an open native MIDI source.
type Input interface {
	// Cancel stops callback delivery. It returns once no callback is running.
	Cancel()
	Close() error
}

// Output is an open native MIDI sink.
type Output interface {
	Close() error
}

// Backend is a native MIDI API.
type Backend interface {
	Sources() ([]string, error)
	Sinks() ([]string, error)
	OpenInput(portName, clientPortName string, h InputHandler) (Input, error)
	OpenOutput(portName, clientPortName string) (Output, error)
	Close() error
}

// NoPorts is the backend of the dummy MIDI API. It sees no ports.
type NoPorts struct{}

func (NoPorts) Sources() ([]string, error) { return nil, nil }
func (NoPorts) Sinks() ([]string, error)   { return nil, nil }
func (NoPorts) Close() error               { return nil }

func (NoPorts) OpenInput(portName, _ string, _ InputHandler) (Input, error) {
	return nil, ErrPortNotFound
}

func (NoPorts) OpenOutput(portName, _ string) (Output, error) {
	return nil, ErrPortNotFound
}
