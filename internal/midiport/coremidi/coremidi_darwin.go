//go:build darwin
// +build darwin

// Package coremidi implements midiport.Backend on top of CoreMIDI.
package coremidi

import (
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// portConnection is the handle returned by InputPort.Connect.
type portConnection interface {
	Disconnect()
}

// Backend exposes CoreMIDI sources and destinations.
type Backend struct {
	client coremidi.Client
	log    contracts.Logger
}

// New creates a CoreMIDI client named clientName.
func New(clientName string, log contracts.Logger) (midiport.Backend, error) {
	client, err := coremidi.NewClient(clientName)
	if err != nil {
		return nil, fmt.Errorf("coremidi client: %w", err)
	}
	log.Info("CoreMIDI client successfully created", log.Field().String("client", clientName))
	return &Backend{client: client, log: log}, nil
}

func (b *Backend) Sources() ([]string, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	return names, nil
}

func (b *Backend) Sinks() ([]string, error) {
	dests, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	names := make([]string, len(dests))
	for i, d := range dests {
		names[i] = d.Name()
	}
	return names, nil
}

// OpenInput creates an input port named clientPortName and connects it to
// the source named portName.
func (b *Backend) OpenInput(portName, clientPortName string, h midiport.InputHandler) (midiport.Input, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", midiport.ErrPortOpen, err)
	}

	for _, source := range sources {
		if source.Name() != portName {
			continue
		}

		in := &input{}
		port, err := coremidi.NewInputPort(b.client, clientPortName, func(_ coremidi.Source, packet coremidi.Packet) {
			in.gate.run(func() { h(in.delta(), packet.Data) })
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", midiport.ErrPortOpen, portName, err)
		}

		in.conn, err = port.Connect(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", midiport.ErrPortOpen, portName, err)
		}
		return in, nil
	}
	return nil, fmt.Errorf("%w: %s", midiport.ErrPortNotFound, portName)
}

// OpenOutput creates an output port bound to the destination named portName.
func (b *Backend) OpenOutput(portName, clientPortName string) (midiport.Output, error) {
	dests, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", midiport.ErrPortOpen, err)
	}

	for _, dest := range dests {
		if dest.Name() != portName {
			continue
		}
		port, err := coremidi.NewOutputPort(b.client, clientPortName)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", midiport.ErrPortOpen, portName, err)
		}
		return &output{port: port, dest: dest}, nil
	}
	return nil, fmt.Errorf("%w: %s", midiport.ErrPortNotFound, portName)
}

func (b *Backend) Close() error {
	return nil
}

type input struct {
	conn portConnection
	gate gate

	mu   sync.Mutex
	last time.Time
}

func (in *input) delta() float64 {
	in.mu.Lock()
	defer in.mu.Unlock()

	now := time.Now()
	if in.last.IsZero() {
		in.last = now
		return 0
	}
	d := now.Sub(in.last).Seconds()
	in.last = now
	return d
}

// Cancel stops packet delivery, waiting for packets being handled, then
// disconnects the source.
func (in *input) Cancel() {
	in.gate.close()
	if in.conn != nil {
		in.conn.Disconnect()
		in.conn = nil
	}
}

func (in *input) Close() error {
	return nil
}

type output struct {
	port coremidi.OutputPort
	dest coremidi.Destination
}

func (o *output) Close() error {
	return nil
}
