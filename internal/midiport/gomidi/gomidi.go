// Package gomidi implements midiport.Backend on top of a gomidi driver.
package gomidi

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Backend exposes the ports of a gomidi driver.
type Backend struct {
	drv drivers.Driver
	log contracts.Logger
}

// New wraps drv. The backend owns drv and closes it on Close.
func New(drv drivers.Driver, log contracts.Logger) *Backend {
	return &Backend{drv: drv, log: log}
}

func (b *Backend) Sources() ([]string, error) {
	ins, err := b.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names, nil
}

func (b *Backend) Sinks() ([]string, error) {
	outs, err := b.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sinks: %w", err)
	}
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names, nil
}

// OpenInput opens the source named portName and listens on it. System
// exclusive, time code and active sensing messages are ignored.
func (b *Backend) OpenInput(portName, _ string, h midiport.InputHandler) (midiport.Input, error) {
	ins, err := b.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", midiport.ErrPortOpen, err)
	}

	var port drivers.In
	for _, in := range ins {
		if in.String() == portName {
			port = in
			break
		}
	}
	if port == nil {
		return nil, fmt.Errorf("%w: %s", midiport.ErrPortNotFound, portName)
	}

	if err := port.Open(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", midiport.ErrPortOpen, portName, err)
	}

	in := &input{port: port}
	stop, err := port.Listen(func(msg []byte, milliseconds int32) {
		h(in.delta(milliseconds), msg)
	}, drivers.ListenConfig{
		OnErr: func(err error) {
			b.log.Warn("MIDI listener error",
				b.log.Field().String("port", portName), b.log.Field().Error("error", err))
		},
	})
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: %s: %v", midiport.ErrPortOpen, portName, err)
	}
	in.stop = stop

	return in, nil
}

func (b *Backend) OpenOutput(portName, _ string) (midiport.Output, error) {
	outs, err := b.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", midiport.ErrPortOpen, err)
	}

	for _, out := range outs {
		if out.String() != portName {
			continue
		}
		if err := out.Open(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", midiport.ErrPortOpen, portName, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", midiport.ErrPortNotFound, portName)
}

func (b *Backend) Close() error {
	return b.drv.Close()
}

// input converts the listener's running millisecond clock into per-message deltas.
type input struct {
	port drivers.In
	stop func()

	mu      sync.Mutex
	started bool
	last    int32
}

func (in *input) delta(ms int32) float64 {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !in.started {
		in.started = true
		in.last = ms
		return 0
	}
	d := ms - in.last
	in.last = ms
	if d < 0 {
		return 0
	}
	return float64(d) / 1000
}

func (in *input) Cancel() {
	if in.stop != nil {
		in.stop()
		in.stop = nil
	}
}

func (in *input) Close() error {
	return in.port.Close()
}
