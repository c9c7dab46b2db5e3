// Package midiport keeps track of the native MIDI ports a driver has opened
// and routes their input callbacks into the driver's event queue.
package midiport

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/rtdriver/sdk/contracts"
	"go.uber.org/multierr"
)

// MaxPortNameLength bounds stored port names, in bytes.
const MaxPortNameLength = 255

// Direction tells inputs from outputs.
type Direction int

const (
	DirectionInput Direction = iota + 1
	DirectionOutput
)

// Port is one opened native MIDI endpoint.
type Port struct {
	Name      string
	Direction Direction

	in  Input
	out Output

	// guard serializes callback delivery against cancellation.
	guard     sync.RWMutex
	cancelled bool
}

func (p *Port) deliver(sink InputHandler, deltaSeconds float64, data []byte) {
	p.guard.RLock()
	defer p.guard.RUnlock()
	if p.cancelled {
		return
	}
	sink(deltaSeconds, data)
}

// cancel stops delivery, waiting for any callback in flight, then cancels the
// native callback. Only after that may the handle be closed.
func (p *Port) cancel() {
	p.guard.Lock()
	p.cancelled = true
	p.guard.Unlock()

	if p.in != nil {
		p.in.Cancel()
	}
}

func (p *Port) close() error {
	if p.Direction == DirectionInput {
		p.cancel()
		return p.in.Close()
	}
	return p.out.Close()
}

// Registry tracks opened ports by name. Its methods are meant for the control
// thread; only the input sink runs on callback threads.
type Registry struct {
	mu         sync.Mutex
	backend    Backend
	clientName string
	sink       InputHandler
	log        contracts.Logger

	ins  []*Port
	outs []*Port
}

// NewRegistry returns an empty registry. sink receives every message of
// every connected input.
func NewRegistry(backend Backend, clientName string, sink InputHandler, log contracts.Logger) *Registry {
	return &Registry{
		backend:    backend,
		clientName: clientName,
		sink:       sink,
		log:        log,
	}
}

// Sources lists the MIDI sources the backend currently sees.
func (r *Registry) Sources() []string {
	names, err := r.backend.Sources()
	if err != nil {
		r.log.Warn("failed to list MIDI sources", r.log.Field().Error("error", err))
		return nil
	}
	return names
}

// Sinks lists the MIDI sinks the backend currently sees.
func (r *Registry) Sinks() []string {
	names, err := r.backend.Sinks()
	if err != nil {
		r.log.Warn("failed to list MIDI sinks", r.log.Field().Error("error", err))
		return nil
	}
	return names
}

// ConnectInput opens the source named portName and starts delivering its
// messages to the sink.
func (r *Registry) ConnectInput(portName string) error {
	name, err := r.checkName(portName)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if find(r.ins, name) >= 0 {
		return fmt.Errorf("%w: %s", ErrPortAlreadyConnected, name)
	}

	port := &Port{Name: name, Direction: DirectionInput}
	in, err := r.backend.OpenInput(portName, r.clientPortName(portName), func(delta float64, data []byte) {
		port.deliver(r.sink, delta, data)
	})
	if err != nil {
		r.log.Warn("failed to connect MIDI input",
			r.log.Field().String("port", portName), r.log.Field().Error("error", err))
		return err
	}
	port.in = in

	r.ins = append(r.ins, port)
	r.log.Info("MIDI input connected", r.log.Field().String("port", name))
	return nil
}

// ConnectOutput opens the sink named portName.
func (r *Registry) ConnectOutput(portName string) error {
	name, err := r.checkName(portName)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if find(r.outs, name) >= 0 {
		return fmt.Errorf("%w: %s", ErrPortAlreadyConnected, name)
	}

	out, err := r.backend.OpenOutput(portName, r.clientPortName(portName))
	if err != nil {
		r.log.Warn("failed to connect MIDI output",
			r.log.Field().String("port", portName), r.log.Field().Error("error", err))
		return err
	}

	r.outs = append(r.outs, &Port{Name: name, Direction: DirectionOutput, out: out})
	r.log.Info("MIDI output connected", r.log.Field().String("port", name))
	return nil
}

// DisconnectInput cancels the callback of the named input and closes it.
func (r *Registry) DisconnectInput(portName string) error {
	return r.disconnect(&r.ins, portName)
}

// DisconnectOutput closes the named output.
func (r *Registry) DisconnectOutput(portName string) error {
	return r.disconnect(&r.outs, portName)
}

func (r *Registry) disconnect(ports *[]*Port, portName string) error {
	name, err := r.checkName(portName)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := find(*ports, name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPortNotConnected, name)
	}

	port := (*ports)[i]
	*ports = append((*ports)[:i], (*ports)[i+1:]...)

	if err := port.close(); err != nil {
		r.log.Warn("error closing MIDI port",
			r.log.Field().String("port", name), r.log.Field().Error("error", err))
	}
	r.log.Info("MIDI port disconnected", r.log.Field().String("port", name))
	return nil
}

// InputNames returns the names of the connected inputs in connection order.
func (r *Registry) InputNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return names(r.ins)
}

// OutputNames returns the names of the connected outputs in connection order.
func (r *Registry) OutputNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return names(r.outs)
}

// CloseAll cancels and closes every input, then closes every output. Every
// port is released even when some fail; their errors are combined.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	for _, p := range r.ins {
		err = multierr.Append(err, p.close())
	}
	for _, p := range r.outs {
		err = multierr.Append(err, p.close())
	}
	r.ins = nil
	r.outs = nil
	return err
}

// Close releases every port and the backend.
func (r *Registry) Close() error {
	return multierr.Append(r.CloseAll(), r.backend.Close())
}

func (r *Registry) checkName(portName string) (string, error) {
	if portName == "" {
		return "", ErrEmptyPortName
	}
	return truncate(portName), nil
}

func (r *Registry) clientPortName(portName string) string {
	return r.clientName + ":" + portName
}

func truncate(name string) string {
	if len(name) > MaxPortNameLength {
		return name[:MaxPortNameLength]
	}
	return name
}

func find(ports []*Port, name string) int {
	for i, p := range ports {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func names(ports []*Port) []string {
	out := make([]string, len(ports))
	for i, p := range ports {
		out[i] = p.Name
	}
	return out
}
