package engine

import "github.com/leandrodaf/rtdriver/sdk/contracts"

// ConnectMIDIInput opens the named MIDI source and feeds it into the cycle.
// The patchbay announces the new connection.
func (d *Driver) ConnectMIDIInput(portName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.withRegistry(func(hw hardware) error { return d.graph.ConnectMIDIInput(hw, portName) })
}

// ConnectMIDIOutput opens the named MIDI sink.
func (d *Driver) ConnectMIDIOutput(portName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.withRegistry(func(hw hardware) error { return d.graph.ConnectMIDIOutput(hw, portName) })
}

// DisconnectMIDIInput closes the named MIDI source and drops its patchbay
// connection. No message from it is queued once this returns.
func (d *Driver) DisconnectMIDIInput(portName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.withRegistry(func(hw hardware) error { return d.graph.DisconnectMIDIInput(hw, portName) })
}

// DisconnectMIDIOutput closes the named MIDI sink.
func (d *Driver) DisconnectMIDIOutput(portName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.withRegistry(func(hw hardware) error { return d.graph.DisconnectMIDIOutput(hw, portName) })
}

// MIDIInputs returns the names of the connected MIDI sources.
func (d *Driver) MIDIInputs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.registry == nil {
		return nil
	}
	return d.registry.InputNames()
}

// MIDIOutputs returns the names of the connected MIDI sinks.
func (d *Driver) MIDIOutputs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.registry == nil {
		return nil
	}
	return d.registry.OutputNames()
}

func (d *Driver) withRegistry(fn func(hardware) error) error {
	if d.registry == nil {
		return ErrNotOpen
	}
	return fn(hardware{d})
}

// PatchbayRefresh announces the whole patchbay to the engine again.
func (d *Driver) PatchbayRefresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.graph.Refresh(hardware{d})
}

// PatchbayConnect connects two patchbay ports and returns the connection id.
func (d *Driver) PatchbayConnect(groupA, portA, groupB, portB int) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.graph.Connect(hardware{d}, groupA, portA, groupB, portB)
}

// PatchbayDisconnect removes a patchbay connection.
func (d *Driver) PatchbayDisconnect(connectionID uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.graph.Disconnect(hardware{d}, connectionID)
}

// hardware exposes the driver to the patchbay. Its methods expect the
// driver's mu to be held.
type hardware struct {
	d *Driver
}

func (h hardware) Ready() bool {
	return h.d.ready.Load() && h.d.registry != nil
}

func (h hardware) Snapshot() contracts.HardwareSnapshot {
	d := h.d
	return contracts.HardwareSnapshot{
		ClientName:    d.clientName,
		DeviceName:    d.deviceName,
		AudioInputs:   d.inputs,
		AudioOutputs:  d.outputs,
		MIDISources:   d.registry.Sources(),
		MIDISinks:     d.registry.Sinks(),
		ConnectedIns:  d.registry.InputNames(),
		ConnectedOuts: d.registry.OutputNames(),
	}
}

func (h hardware) ConnectMIDIInput(portName string) error {
	return h.d.registry.ConnectInput(portName)
}

func (h hardware) ConnectMIDIOutput(portName string) error {
	return h.d.registry.ConnectOutput(portName)
}

func (h hardware) DisconnectMIDIInput(portName string) error {
	return h.d.registry.DisconnectInput(portName)
}

func (h hardware) DisconnectMIDIOutput(portName string) error {
	return h.d.registry.DisconnectOutput(portName)
}
