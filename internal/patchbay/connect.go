package patchbay

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// Connect links port A to port B and returns the new connection id. Only the
// edges the rack topology can realize are accepted: hardware capture into an
// engine audio input, an engine audio output into hardware playback, a
// readable MIDI port into the engine and the engine into a writable MIDI port.
func (g *Graph) Connect(hw Hardware, groupA, portA, groupB, portB int) (uint32, error) {
	if !g.rack {
		return 0, ErrUnsupportedTopology
	}
	if !hw.Ready() {
		return 0, ErrNotReady
	}

	c := Connection{GroupA: groupA, PortA: portA, GroupB: groupB, PortB: portB}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, existing := range g.conns {
		if existing.sameEnds(c) {
			return 0, ErrAlreadyConnected
		}
	}

	if err := g.realize(hw, c); err != nil {
		return 0, err
	}
	return g.addLocked(c).ID, nil
}

// Disconnect removes the connection with the given id.
func (g *Graph) Disconnect(hw Hardware, id uint32) error {
	if !g.rack {
		return ErrUnsupportedTopology
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for i, c := range g.conns {
		if c.ID != id {
			continue
		}
		// A port already closed outside the graph only leaves a stale record.
		if err := g.unrealize(hw, c); err != nil && !errors.Is(err, midiport.ErrPortNotConnected) {
			return err
		}
		g.removeLocked(i)
		return nil
	}
	return fmt.Errorf("%w: %d", ErrConnectionNotFound, id)
}

// ConnectMIDIInput opens the named MIDI source and, when it is one of the
// announced readable ports, records and announces its connection to the
// engine.
func (g *Graph) ConnectMIDIInput(hw Hardware, portName string) error {
	return g.connectMIDI(hw, portName, true)
}

// ConnectMIDIOutput is ConnectMIDIInput for writable ports.
func (g *Graph) ConnectMIDIOutput(hw Hardware, portName string) error {
	return g.connectMIDI(hw, portName, false)
}

// DisconnectMIDIInput closes the named MIDI source and removes its
// connection, if any. A recorded connection is dropped even when the port
// turns out to be closed already.
func (g *Graph) DisconnectMIDIInput(hw Hardware, portName string) error {
	return g.disconnectMIDI(hw, portName, true)
}

// DisconnectMIDIOutput is DisconnectMIDIInput for writable ports.
func (g *Graph) DisconnectMIDIOutput(hw Hardware, portName string) error {
	return g.disconnectMIDI(hw, portName, false)
}

func (g *Graph) connectMIDI(hw Hardware, portName string, input bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var err error
	if input {
		err = hw.ConnectMIDIInput(portName)
	} else {
		err = hw.ConnectMIDIOutput(portName)
	}
	if err != nil || !g.rack {
		return err
	}

	c, ok := g.midiEdge(portName, input)
	if !ok {
		return nil
	}
	for _, existing := range g.conns {
		if existing.sameEnds(c) {
			return nil
		}
	}
	g.addLocked(c)
	return nil
}

func (g *Graph) disconnectMIDI(hw Hardware, portName string, input bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var err error
	if input {
		err = hw.DisconnectMIDIInput(portName)
	} else {
		err = hw.DisconnectMIDIOutput(portName)
	}
	if err != nil && !errors.Is(err, midiport.ErrPortNotConnected) {
		return err
	}

	if c, ok := g.midiEdge(portName, input); ok {
		for i, existing := range g.conns {
			if existing.sameEnds(c) {
				g.removeLocked(i)
				break
			}
		}
	}
	return err
}

// midiEdge returns the connection between the engine and the announced MIDI
// port named portName. mu must be held.
func (g *Graph) midiEdge(portName string, input bool) (Connection, bool) {
	if input {
		p := indexOf(g.midiIns, portName)
		return Connection{GroupA: GroupMIDIIn, PortA: p, GroupB: GroupEngine, PortB: PortMIDIIn}, p >= 0
	}
	p := indexOf(g.midiOuts, portName)
	return Connection{GroupA: GroupEngine, PortA: PortMIDIOut, GroupB: GroupMIDIOut, PortB: p}, p >= 0
}

// removeLocked drops the i-th connection and announces it.
func (g *Graph) removeLocked(i int) {
	c := g.conns[i]
	g.conns = append(g.conns[:i], g.conns[i+1:]...)
	g.emitConnection(contracts.ConnectionRemoved, c)
}

func (g *Graph) realize(hw Hardware, c Connection) error {
	switch {
	case c.GroupA == GroupAudioIn && c.GroupB == GroupEngine &&
		(c.PortB == PortAudioIn1 || c.PortB == PortAudioIn2):
		if c.PortA < 0 || uint32(c.PortA) >= hw.Snapshot().AudioInputs {
			return invalid(c)
		}
		if !g.routing.add(c.PortB, c.PortA) {
			return ErrAlreadyConnected
		}
		return nil

	case c.GroupA == GroupEngine && c.GroupB == GroupAudioOut &&
		(c.PortA == PortAudioOut1 || c.PortA == PortAudioOut2):
		if c.PortB < 0 || uint32(c.PortB) >= hw.Snapshot().AudioOutputs {
			return invalid(c)
		}
		if !g.routing.add(c.PortA, c.PortB) {
			return ErrAlreadyConnected
		}
		return nil

	case c.GroupA == GroupMIDIIn && c.GroupB == GroupEngine && c.PortB == PortMIDIIn:
		if c.PortA < 0 || c.PortA >= len(g.midiIns) {
			return invalid(c)
		}
		return hw.ConnectMIDIInput(g.midiIns[c.PortA])

	case c.GroupA == GroupEngine && c.PortA == PortMIDIOut && c.GroupB == GroupMIDIOut:
		if c.PortB < 0 || c.PortB >= len(g.midiOuts) {
			return invalid(c)
		}
		return hw.ConnectMIDIOutput(g.midiOuts[c.PortB])
	}
	return invalid(c)
}

func (g *Graph) unrealize(hw Hardware, c Connection) error {
	switch {
	case c.GroupA == GroupAudioIn:
		g.routing.remove(c.PortB, c.PortA)
	case c.GroupB == GroupAudioOut:
		g.routing.remove(c.PortA, c.PortB)
	case c.GroupA == GroupMIDIIn:
		return hw.DisconnectMIDIInput(g.midiIns[c.PortA])
	case c.GroupB == GroupMIDIOut:
		return hw.DisconnectMIDIOutput(g.midiOuts[c.PortB])
	}
	return nil
}

func invalid(c Connection) error {
	return fmt.Errorf("%w: %s", ErrInvalidConnection, c)
}
