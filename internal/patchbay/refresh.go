package patchbay

import (
	"fmt"

	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// Refresh rebuilds the mirrored graph and announces it to the sink: groups
// and their ports first, then every connection with a fresh id.
func (g *Graph) Refresh(hw Hardware) error {
	if !hw.Ready() {
		return ErrNotReady
	}

	snap := hw.Snapshot()
	if !g.rack {
		if g.reconciler == nil {
			return nil
		}
		return g.reconciler.Reconcile(snap, g.sink)
	}

	g.refreshRack(snap)
	return nil
}

func (g *Graph) refreshRack(snap contracts.HardwareSnapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.conns = nil

	g.emitGroup(GroupEngine, contracts.IconEngine, snap.ClientName)
	g.emitPort(GroupEngine, PortAudioIn1, contracts.PortTypeAudio|contracts.PortIsInput, "audio-in1")
	g.emitPort(GroupEngine, PortAudioIn2, contracts.PortTypeAudio|contracts.PortIsInput, "audio-in2")
	g.emitPort(GroupEngine, PortAudioOut1, contracts.PortTypeAudio, "audio-out1")
	g.emitPort(GroupEngine, PortAudioOut2, contracts.PortTypeAudio, "audio-out2")
	g.emitPort(GroupEngine, PortMIDIIn, contracts.PortTypeMIDI|contracts.PortIsInput, "midi-in")
	g.emitPort(GroupEngine, PortMIDIOut, contracts.PortTypeMIDI, "midi-out")

	g.emitGroup(GroupAudioIn, contracts.IconHardware, deviceGroupName("Capture", snap.DeviceName))
	for i := uint32(0); i < snap.AudioInputs; i++ {
		g.emitPort(GroupAudioIn, int(i), contracts.PortTypeAudio, fmt.Sprintf("capture_%d", i+1))
	}

	g.emitGroup(GroupAudioOut, contracts.IconHardware, deviceGroupName("Playback", snap.DeviceName))
	for i := uint32(0); i < snap.AudioOutputs; i++ {
		g.emitPort(GroupAudioOut, int(i), contracts.PortTypeAudio|contracts.PortIsInput, fmt.Sprintf("playback_%d", i+1))
	}

	g.midiIns = append(g.midiIns[:0], snap.MIDISources...)
	g.emitGroup(GroupMIDIIn, contracts.IconHardware, "Readable MIDI ports")
	for i, name := range g.midiIns {
		g.emitPort(GroupMIDIIn, i, contracts.PortTypeMIDI, "Readable MIDI ports:"+name)
	}

	g.midiOuts = append(g.midiOuts[:0], snap.MIDISinks...)
	g.emitGroup(GroupMIDIOut, contracts.IconHardware, "Writable MIDI ports")
	for i, name := range g.midiOuts {
		g.emitPort(GroupMIDIOut, i, contracts.PortTypeMIDI|contracts.PortIsInput, "Writable MIDI ports:"+name)
	}

	in1, in2, out1, out2 := g.routing.snapshot()
	for _, p := range in1 {
		if uint32(p) < snap.AudioInputs {
			g.addLocked(Connection{GroupA: GroupAudioIn, PortA: p, GroupB: GroupEngine, PortB: PortAudioIn1})
		}
	}
	for _, p := range in2 {
		if uint32(p) < snap.AudioInputs {
			g.addLocked(Connection{GroupA: GroupAudioIn, PortA: p, GroupB: GroupEngine, PortB: PortAudioIn2})
		}
	}
	for _, p := range out1 {
		if uint32(p) < snap.AudioOutputs {
			g.addLocked(Connection{GroupA: GroupEngine, PortA: PortAudioOut1, GroupB: GroupAudioOut, PortB: p})
		}
	}
	for _, p := range out2 {
		if uint32(p) < snap.AudioOutputs {
			g.addLocked(Connection{GroupA: GroupEngine, PortA: PortAudioOut2, GroupB: GroupAudioOut, PortB: p})
		}
	}

	for _, name := range snap.ConnectedIns {
		if p := indexOf(g.midiIns, name); p >= 0 {
			g.addLocked(Connection{GroupA: GroupMIDIIn, PortA: p, GroupB: GroupEngine, PortB: PortMIDIIn})
		}
	}
	for _, name := range snap.ConnectedOuts {
		if p := indexOf(g.midiOuts, name); p >= 0 {
			g.addLocked(Connection{GroupA: GroupEngine, PortA: PortMIDIOut, GroupB: GroupMIDIOut, PortB: p})
		}
	}
}

// addLocked assigns the next id to c, records it and announces it.
func (g *Graph) addLocked(c Connection) Connection {
	c.ID = g.nextID()
	g.conns = append(g.conns, c)
	g.emitConnection(contracts.ConnectionAdded, c)
	return c
}

func deviceGroupName(prefix, device string) string {
	if device == "" {
		return prefix
	}
	return prefix + " (" + device + ")"
}

func indexOf(list []string, name string) int {
	for i, v := range list {
		if v == name {
			return i
		}
	}
	return -1
}
