package contracts

const (
	// MaxMIDIDataSize is the largest MIDI message, in bytes, the driver accepts from a port.
	MaxMIDIDataSize = 4
	// MaxEngineEventCount is the number of engine events delivered to the graph per cycle.
	MaxEngineEventCount = 512
)

// EngineEventType distinguishes the kinds of events handed to the graph processor.
type EngineEventType uint8

const (
	// NullEvent marks an unused slot in the event batch.
	NullEvent EngineEventType = iota
	// MIDIEvent carries a raw MIDI message.
	MIDIEvent
)

// EngineEvent is one event positioned inside the current processing cycle.
type EngineEvent struct {
	Type    EngineEventType
	Time    uint32 // Frame offset from the start of the cycle.
	Channel uint8  // MIDI channel (0-15) taken from the status byte.
	Size    uint8
	Data    [MaxMIDIDataSize]byte
}

// FillFromMIDIData sets the event from a raw MIDI message. Bytes beyond
// MaxMIDIDataSize are ignored.
func (e *EngineEvent) FillFromMIDIData(data []byte) {
	if len(data) == 0 {
		e.Type = NullEvent
		return
	}

	n := copy(e.Data[:], data)
	for i := n; i < MaxMIDIDataSize; i++ {
		e.Data[i] = 0
	}

	e.Type = MIDIEvent
	e.Size = uint8(n)
	if data[0] < 0xF0 {
		e.Channel = data[0] & 0x0F
	} else {
		e.Channel = 0
	}
}
