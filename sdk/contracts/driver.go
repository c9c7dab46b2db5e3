package contracts

// ProcessMode selects the internal graph topology.
type ProcessMode int

const (
	// ProcessModeRack is the fixed 2-in/2-out rack routing.
	ProcessModeRack ProcessMode = iota + 1
	// ProcessModePatchbay mirrors every hardware channel one-to-one.
	ProcessModePatchbay
	// ProcessModeMultipleClients is not supported by this driver family.
	ProcessModeMultipleClients
)

// AudioAPI names the native audio subsystem a driver runs on.
type AudioAPI int

const (
	AudioAPIUnspecified AudioAPI = iota
	AudioAPINull
	AudioAPIJACK
	AudioAPIALSA
	AudioAPIOSS
	AudioAPIPulse
	AudioAPICore
	AudioAPIASIO
	AudioAPIDirectSound
)

// Driver is a real-time audio/MIDI driver backend for the engine.
type Driver interface {
	Open(clientName string) error // Opens and starts the audio stream.
	Close() error                 // Stops the stream and releases every port.
	Destroy() error               // Closes if open and releases the native audio and MIDI subsystems.

	IsRunning() bool
	IsOffline() bool
	CurrentDriverName() string
	LastError() string

	BufferSize() uint32
	SampleRate() float64

	// ProcessCycle renders one hardware period. Called from the real-time thread.
	ProcessCycle(outs, ins [][]float32, frames uint32, cycleStart uint64)

	PatchbayRefresh() error
	PatchbayConnect(groupA, portA, groupB, portB int) (uint32, error)
	PatchbayDisconnect(connectionID uint32) error

	ConnectMIDIInput(portName string) error
	ConnectMIDIOutput(portName string) error
	DisconnectMIDIInput(portName string) error
	DisconnectMIDIOutput(portName string) error
	MIDIInputs() []string  // Names of connected MIDI input ports.
	MIDIOutputs() []string // Names of connected MIDI output ports.
}
