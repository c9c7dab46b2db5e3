package contracts

// TimeSource exposes the engine's running frame counter.
type TimeSource interface {
	Frame() uint64
}

// GraphProcessor renders one cycle. It owns the audio content of outs and must
// not retain any of the slices after returning.
type GraphProcessor interface {
	Process(ins, outs [][]float32, frames uint32, events []EngineEvent)
}

// NotificationSink receives patchbay changes.
type NotificationSink interface {
	PatchbayCallback(n Notification)
}

// RTDeferrer runs actions the engine postponed until after a real-time cycle.
type RTDeferrer interface {
	RunPendingRTEvents()
}

// ErrorSink records the last human-readable error.
type ErrorSink interface {
	SetLastError(msg string)
}

// Engine is the surrounding plugin host the driver reports to and renders through.
type Engine interface {
	TimeSource
	GraphProcessor
	NotificationSink
	RTDeferrer
	ErrorSink

	// Name is the engine's client name used for port naming and the patchbay.
	Name() string
	// Init is called once the stream is open with the negotiated values.
	Init(clientName string, bufferFrames uint32, sampleRate float64) error
	// Close is called first during driver teardown.
	Close() error
}

// PatchbayReconciler mirrors the driver's hardware into a general patchbay graph.
// It is only consulted in ProcessModePatchbay.
type PatchbayReconciler interface {
	Reconcile(hw HardwareSnapshot, sink NotificationSink) error
}

// HardwareSnapshot is the driver's view of its hardware at refresh time.
type HardwareSnapshot struct {
	ClientName    string
	DeviceName    string
	AudioInputs   uint32
	AudioOutputs  uint32
	MIDISources   []string
	MIDISinks     []string
	ConnectedIns  []string
	ConnectedOuts []string
}
