// Package engine implements the audio cycle driver: it owns the hardware
// stream, stamps incoming MIDI into the cycle's time base and keeps the
// patchbay in sync with the hardware.
package engine

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/leandrodaf/rtdriver/internal/audio"
	"github.com/leandrodaf/rtdriver/internal/eventqueue"
	"github.com/leandrodaf/rtdriver/internal/midiport"
	"github.com/leandrodaf/rtdriver/internal/patchbay"
	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// Stream request constants.
const (
	streamPriority = 85
	rackChannels   = 2
)

// Errors returned by the driver. Their messages double as the engine's last
// error string.
var (
	ErrAlreadyOpen        = errors.New("driver is already open")
	ErrNotOpen            = errors.New("driver is not open")
	ErrEmptyClientName    = errors.New("client name must not be empty")
	ErrInvalidProcessMode = errors.New("Invalid process mode")
	ErrNoDevices          = errors.New("No audio devices available for this driver")
	ErrNoOutputs          = errors.New("Current audio setup has no outputs, cannot continue")
)

// Driver is the audio cycle driver. Control methods are safe for concurrent
// use; ProcessCycle must only be called by the stream.
type Driver struct {
	id     string
	log    contracts.Logger
	opts   contracts.DriverOptions
	engine contracts.Engine
	sys    audio.System
	midi   midiport.Backend

	queue *eventqueue.Queue
	graph *patchbay.Graph
	ready atomic.Bool

	// mu serializes open, close, connect and refresh.
	mu         sync.Mutex
	stream     audio.Stream
	registry   *midiport.Registry
	clientName string
	deviceName string
	inputs     uint32
	outputs    uint32
	sampleRate float64
	lastError  string

	bufferFrames atomic.Uint32

	// Audio thread scratch, allocated by Open.
	events   [contracts.MaxEngineEventCount]contracts.EngineEvent
	rackIns  [rackChannels][]float32
	rackOuts [rackChannels][]float32
}

// New returns a closed driver rendering through engine on the given audio
// system and MIDI backend. opts must carry a logger.
func New(engine contracts.Engine, sys audio.System, midi midiport.Backend, opts contracts.DriverOptions) *Driver {
	id := uuid.NewString()
	d := &Driver{
		id:     id,
		opts:   opts,
		engine: engine,
		sys:    sys,
		midi:   midi,
		queue:  eventqueue.New(),
		graph:  patchbay.New(opts.ProcessMode == contracts.ProcessModeRack, opts.Reconciler, engine),
	}
	d.log = opts.Logger.With(
		opts.Logger.Field().String("instance", id),
		opts.Logger.Field().String("api", audio.APIName(sys.API())),
	)
	return d
}

// ID returns the driver's instance id used in its log lines.
func (d *Driver) ID() string {
	return d.id
}

// IsRunning reports whether the hardware stream is running.
func (d *Driver) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stream != nil && d.stream.IsRunning()
}

// IsOffline always reports false: this driver renders in real time.
func (d *Driver) IsOffline() bool {
	return false
}

// CurrentDriverName returns the display name of the audio API in use.
func (d *Driver) CurrentDriverName() string {
	return audio.APIName(d.sys.API())
}

// LastError returns the message of the most recent failure.
func (d *Driver) LastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastError
}

// BufferSize returns the negotiated period size in frames.
func (d *Driver) BufferSize() uint32 {
	return d.bufferFrames.Load()
}

// SampleRate returns the negotiated sample rate.
func (d *Driver) SampleRate() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sampleRate
}

// fail records err as the last error and returns it. mu must be held.
func (d *Driver) fail(err error) error {
	d.lastError = err.Error()
	d.engine.SetLastError(d.lastError)
	d.log.Error("driver error", d.log.Field().Error("error", err))
	return err
}
